package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
	"github.com/Gerry1Laxy/orders-backend/pkg/feed"
)

// ==================== 测试辅助函数 ====================

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{}, &model.Contact{}, &model.ConfirmEmailToken{},
		&model.Shop{}, &model.Category{}, &model.Product{},
		&model.ProductInfo{}, &model.Parameter{}, &model.ProductParameter{},
		&model.Order{}, &model.OrderItem{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func newTestPartnerService(t *testing.T) (*PartnerService, *gorm.DB) {
	db := setupCatalogTestDB(t)
	uow := repository.NewCatalogUnitOfWork(db)
	shopRepo := repository.NewShopRepository(db)

	svc := NewPartnerService(uow, shopRepo, feed.NewFetcher(), NopNotifier{}, zap.NewNop())
	return svc, db
}

const testFeed = `
shop: 连接世界
categories:
  - id: 224
    name: 智能手机
  - id: 15
    name: 配件
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Цвет": золотистый
      "Встроенная память (Гб)": "512"
  - id: 4216313
    category: 15
    model: a-data/sd
    name: Карта памяти
    price: 3000
    price_rrc: 3500
    quantity: 12
`

// ==================== Import 测试 ====================

func TestPartnerService_Import(t *testing.T) {
	svc, db := newTestPartnerService(t)
	ctx := context.Background()

	result, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: testFeed})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if !result.ShopCreated {
		t.Error("ShopCreated = false, want true")
	}
	if result.Categories != 2 || result.NewCategories != 2 {
		t.Errorf("Categories = %d/%d, want 2/2", result.Categories, result.NewCategories)
	}
	if result.Listings != 2 || result.NewProducts != 2 {
		t.Errorf("Listings = %d, NewProducts = %d, want 2/2", result.Listings, result.NewProducts)
	}
	if result.NewParameters != 2 {
		t.Errorf("NewParameters = %d, want 2", result.NewParameters)
	}
	if result.RemovedListings != 0 {
		t.Errorf("RemovedListings = %d, want 0", result.RemovedListings)
	}

	// 商铺落库并记录了最近一次导入
	var shop model.Shop
	if err := db.First(&shop, result.ShopID).Error; err != nil {
		t.Fatalf("商铺查询失败: %v", err)
	}
	if shop.Name != "连接世界" || shop.UserID != 1 {
		t.Errorf("shop = %+v", shop)
	}
	if len(shop.LastFeed) == 0 {
		t.Error("LastFeed 未记录")
	}

	// 参数关联
	var ppCount int64
	db.Model(&model.ProductParameter{}).Count(&ppCount)
	if ppCount != 2 {
		t.Errorf("product_parameters = %d, want 2", ppCount)
	}
}

func TestPartnerService_Import_Replace(t *testing.T) {
	svc, db := newTestPartnerService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: testFeed}); err != nil {
		t.Fatalf("首次导入失败: %v", err)
	}

	// 第二份价目表只剩一个商品，旧条目应整组消失
	replacement := `
shop: 连接世界
categories:
  - id: 224
    name: 智能手机
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB
    price: 105000
    price_rrc: 116990
    quantity: 5
`
	result, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: replacement})
	if err != nil {
		t.Fatalf("重复导入失败: %v", err)
	}

	if result.ShopCreated {
		t.Error("ShopCreated = true, want false")
	}
	if result.NewCategories != 0 {
		t.Errorf("NewCategories = %d, want 0", result.NewCategories)
	}
	if result.NewProducts != 0 {
		t.Errorf("NewProducts = %d, want 0", result.NewProducts)
	}
	if result.RemovedListings != 2 {
		t.Errorf("RemovedListings = %d, want 2", result.RemovedListings)
	}

	var infos []model.ProductInfo
	db.Where("shop_id = ?", result.ShopID).Find(&infos)
	if len(infos) != 1 {
		t.Fatalf("导入后在售条目 = %d, want 1", len(infos))
	}
	if infos[0].Price != 105000 || infos[0].Quantity != 5 {
		t.Errorf("条目未更新: %+v", infos[0])
	}

	// 商品与分类保留，不随条目删除
	var productCount int64
	db.Model(&model.Product{}).Count(&productCount)
	if productCount != 2 {
		t.Errorf("products = %d, want 2", productCount)
	}
}

func TestPartnerService_Import_Rerun_Idempotent(t *testing.T) {
	svc, db := newTestPartnerService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: testFeed}); err != nil {
			t.Fatalf("第 %d 次导入失败: %v", i+1, err)
		}
	}

	var shopCount, infoCount, productCount, paramCount int64
	db.Model(&model.Shop{}).Count(&shopCount)
	db.Model(&model.ProductInfo{}).Count(&infoCount)
	db.Model(&model.Product{}).Count(&productCount)
	db.Model(&model.Parameter{}).Count(&paramCount)

	if shopCount != 1 {
		t.Errorf("shops = %d, want 1", shopCount)
	}
	if infoCount != 2 {
		t.Errorf("product_infos = %d, want 2", infoCount)
	}
	if productCount != 2 {
		t.Errorf("products = %d, want 2", productCount)
	}
	if paramCount != 2 {
		t.Errorf("parameters = %d, want 2", paramCount)
	}
}

func TestPartnerService_Import_Atomic(t *testing.T) {
	svc, db := newTestPartnerService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: testFeed}); err != nil {
		t.Fatalf("首次导入失败: %v", err)
	}

	var before []model.ProductInfo
	db.Order("external_id ASC").Find(&before)
	if len(before) != 2 {
		t.Fatalf("前置条目 = %d, want 2", len(before))
	}

	// 第二条在售条目写入时注入失败，删除加写入必须整体回滚
	injected := errors.New("写入中断")
	var infoCreates int
	err := db.Callback().Create().Before("gorm:create").Register("fail_second_info", func(tx *gorm.DB) {
		if tx.Statement.Table != "product_infos" {
			return
		}
		infoCreates++
		if infoCreates == 2 {
			tx.AddError(injected)
		}
	})
	if err != nil {
		t.Fatalf("注册回调失败: %v", err)
	}
	defer db.Callback().Create().Remove("fail_second_info")

	_, err = svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: testFeed})
	if !errors.Is(err, injected) {
		t.Fatalf("err = %v, want 注入的写入错误", err)
	}

	// 旧一代目录原样保留，不允许出现删了旧条目又只写了一半的状态
	var after []model.ProductInfo
	db.Order("external_id ASC").Find(&after)
	if len(after) != 2 {
		t.Fatalf("失败导入后条目 = %d, want 2", len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Price != before[i].Price || after[i].Quantity != before[i].Quantity {
			t.Errorf("条目 %d 发生变化: before=%+v, after=%+v", i, before[i], after[i])
		}
	}

	var ppCount int64
	db.Model(&model.ProductParameter{}).Count(&ppCount)
	if ppCount != 2 {
		t.Errorf("失败导入后 product_parameters = %d, want 2", ppCount)
	}
}

func TestPartnerService_Import_SourceValidation(t *testing.T) {
	svc, _ := newTestPartnerService(t)
	ctx := context.Background()

	// url 与 data 都为空
	_, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{})
	if !errors.Is(err, ErrFeedSourceBad) {
		t.Errorf("err = %v, want ErrFeedSourceBad", err)
	}

	// url 与 data 同时提供
	_, err = svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{
		URL:  "https://example.com/feed.yaml",
		Data: testFeed,
	})
	if !errors.Is(err, ErrFeedSourceBad) {
		t.Errorf("err = %v, want ErrFeedSourceBad", err)
	}

	// 非法 YAML
	_, err = svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: "{{{"})
	if !errors.Is(err, feed.ErrFormat) {
		t.Errorf("err = %v, want feed.ErrFormat", err)
	}
}

// ==================== 接单状态测试 ====================

func TestPartnerService_Status(t *testing.T) {
	svc, _ := newTestPartnerService(t)
	ctx := context.Background()

	// 没有商铺时返回未找到
	if _, err := svc.GetStatus(ctx, 1); !errors.Is(err, ErrShopNotFound) {
		t.Errorf("GetStatus() err = %v, want ErrShopNotFound", err)
	}

	if _, err := svc.Import(ctx, 1, "shop@example.com", &dto.PartnerUpdateRequest{Data: testFeed}); err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	shop, err := svc.GetStatus(ctx, 1)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if !shop.Status {
		t.Error("新商铺默认应为接单状态")
	}

	shop, err = svc.SetStatus(ctx, 1, false)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if shop.Status {
		t.Error("SetStatus(false) 后状态仍为 true")
	}

	shop, _ = svc.GetStatus(ctx, 1)
	if shop.Status {
		t.Error("状态未持久化")
	}
}
