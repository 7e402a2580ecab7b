package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
)

// ==================== 测试辅助函数 ====================

func newTestOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	db := setupCatalogTestDB(t)

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductInfoRepository(db),
		repository.NewUserRepository(db),
		NopNotifier{},
		zap.NewNop(),
	)
	return svc, db
}

// seedListings 准备两个商铺各一条在售条目，返回条目 ID
func seedListings(t *testing.T, db *gorm.DB) (int64, int64) {
	category := model.Category{ID: 224, Name: "智能手机"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("分类创建失败: %v", err)
	}

	shopA := model.Shop{Name: "商铺A", UserID: 100, Status: true}
	shopB := model.Shop{Name: "商铺B", UserID: 200, Status: true}
	if err := db.Create(&shopA).Error; err != nil {
		t.Fatalf("商铺创建失败: %v", err)
	}
	if err := db.Create(&shopB).Error; err != nil {
		t.Fatalf("商铺创建失败: %v", err)
	}

	productA := model.Product{Name: "手机甲", CategoryID: category.ID}
	productB := model.Product{Name: "手机乙", CategoryID: category.ID}
	db.Create(&productA)
	db.Create(&productB)

	infoA := model.ProductInfo{
		ExternalID: 1, ProductID: productA.ID, ShopID: shopA.ID,
		Name: "手机甲", Quantity: 10, Price: 1000, PriceRRC: 1200,
	}
	infoB := model.ProductInfo{
		ExternalID: 2, ProductID: productB.ID, ShopID: shopB.ID,
		Name: "手机乙", Quantity: 5, Price: 2000, PriceRRC: 2400,
	}
	if err := db.Create(&infoA).Error; err != nil {
		t.Fatalf("条目创建失败: %v", err)
	}
	if err := db.Create(&infoB).Error; err != nil {
		t.Fatalf("条目创建失败: %v", err)
	}
	return infoA.ID, infoB.ID
}

// ==================== 购物车测试 ====================

func TestOrderService_CreateBasket(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, infoB := seedListings(t, db)

	// 空购物车查询不报错
	basket, err := svc.GetBasket(ctx, 1)
	if err != nil {
		t.Fatalf("GetBasket() error = %v", err)
	}
	if basket != nil {
		t.Fatal("空购物车应返回 nil")
	}

	basket, err = svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{
			{ProductInfoID: infoA, Quantity: 2},
			{ProductInfoID: infoB, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateBasket() error = %v", err)
	}

	if basket.Status != model.OrderStatusBasket {
		t.Errorf("Status = %q, want basket", basket.Status)
	}
	if len(basket.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(basket.Items))
	}
	if basket.TotalSum != 2*1000+1*2000 {
		t.Errorf("TotalSum = %d, want 4000", basket.TotalSum)
	}

	// 重复创建被拒绝
	_, err = svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 1}},
	})
	if !errors.Is(err, ErrBasketExists) {
		t.Errorf("err = %v, want ErrBasketExists", err)
	}
}

func TestOrderService_CreateBasket_Validation(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, _ := seedListings(t, db)

	// 数量必须为正
	_, err := svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 0}},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("err = %v, want ErrInvalidQuantity", err)
	}

	// 条目必须存在
	_, err = svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: 99999, Quantity: 1}},
	})
	if !errors.Is(err, ErrListingNotFound) {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}

	// 校验失败不应留下半成品购物车
	basket, _ := svc.GetBasket(ctx, 1)
	if basket != nil {
		t.Error("校验失败后不应存在购物车")
	}
}

func TestOrderService_ReplaceBasket(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, infoB := seedListings(t, db)

	// 没有购物车时整组替换报未找到
	_, err := svc.ReplaceBasket(ctx, 1, &dto.BasketRequest{Items: []dto.BasketItemRequest{}})
	if !errors.Is(err, ErrBasketNotFound) {
		t.Errorf("err = %v, want ErrBasketNotFound", err)
	}

	if _, err := svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 2}},
	}); err != nil {
		t.Fatalf("CreateBasket() error = %v", err)
	}

	// 整组替换为另一个条目
	basket, err := svc.ReplaceBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoB, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("ReplaceBasket() error = %v", err)
	}
	if len(basket.Items) != 1 || basket.Items[0].ProductInfoID != infoB {
		t.Errorf("替换后 Items = %+v", basket.Items)
	}
	if basket.TotalSum != 3*2000 {
		t.Errorf("TotalSum = %d, want 6000", basket.TotalSum)
	}

	// 空列表清空购物车
	basket, err = svc.ReplaceBasket(ctx, 1, &dto.BasketRequest{Items: []dto.BasketItemRequest{}})
	if err != nil {
		t.Fatalf("ReplaceBasket(空) error = %v", err)
	}
	if len(basket.Items) != 0 {
		t.Errorf("清空后 len(Items) = %d, want 0", len(basket.Items))
	}

	var itemCount int64
	db.Model(&model.OrderItem{}).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("order_items = %d, want 0", itemCount)
	}
}

func TestOrderService_DeleteBasket(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, _ := seedListings(t, db)

	if err := svc.DeleteBasket(ctx, 1); !errors.Is(err, ErrBasketNotFound) {
		t.Errorf("err = %v, want ErrBasketNotFound", err)
	}

	if _, err := svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 1}},
	}); err != nil {
		t.Fatalf("CreateBasket() error = %v", err)
	}

	if err := svc.DeleteBasket(ctx, 1); err != nil {
		t.Fatalf("DeleteBasket() error = %v", err)
	}

	// 订单与订单项都被硬删除
	var orderCount, itemCount int64
	db.Unscoped().Model(&model.Order{}).Count(&orderCount)
	db.Unscoped().Model(&model.OrderItem{}).Count(&itemCount)
	if orderCount != 0 || itemCount != 0 {
		t.Errorf("orders = %d, order_items = %d, want 0/0", orderCount, itemCount)
	}
}

// ==================== 下单测试 ====================

func TestOrderService_PlaceOrder(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, _ := seedListings(t, db)

	buyer := model.User{Username: "buyer", Email: "buyer@example.com", Type: model.UserTypeBuyer, IsActive: true}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("用户创建失败: %v", err)
	}

	basket, err := svc.CreateBasket(ctx, buyer.ID, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateBasket() error = %v", err)
	}

	if err := svc.PlaceOrder(ctx, buyer.ID, basket.ID); err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	var order model.Order
	db.Preload("Items").First(&order, basket.ID)
	if order.Status != model.OrderStatusNew {
		t.Errorf("Status = %q, want new", order.Status)
	}
	if len(order.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(order.Items))
	}

	// 重复下单幂等，不复制订单项
	if err := svc.PlaceOrder(ctx, buyer.ID, basket.ID); err != nil {
		t.Fatalf("重复 PlaceOrder() error = %v", err)
	}
	var itemCount int64
	db.Model(&model.OrderItem{}).Where("order_id = ?", basket.ID).Count(&itemCount)
	if itemCount != 1 {
		t.Errorf("重复下单后 order_items = %d, want 1", itemCount)
	}
}

func TestOrderService_PlaceOrder_Ownership(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, _ := seedListings(t, db)

	basket, err := svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateBasket() error = %v", err)
	}

	// 其他用户拿不到这个订单
	if err := svc.PlaceOrder(ctx, 2, basket.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}

	// 不存在的订单
	if err := svc.PlaceOrder(ctx, 1, 99999); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderService_PlaceOrder_BadStatus(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, _ := seedListings(t, db)

	order := model.Order{UserID: 1, Status: model.OrderStatusCanceled}
	db.Create(&order)
	db.Create(&model.OrderItem{OrderID: order.ID, ProductInfoID: infoA, Quantity: 1})

	if err := svc.PlaceOrder(ctx, 1, order.ID); !errors.Is(err, ErrOrderNotPlacable) {
		t.Errorf("err = %v, want ErrOrderNotPlacable", err)
	}
}

// ==================== 合作方订单测试 ====================

func TestOrderService_ListPartnerOrders(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, infoB := seedListings(t, db)

	// 订单一：两个商铺的条目都有，状态 new
	order1 := model.Order{UserID: 1, Status: model.OrderStatusNew}
	db.Create(&order1)
	db.Create(&model.OrderItem{OrderID: order1.ID, ProductInfoID: infoA, Quantity: 1})
	db.Create(&model.OrderItem{OrderID: order1.ID, ProductInfoID: infoB, Quantity: 1})

	// 订单二：只有商铺B的条目
	order2 := model.Order{UserID: 2, Status: model.OrderStatusConfirmed}
	db.Create(&order2)
	db.Create(&model.OrderItem{OrderID: order2.ID, ProductInfoID: infoB, Quantity: 3})

	// 订单三：商铺A的条目但还是购物车，不应出现
	order3 := model.Order{UserID: 3, Status: model.OrderStatusBasket}
	db.Create(&order3)
	db.Create(&model.OrderItem{OrderID: order3.ID, ProductInfoID: infoA, Quantity: 1})

	// 商铺A（归属用户 100）只看到订单一，且不重复
	orders, err := svc.ListPartnerOrders(ctx, 100)
	if err != nil {
		t.Fatalf("ListPartnerOrders() error = %v", err)
	}
	if len(orders) != 1 || orders[0].ID != order1.ID {
		t.Errorf("商铺A orders = %+v, want 仅订单一", orders)
	}

	// 商铺B（归属用户 200）看到订单一和订单二
	orders, err = svc.ListPartnerOrders(ctx, 200)
	if err != nil {
		t.Fatalf("ListPartnerOrders() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("商铺B len(orders) = %d, want 2", len(orders))
	}

	// 无关合作方什么都看不到
	orders, _ = svc.ListPartnerOrders(ctx, 300)
	if len(orders) != 0 {
		t.Errorf("无关合作方 orders = %d, want 0", len(orders))
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()
	infoA, _ := seedListings(t, db)

	basket, err := svc.CreateBasket(ctx, 1, &dto.BasketRequest{
		Items: []dto.BasketItemRequest{{ProductInfoID: infoA, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateBasket() error = %v", err)
	}
	if err := svc.PlaceOrder(ctx, 1, basket.ID); err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	orders, err := svc.ListOrders(ctx, 1)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("len(orders) = %d, want 1", len(orders))
	}
	if orders[0].Status != model.OrderStatusNew {
		t.Errorf("Status = %q, want new", orders[0].Status)
	}

	// 其他用户的列表为空
	orders, _ = svc.ListOrders(ctx, 2)
	if len(orders) != 0 {
		t.Errorf("他人订单泄露: %+v", orders)
	}
}
