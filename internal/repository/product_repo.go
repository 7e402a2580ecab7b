package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Gerry1Laxy/orders-backend/internal/model"
)

// ==================== 过滤条件 ====================

// ProductInfoFilter 在售条目过滤条件
type ProductInfoFilter struct {
	ShopID     int64  // 0 表示不筛选
	CategoryID int64  // 0 表示不筛选
	Keyword    string // 按商品名 / 分类名模糊匹配
	OrderBy    string // price / quantity，空串按 id
	Page       int
	PageSize   int
}

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
type ProductRepository interface {
	// FindOrCreate 按 (名称, 分类) 查找或创建
	// 返回值第二项表示是否新建
	FindOrCreate(ctx context.Context, name string, categoryID int64) (*model.Product, bool, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindOrCreate(ctx context.Context, name string, categoryID int64) (*model.Product, bool, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		First(&product).Error
	if err == nil {
		return &product, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	product = model.Product{Name: name, CategoryID: categoryID}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

// ==================== ProductInfoRepository 在售条目仓库 ====================

// ProductInfoRepository 在售条目仓库接口
type ProductInfoRepository interface {
	Create(ctx context.Context, info *model.ProductInfo) error
	GetByID(ctx context.Context, id int64) (*model.ProductInfo, error)
	ExistsByIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	List(ctx context.Context, filter ProductInfoFilter) ([]model.ProductInfo, int64, error)
	// DeleteByShop 整组删除商铺的在售条目（含参数关联），价目表全量替换的前半步
	// 返回删除的条目数
	DeleteByShop(ctx context.Context, shopID int64) (int64, error)
}

type productInfoRepository struct {
	db *gorm.DB
}

// NewProductInfoRepository 创建在售条目仓库
func NewProductInfoRepository(db *gorm.DB) ProductInfoRepository {
	return &productInfoRepository{db: db}
}

func (r *productInfoRepository) Create(ctx context.Context, info *model.ProductInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *productInfoRepository) GetByID(ctx context.Context, id int64) (*model.ProductInfo, error) {
	var info model.ProductInfo
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Parameters.Parameter").
		First(&info, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ExistsByIDs 批量检查在售条目是否存在，购物车校验用
func (r *productInfoRepository) ExistsByIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	exists := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return exists, nil
	}

	var found []int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductInfo{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		exists[id] = true
	}
	return exists, nil
}

func (r *productInfoRepository) List(ctx context.Context, filter ProductInfoFilter) ([]model.ProductInfo, int64, error) {
	var infos []model.ProductInfo
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ProductInfo{})

	// 应用过滤条件
	if filter.ShopID > 0 {
		db = db.Where("shop_id = ?", filter.ShopID)
	}
	if filter.CategoryID > 0 {
		db = db.Joins("JOIN products ON products.id = product_infos.product_id").
			Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Joins("JOIN products p ON p.id = product_infos.product_id").
			Joins("JOIN categories c ON c.id = p.category_id").
			Where("p.name LIKE ? OR c.name LIKE ?", keyword, keyword)
	}

	// 计算总数
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 排序白名单，防止外部输入注入 ORDER BY
	switch filter.OrderBy {
	case "price":
		db = db.Order("price ASC")
	case "quantity":
		db = db.Order("quantity DESC")
	default:
		db = db.Order("product_infos.id ASC")
	}

	// 分页
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	err := db.
		Preload("Product.Category").
		Preload("Parameters.Parameter").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&infos).Error

	return infos, total, err
}

func (r *productInfoRepository) DeleteByShop(ctx context.Context, shopID int64) (int64, error) {
	// 先删参数关联，再删条目本身，保持引用完整
	err := r.db.WithContext(ctx).
		Where("product_info_id IN (?)",
			r.db.Model(&model.ProductInfo{}).Select("id").Where("shop_id = ?", shopID),
		).
		Delete(&model.ProductParameter{}).Error
	if err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("shop_id = ?", shopID).
		Delete(&model.ProductInfo{})
	return res.RowsAffected, res.Error
}

// ==================== ParameterRepository 参数仓库 ====================

// ParameterRepository 参数仓库接口
type ParameterRepository interface {
	// FindOrCreate 按名称查找或创建共享参数
	// 返回值第二项表示是否新建
	FindOrCreate(ctx context.Context, name string) (*model.Parameter, bool, error)
	CreateProductParameter(ctx context.Context, pp *model.ProductParameter) error
}

type parameterRepository struct {
	db *gorm.DB
}

// NewParameterRepository 创建参数仓库
func NewParameterRepository(db *gorm.DB) ParameterRepository {
	return &parameterRepository{db: db}
}

func (r *parameterRepository) FindOrCreate(ctx context.Context, name string) (*model.Parameter, bool, error) {
	var parameter model.Parameter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&parameter).Error
	if err == nil {
		return &parameter, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	parameter = model.Parameter{Name: name}
	if err := r.db.WithContext(ctx).Create(&parameter).Error; err != nil {
		return nil, false, err
	}
	return &parameter, true, nil
}

func (r *parameterRepository) CreateProductParameter(ctx context.Context, pp *model.ProductParameter) error {
	return r.db.WithContext(ctx).Create(pp).Error
}

// ==================== CatalogUnitOfWork 目录工作单元 ====================

// CatalogUnitOfWork 目录工作单元
// 价目表导入横跨商铺/分类/商品/参数多张表，必须在同一事务内完成
type CatalogUnitOfWork struct {
	db           *gorm.DB
	Shops        ShopRepository
	Categories   CategoryRepository
	Products     ProductRepository
	ProductInfos ProductInfoRepository
	Parameters   ParameterRepository
}

// NewCatalogUnitOfWork 创建目录工作单元
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{
		db:           db,
		Shops:        NewShopRepository(db),
		Categories:   NewCategoryRepository(db),
		Products:     NewProductRepository(db),
		ProductInfos: NewProductInfoRepository(db),
		Parameters:   NewParameterRepository(db),
	}
}

// Transaction 在单个数据库事务内执行 fn，fn 返回错误即整体回滚
func (u *CatalogUnitOfWork) Transaction(ctx context.Context, fn func(uow *CatalogUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCatalogUnitOfWork(tx))
	})
}
