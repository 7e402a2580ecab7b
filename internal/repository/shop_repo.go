package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Gerry1Laxy/orders-backend/internal/model"
)

// ==================== ShopRepository 商铺仓库 ====================

// ShopRepository 商铺仓库接口
type ShopRepository interface {
	// FindOrCreate 按 (归属用户, 商铺名) 查找或创建
	// 返回值第二项表示本次是否新建，便于导入结果统计
	FindOrCreate(ctx context.Context, userID int64, name string) (*model.Shop, bool, error)
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Shop, error)
	Update(ctx context.Context, shop *model.Shop) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context) ([]model.Shop, error)
}

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建商铺仓库
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) FindOrCreate(ctx context.Context, userID int64, name string) (*model.Shop, bool, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&shop).Error
	if err == nil {
		return &shop, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	shop = model.Shop{Name: name, UserID: userID, Status: true}
	if err := r.db.WithContext(ctx).Create(&shop).Error; err != nil {
		return nil, false, err
	}
	return &shop, true, nil
}

func (r *shopRepository) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).First(&shop, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetByUserID 获取合作方名下的商铺（每个合作方当前只有一个）
func (r *shopRepository) GetByUserID(ctx context.Context, userID int64) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) Update(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

func (r *shopRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", id).Updates(fields).Error
}

func (r *shopRepository) List(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).Order("id ASC").Find(&shops).Error
	return shops, err
}

// ==================== CategoryRepository 分类仓库 ====================

// CategoryRepository 分类仓库接口
type CategoryRepository interface {
	// Upsert 按外部 ID 插入或覆盖名称
	// 返回值第二项表示是否新建
	Upsert(ctx context.Context, id int64, name string) (*model.Category, bool, error)
	// AddShop 把商铺挂到分类下，重复添加是幂等空操作
	AddShop(ctx context.Context, categoryID, shopID int64) error
	List(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Upsert(ctx context.Context, id int64, name string) (*model.Category, bool, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err == nil {
		if category.Name != name {
			category.Name = name
			if err := r.db.WithContext(ctx).Save(&category).Error; err != nil {
				return nil, false, err
			}
		}
		return &category, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	category = model.Category{ID: id, Name: name}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, false, err
	}
	return &category, true, nil
}

func (r *categoryRepository) AddShop(ctx context.Context, categoryID, shopID int64) error {
	var count int64
	err := r.db.WithContext(ctx).
		Table("shop_categories").
		Where("category_id = ? AND shop_id = ?", categoryID, shopID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec("INSERT INTO shop_categories (category_id, shop_id) VALUES (?, ?)", categoryID, shopID).Error
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	return categories, err
}
