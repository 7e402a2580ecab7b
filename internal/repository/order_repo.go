package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Gerry1Laxy/orders-backend/internal/model"
)

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByIDForUser(ctx context.Context, id, userID int64) (*model.Order, error)
	// GetBasket 获取用户当前购物车（最多一个），不存在返回 (nil, nil)
	GetBasket(ctx context.Context, userID int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// ListByPartner 非购物车订单中含有该合作方商铺条目的订单，去重
	ListByPartner(ctx context.Context, partnerUserID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// ReplaceItems 事务内整组替换订单项（全量替换，不做合并）
	ReplaceItems(ctx context.Context, orderID int64, items []model.OrderItem) error
	// Delete 事务内删除订单并级联删除订单项
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByIDForUser 按归属查询订单，订单只对其主人可见
func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.ProductInfo").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetBasket(ctx context.Context, userID int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.ProductInfo.Product.Category").
		Where("user_id = ? AND status = ?", userID, model.OrderStatusBasket).
		Order("id DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.ProductInfo.Product.Category").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByPartner(ctx context.Context, partnerUserID int64) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.ProductInfo.Product.Category").
		Preload("User").
		Distinct("orders.*").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.user_id = ?", partnerUserID).
		Where("orders.status <> ?", model.OrderStatusBasket).
		Order("orders.id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("order_id = ?", orderID).
			Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = orderID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("order_id = ?", id).
			Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Order{}, id).Error
	})
}
