package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
)

// ==================== OrderService 订单服务 ====================

// OrderService 订单服务：购物车生命周期与下单
type OrderService struct {
	orderRepo repository.OrderRepository
	infoRepo  repository.ProductInfoRepository
	userRepo  repository.UserRepository
	notifier  Notifier
	logger    *zap.Logger
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	infoRepo repository.ProductInfoRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		infoRepo:  infoRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// ==================== 购物车 ====================

// GetBasket 获取当前购物车
// 没有购物车返回空结果而不是错误：空购物车是正常状态
func (s *OrderService) GetBasket(ctx context.Context, userID int64) (*dto.OrderVO, error) {
	basket, err := s.orderRepo.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		return nil, nil
	}
	vo := toOrderVO(basket)
	return &vo, nil
}

// CreateBasket 按提交的 (在售条目, 数量) 列表创建购物车
// 每个用户同一时刻至多一个购物车，已有购物车时拒绝重复创建
func (s *OrderService) CreateBasket(ctx context.Context, userID int64, req *dto.BasketRequest) (*dto.OrderVO, error) {
	items, err := s.validateItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	existing, err := s.orderRepo.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrBasketExists
	}

	order := &model.Order{
		UserID: userID,
		Status: model.OrderStatusBasket,
		Items:  items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// 重新读取，带出条目价格
	created, err := s.orderRepo.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	vo := toOrderVO(created)
	return &vo, nil
}

// ReplaceBasket 整组替换购物车内容
// 提交空列表会清空购物车（全量替换，不是空操作）
func (s *OrderService) ReplaceBasket(ctx context.Context, userID int64, req *dto.BasketRequest) (*dto.OrderVO, error) {
	items, err := s.validateItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	basket, err := s.orderRepo.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		return nil, ErrBasketNotFound
	}

	if err := s.orderRepo.ReplaceItems(ctx, basket.ID, items); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	vo := toOrderVO(updated)
	return &vo, nil
}

// DeleteBasket 删除购物车并级联删除订单项
func (s *OrderService) DeleteBasket(ctx context.Context, userID int64) error {
	basket, err := s.orderRepo.GetBasket(ctx, userID)
	if err != nil {
		return err
	}
	if basket == nil {
		return ErrBasketNotFound
	}
	return s.orderRepo.Delete(ctx, basket.ID)
}

// validateItems 校验购物车条目：数量必须为正，引用的在售条目必须存在
func (s *OrderService) validateItems(ctx context.Context, reqItems []dto.BasketItemRequest) ([]model.OrderItem, error) {
	ids := make([]int64, 0, len(reqItems))
	for _, item := range reqItems {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, item.ProductInfoID)
	}

	exists, err := s.infoRepo.ExistsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(reqItems))
	for _, item := range reqItems {
		if !exists[item.ProductInfoID] {
			return nil, ErrListingNotFound
		}
		items = append(items, model.OrderItem{
			ProductInfoID: item.ProductInfoID,
			Quantity:      item.Quantity,
		})
	}
	return items, nil
}

// ==================== 下单 ====================

// PlaceOrder 把购物车转为正式订单 (basket → new)
// 订单必须属于调用者本人；重复下单幂等返回，不会复制订单项
func (s *OrderService) PlaceOrder(ctx context.Context, userID, orderID int64) error {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	switch order.Status {
	case model.OrderStatusNew:
		// 重复提交：确认即可，不做任何改写
		return nil
	case model.OrderStatusBasket:
		// 正常路径
	default:
		return ErrOrderNotPlacable
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, model.OrderStatusNew); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		// 通知是尽力而为，查不到邮箱只记日志
		s.logger.Warn("下单通知跳过：用户信息获取失败", zap.Int64("user_id", userID))
		return nil
	}

	s.notifier.Notify(ctx, EventNewOrder, user.Email,
		"New status for order", "Order status changed to new")
	return nil
}

// ==================== 查询 ====================

// ListOrders 当前用户的全部订单（含购物车）
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]dto.OrderVO, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.OrderVO, len(orders))
	for i := range orders {
		vos[i] = toOrderVO(&orders[i])
	}
	return vos, nil
}

// ListPartnerOrders 合作方视角的订单列表
// 只包含非购物车状态、且含有该合作方商铺条目的订单，一个订单只出现一次
func (s *OrderService) ListPartnerOrders(ctx context.Context, partnerUserID int64) ([]dto.OrderVO, error) {
	orders, err := s.orderRepo.ListByPartner(ctx, partnerUserID)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.OrderVO, len(orders))
	for i := range orders {
		vos[i] = toOrderVO(&orders[i])
	}
	return vos, nil
}

// ==================== 辅助 ====================

func toOrderVO(order *model.Order) dto.OrderVO {
	items := make([]dto.OrderItemVO, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.OrderItemVO{
			ID:            item.ID,
			ProductInfoID: item.ProductInfoID,
			ProductName:   item.ProductInfo.Name,
			Quantity:      item.Quantity,
			Price:         item.ProductInfo.Price,
		}
	}
	return dto.OrderVO{
		ID:       order.ID,
		Status:   order.Status,
		TotalSum: order.TotalSum(),
		Items:    items,
		Created:  order.CreatedAt,
	}
}
