package model

// ==================== 订单状态常量 ====================

// OrderStatus 订单状态
const (
	OrderStatusBasket    = "basket"    // 购物车（唯一可改写商品的状态）
	OrderStatusNew       = "new"       // 已下单
	OrderStatusConfirmed = "confirmed" // 已确认
	OrderStatusAssembled = "assembled" // 已拣货
	OrderStatusSent      = "sent"      // 已发出
	OrderStatusDelivered = "delivered" // 已送达
	OrderStatusCanceled  = "canceled"  // 已取消（终态）
)

// orderStatusRank 线性推进顺序，canceled 单独处理
var orderStatusRank = map[string]int{
	OrderStatusBasket:    0,
	OrderStatusNew:       1,
	OrderStatusConfirmed: 2,
	OrderStatusAssembled: 3,
	OrderStatusSent:      4,
	OrderStatusDelivered: 5,
}

// ==================== Order 订单 ====================

// Order 订单 / 购物车
// status=basket 时是买家的购物车，转入 new 之后商品集合即为不可变历史
type Order struct {
	BaseModel
	UserID int64  `gorm:"index;not null"`
	Status string `gorm:"size:20;index;default:'basket'"`

	// 关联（删除订单时级联删除订单项由仓储层在事务内显式完成）
	Items []OrderItem `gorm:"foreignKey:OrderID"`
	User  User        `gorm:"foreignKey:UserID"`
}

func (Order) TableName() string {
	return "orders"
}

// IsBasket 是否仍处于购物车状态
func (o *Order) IsBasket() bool {
	return o.Status == OrderStatusBasket
}

// CanCancel 已送达或已取消后不允许再取消
func (o *Order) CanCancel() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCanceled
}

// CanTransition 检查状态迁移是否合法
// 仅允许沿 basket→new→confirmed→assembled→sent→delivered 逐级推进，
// 或从任意非终态进入 canceled
func (o *Order) CanTransition(next string) bool {
	if next == OrderStatusCanceled {
		return o.CanCancel()
	}
	cur, ok := orderStatusRank[o.Status]
	if !ok {
		return false
	}
	n, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return n == cur+1
}

// TotalSum 订单总价 = Σ 数量 × 在售条目当前价格
// 需要预加载 Items.ProductInfo
func (o *Order) TotalSum() int64 {
	var total int64
	for _, item := range o.Items {
		total += int64(item.Quantity) * item.ProductInfo.Price
	}
	return total
}

// ==================== OrderItem 订单项 ====================

// OrderItem 订单项，引用具体商铺的在售条目（锁定商品与价格来源）
type OrderItem struct {
	BaseModel
	OrderID       int64 `gorm:"index;not null"`
	ProductInfoID int64 `gorm:"index;not null"`
	Quantity      int   `gorm:"not null"`

	ProductInfo ProductInfo `gorm:"foreignKey:ProductInfoID"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
