package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ==================== 请求 ====================

// BasketItemRequest 购物车条目
type BasketItemRequest struct {
	ProductInfoID int64 `json:"product_info" binding:"required"`
	Quantity      int   `json:"quantity" binding:"required"`
}

// BasketRequest 创建/整组替换购物车请求
type BasketRequest struct {
	Items []BasketItemRequest `json:"items" binding:"required"`
}

// OrderID 订单号，JSON 里既可以是数字也可以是带引号的数字字符串
type OrderID int64

func (o *OrderID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("订单 id 必须是整数: %q", s)
	}
	*o = OrderID(v)
	return nil
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	ID OrderID `json:"id" binding:"required"`
}

// ==================== 响应 ====================

// OrderItemVO 订单项
type OrderItemVO struct {
	ID            int64  `json:"id"`
	ProductInfoID int64  `json:"product_info"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	Price         int64  `json:"price"`
}

// OrderVO 订单
type OrderVO struct {
	ID       int64         `json:"id"`
	Status   string        `json:"status"`
	TotalSum int64         `json:"total_sum"`
	Items    []OrderItemVO `json:"items"`
	Created  time.Time     `json:"created_at"`
}
