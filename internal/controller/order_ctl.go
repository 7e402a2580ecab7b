package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
	"github.com/Gerry1Laxy/orders-backend/internal/service"
)

// ==================== OrderController 订单控制器 ====================

// OrderController 订单控制器：购物车与下单
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// ==================== 购物车 ====================

// GetBasket 查看购物车
// @Summary 查看购物车
// @Tags Basket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OrderVO
// @Router /basket [get]
func (c *OrderController) GetBasket(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	basket, err := c.orderService.GetBasket(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	// 没有购物车返回空数据而不是 404
	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": basket,
	})
}

// CreateBasket 创建购物车
// @Summary 创建购物车
// @Tags Basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BasketRequest true "购物车条目"
// @Success 200 {object} dto.OrderVO
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /basket [post]
func (c *OrderController) CreateBasket(ctx *gin.Context) {
	var req dto.BasketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	basket, err := c.orderService.CreateBasket(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.writeBasketError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "购物车已创建",
		"data":    basket,
	})
}

// ReplaceBasket 整组替换购物车内容
// @Summary 整组替换购物车内容
// @Tags Basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BasketRequest true "新的购物车条目，空列表清空购物车"
// @Success 200 {object} dto.OrderVO
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /basket [put]
func (c *OrderController) ReplaceBasket(ctx *gin.Context) {
	var req dto.BasketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	basket, err := c.orderService.ReplaceBasket(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.writeBasketError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "购物车已更新",
		"data":    basket,
	})
}

// DeleteBasket 删除购物车
// @Summary 删除购物车
// @Tags Basket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /basket [delete]
func (c *OrderController) DeleteBasket(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	if err := c.orderService.DeleteBasket(ctx.Request.Context(), userID); err != nil {
		c.writeBasketError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "购物车已删除",
	})
}

// ==================== 订单 ====================

// ListOrders 我的订单列表
// @Summary 我的订单列表
// @Tags Order
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OrderVO
// @Router /order [get]
func (c *OrderController) ListOrders(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	orders, err := c.orderService.ListOrders(ctx.Request.Context(), userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": orders,
	})
}

// PlaceOrder 提交订单（购物车转正式订单）
// @Summary 提交订单
// @Tags Order
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PlaceOrderRequest true "订单 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /order [post]
func (c *OrderController) PlaceOrder(ctx *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	if err := c.orderService.PlaceOrder(ctx.Request.Context(), userID, int64(req.ID)); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
			})
		case errors.Is(err, service.ErrOrderNotPlacable):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": err.Error(),
			})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "订单已提交",
	})
}

// ==================== 辅助 ====================

func (c *OrderController) writeBasketError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrBasketNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrBasketExists):
		ctx.JSON(http.StatusConflict, gin.H{
			"code":    409,
			"message": err.Error(),
		})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
	}
}
