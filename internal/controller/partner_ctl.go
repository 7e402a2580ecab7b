package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
	"github.com/Gerry1Laxy/orders-backend/internal/service"
	"github.com/Gerry1Laxy/orders-backend/pkg/feed"
)

// ==================== PartnerController 合作方控制器 ====================

// PartnerController 合作方控制器：价目表导入、接单状态、合作方订单
// 所有接口要求 shop 类型账号
type PartnerController struct {
	partnerService *service.PartnerService
	orderService   *service.OrderService
}

// NewPartnerController 创建合作方控制器
func NewPartnerController(partnerService *service.PartnerService, orderService *service.OrderService) *PartnerController {
	return &PartnerController{
		partnerService: partnerService,
		orderService:   orderService,
	}
}

// ==================== 价目表导入 ====================

// Update 导入价目表
// @Summary 导入价目表
// @Tags Partner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PartnerUpdateRequest true "url 或 data 二选一"
// @Success 200 {object} dto.ImportResultVO
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /partner/update [post]
func (c *PartnerController) Update(ctx *gin.Context) {
	var req dto.PartnerUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)
	email := middleware.GetEmail(ctx)

	result, err := c.partnerService.Import(ctx.Request.Context(), userID, email, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedSourceBad), errors.Is(err, feed.ErrFormat):
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
		case errors.Is(err, feed.ErrFetch):
			ctx.JSON(http.StatusBadGateway, gin.H{
				"code":    502,
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
		"message": "价目表导入完成",
		"data":    result,
	})
}

// ==================== 接单状态 ====================

// GetStatus 查询接单状态
// @Summary 查询接单状态
// @Tags Partner
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ShopVO
// @Failure 404 {object} map[string]interface{}
// @Router /partner/status [get]
func (c *PartnerController) GetStatus(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	shop, err := c.partnerService.GetStatus(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": shop,
	})
}

// SetStatus 切换接单状态
// @Summary 切换接单状态
// @Tags Partner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PartnerStatusRequest true "接单状态"
// @Success 200 {object} dto.ShopVO
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /partner/status [post]
func (c *PartnerController) SetStatus(ctx *gin.Context) {
	var req dto.PartnerStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(ctx)

	shop, err := c.partnerService.SetStatus(ctx.Request.Context(), userID, *req.Status)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "接单状态已更新",
		"data":    shop,
	})
}

// ==================== 合作方订单 ====================

// ListOrders 合作方订单列表
// @Summary 合作方订单列表
// @Tags Partner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OrderVO
// @Router /partner/orders [get]
func (c *PartnerController) ListOrders(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)

	orders, err := c.orderService.ListPartnerOrders(ctx.Request.Context(), userID)
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
