package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/service"
)

// ==================== CatalogController 目录控制器 ====================

// CatalogController 目录控制器：分类、商铺与商品的公开查询接口
type CatalogController struct {
	catalogService *service.CatalogService
}

// NewCatalogController 创建目录控制器
func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListCategories 分类列表
// @Summary 分类列表
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.CategoryVO
// @Router /categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.catalogService.ListCategories(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": categories,
	})
}

// ListShops 商铺列表
// @Summary 商铺列表
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.ShopVO
// @Router /shops [get]
func (c *CatalogController) ListShops(ctx *gin.Context) {
	shops, err := c.catalogService.ListShops(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": shops,
	})
}

// GetShop 商铺详情
// @Summary 商铺详情
// @Tags Catalog
// @Produce json
// @Param id path int true "商铺 ID"
// @Success 200 {object} dto.ShopVO
// @Failure 404 {object} map[string]interface{}
// @Router /shops/{id} [get]
func (c *CatalogController) GetShop(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "非法的商铺 ID",
		})
		return
	}

	shop, err := c.catalogService.GetShop(ctx.Request.Context(), id)
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

// ListProducts 在售商品查询
// @Summary 在售商品查询
// @Tags Catalog
// @Produce json
// @Param shop_id query int false "商铺 ID"
// @Param category_id query int false "分类 ID"
// @Param search query string false "关键字"
// @Param ordering query string false "排序字段 price / quantity"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.ProductListResponse
// @Failure 400 {object} map[string]interface{}
// @Router /products [get]
func (c *CatalogController) ListProducts(ctx *gin.Context) {
	var req dto.ProductListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	resp, err := c.catalogService.ListProducts(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": resp,
	})
}

// GetProduct 在售条目详情
// @Summary 在售条目详情
// @Tags Catalog
// @Produce json
// @Param id path int true "在售条目 ID"
// @Success 200 {object} dto.ProductInfoVO
// @Failure 404 {object} map[string]interface{}
// @Router /products/{id} [get]
func (c *CatalogController) GetProduct(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "非法的条目 ID",
		})
		return
	}

	info, err := c.catalogService.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
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
		"data": info,
	})
}
