package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Gerry1Laxy/orders-backend/internal/controller"
	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	logger *zap.Logger,
	userCtl *controller.UserController,
	orderCtl *controller.OrderController,
	partnerCtl *controller.PartnerController,
	catalogCtl *controller.CatalogController) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(logger))

	api := r.Group("/api/v1")
	{
		// user 账号组
		user := api.Group("/user")
		{
			// POST /api/v1/user/register
			user.POST("/register", userCtl.Register)
			user.POST("/register/confirm", userCtl.ConfirmEmail)
			user.POST("/login", userCtl.Login)
			user.POST("/refresh", userCtl.RefreshToken)

			// 以下接口需要登录
			authed := user.Group("", middleware.JWTAuth())
			{
				authed.GET("/details", userCtl.GetProfile)
				authed.POST("/details", userCtl.UpdateProfile)
				authed.GET("/contact", userCtl.ListContacts)
				authed.POST("/contact", userCtl.CreateContact)
				authed.PUT("/contact", userCtl.UpdateContact)
				authed.DELETE("/contact/:id", userCtl.DeleteContact)
			}
		}

		// 公开目录查询
		api.GET("/categories", catalogCtl.ListCategories)
		api.GET("/shops", catalogCtl.ListShops)
		api.GET("/shops/:id", catalogCtl.GetShop)
		api.GET("/products", catalogCtl.ListProducts)
		api.GET("/products/:id", catalogCtl.GetProduct)

		// basket 购物车组，需要登录
		basket := api.Group("/basket", middleware.JWTAuth())
		{
			basket.GET("", orderCtl.GetBasket)
			basket.POST("", orderCtl.CreateBasket)
			basket.PUT("", orderCtl.ReplaceBasket)
			basket.DELETE("", orderCtl.DeleteBasket)
		}

		// order 订单组，需要登录
		order := api.Group("/order", middleware.JWTAuth())
		{
			order.GET("", orderCtl.ListOrders)
			order.POST("", orderCtl.PlaceOrder)
		}

		// partner 合作方组，需要登录且为 shop 账号
		partner := api.Group("/partner", middleware.JWTAuth(), middleware.RequireShop())
		{
			partner.POST("/update", partnerCtl.Update)
			partner.GET("/status", partnerCtl.GetStatus)
			partner.POST("/status", partnerCtl.SetStatus)
			partner.GET("/orders", partnerCtl.ListOrders)
		}
	}
}
