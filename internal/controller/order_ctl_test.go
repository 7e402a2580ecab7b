package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
	"github.com/Gerry1Laxy/orders-backend/internal/service"
)

// ==================== 测试辅助 ====================

func setupOrderCtlTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Shop{}, &model.Category{}, &model.Product{},
		&model.ProductInfo{}, &model.Parameter{}, &model.ProductParameter{},
		&model.Order{}, &model.OrderItem{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func setupOrderCtlRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductInfoRepository(db),
		repository.NewUserRepository(db),
		service.NopNotifier{},
		zap.NewNop(),
	)
	ctl := NewOrderController(svc)

	r := gin.New()
	basket := r.Group("/api/v1/basket", middleware.JWTAuth())
	{
		basket.GET("", ctl.GetBasket)
		basket.POST("", ctl.CreateBasket)
		basket.PUT("", ctl.ReplaceBasket)
		basket.DELETE("", ctl.DeleteBasket)
	}
	order := r.Group("/api/v1/order", middleware.JWTAuth())
	{
		order.GET("", ctl.ListOrders)
		order.POST("", ctl.PlaceOrder)
	}
	return r
}

func seedCtlListing(t *testing.T, db *gorm.DB) int64 {
	category := model.Category{ID: 1, Name: "测试分类"}
	db.Create(&category)
	shop := model.Shop{Name: "测试商铺", UserID: 100, Status: true}
	db.Create(&shop)
	product := model.Product{Name: "测试商品", CategoryID: category.ID}
	db.Create(&product)

	info := model.ProductInfo{
		ExternalID: 1, ProductID: product.ID, ShopID: shop.ID,
		Name: "测试商品", Quantity: 10, Price: 500, PriceRRC: 600,
	}
	if err := db.Create(&info).Error; err != nil {
		t.Fatalf("条目创建失败: %v", err)
	}
	return info.ID
}

func authHeader(t *testing.T, userID int64) string {
	token, err := middleware.GenerateAccessToken(userID, "buyer@example.com", model.UserTypeBuyer)
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("请求编码失败: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 测试 ====================

func TestOrderController_Unauthorized(t *testing.T) {
	db := setupOrderCtlTestDB(t)
	r := setupOrderCtlRouter(t, db)

	w := doJSON(t, r, http.MethodGet, "/api/v1/basket", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("无 Token 访问 status = %d, want 401", w.Code)
	}
}

func TestOrderController_BasketLifecycle(t *testing.T) {
	db := setupOrderCtlTestDB(t)
	r := setupOrderCtlRouter(t, db)
	infoID := seedCtlListing(t, db)
	auth := authHeader(t, 1)

	// 创建购物车
	w := doJSON(t, r, http.MethodPost, "/api/v1/basket", auth, gin.H{
		"items": []gin.H{{"product_info": infoID, "quantity": 2}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("创建购物车 status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			ID       int64  `json:"id"`
			Status   string `json:"status"`
			TotalSum int64  `json:"total_sum"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.Data.Status != model.OrderStatusBasket {
		t.Errorf("Status = %q, want basket", resp.Data.Status)
	}
	if resp.Data.TotalSum != 1000 {
		t.Errorf("TotalSum = %d, want 1000", resp.Data.TotalSum)
	}

	// 重复创建返回 409
	w = doJSON(t, r, http.MethodPost, "/api/v1/basket", auth, gin.H{
		"items": []gin.H{{"product_info": infoID, "quantity": 1}},
	})
	if w.Code != http.StatusConflict {
		t.Errorf("重复创建 status = %d, want 409", w.Code)
	}

	// 下单：id 用数字字符串也能接受
	w = doJSON(t, r, http.MethodPost, "/api/v1/order", auth, gin.H{
		"id": strconv.FormatInt(resp.Data.ID, 10),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("下单 status = %d, body = %s", w.Code, w.Body.String())
	}

	var order model.Order
	db.First(&order, resp.Data.ID)
	if order.Status != model.OrderStatusNew {
		t.Errorf("下单后 Status = %q, want new", order.Status)
	}
}

func TestOrderController_PlaceOrder_BadID(t *testing.T) {
	db := setupOrderCtlTestDB(t)
	r := setupOrderCtlRouter(t, db)
	auth := authHeader(t, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/order", auth, gin.H{"id": "abc"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("非整数 id status = %d, want 400", w.Code)
	}
}

func TestOrderController_PlaceOrder_NotFound(t *testing.T) {
	db := setupOrderCtlTestDB(t)
	r := setupOrderCtlRouter(t, db)
	auth := authHeader(t, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/order", auth, gin.H{"id": 99999})
	if w.Code != http.StatusNotFound {
		t.Errorf("不存在订单 status = %d, want 404", w.Code)
	}
}

func TestOrderController_DeleteBasket(t *testing.T) {
	db := setupOrderCtlTestDB(t)
	r := setupOrderCtlRouter(t, db)
	infoID := seedCtlListing(t, db)
	auth := authHeader(t, 1)

	// 没有购物车时删除返回 404
	w := doJSON(t, r, http.MethodDelete, "/api/v1/basket", auth, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("删除不存在购物车 status = %d, want 404", w.Code)
	}

	doJSON(t, r, http.MethodPost, "/api/v1/basket", auth, gin.H{
		"items": []gin.H{{"product_info": infoID, "quantity": 1}},
	})

	w = doJSON(t, r, http.MethodDelete, "/api/v1/basket", auth, nil)
	if w.Code != http.StatusOK {
		t.Errorf("删除购物车 status = %d, want 200", w.Code)
	}
}
