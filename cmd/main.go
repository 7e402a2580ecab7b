package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gerry1Laxy/orders-backend/internal/config"
	"github.com/Gerry1Laxy/orders-backend/internal/controller"
	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
	"github.com/Gerry1Laxy/orders-backend/internal/router"
	"github.com/Gerry1Laxy/orders-backend/internal/service"
	"github.com/Gerry1Laxy/orders-backend/internal/task"
	"github.com/Gerry1Laxy/orders-backend/pkg/database"
	"github.com/Gerry1Laxy/orders-backend/pkg/feed"
	"github.com/Gerry1Laxy/orders-backend/pkg/logger"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer zapLogger.Sync()

	// 3. JWT 配置
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		Issuer:          cfg.JWT.Issuer,
	})

	// 4. 初始化数据库
	db := initDatabase(cfg)

	// 5. 初始化依赖
	deps := initDependencies(db, cfg, zapLogger)

	// 6. 启动定时任务
	initTasks(deps, zapLogger)

	// 7. 初始化路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	router.InitRoutes(r, zapLogger,
		deps.Controllers.User,
		deps.Controllers.Order,
		deps.Controllers.Partner,
		deps.Controllers.Catalog,
	)

	// 8. 启动服务
	startServer(r, cfg, zapLogger)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User         repository.UserRepository
	Contact      repository.ContactRepository
	ConfirmToken repository.ConfirmTokenRepository
	Shop         repository.ShopRepository
	Category     repository.CategoryRepository
	ProductInfo  repository.ProductInfoRepository
	Order        repository.OrderRepository
	CatalogUow   *repository.CatalogUnitOfWork
}

// Services 服务集合
type Services struct {
	User    *service.UserService
	Order   *service.OrderService
	Partner *service.PartnerService
	Catalog *service.CatalogService
}

// Controllers 控制器集合
type Controllers struct {
	User    *controller.UserController
	Order   *controller.OrderController
	Partner *controller.PartnerController
	Catalog *controller.CatalogController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN(),
		// User
		&model.User{}, &model.Contact{}, &model.ConfirmEmailToken{},
		// Catalog
		&model.Shop{}, &model.Category{}, &model.Product{},
		&model.ProductInfo{}, &model.Parameter{}, &model.ProductParameter{},
		// Order
		&model.Order{}, &model.OrderItem{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config, zapLogger *zap.Logger) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:         repository.NewUserRepository(db),
		Contact:      repository.NewContactRepository(db),
		ConfirmToken: repository.NewConfirmTokenRepository(db),
		Shop:         repository.NewShopRepository(db),
		Category:     repository.NewCategoryRepository(db),
		ProductInfo:  repository.NewProductInfoRepository(db),
		Order:        repository.NewOrderRepository(db),
		CatalogUow:   repository.NewCatalogUnitOfWork(db),
	}

	// -------- 基础服务 --------
	notifier := service.NewEmailNotifier(cfg.SMTP, zapLogger)
	fetcher := feed.NewFetcher()

	// -------- 业务服务 --------
	services := &Services{}
	services.User = service.NewUserService(repos.User, repos.Contact, repos.ConfirmToken, notifier)
	services.Order = service.NewOrderService(repos.Order, repos.ProductInfo, repos.User, notifier, zapLogger)
	services.Partner = service.NewPartnerService(repos.CatalogUow, repos.Shop, fetcher, notifier, zapLogger)
	services.Catalog = service.NewCatalogService(repos.Category, repos.Shop, repos.ProductInfo)

	// -------- Controller 层 --------
	controllers := &Controllers{
		User:    controller.NewUserController(services.User),
		Order:   controller.NewOrderController(services.Order),
		Partner: controller.NewPartnerController(services.Partner, services.Order),
		Catalog: controller.NewCatalogController(services.Catalog),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies, zapLogger *zap.Logger) {
	cleanupTask := task.NewTokenCleanupTask(deps.Repos.ConfirmToken, zapLogger)
	if err := cleanupTask.Start(); err != nil {
		zapLogger.Fatal("定时任务启动失败", zap.Error(err))
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务并等待退出信号
func startServer(r *gin.Engine, cfg *config.Config, zapLogger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		zapLogger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("服务关闭异常", zap.Error(err))
	}
	zapLogger.Info("服务已退出")
}
