package main

import (
	"time"

	"pabrikku-be/internal/cache"
	"pabrikku-be/internal/config"
	"pabrikku-be/internal/customer"
	"pabrikku-be/internal/db"
	"pabrikku-be/internal/logger"
	"pabrikku-be/internal/order"
	"pabrikku-be/internal/product"
	"pabrikku-be/internal/router"
	"pabrikku-be/internal/stock"
	"pabrikku-be/internal/user"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const availabilityTTL = 30 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	stockCache := cache.Noop()
	if cfg.RedisAddr != "" {
		rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr})
		stockCache = cache.NewStockCache(rdb, availabilityTTL)
	}

	stockRepo := stock.NewRepository(database)
	stockSvc := stock.NewService(stockRepo, stockCache)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)
	coordinator := order.NewCoordinator(database, orderRepo, stockRepo, stockCache)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	customerRepo := customer.NewRepository(database)
	customerSvc := customer.NewService(customerRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	router.Setup(engine, router.Deps{
		Orders:      orderSvc,
		Coordinator: coordinator,
		Stock:       stockSvc,
		Products:    productSvc,
		Customers:   customerSvc,
		Users:       userSvc,
	})

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	if err := engine.Run(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
