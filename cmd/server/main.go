package main

import (
	"shopline-be/internal/cart"
	"shopline-be/internal/category"
	"shopline-be/internal/config"
	"shopline-be/internal/db"
	"shopline-be/internal/logger"
	"shopline-be/internal/metrics"
	"shopline-be/internal/middleware"
	"shopline-be/internal/order"
	"shopline-be/internal/payment"
	"shopline-be/internal/product"
	"shopline-be/internal/review"
	"shopline-be/internal/user"
	"shopline-be/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories.
	userRepo := user.NewRepository(database)
	categoryRepo := category.NewRepository(database)
	productRepo := product.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)
	reviewRepo := review.NewRepository(database)
	wishlistRepo := wishlist.NewRepository(database)

	// Services.
	userSvc := user.NewService(userRepo)
	categorySvc := category.NewService(categoryRepo)
	productSvc := product.NewService(productRepo)
	cartSvc := cart.NewService(cartRepo, productRepo)
	orderSvc := order.NewService(orderRepo, productRepo)
	reviewSvc := review.NewService(reviewRepo, productRepo)
	wishlistSvc := wishlist.NewService(wishlistRepo, productRepo)

	gateway := payment.NewGateway(cfg)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		logger.RequestID(),
		logger.AccessLog(),
		metrics.Middleware(),
		middleware.RateLimit(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	user.NewHandler(userSvc).RegisterRoutes(api)
	category.NewHandler(categorySvc).RegisterRoutes(api)
	product.NewHandler(productSvc).RegisterRoutes(api)
	cart.NewHandler(cartSvc).RegisterRoutes(api)
	order.NewHandler(orderSvc).RegisterRoutes(api)
	review.NewHandler(reviewSvc).RegisterRoutes(api)
	wishlist.NewHandler(wishlistSvc).RegisterRoutes(api)
	payment.NewHandler(gateway, orderSvc).RegisterRoutes(api, router)

	logger.L().Info("server starting", zap.String("port", cfg.AppPort))

	if err := router.Run(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
