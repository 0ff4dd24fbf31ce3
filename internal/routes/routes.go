package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stepuplabz/market/internal/audit"
	"github.com/stepuplabz/market/internal/cache"
	"github.com/stepuplabz/market/internal/config"
	"github.com/stepuplabz/market/internal/handlers"
	infraRepo "github.com/stepuplabz/market/internal/infra/repository"
	"github.com/stepuplabz/market/internal/middleware"
	"github.com/stepuplabz/market/internal/storage"
	ucOrder "github.com/stepuplabz/market/internal/usecase/order"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	store storage.Store,
	statsCache *cache.Cache,
) {

	// ------------------------------
	// INFRA (SINGLETONS)
	// ------------------------------
	orderRepo := infraRepo.NewOrderGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ------------------------------
	// USE CASES — ORDERS
	// ------------------------------
	createOrderUC := ucOrder.NewCreateOrder(orderRepo, auditDispatcher)
	updateStatusUC := ucOrder.NewUpdateOrderStatus(orderRepo, auditDispatcher)
	cancelOrderUC := ucOrder.NewCancelOrder(orderRepo, auditDispatcher)
	orderStatsUC := ucOrder.NewOrderStats(orderRepo, statsCache)

	// ------------------------------
	// HANDLERS
	// ------------------------------
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db, auditDispatcher)
	productHandler := handlers.NewProductHandler(db, auditDispatcher)
	addressHandler := handlers.NewAddressHandler(db)
	uploadHandler := handlers.NewUploadHandler(store, cfg)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	orderHandler := handlers.NewOrderHandler(
		orderRepo,
		createOrderUC,
		updateStatusUC,
		cancelOrderUC,
		orderStatsUC,
	)

	// ------------------------------
	// STATIC (local upload driver)
	// ------------------------------
	if local, ok := store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/categories", categoryHandler.List)
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.GetByID)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.PUT("/auth/profile", authHandler.UpdateProfile)
			secured.POST("/auth/change-password", authHandler.ChangePassword)

			secured.POST("/orders", orderHandler.Create)
			secured.GET("/orders/user/:userId", orderHandler.ListByUser)
			secured.POST("/orders/:id/cancel", orderHandler.Cancel)

			secured.GET("/addresses", addressHandler.List)
			secured.POST("/addresses", addressHandler.Create)
			secured.DELETE("/addresses/:id", addressHandler.Delete)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/orders", orderHandler.ListAll)
				admin.GET("/orders/stats", orderHandler.Stats)
				admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)

				admin.POST("/categories", categoryHandler.Create)
				admin.PUT("/categories/:id", categoryHandler.Update)
				admin.DELETE("/categories/:id", categoryHandler.Delete)

				admin.POST("/products", productHandler.Create)
				admin.PUT("/products/:id", productHandler.Update)
				admin.DELETE("/products/:id", productHandler.Delete)
				admin.POST("/products/upload", uploadHandler.Upload)

				admin.GET("/users", userHandler.List)
				admin.GET("/users/:id", userHandler.GetByID)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
