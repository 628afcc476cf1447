package router

import (
	"log"
	"time"

	"homechain/config"
	"homechain/internal/domain"
	"homechain/internal/handler"
	"homechain/internal/middleware"
	"homechain/internal/repository"
	"homechain/internal/service"
	"homechain/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deviceRepo := repository.NewDeviceTokenRepository(db)

	notifHub := ws.NewHub()

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	reconciler := service.NewReconciler(db, &cfg.Indexer)
	txSvc := service.NewTransactionService(txRepo, walletRepo, propertyRepo)
	notifSvc := service.NewNotificationService(notificationRepo, deviceRepo, fcmSvc, notifHub)

	// Handlers
	indexerHandler := handler.NewIndexerHandler(reconciler)
	transactionHandler := handler.NewTransactionHandler(txSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, deviceRepo, reconciler, notifSvc)
	walletHandler := handler.NewWalletHandler(walletRepo, userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		api.POST("/indexer/transactions", authMw, middleware.RequireRole(domain.RoleAdmin), indexerHandler.Ingest)

		api.GET("/transactions", authMw, transactionHandler.List)

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/transaction-update", notificationHandler.TransactionUpdate)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/register-device", notificationHandler.RegisterDevice)
		}

		users := api.Group("/users")
		users.Use(authMw)
		{
			users.POST("/wallets/register", walletHandler.Register)
			users.GET("/by-wallet/:wallet_id", walletHandler.LookupByWallet)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, notifHub))

	return r
}
