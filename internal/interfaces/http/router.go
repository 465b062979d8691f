package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appmerchant "paykript/internal/application/merchant"
	appmonitor "paykript/internal/application/monitor"
	apppayment "paykript/internal/application/payment"
	appwallet "paykript/internal/application/wallet"
	appwebhook "paykript/internal/application/webhook"
	"paykript/internal/domain/shared/events"
	"paykript/internal/infrastructure/address"
	"paykript/internal/infrastructure/auth"
	"paykript/internal/infrastructure/chain"
	"paykript/internal/infrastructure/config"
	"paykript/internal/infrastructure/lock"
	"paykript/internal/infrastructure/repository"
	"paykript/internal/infrastructure/scheduler"
	infrawebhook "paykript/internal/infrastructure/webhook"
	"paykript/internal/interfaces/http/handlers"
	"paykript/internal/interfaces/http/middleware"
	"paykript/internal/shared/db"
	"paykript/internal/shared/logger"
)

// Router wires every HTTP-facing dependency (spec §6's surface, the
// merchant/wallet/payment application services, and the monitor/dispatcher
// background loops) into a single Gin engine.
type Router struct {
	engine *gin.Engine

	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	paymentHandler *handlers.PaymentHandler
	walletHandler  *handlers.WalletHandler
	apiKeyHandler  *handlers.APIKeyHandler
	webhookHandler *handlers.WebhookHandler

	jwtMiddleware    *middleware.AuthMiddleware
	apiKeyMiddleware *middleware.APIKeyMiddleware
	rateLimiter      *middleware.RateLimiter

	monitorScheduler *scheduler.MonitorScheduler
	eventDispatcher  *events.InMemoryEventDispatcher
	logger           logger.Interface
}

// NewRouter constructs every repository, application service, and handler
// needed to serve spec §6's HTTP surface, plus the monitor scheduler that
// runs alongside it (spec component 4.D).
func NewRouter(gdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()
	txManager := db.NewTransactionManager(gdb)

	merchantRepo := repository.NewMerchantRepository(gdb)
	credentialRepo := repository.NewCredentialRepository(gdb)
	walletRepo := repository.NewWalletRepository(gdb)
	paymentRepo := repository.NewPaymentRepository(gdb)
	chaintxRepo := repository.NewChainTransactionRepository(gdb)

	passwordHasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	secretHasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes, cfg.Auth.JWT.RefreshExpDays)

	merchantService := appmerchant.NewService(merchantRepo, credentialRepo, passwordHasher, secretHasher, jwtService, log)
	authGate := appmerchant.NewAuthGate(credentialRepo, secretHasher)

	deriver := address.NewDeriver()

	eventDispatcher := events.NewInMemoryEventDispatcher(100)
	if err := eventDispatcher.Start(); err != nil {
		log.Errorw("failed to start event dispatcher", "error", err)
	}
	_ = eventDispatcher.Subscribe("payment.confirmed", events.NewSimpleEventHandler("payment.confirmed", func(e events.DomainEvent) error {
		log.Infow("domain event", "type", e.GetEventType(), "aggregate_id", e.GetAggregateID())
		return nil
	}))
	_ = eventDispatcher.Subscribe("payment.expired", events.NewSimpleEventHandler("payment.expired", func(e events.DomainEvent) error {
		log.Infow("domain event", "type", e.GetEventType(), "aggregate_id", e.GetAggregateID())
		return nil
	}))

	httpPoster := infrawebhook.NewHTTPPoster()
	dispatcher := appwebhook.NewDispatcher(
		paymentRepo, chaintxRepo, httpPoster, cfg.Webhook.Secret,
		time.Duration(cfg.Webhook.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Webhook.TestTimeoutSeconds)*time.Second,
		log,
	)

	paymentTimeout := time.Duration(cfg.Payment.TimeoutMinutes) * time.Minute
	paymentService := apppayment.NewService(paymentRepo, walletRepo, deriver, dispatcher, txManager, paymentTimeout, cfg.Tron.USDTContractAddress, log)
	walletService := appwallet.NewService(walletRepo, deriver, paymentRepo, txManager, log)

	chainClient := chain.NewTronGridClient(cfg.Tron.GridAPIKey, log)
	monitorCfg := appmonitor.Config{
		USDTContract:          cfg.Tron.USDTContractAddress,
		RequiredConfirmations: cfg.Tron.RequiredConfirmations,
	}
	monitorService := appmonitor.NewService(paymentRepo, chaintxRepo, chainClient, eventDispatcher, dispatcher, txManager, monitorCfg, log)

	var instanceLock *lock.InstanceLock
	if cfg.Monitor.SingleInstanceLock && redisClient != nil {
		instanceLock = lock.NewInstanceLock(redisClient, 45*time.Second)
	}
	monitorScheduler := scheduler.NewMonitorScheduler(
		monitorService, instanceLock,
		time.Duration(cfg.Monitor.TickSeconds)*time.Second,
		time.Duration(cfg.Monitor.ErrorBackoffSeconds)*time.Second,
		log,
	)

	return &Router{
		engine: engine,

		healthHandler:  handlers.NewHealthHandler(),
		authHandler:    handlers.NewAuthHandler(merchantService),
		paymentHandler: handlers.NewPaymentHandler(paymentService),
		walletHandler:  handlers.NewWalletHandler(walletService),
		apiKeyHandler:  handlers.NewAPIKeyHandler(merchantService),
		webhookHandler: handlers.NewWebhookHandler(dispatcher),

		jwtMiddleware:    middleware.NewAuthMiddleware(jwtService, log),
		apiKeyMiddleware: middleware.NewAPIKeyMiddleware(authGate, log),
		rateLimiter:      middleware.NewRateLimiter(redisClient, 100, time.Minute),

		monitorScheduler: monitorScheduler,
		eventDispatcher:  eventDispatcher,
		logger:           log,
	}
}

// SetupRoutes registers every route in spec §6 behind the appropriate auth
// gate, in the style the global middleware chain is always applied first.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS())
	r.engine.Use(middleware.APIVersion())

	r.engine.GET("/health", r.healthHandler.HealthCheck)

	apiV1 := r.engine.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.rateLimiter.Limit(), r.authHandler.Register)
		authGroup.POST("/login", r.rateLimiter.Limit(), r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
	}

	payments := apiV1.Group("/payments")
	{
		payments.POST("/create", r.apiKeyMiddleware.RequireAPIKey(), r.paymentHandler.Create)
		payments.GET("/status/:id", r.apiKeyMiddleware.RequireAPIKey(), r.paymentHandler.Status)
		payments.GET("/by-order/:order_id", r.apiKeyMiddleware.RequireAPIKey(), r.paymentHandler.ByOrderID)
		payments.GET("/qr/:id", r.apiKeyMiddleware.RequireAPIKey(), r.paymentHandler.QR)

		payments.GET("/list", r.jwtMiddleware.RequireAuth(), r.paymentHandler.List)
		payments.GET("/stats", r.jwtMiddleware.RequireAuth(), r.paymentHandler.Stats)
		payments.POST("/cancel/:id", r.jwtMiddleware.RequireAuth(), r.paymentHandler.Cancel)
		payments.POST("/:id/resend-webhook", r.jwtMiddleware.RequireAuth(), r.paymentHandler.ResendWebhook)
	}

	wallets := apiV1.Group("/wallets")
	wallets.Use(r.jwtMiddleware.RequireAuth())
	{
		wallets.POST("", r.walletHandler.Create)
		wallets.GET("", r.walletHandler.List)
		wallets.GET("/:id", r.walletHandler.Get)
		wallets.POST("/:id/activate", r.walletHandler.Activate)
	}

	apiKeys := apiV1.Group("/api-keys")
	apiKeys.Use(r.jwtMiddleware.RequireAuth())
	{
		apiKeys.POST("", r.apiKeyHandler.Issue)
		apiKeys.GET("", r.apiKeyHandler.List)
		apiKeys.DELETE("/:id", r.apiKeyHandler.Revoke)
	}

	webhooks := apiV1.Group("/webhooks")
	webhooks.Use(r.jwtMiddleware.RequireAuth())
	{
		webhooks.POST("/test", r.webhookHandler.Test)
	}
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// MonitorScheduler exposes the wired scheduler so the server command can
// start/stop it alongside the HTTP listener.
func (r *Router) MonitorScheduler() *scheduler.MonitorScheduler {
	return r.monitorScheduler
}

// Run starts the HTTP server.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Shutdown stops the background event dispatcher. Call after the monitor
// scheduler has been stopped, so no late-arriving domain event is dropped
// mid-shutdown.
func (r *Router) Shutdown() {
	if err := r.eventDispatcher.Stop(); err != nil {
		r.logger.Errorw("failed to stop event dispatcher", "error", err)
	}
}
