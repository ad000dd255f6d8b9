package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commercehub/internal/caching"
	"commercehub/internal/config"
	"commercehub/internal/handlers"
	"commercehub/internal/jobs/background"
	appmiddleware "commercehub/internal/middleware"
	"commercehub/internal/models"
	"commercehub/internal/repositories"
	"commercehub/internal/services"
	"commercehub/pkg/database"
	"commercehub/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
)

type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Server.Env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		// Development convenience only; production refuses to start without
		// an explicit secret.
		jwtSecret = random.String(64)
		log.Warn("JWT_SECRET not set, generated an ephemeral development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DB.URL())
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cacheSvc.Ping(ctx); err != nil {
		log.Warn("redis unreachable at startup", zap.Error(err))
	}

	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal("object storage client failed", zap.Error(err))
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Warn("bucket check failed at startup", zap.Error(err))
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	inviteRepo := repositories.NewInviteRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)

	// Services
	authSvc := services.NewAuthService(cacheSvc, userRepo, jwtSecret, cfg.JWT.AccessTTLSeconds, cfg.JWT.RefreshTTLSeconds)
	tenantSvc := services.NewTenantService(tenantRepo, userRepo, cacheSvc, log)
	userSvc := services.NewUserService(userRepo, inviteRepo, cacheSvc)
	inviteSvc := services.NewInviteService(inviteRepo, userRepo)
	productSvc := services.NewProductService(productRepo, tenantRepo, cacheSvc, log)
	orderSvc := services.NewOrderService(orderRepo, productRepo, log)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(tenantSvc, userSvc, authSvc, log)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, userSvc)
	inviteHandlers := handlers.NewInviteHandlers(inviteSvc)
	productHandlers := handlers.NewProductHandlers(productSvc, storage, log)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validator: validator.New()}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())

	e.GET("/health", healthHandlers.Health)
	e.GET("/ready", healthHandlers.Ready)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register-owner", authHandlers.RegisterOwner)
	api.POST("/auth/register-staff", authHandlers.RegisterStaff)
	api.POST("/auth/login", authHandlers.Login)
	api.POST("/token/refresh", authHandlers.Refresh)
	api.GET("/domains", productHandlers.ListDomains)

	// Authenticated routes
	auth := api.Group("", appmiddleware.JWTMiddleware(authSvc, userRepo, log))
	auth.POST("/auth/logout", authHandlers.Logout)
	auth.GET("/auth/me", authHandlers.Me)

	auth.GET("/tenant", tenantHandlers.GetTenant)
	auth.PUT("/tenant", tenantHandlers.UpdateTenant, appmiddleware.RequireRole(models.RoleOwner))

	manager := appmiddleware.RequireRole(models.RoleManager)
	owner := appmiddleware.RequireRole(models.RoleOwner)
	auth.GET("/users", tenantHandlers.ListUsers, manager)
	auth.DELETE("/users/:id", tenantHandlers.DeleteUser, owner)

	auth.GET("/invites", inviteHandlers.ListInvites, manager)
	auth.POST("/invites", inviteHandlers.CreateInvite, manager)
	auth.GET("/invites/:id", inviteHandlers.GetInvite, manager)
	auth.DELETE("/invites/:id", inviteHandlers.RevokeInvite, owner)
	auth.PUT("/invites/:id", inviteHandlers.UpdateNotAllowed)
	auth.PATCH("/invites/:id", inviteHandlers.UpdateNotAllowed)

	inventory := auth.Group("/inventory")
	inventory.GET("/products", productHandlers.ListProducts)
	inventory.GET("/products/schema", productHandlers.GetSchema)
	inventory.GET("/products/:id", productHandlers.GetProduct)
	inventory.GET("/products/:id/image", productHandlers.GetImageURL)
	inventory.POST("/products", productHandlers.CreateProduct, manager)
	inventory.PUT("/products/:id", productHandlers.UpdateProduct, manager)
	inventory.PATCH("/products/:id", productHandlers.UpdateProduct, manager)
	inventory.DELETE("/products/:id", productHandlers.DeleteProduct, owner)
	inventory.POST("/products/:id/image", productHandlers.UploadImage, manager)

	sales := auth.Group("/sales")
	sales.GET("/orders", orderHandlers.ListOrders)
	sales.GET("/orders/:id", orderHandlers.GetOrder)
	sales.POST("/orders", orderHandlers.CreateOrder, manager)
	sales.PUT("/orders/:id", orderHandlers.UpdateOrder, manager)
	sales.PATCH("/orders/:id", orderHandlers.UpdateOrder, manager)
	sales.PUT("/orders/:id/items", orderHandlers.ReplaceItems, manager)
	sales.DELETE("/orders/:id", orderHandlers.DeleteOrder, owner)

	scheduler, err := background.NewJobScheduler(inviteRepo, log)
	if err != nil {
		log.Fatal("job scheduler setup failed", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		addr := ":" + cfg.Server.Port
		log.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
