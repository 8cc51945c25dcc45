package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-catalog-admin/internal/handler"
	"go-catalog-admin/internal/middleware"
	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"
	"go-catalog-admin/internal/ws"
	"go-catalog-admin/pkg/config"
	"go-catalog-admin/pkg/database"
	"go-catalog-admin/pkg/storage"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env + Config
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// 2. Setup Database
	db := database.Connect(cfg.DSN())
	db.AutoMigrate(
		&model.Product{}, &model.ProductAttribute{}, &model.AttributeValue{},
		&model.Variant{}, &model.VariantAttributeValue{}, &model.User{},
	)

	// 3. Seed the administrative account when configured
	seedAdmin(db, cfg)

	// 4. Asset store
	store, err := storage.NewGCSStore(context.Background(), cfg.StorageBucket)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialise asset store")
	}
	defer store.Close()

	// 5. WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	catalogService := service.NewCatalogService(productRepo, wsHub)
	assetService := service.NewAssetService(store, wsHub)
	authService := service.NewAuthService(userRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService, assetService, int(cfg.SignedURLTTL.Seconds()))
	authHandler := handler.NewAuthHandler(authService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Catalog Admin API v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	// Every mutating route passes the authorization gate before any store
	// access: authentication first, then the admin role check.
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/products/:id/thumbnail-url", catalogHandler.ThumbnailURL)

	admin := protected.Group("", middleware.RequireAdmin())
	admin.Post("/products", catalogHandler.CreateProduct)
	admin.Put("/products/:id", catalogHandler.UpdateProduct)
	admin.Post("/products/:id/thumbnail", catalogHandler.UploadThumbnail)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.WithError(err).Panic("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}
	logrus.Info("server exited")
}

// seedAdmin creates the administrative user on first boot. Without it no
// caller can pass the mutation gate.
func seedAdmin(db *gorm.DB, cfg *config.Config) {
	if cfg.AdminPassword == "" {
		logrus.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	userRepo := repository.NewUserRepo(db)
	if _, err := userRepo.FindByEmail(cfg.AdminEmail); err == nil {
		return
	}

	admin := &model.User{
		Email:    cfg.AdminEmail,
		FullName: "Catalog Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		logrus.WithError(err).Warn("failed to hash admin password")
		return
	}
	if err := userRepo.Create(admin); err != nil {
		logrus.WithError(err).Warn("failed to create admin user")
		return
	}
	logrus.WithField("email", cfg.AdminEmail).Info("admin user created")
}
