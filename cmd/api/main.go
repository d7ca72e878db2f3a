// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/bookstore-commerce/internal/config"
	"github.com/your-org/bookstore-commerce/internal/domain/cart"
	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"github.com/your-org/bookstore-commerce/internal/domain/checkout"
	"github.com/your-org/bookstore-commerce/internal/domain/coupon"
	"github.com/your-org/bookstore-commerce/internal/domain/identity"
	"github.com/your-org/bookstore-commerce/internal/domain/inventory"
	"github.com/your-org/bookstore-commerce/internal/domain/order"
	"github.com/your-org/bookstore-commerce/internal/domain/wishlist"
	"github.com/your-org/bookstore-commerce/internal/infrastructure/database/postgres"
	"github.com/your-org/bookstore-commerce/internal/infrastructure/database/redis"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http"
	"github.com/your-org/bookstore-commerce/internal/interfaces/http/routes"
	"github.com/your-org/bookstore-commerce/internal/pkg/async"
	"github.com/your-org/bookstore-commerce/internal/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)
	logger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		logger.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		logger.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())

	if err := migration.RunAutoMigrations(); err != nil {
		logger.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		logger.Warnf("Index creation failed: %v", err)
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			logger.Warnf("Data seeding failed: %v", err)
		}
	}

	// Background writer for fire-and-forget replication
	writer := async.NewWriter(cfg.Checkout.WriterQueueSize, logger)
	defer writer.Close()

	// Wire domain services
	gormDB := db.GetDB()
	cache := redisClient.GetClient()

	catalogSvc := catalog.NewService(gormDB)
	carts := cart.NewStore(cart.NewRedisRepository(cache), logger)
	coupons := coupon.NewService(coupon.NewGormRepository(gormDB), logger)
	orders := order.NewTransaction(order.NewGormRepository(gormDB), inventory.NewGormRepository(gormDB), logger)
	wishlists := wishlist.NewSyncEngine(
		wishlist.NewRedisLocalRepository(cache),
		wishlist.NewGormRemoteRepository(gormDB),
		catalogSvc,
		writer,
		logger,
	)
	pipeline := checkout.NewPipeline(carts, coupons, orders, cfg.Checkout, logger)

	// The wishlist engine reconciles caches on authentication changes.
	bus := identity.NewBus()
	bus.Subscribe(func(ctx context.Context, ev identity.Event) {
		switch ev.Type {
		case identity.EventSignIn:
			if err := wishlists.OnSignIn(ctx, ev.UserID, ev.DeviceID); err != nil {
				logger.WithError(err).Warn("wishlist reconciliation at sign-in failed")
			}
		case identity.EventSignOut:
			if _, err := wishlists.OnSignOut(ctx, ev.DeviceID); err != nil {
				logger.WithError(err).Warn("wishlist reload at sign-out failed")
			}
		}
	})

	logger.Info("✅ All systems operational!")

	server := http.NewServer(cfg, logger, db, redisClient, &routes.Deps{
		Verifier: identity.NewTokenVerifier(cfg.Identity),
		Bus:      bus,
		Catalog:  catalogSvc,
		Carts:    carts,
		Wishlist: wishlists,
		Coupons:  coupons,
		Orders:   orders,
		Checkout: pipeline,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Warnf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logger.Info("✅ Server shutdown completed")
}
