package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshplate/storefront/internal/cart"
	"github.com/freshplate/storefront/internal/catalog"
	"github.com/freshplate/storefront/internal/config"
	"github.com/freshplate/storefront/internal/event"
	"github.com/freshplate/storefront/internal/notify"
	"github.com/freshplate/storefront/internal/server"
	"github.com/freshplate/storefront/internal/services"
	"github.com/freshplate/storefront/internal/shop"
	"github.com/freshplate/storefront/internal/store"
	"github.com/freshplate/storefront/internal/version"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("storefront server starting", zap.String("version", version.Short()))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Open the persistence store and the cart repository.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.New(cfg.GetString("store.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	cartRepo, err := services.NewSQLiteCartRepository(ctx, db)
	if err != nil {
		logger.Fatal("failed to initialize cart repository", zap.Error(err))
	}

	// Notification bus. The frontend consumes these as toasts; server-side
	// we log them so operators see cart activity.
	bus := event.NewBus(logger.Named("event"))
	bus.Subscribe(notify.TopicSuccess, func(_ context.Context, e event.Event) {
		logger.Info("notification", zap.Any("message", e.Payload), zap.String("source", e.Source))
	})

	ledger := cart.NewLedger(cartRepo, notify.NewBusNotifier(bus, "cart"), logger.Named("cart"))

	// Upstream catalog client and per-session controllers.
	fetcher := catalog.NewClient(catalog.ClientOptions{
		BaseURL:   cfg.GetString("catalog.base_url"),
		Timeout:   cfg.GetDuration("catalog.timeout"),
		RateLimit: cfg.GetInt("catalog.rate_limit"),
	}, logger.Named("catalog"))
	sessions := shop.NewSessions(fetcher, logger.Named("shop"), cfg.GetDuration("shop.session_ttl"))

	shopHandler := shop.NewHandler(sessions, ledger, logger.Named("shop"))

	// Create and start HTTP server
	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	srv := server.New(addr, logger.Named("server"), shopHandler)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("storefront server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("storefront server stopped")
}
