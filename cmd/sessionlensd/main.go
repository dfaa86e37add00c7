package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sessionlens/sessionlens/api"
	"github.com/sessionlens/sessionlens/config"
	"github.com/sessionlens/sessionlens/persistence"
	"github.com/sessionlens/sessionlens/persistence/rediskv"
	"github.com/sessionlens/sessionlens/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting sessionlens...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Data dir: %s", cfg.DataDir)
	log.Printf("Snapshot slot: %s (%s)", cfg.SnapshotKey, cfg.KVBackend)

	ctx := context.Background()

	kv, err := newKV(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot slot: %v", err)
	}

	manager := store.NewManager(store.Options{
		Dir:       cfg.DataDir,
		KV:        kv,
		Key:       cfg.SnapshotKey,
		WarnBytes: cfg.SnapshotWarnBytes,
	})
	st, err := manager.Store(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	stats := st.Stats(ctx)
	log.Printf("Store ready: %d sessions", stats.TotalSessions)

	h := api.NewHandler(st, cfg)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down sessionlens...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: server shutdown: %v", err)
	}
}

func newKV(ctx context.Context, cfg *config.Config) (persistence.KV, error) {
	switch cfg.KVBackend {
	case "memory":
		return persistence.NewMemoryKV(), nil
	case "file":
		return persistence.NewFileKV(cfg.KVDir)
	case "redis":
		return rediskv.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown KV backend %q", cfg.KVBackend)
	}
}
