package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"prereq-orchestrator/internal/adapter/httpapi"
	"prereq-orchestrator/internal/di"
	"prereq-orchestrator/internal/infra/config"
	"prereq-orchestrator/internal/infra/logger"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Wire Components
	components, err := di.NewApplicationComponents(cfg, log)
	if err != nil {
		log.Error("failed to wire components", "error", err)
		os.Exit(1)
	}

	// 4. Start Mirror Worker
	if components.MirrorWorker != nil {
		components.MirrorWorker.Start()
		defer components.MirrorWorker.Stop()
	}

	// 5. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// 6. Register Handlers
	handler := httpapi.NewHandler(
		components.ResolveUsecase,
		components.LookupUsecase,
		components.SearchUsecase,
		components.Mirror,
		components.MirrorWorker,
	)
	handler.Register(e)

	// 7. Health Checks
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if components.GraphStore != nil {
			if err := components.GraphStore.Ping(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "graph store down", "error": err.Error()})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	// 8. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	if components.GraphStore != nil {
		_ = components.GraphStore.Close()
	}
}
