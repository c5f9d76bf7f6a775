package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"angelbridge/internal/debug"
	"angelbridge/internal/gate"
	"angelbridge/internal/journal"
	"angelbridge/internal/metrics"
	"angelbridge/internal/notion"
	"angelbridge/pkg/utils"
)

func main() {
	cfg := utils.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	client := notion.NewClient(notion.DefaultBaseURL, cfg.Token, logger)

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	m := metrics.New()
	router.Use(m.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/metrics", metrics.Handler())

	guard := gate.Middleware(cfg.SharedSecret)

	// Introspection (behind the gate: it exposes configuration state)
	debugHandler := debug.NewHandler(client, cfg)
	debugHandler.RegisterRoutes(router, guard)

	// Journal endpoints
	journalHandler := journal.NewHandler(client, cfg.DatabaseID, cfg.Labels, logger)
	journalHandler.RegisterRoutes(router.Group("/journal", guard))

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
