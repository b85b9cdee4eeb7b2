package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"token-portfolio/internal/bootstrap"
	"token-portfolio/internal/config"
	httpserver "token-portfolio/internal/infrastructure/http"
	"token-portfolio/internal/infrastructure/logx"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	store, backend, closeStore, err := bootstrap.BuildStore(cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap store", zap.Error(err))
	}
	defer closeStore()

	svc, err := bootstrap.BuildService(cfg, store, logger)
	if err != nil {
		logger.Fatal("bootstrap service", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.MarketTZ)
	if err != nil {
		loc = time.UTC
	}
	srv := httpserver.NewServer(svc, bootstrap.EnvSummary(cfg, backend), loc, logger)
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
