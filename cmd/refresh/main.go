package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"token-portfolio/internal/application"
	"token-portfolio/internal/bootstrap"
	"token-portfolio/internal/config"
	"token-portfolio/internal/infrastructure/logx"
	"token-portfolio/internal/infrastructure/worker"
)

func init() { _ = godotenv.Load() }

func main() {
	set := flag.String("set", application.RefreshAll, "portfolio set id to refresh, or \"all\"")
	occasion := flag.String("occasion", "", "scheduled occasion tag (open|close); empty runs ungated")
	once := flag.Bool("once", false, "run a single refresh pass and exit")
	flag.Parse()

	logger := logx.L()
	cfg := config.Load()

	store, _, closeStore, err := bootstrap.BuildStore(cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap store", zap.Error(err))
	}
	defer closeStore()

	svc, err := bootstrap.BuildService(cfg, store, logger)
	if err != nil {
		logger.Fatal("bootstrap service", zap.Error(err))
	}

	w := &worker.RefreshWorker{
		Svc:      svc,
		SetID:    *set,
		Occasion: *occasion,
		Every:    cfg.RefreshEvery,
		Log:      logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	if *once {
		w.RunOnce(ctx)
		return
	}
	w.Start(ctx)
}
