package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"token-portfolio/internal/application"
)

var _ application.Worker = (*RefreshWorker)(nil)

// RefreshWorker periodically runs a (possibly gated) bulk refresh. Each
// pass is sequential over the configured sets; the ticker only controls
// how often a pass is attempted, the market-window gate decides whether
// a scheduled pass actually touches providers.
type RefreshWorker struct {
	Svc      *application.PortfolioService
	SetID    string
	Occasion string
	Every    time.Duration
	Log      *zap.Logger
}

func (w *RefreshWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.Every <= 0 {
		w.Every = 5 * time.Minute
	}

	t := time.NewTicker(w.Every)
	defer t.Stop()

	log.Info("refresh_worker_started",
		zap.String("set", w.SetID),
		zap.String("occasion", w.Occasion),
		zap.Duration("every", w.Every))
	for {
		select {
		case <-ctx.Done():
			log.Info("refresh_worker_stopped")
			return
		case <-t.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single refresh pass.
func (w *RefreshWorker) RunOnce(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}

	res, err := w.Svc.Refresh(ctx, w.SetID, w.Occasion)
	if err != nil {
		log.Warn("refresh_failed", zap.String("set", w.SetID), zap.Error(err))
		return
	}
	if res.Skipped {
		log.Info("refresh_skipped", zap.String("set", w.SetID), zap.String("reason", res.Reason))
		return
	}
	for _, out := range res.Results {
		log.Info("refresh_set_done",
			zap.String("set", out.SetID),
			zap.Int("symbols", out.Count),
			zap.Int("updated", out.Updated))
	}
}
