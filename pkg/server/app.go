// Package server holds the application lifecycle for the batch
// pipeline binary: one cycle per invocation, metrics pushed at the
// end, every owned resource closed on the way out.
package server

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/usecase"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/config"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/metrics"
)

// App runs the busyness pipeline once and exits. The scheduler owns
// periodicity; this process owns exactly one cycle.
type App struct {
	cfg      *config.Config
	pipeline *usecase.Pipeline
	recorder *metrics.Recorder
	l        *applogger.Logger
	closers  []io.Closer
}

// New creates the App. closers are released in reverse order after the
// cycle, whatever its outcome.
func New(cfg *config.Config, pipeline *usecase.Pipeline, recorder *metrics.Recorder, l *applogger.Logger, closers ...io.Closer) *App {
	return &App{cfg: cfg, pipeline: pipeline, recorder: recorder, l: l, closers: closers}
}

// Run executes one pipeline cycle. A degraded cycle is logged, not
// returned: the pipeline always produces its artifacts, and the
// scheduler should not retry on a partial store failure.
func (a *App) Run() error {
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if a.cfg.Pipeline.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Pipeline.Timeout)
		defer cancel()
	}

	result, err := a.pipeline.Run(ctx)
	if err != nil {
		a.l.Warn("cycle degraded", applogger.Error(err))
	}
	a.l.Info("cycle complete",
		applogger.Int("busyness", result.Snapshot.Busyness),
		applogger.Int("forecast_points", len(result.Forecast)),
		applogger.Int("anomalies", len(result.Anomalies)),
		applogger.Bool("model_trained", result.ModelTrained),
	)

	if a.cfg.Metrics.Enabled && a.cfg.Metrics.PushGatewayURL != "" {
		if err := a.recorder.Push(a.cfg.Metrics.PushGatewayURL, a.cfg.Metrics.Job); err != nil {
			a.l.Warn("metrics push failed", applogger.Error(err))
		}
	}
	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.l.Warn("close failed", applogger.Error(err))
		}
	}
}
