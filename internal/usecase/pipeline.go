// Package usecase orchestrates one pipeline cycle: normalize the raw
// snapshots, score, persist history, retrain/forecast, detect
// anomalies, and write the collaborator artifacts.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/anomaly"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	domrepo "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/repository"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/forecast"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/normalize"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/score"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/cache"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
)

// A model older than this is stale; predictions fall back to the
// heuristic rather than trusting it.
const modelStaleAfter = 7 * 24 * time.Hour

// dashboardCacheKey is where the latest dashboard snapshot lands for
// collaborators that read through the cache instead of the filesystem.
const dashboardCacheKey = "dashboard:latest"

// RawSource supplies the latest raw collector snapshots.
type RawSource interface {
	Load() normalize.RawSnapshots
}

// Pipeline wires the stages of one busyness cycle. Every stage is
// best-effort: store and artifact failures degrade the cycle but never
// abort it, so each run always produces a dashboard.
type Pipeline struct {
	raw        RawSource
	history    domrepo.HistoryStore
	anomalyLog domrepo.AnomalyLog
	modelStore domrepo.ModelStore
	artifacts  domrepo.ArtifactWriter

	publisher domrepo.Publisher
	cache     cache.Service
	cacheTTL  time.Duration
	metrics   domrepo.Metrics

	l   *applogger.Logger
	now func() time.Time
}

// PipelineOption customizes optional collaborators.
type PipelineOption func(*Pipeline)

// WithPublisher attaches an anomaly broker publisher.
func WithPublisher(p domrepo.Publisher) PipelineOption {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithCache mirrors the dashboard snapshot into a cache.
func WithCache(c cache.Service, ttl time.Duration) PipelineOption {
	return func(pl *Pipeline) { pl.cache = c; pl.cacheTTL = ttl }
}

// WithMetrics attaches the observability recorder.
func WithMetrics(m domrepo.Metrics) PipelineOption {
	return func(pl *Pipeline) { pl.metrics = m }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(pl *Pipeline) { pl.now = now }
}

func NewPipeline(raw RawSource, history domrepo.HistoryStore, anomalyLog domrepo.AnomalyLog,
	modelStore domrepo.ModelStore, artifacts domrepo.ArtifactWriter, l *applogger.Logger,
	opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		raw:        raw,
		history:    history,
		anomalyLog: anomalyLog,
		modelStore: modelStore,
		artifacts:  artifacts,
		l:          l,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CycleResult is what one pipeline run produced.
type CycleResult struct {
	Snapshot     models.ScoreSnapshot
	Dashboard    *models.DashboardSnapshot
	Forecast     []models.ForecastPoint
	Anomalies    []models.AnomalyEvent
	ModelTrained bool
}

// Run executes one full cycle. The returned error joins every degraded
// step; a non-nil error still comes with a complete CycleResult.
func (p *Pipeline) Run(ctx context.Context) (*CycleResult, error) {
	now := p.now().UTC()
	var degraded []error

	// Normalize.
	stage := time.Now()
	raw := p.raw.Load()
	sig := normalize.Record(raw, now)
	venues := normalize.Venues(raw.Venues)
	p.stageDone("normalize", stage)

	// Score.
	stage = time.Now()
	snap := score.Compute(sig, venues, now)
	p.stageDone("score", stage)
	p.l.Info("busyness scored",
		applogger.Int("busyness", snap.Busyness),
		applogger.String("level", models.BusynessLevel(snap.Busyness)),
		applogger.Strings("drivers", snap.Drivers),
	)

	// History.
	stage = time.Now()
	history, err := p.history.Load(ctx)
	if err != nil {
		degraded = append(degraded, fmt.Errorf("load history: %w", err))
		p.l.Warn("history unavailable, scoring without baseline", applogger.Error(err))
		history = nil
	}
	if err := p.history.Append(ctx, snap); err != nil {
		degraded = append(degraded, fmt.Errorf("append history: %w", err))
		p.l.Error("history append failed", applogger.Error(err))
	}
	series := append(history, snap)
	p.stageDone("history", stage)

	// Train and forecast.
	stage = time.Now()
	model := forecast.Train(series, now)
	trained := model != nil
	if trained {
		if err := p.modelStore.Save(ctx, model); err != nil {
			degraded = append(degraded, fmt.Errorf("save model: %w", err))
			p.l.Error("model save failed", applogger.Error(err))
		}
	} else {
		model = p.loadUsableModel(ctx, now)
	}
	points := forecast.Predict(model, snap, len(series), now)
	if err := p.artifacts.WriteForecast(ctx, points); err != nil {
		degraded = append(degraded, fmt.Errorf("write forecast: %w", err))
	}
	p.stageDone("forecast", stage)

	// Anomalies.
	stage = time.Now()
	prior, err := p.anomalyLog.Load(ctx)
	if err != nil {
		degraded = append(degraded, fmt.Errorf("load anomaly log: %w", err))
		prior = nil
	}
	events := anomaly.Detect(series, sig, prior)
	if err := p.anomalyLog.Append(ctx, events); err != nil {
		degraded = append(degraded, fmt.Errorf("append anomalies: %w", err))
	}
	for _, e := range events {
		p.l.Warn("anomaly detected",
			applogger.String("type", string(e.Type)),
			applogger.String("severity", string(e.Severity)),
			applogger.Float64("confidence", e.Confidence),
			applogger.String("explanation", e.Explanation),
		)
		if p.metrics != nil {
			p.metrics.RecordAnomaly(string(e.Type), string(e.Severity))
		}
	}
	if p.publisher != nil && len(events) > 0 {
		if err := p.publisher.PublishAnomalies(ctx, events); err != nil {
			degraded = append(degraded, fmt.Errorf("publish anomalies: %w", err))
		}
	}
	summary := anomaly.Summarize(append(prior, events...), now)
	if err := p.artifacts.WriteAnomalySummary(ctx, summary); err != nil {
		degraded = append(degraded, fmt.Errorf("write anomaly summary: %w", err))
	}
	p.stageDone("anomaly", stage)

	// Dashboard.
	stage = time.Now()
	dashboard := &models.DashboardSnapshot{
		Timestamp:    snap.Timestamp,
		Signals:      sig,
		Busyness:     snap.Busyness,
		Level:        models.BusynessLevel(snap.Busyness),
		Drivers:      snap.Drivers,
		Components:   snap.Components,
		HolidayPhase: snap.HolidayPhase,
	}
	if err := p.artifacts.WriteDashboard(ctx, dashboard); err != nil {
		degraded = append(degraded, fmt.Errorf("write dashboard: %w", err))
	}
	if p.cache != nil {
		if err := p.cache.Set(ctx, dashboardCacheKey, dashboard, p.cacheTTL); err != nil {
			p.l.Warn("dashboard cache set failed", applogger.Error(err))
		}
	}
	p.stageDone("dashboard", stage)

	if p.metrics != nil {
		status := "ok"
		if len(degraded) > 0 {
			status = "degraded"
		}
		p.metrics.RecordCycle(status)
		p.metrics.RecordBusyness(float64(snap.Busyness))
	}

	return &CycleResult{
		Snapshot:     snap,
		Dashboard:    dashboard,
		Forecast:     points,
		Anomalies:    events,
		ModelTrained: trained,
	}, errors.Join(degraded...)
}

// loadUsableModel returns the persisted model when it is fresh enough
// to trust; otherwise nil, which selects the heuristic forecast.
func (p *Pipeline) loadUsableModel(ctx context.Context, now time.Time) *models.ForecastModel {
	model, err := p.modelStore.Load(ctx)
	if err != nil {
		p.l.Warn("model load failed, using heuristic forecast", applogger.Error(err))
		return nil
	}
	if model == nil {
		return nil
	}
	if now.Sub(model.TrainedAt) > modelStaleAfter {
		p.l.Info("persisted model is stale, using heuristic forecast",
			applogger.Any("trained_at", model.TrainedAt),
		)
		return nil
	}
	return model
}

func (p *Pipeline) stageDone(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordStageLatency(stage, time.Since(start).Seconds())
	}
}
