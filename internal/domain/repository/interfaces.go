package repository

import (
	"context"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// HistoryStore is the append-only bounded series of ScoreSnapshots.
// Load returns the full bounded series, oldest first; an empty series
// when no prior state exists, never an error for a missing store.
type HistoryStore interface {
	Load(ctx context.Context) ([]models.ScoreSnapshot, error)
	Append(ctx context.Context, snap models.ScoreSnapshot) error
}

// AnomalyLog is the bounded append-only log of anomaly events.
type AnomalyLog interface {
	Load(ctx context.Context) ([]models.AnomalyEvent, error)
	Append(ctx context.Context, events []models.AnomalyEvent) error
}

// ModelStore persists the forecast model between cycles.
// Load returns (nil, nil) when no model has been trained yet.
type ModelStore interface {
	Load(ctx context.Context) (*models.ForecastModel, error)
	Save(ctx context.Context, m *models.ForecastModel) error
}

// ArtifactWriter writes the derived outputs consumed by collaborators
// (dashboard renderer, CLI, report generator).
type ArtifactWriter interface {
	WriteDashboard(ctx context.Context, snap *models.DashboardSnapshot) error
	WriteForecast(ctx context.Context, points []models.ForecastPoint) error
	WriteAnomalySummary(ctx context.Context, summary *models.AnomalySummary) error
}

// Publisher emits the cycle's anomaly events to an external broker.
// Optional; a nil publisher means the step is skipped.
type Publisher interface {
	PublishAnomalies(ctx context.Context, events []models.AnomalyEvent) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordCycle(status string)
	RecordBusyness(score float64)
	RecordAnomaly(kind, severity string)
	RecordStageLatency(stage string, seconds float64)
}
