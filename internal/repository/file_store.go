package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
)

// FileHistoryStore keeps the bounded ScoreSnapshot series in one JSON
// file, oldest first. Reads tolerate a missing or corrupt file by
// starting the series over; the pipeline must never refuse to run
// because its own previous output went bad.
type FileHistoryStore struct {
	path  string
	limit int
	l     *applogger.Logger
}

func NewFileHistoryStore(path string, limit int, l *applogger.Logger) *FileHistoryStore {
	return &FileHistoryStore{path: path, limit: limit, l: l}
}

func (s *FileHistoryStore) Load(ctx context.Context) ([]models.ScoreSnapshot, error) {
	var history []models.ScoreSnapshot
	if err := readJSON(s.path, &history); err != nil {
		if s.l != nil {
			s.l.Warn("history file unreadable, starting fresh",
				applogger.String("path", s.path),
				applogger.Error(err),
			)
		}
		return nil, nil
	}
	return history, nil
}

func (s *FileHistoryStore) Append(ctx context.Context, snap models.ScoreSnapshot) error {
	history, _ := s.Load(ctx)
	history = append(history, snap)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	if err := writeJSON(s.path, history); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// FileAnomalyLog keeps the bounded anomaly event log in one JSON file.
type FileAnomalyLog struct {
	path  string
	limit int
	l     *applogger.Logger
}

func NewFileAnomalyLog(path string, limit int, l *applogger.Logger) *FileAnomalyLog {
	return &FileAnomalyLog{path: path, limit: limit, l: l}
}

func (s *FileAnomalyLog) Load(ctx context.Context) ([]models.AnomalyEvent, error) {
	var log []models.AnomalyEvent
	if err := readJSON(s.path, &log); err != nil {
		if s.l != nil {
			s.l.Warn("anomaly log unreadable, starting fresh",
				applogger.String("path", s.path),
				applogger.Error(err),
			)
		}
		return nil, nil
	}
	return log, nil
}

func (s *FileAnomalyLog) Append(ctx context.Context, events []models.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}
	log, _ := s.Load(ctx)
	log = append(log, events...)
	if len(log) > s.limit {
		log = log[len(log)-s.limit:]
	}
	if err := writeJSON(s.path, log); err != nil {
		return fmt.Errorf("append anomalies: %w", err)
	}
	return nil
}

// FileModelStore persists the forecast model between cycles.
type FileModelStore struct {
	path string
}

func NewFileModelStore(path string) *FileModelStore {
	return &FileModelStore{path: path}
}

// Load returns (nil, nil) when no model has been trained yet.
func (s *FileModelStore) Load(ctx context.Context) (*models.ForecastModel, error) {
	var model models.ForecastModel
	if err := readJSON(s.path, &model); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load model: %w", err)
	}
	if len(model.Weights) == 0 {
		return nil, nil
	}
	return &model, nil
}

func (s *FileModelStore) Save(ctx context.Context, m *models.ForecastModel) error {
	if err := writeJSON(s.path, m); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// FileArtifactWriter writes the dashboard, forecast and anomaly-summary
// artifacts consumed by the renderer and report tooling.
type FileArtifactWriter struct {
	dashboardPath string
	forecastPath  string
	summaryPath   string
}

func NewFileArtifactWriter(dashboardPath, forecastPath, summaryPath string) *FileArtifactWriter {
	return &FileArtifactWriter{
		dashboardPath: dashboardPath,
		forecastPath:  forecastPath,
		summaryPath:   summaryPath,
	}
}

func (w *FileArtifactWriter) WriteDashboard(ctx context.Context, snap *models.DashboardSnapshot) error {
	if err := writeJSON(w.dashboardPath, snap); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	return nil
}

func (w *FileArtifactWriter) WriteForecast(ctx context.Context, points []models.ForecastPoint) error {
	if err := writeJSON(w.forecastPath, points); err != nil {
		return fmt.Errorf("write forecast: %w", err)
	}
	return nil
}

func (w *FileArtifactWriter) WriteAnomalySummary(ctx context.Context, summary *models.AnomalySummary) error {
	if err := writeJSON(w.summaryPath, summary); err != nil {
		return fmt.Errorf("write anomaly summary: %w", err)
	}
	return nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// writeJSON writes atomically via a temp file in the target directory
// so a crashed cycle never leaves a half-written artifact.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
