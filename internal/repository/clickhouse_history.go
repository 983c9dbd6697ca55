package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	pkgch "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/clickhouse"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
)

// CHHistoryStore implements HistoryStore backed by ClickHouse, for
// deployments where several locations share one warehouse. The series
// stays bounded by querying the most recent rows rather than trimming.
type CHHistoryStore struct {
	db       *sql.DB
	location string
	limit    int
	l        *applogger.Logger
}

func NewCHHistoryStore(ch *pkgch.Client, location string, limit int) *CHHistoryStore {
	return &CHHistoryStore{db: ch.DB(), location: location, limit: limit}
}

// SetLogger injects a structured logger.
func (s *CHHistoryStore) SetLogger(l *applogger.Logger) { s.l = l }

// HistorySchema returns the idempotent DDL for the history table.
func HistorySchema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s.busyness_history (
            location         String,
            ts               DateTime,
            busyness         Int32,
            drivers          String,
            components       String,
            holiday_phase    String,
            temperature_c    Nullable(Float64),
            windspeed_kmh    Nullable(Float64),
            transport_stress Float64,
            events_count     Int32
        ) ENGINE = MergeTree()
        ORDER BY (location, ts)
        TTL ts + INTERVAL 90 DAY
    `, database),
	}
}

func (s *CHHistoryStore) Load(ctx context.Context) ([]models.ScoreSnapshot, error) {
	start := time.Now()
	const q = `
        SELECT ts, busyness, drivers, components, holiday_phase,
               temperature_c, windspeed_kmh, transport_stress, events_count
        FROM busyness_history
        WHERE location = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, s.location, s.limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse history query error",
				applogger.String("location", s.location),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	out := make([]models.ScoreSnapshot, 0, s.limit)
	for rows.Next() {
		var (
			snap       models.ScoreSnapshot
			drivers    string
			components string
		)
		if err := rows.Scan(&snap.Timestamp, &snap.Busyness, &drivers, &components,
			&snap.HolidayPhase, &snap.TemperatureC, &snap.WindspeedKmh,
			&snap.TransportStress, &snap.EventsCount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		// Tolerate rows written before these columns carried JSON.
		_ = json.Unmarshal([]byte(drivers), &snap.Drivers)
		_ = json.Unmarshal([]byte(components), &snap.Components)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}

	// Newest-first from the LIMIT query; the series contract is oldest
	// first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	if s.l != nil {
		s.l.Debug("clickhouse history loaded",
			applogger.String("location", s.location),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHHistoryStore) Append(ctx context.Context, snap models.ScoreSnapshot) error {
	drivers, err := json.Marshal(snap.Drivers)
	if err != nil {
		return fmt.Errorf("marshal drivers: %w", err)
	}
	components, err := json.Marshal(snap.Components)
	if err != nil {
		return fmt.Errorf("marshal components: %w", err)
	}

	const q = `
        INSERT INTO busyness_history
            (location, ts, busyness, drivers, components, holiday_phase,
             temperature_c, windspeed_kmh, transport_stress, events_count)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	if _, err := s.db.ExecContext(ctx, q,
		s.location, snap.Timestamp, int32(snap.Busyness), string(drivers), string(components),
		snap.HolidayPhase, snap.TemperatureC, snap.WindspeedKmh,
		snap.TransportStress, int32(snap.EventsCount)); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse history insert error",
				applogger.String("location", s.location),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
