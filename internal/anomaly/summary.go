package anomaly

import (
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// Summarize aggregates the bounded anomaly log into the report
// artifact. An empty log yields a zero summary, not nil.
func Summarize(log []models.AnomalyEvent, now time.Time) *models.AnomalySummary {
	summary := &models.AnomalySummary{
		GeneratedAt:    now.UTC(),
		TotalAnomalies: len(log),
		ByType:         map[string]int{},
		BySeverity:     map[string]int{},
		ByPersistence:  map[string]int{},
		PeakHours:      map[int]int{},
		TopDrivers:     map[string]int{},
	}
	if len(log) == 0 {
		return summary
	}

	stats := &models.ConfidenceStats{Min: log[0].Confidence, Max: log[0].Confidence}
	for _, e := range log {
		summary.ByType[string(e.Type)]++
		summary.BySeverity[string(e.Severity)]++
		summary.ByPersistence[string(e.Persistence)]++
		summary.PeakHours[e.Timestamp.UTC().Hour()]++
		for _, d := range e.Drivers {
			summary.TopDrivers[d]++
		}

		stats.Avg += e.Confidence
		if e.Confidence < stats.Min {
			stats.Min = e.Confidence
		}
		if e.Confidence > stats.Max {
			stats.Max = e.Confidence
		}
	}
	stats.Avg /= float64(len(log))
	summary.ConfidenceStats = stats
	return summary
}
