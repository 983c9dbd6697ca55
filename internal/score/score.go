// Package score combines canonical signals with time-of-day and
// seasonal context into the 0-100 busyness score, with explainable
// drivers and per-component impact labels.
package score

import (
	"math"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

const (
	baseScore = 40.0

	warmUplift   = 12.0
	mildUplift   = 6.0
	coldPenalty  = 6.0
	eventsWeight = 6.0
)

// Compute produces the ScoreSnapshot for the current cycle.
func Compute(sig models.SignalRecord, venues []models.Venue, now time.Time) models.ScoreSnapshot {
	score := baseScore

	if t := sig.Weather.TemperatureC; t != nil {
		switch {
		case *t >= 18:
			score += warmUplift
		case *t >= 12:
			score += mildUplift
		case *t < 5:
			score -= coldPenalty
		}
	}

	score += sig.Transport.StressRaw
	score += eventsWeight * float64(sig.Events.TotalToday)

	phase, uplift := HolidayPhase(now)
	score += uplift
	score += LunchUplift(now, venues)

	busyness := clampInt(int(math.Round(score)), 0, 100)

	return models.ScoreSnapshot{
		Timestamp:       sig.Timestamp,
		Busyness:        busyness,
		Drivers:         Drivers(sig, venues),
		Components:      Impacts(sig),
		HolidayPhase:    phase,
		TemperatureC:    sig.Weather.TemperatureC,
		WindspeedKmh:    sig.Weather.WindspeedKmh,
		TransportStress: sig.Transport.StressRaw,
		EventsCount:     sig.Events.TotalToday,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
