// Package anomaly flags demand anomalies by comparing the current
// busyness score against an hour-of-day conditioned history baseline.
package anomaly

import (
	"math"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// Demand has a strong diurnal shape, so the baseline conditions on
// hour-of-day first and only falls back to a flat recent window when
// too few matching hours exist.
const (
	recentWindow   = 400
	minHourMatches = 8
	hourMatchCap   = 80
	flatWindow     = 120
)

// Baseline is the reference distribution the z-score compares against.
type Baseline struct {
	Mean        float64
	Std         float64
	Samples     int
	HourMatched bool
}

// BaselineFor computes the baseline for the given UTC hour from the
// history series. Legacy rows without a persisted score are ignored.
func BaselineFor(history []models.ScoreSnapshot, hour int) Baseline {
	if len(history) > recentWindow {
		history = history[len(history)-recentWindow:]
	}

	var hourly []float64
	for _, snap := range history {
		if snap.Busyness < 0 {
			continue
		}
		if snap.Timestamp.UTC().Hour() == hour {
			hourly = append(hourly, float64(snap.Busyness))
		}
	}
	if len(hourly) >= minHourMatches {
		if len(hourly) > hourMatchCap {
			hourly = hourly[len(hourly)-hourMatchCap:]
		}
		mean, std := meanStd(hourly)
		return Baseline{Mean: mean, Std: std, Samples: len(hourly), HourMatched: true}
	}

	var flat []float64
	for _, snap := range history {
		if snap.Busyness >= 0 {
			flat = append(flat, float64(snap.Busyness))
		}
	}
	if len(flat) > flatWindow {
		flat = flat[len(flat)-flatWindow:]
	}
	mean, std := meanStd(flat)
	return Baseline{Mean: mean, Std: std, Samples: len(flat)}
}

// ZScore divides by at least 1 so a flat baseline cannot explode the
// score.
func (b Baseline) ZScore(busyness int) float64 {
	return (float64(busyness) - b.Mean) / math.Max(b.Std, 1)
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
