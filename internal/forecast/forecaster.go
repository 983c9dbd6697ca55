package forecast

import (
	"math"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/score"
)

const (
	// Horizon is the number of hourly steps in every forecast.
	Horizon = 12

	// MinTrainSamples is the history floor below which training is
	// skipped and the heuristic baseline serves the forecast.
	MinTrainSamples  = 24
	highConfSamples  = 7 * 24
	ridgeLambda      = 0.35
	residStdFloor    = 6.0
	residStdCeil     = 18.0
	fallbackBand     = 12.0
	heuristicBase    = 48.0
	rushUplift       = 12.0
	lowConfBandPad   = 6.0
	rushBandPad      = 4.0
	syntheticBase    = 45.0
	syntheticWarm    = 10.0
	syntheticCold    = 3.0
	syntheticRush    = 6.0
	syntheticPerEvnt = 6.0
)

// Train fits a fresh model on the history series. Below
// MinTrainSamples it returns nil without error; thin history is an
// expected state, not a failure.
func Train(history []models.ScoreSnapshot, now time.Time) *models.ForecastModel {
	if len(history) < MinTrainSamples {
		return nil
	}

	X := make([][]float64, 0, len(history))
	y := make([]float64, 0, len(history))
	for _, snap := range history {
		X = append(X, FeatureVector(snap.Timestamp, snap.TemperatureC, snap.WindspeedKmh, snap.TransportStress, snap.EventsCount))
		y = append(y, trainTarget(snap))
	}

	w := SolveRidge(X, y, ridgeLambda)
	if w == nil {
		return nil
	}

	return &models.ForecastModel{
		TrainedAt:    now.UTC(),
		SampleCount:  len(history),
		Weights:      w,
		ResidStd:     residualStd(X, y, w),
		FeatureOrder: featureOrder,
	}
}

// trainTarget returns the row's busyness, synthesizing one with the
// heuristic scoring shape when the row predates score persistence.
func trainTarget(snap models.ScoreSnapshot) float64 {
	if snap.Busyness >= 0 {
		return float64(snap.Busyness)
	}
	target := syntheticBase
	if t := snap.TemperatureC; t != nil {
		if *t > 15 {
			target += syntheticWarm
		} else if *t < 6 {
			target -= syntheticCold
		}
	}
	if IsRushHour(snap.Timestamp.UTC().Hour()) {
		target += syntheticRush
	}
	target += snap.TransportStress
	target += syntheticPerEvnt * float64(snap.EventsCount)
	return clamp(target, 0, 100)
}

func residualStd(X [][]float64, y []float64, w []float64) float64 {
	residuals := make([]float64, len(y))
	var mean float64
	for i, row := range X {
		residuals[i] = y[i] - dot(row, w)
		mean += residuals[i]
	}
	mean /= float64(len(y))

	var variance float64
	for _, r := range residuals {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(y))

	return clamp(math.Sqrt(variance), residStdFloor, residStdCeil)
}

// ConfidenceFor maps the history sample count to the forecast label.
func ConfidenceFor(samples int) models.Confidence {
	switch {
	case samples >= highConfSamples:
		return models.ConfidenceHigh
	case samples >= MinTrainSamples:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Predict produces the 12-hour forecast from the trained model, or the
// heuristic baseline when model is nil. Non-time signals are held at
// their current values across the horizon.
func Predict(model *models.ForecastModel, current models.ScoreSnapshot, historySamples int, now time.Time) []models.ForecastPoint {
	confidence := ConfidenceFor(historySamples)

	band := fallbackBand
	if model != nil {
		band = model.ResidStd
	}
	if confidence == models.ConfidenceLow {
		band += lowConfBandPad
	}

	points := make([]models.ForecastPoint, 0, Horizon)
	for step := 1; step <= Horizon; step++ {
		at := now.UTC().Truncate(time.Hour).Add(time.Duration(step) * time.Hour)
		rush := IsRushHour(at.Hour())

		var raw float64
		if model != nil {
			raw = dot(FeatureVector(at, current.TemperatureC, current.WindspeedKmh, current.TransportStress, current.EventsCount), model.Weights)
		} else {
			raw = heuristicBase + current.TransportStress/2 + 3*float64(current.EventsCount)
		}
		if rush {
			raw += rushUplift
		}
		_, uplift := score.HolidayPhase(at)
		raw += uplift

		stepBand := band
		if rush {
			stepBand += rushBandPad
		}

		busyness := int(clamp(math.Round(raw), 0, 100))
		points = append(points, models.ForecastPoint{
			Time:       at,
			Busyness:   busyness,
			Low:        int(clamp(math.Round(raw-stepBand), 0, 100)),
			High:       int(clamp(math.Round(raw+stepBand), 0, 100)),
			RushHour:   rush,
			Confidence: confidence,
		})
	}
	return points
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
