// Package forecast trains and applies the hourly busyness forecaster:
// a small ridge regression over cyclical time features and the current
// signal levels, with a heuristic fallback when history is thin.
package forecast

import (
	"math"
	"time"
)

// Feature scaling offsets/divisors keep every feature near unit scale
// so a single ridge penalty treats them evenly.
const (
	tempOffset    = 10.0
	tempDivisor   = 10.0
	windOffset    = 10.0
	windDivisor   = 10.0
	stressDivisor = 40.0
	eventsDivisor = 10.0
)

var rushHours = map[int]bool{7: true, 8: true, 9: true, 16: true, 17: true, 18: true}

// featureOrder is persisted with the model so a stored weight vector is
// self-describing.
var featureOrder = []string{
	"bias",
	"hour_sin", "hour_cos",
	"dow_sin", "dow_cos",
	"rush",
	"temp_scaled", "wind_scaled",
	"transport_scaled", "events_scaled",
}

// IsRushHour reports whether the UTC hour falls in a commute window.
func IsRushHour(hour int) bool {
	return rushHours[hour]
}

// FeatureVector builds the regression features for time t with the
// given signal levels. Nil temperature or wind produce a zero scaled
// feature, the same as observing the offset value.
func FeatureVector(t time.Time, tempC, windKmh *float64, stress float64, events int) []float64 {
	t = t.UTC()
	hour := float64(t.Hour())
	dow := float64(t.Weekday())

	rush := 0.0
	if IsRushHour(t.Hour()) {
		rush = 1.0
	}

	return []float64{
		1.0,
		math.Sin(2 * math.Pi * hour / 24),
		math.Cos(2 * math.Pi * hour / 24),
		math.Sin(2 * math.Pi * dow / 7),
		math.Cos(2 * math.Pi * dow / 7),
		rush,
		scaled(tempC, tempOffset, tempDivisor),
		scaled(windKmh, windOffset, windDivisor),
		stress / stressDivisor,
		float64(events) / eventsDivisor,
	}
}

func scaled(v *float64, offset, divisor float64) float64 {
	if v == nil {
		return 0
	}
	return (*v - offset) / divisor
}
