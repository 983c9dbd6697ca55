package models

import "time"

// Confidence labels for forecasts, keyed to how much history backed them.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ForecastModel is the persisted ridge-regression model. It is recreated
// from scratch on every training run; an absent or stale model silently
// falls back to the heuristic forecast.
type ForecastModel struct {
	TrainedAt    time.Time `json:"trained_at"`
	SampleCount  int       `json:"n_samples"`
	Weights      []float64 `json:"weights"`
	ResidStd     float64   `json:"resid_std"`
	FeatureOrder []string  `json:"feature_order"`
}

// ForecastPoint is one hourly step of the 12-step forecast.
type ForecastPoint struct {
	Time       time.Time  `json:"time"`
	Busyness   int        `json:"busyness"`
	Low        int        `json:"low"`
	High       int        `json:"high"`
	RushHour   bool       `json:"rush_hour"`
	Confidence Confidence `json:"confidence"`
}
