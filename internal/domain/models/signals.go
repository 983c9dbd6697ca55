package models

import "time"

// Neutral defaults substituted when a source is missing or malformed.
const (
	NeutralComfort     = 0.4
	NeutralStressNorm  = 0.2
	NeutralEventsScore = 0.0
)

// WeatherSignal is the canonical weather slice of a SignalRecord.
// ComfortScore is nil when the temperature is unknown; downstream
// consumers substitute NeutralComfort.
type WeatherSignal struct {
	TemperatureC  *float64 `json:"temperature_C"`
	WindspeedKmh  *float64 `json:"windspeed_kmh"`
	ConditionCode int      `json:"condition_code"` // OpenWeather code band; -1 when unknown
	ComfortScore  *float64 `json:"comfort_score"`
}

// TransportSignal summarizes per-line severity points into a stress score.
type TransportSignal struct {
	StressRaw          float64 `json:"stress_raw"`
	StressNorm         float64 `json:"stress_norm"`
	DisruptedLineCount int     `json:"disrupted_line_count"`
	LineCount          int     `json:"line_count"`
}

// EventsSignal summarizes today's nearby events.
type EventsSignal struct {
	TotalToday  int     `json:"total_today"`
	Evening     int     `json:"evening"`
	Large       int     `json:"large"`
	EventsScore float64 `json:"events_score"`
}

// SignalRecord is the canonical per-cycle view of all external signals.
// Recomputed every cycle, never persisted on its own.
type SignalRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Weather   WeatherSignal   `json:"weather"`
	Transport TransportSignal `json:"transport"`
	Events    EventsSignal    `json:"events"`
}

// Venue is a nearby place, used only for the lunch-signature feature.
type Venue struct {
	Name   string   `json:"name"`
	Rating float64  `json:"rating"`
	Types  []string `json:"types"`
	Lat    float64  `json:"lat"`
	Lng    float64  `json:"lng"`
}
