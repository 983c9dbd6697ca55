package models

import (
	"encoding/json"
	"time"
)

// ImpactLevel labels how strongly one signal category contributes.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "Low"
	ImpactMedium ImpactLevel = "Medium"
	ImpactHigh   ImpactLevel = "High"
)

// ImpactSet holds the per-component impact labels of a snapshot.
type ImpactSet struct {
	Weather   ImpactLevel `json:"weather_impact"`
	Transport ImpactLevel `json:"transport_impact"`
	Events    ImpactLevel `json:"events_impact"`
}

// ScoreSnapshot is the persisted, append-only record of one pipeline cycle.
// Besides the score itself it carries the signal values the forecaster
// trains on. Busyness is -1 on legacy rows that predate the scorer; the
// trainer synthesizes a target for those.
type ScoreSnapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	Busyness        int       `json:"busyness"`
	Drivers         []string  `json:"drivers"`
	Components      ImpactSet `json:"components"`
	HolidayPhase    string    `json:"holiday_phase"`
	TemperatureC    *float64  `json:"temperature_C,omitempty"`
	WindspeedKmh    *float64  `json:"windspeed_kmh,omitempty"`
	TransportStress float64   `json:"transport_stress"`
	EventsCount     int       `json:"events_count"`
}

// UnmarshalJSON maps rows without a busyness field to the -1 sentinel
// instead of a plausible-looking score of zero.
func (s *ScoreSnapshot) UnmarshalJSON(data []byte) error {
	type alias ScoreSnapshot
	aux := struct {
		Busyness *int `json:"busyness"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Busyness == nil {
		s.Busyness = -1
	} else {
		s.Busyness = *aux.Busyness
	}
	return nil
}

// BusynessLevel maps a score to the human label shown on the dashboard.
func BusynessLevel(score int) string {
	switch {
	case score >= 80:
		return "Very Busy"
	case score >= 65:
		return "Busy"
	case score >= 45:
		return "Moderate"
	case score >= 25:
		return "Quiet"
	default:
		return "Very Quiet"
	}
}
