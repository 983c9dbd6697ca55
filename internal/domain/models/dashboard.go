package models

import "time"

// DashboardSnapshot is the collaborator-facing view of the current cycle:
// canonical signals plus the score and its explanation.
type DashboardSnapshot struct {
	Timestamp    time.Time    `json:"timestamp"`
	Signals      SignalRecord `json:"signals"`
	Busyness     int          `json:"busyness"`
	Level        string       `json:"level"`
	Drivers      []string     `json:"drivers"`
	Components   ImpactSet    `json:"components"`
	HolidayPhase string       `json:"holiday_phase"`
}
