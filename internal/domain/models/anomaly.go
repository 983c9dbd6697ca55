package models

import "time"

// AnomalyType classifies a detected demand anomaly.
type AnomalyType string

const (
	AnomalyUnexpectedPeak   AnomalyType = "unexpected_peak"
	AnomalySuppressedDemand AnomalyType = "suppressed_demand"
	AnomalyProlongedPeak    AnomalyType = "prolonged_peak"
	AnomalyVolatileDemand   AnomalyType = "volatile_demand"
)

// Severity of an anomaly event.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Persistence classifies how long an anomaly type has recurred recently.
type Persistence string

const (
	PersistenceTransient   Persistence = "transient"
	PersistenceEmerging    Persistence = "emerging"
	PersistenceEstablished Persistence = "established"
)

// AnomalyEvent is one entry of the bounded append-only anomaly log.
type AnomalyEvent struct {
	Timestamp   time.Time   `json:"timestamp"`
	Type        AnomalyType `json:"type"`
	Severity    Severity    `json:"severity"`
	Confidence  float64     `json:"confidence"`
	Persistence Persistence `json:"persistence"`
	Explanation string      `json:"explanation"`
	Drivers     []string    `json:"drivers"`
}

// AnomalySummary aggregates the bounded anomaly log for collaborators.
type AnomalySummary struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	TotalAnomalies  int              `json:"total_anomalies"`
	ByType          map[string]int   `json:"by_type"`
	BySeverity      map[string]int   `json:"by_severity"`
	ByPersistence   map[string]int   `json:"by_persistence"`
	PeakHours       map[int]int      `json:"peak_hours"`
	TopDrivers      map[string]int   `json:"top_drivers"`
	ConfidenceStats *ConfidenceStats `json:"confidence_stats,omitempty"`
}

// ConfidenceStats summarizes the confidence distribution of logged anomalies.
type ConfidenceStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
