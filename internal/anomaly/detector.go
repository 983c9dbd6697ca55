package anomaly

import (
	"fmt"
	"math"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/normalize"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/score"
)

const (
	peakZ   = 2.0
	severeZ = 3.0

	prolongedRun     = 3
	volatileRun      = 4
	volatileRange    = 22
	stressAgreeLevel = 16.0
	eventsAgreeLevel = 2

	peakBase       = 0.58
	suppressedBase = 0.56
	prolongedBase  = 0.62
	volatileBase   = 0.55

	agreementCredit  = 0.08
	penaltyDebit     = 0.10
	confidenceFloor  = 0.40
	confidenceCeil   = 0.95
	persistenceSpan  = 6
	establishedCount = 4
	emergingCount    = 2
)

// Detect evaluates the four anomaly rules against the history series,
// whose last element is the current cycle's snapshot. The rules are
// independent; any subset may fire in a single cycle. recentLog is the
// existing anomaly log, used only for persistence labeling.
func Detect(series []models.ScoreSnapshot, sig models.SignalRecord, recentLog []models.AnomalyEvent) []models.AnomalyEvent {
	if len(series) == 0 {
		return nil
	}
	current := series[len(series)-1]
	baseline := BaselineFor(series[:len(series)-1], current.Timestamp.UTC().Hour())
	if baseline.Samples == 0 {
		return nil
	}

	z := baseline.ZScore(current.Busyness)
	agreements, drivers := signalAgreement(current, sig)

	var events []models.AnomalyEvent
	add := func(kind models.AnomalyType, severity models.Severity, base float64, penalties int, explanation string) {
		credited := agreements - penalties
		if credited < 0 {
			credited = 0
		}
		events = append(events, models.AnomalyEvent{
			Timestamp:   current.Timestamp,
			Type:        kind,
			Severity:    severity,
			Confidence:  confidence(base, credited, penalties),
			Persistence: persistenceLabel(kind, recentLog),
			Explanation: explanation,
			Drivers:     drivers,
		})
	}

	if z >= peakZ {
		add(models.AnomalyUnexpectedPeak, zSeverity(z), peakBase, 0,
			fmt.Sprintf("busyness %d is %.1f sigma above the hourly baseline %.0f", current.Busyness, z, baseline.Mean))
	}
	if z <= -peakZ {
		// Negative anomalies carry weaker evidence than peaks, so the
		// rule is penalized rather than mirrored.
		add(models.AnomalySuppressedDemand, zSeverity(-z), suppressedBase, 1,
			fmt.Sprintf("busyness %d is %.1f sigma below the hourly baseline %.0f", current.Busyness, -z, baseline.Mean))
	}
	if prolongedPeak(series, baseline) {
		add(models.AnomalyProlongedPeak, models.SeverityMedium, prolongedBase, 0,
			fmt.Sprintf("last %d readings all above baseline %.0f plus one deviation", prolongedRun, baseline.Mean))
	}
	if spread, ok := volatileSpread(series); ok {
		add(models.AnomalyVolatileDemand, models.SeverityLow, volatileBase, 1,
			fmt.Sprintf("busyness swung %d points over the last %d readings", spread, volatileRun))
	}
	return events
}

func zSeverity(z float64) models.Severity {
	if z >= severeZ {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// signalAgreement counts how many independent signals corroborate an
// anomaly explanation, returning the matching driver strings.
func signalAgreement(current models.ScoreSnapshot, sig models.SignalRecord) (int, []string) {
	var drivers []string
	if current.HolidayPhase != score.PhaseNormal {
		drivers = append(drivers, fmt.Sprintf("holiday phase %s", current.HolidayPhase))
	}
	if sig.Transport.StressRaw >= stressAgreeLevel {
		drivers = append(drivers, "elevated transport stress")
	}
	if sig.Events.TotalToday >= eventsAgreeLevel {
		drivers = append(drivers, fmt.Sprintf("%d events today", sig.Events.TotalToday))
	}
	if normalize.IsFairWeather(sig.Weather) {
		drivers = append(drivers, "fair weather")
	}
	return len(drivers), drivers
}

func confidence(base float64, agreements, penalties int) float64 {
	c := base + agreementCredit*float64(agreements) - penaltyDebit*float64(penalties)
	return math.Min(math.Max(c, confidenceFloor), confidenceCeil)
}

func prolongedPeak(series []models.ScoreSnapshot, baseline Baseline) bool {
	if len(series) < prolongedRun {
		return false
	}
	cut := baseline.Mean + math.Max(baseline.Std, 1)
	for _, snap := range series[len(series)-prolongedRun:] {
		if float64(snap.Busyness) < cut {
			return false
		}
	}
	return true
}

func volatileSpread(series []models.ScoreSnapshot) (int, bool) {
	if len(series) < volatileRun {
		return 0, false
	}
	lo, hi := math.MaxInt32, math.MinInt32
	for _, snap := range series[len(series)-volatileRun:] {
		if snap.Busyness < lo {
			lo = snap.Busyness
		}
		if snap.Busyness > hi {
			hi = snap.Busyness
		}
	}
	return hi - lo, hi-lo >= volatileRange
}

// persistenceLabel inspects the same-typed events among the last few
// log entries, so consumers can tell one-off blips from sustained
// conditions without re-deriving it.
func persistenceLabel(kind models.AnomalyType, recentLog []models.AnomalyEvent) models.Persistence {
	if len(recentLog) > persistenceSpan {
		recentLog = recentLog[len(recentLog)-persistenceSpan:]
	}
	matches := 0
	for _, e := range recentLog {
		if e.Type == kind {
			matches++
		}
	}
	switch {
	case matches >= establishedCount:
		return models.PersistenceEstablished
	case matches >= emergingCount:
		return models.PersistenceEmerging
	default:
		return models.PersistenceTransient
	}
}
