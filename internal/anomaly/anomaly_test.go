package anomaly

import (
	"math"
	"testing"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

var detectNow = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

// flatSeries builds n hourly snapshots ending just before detectNow,
// all at the same busyness so the baseline std is zero.
func flatSeries(n, busyness int) []models.ScoreSnapshot {
	series := make([]models.ScoreSnapshot, 0, n)
	start := detectNow.Add(-time.Duration(n) * time.Hour)
	for i := 0; i < n; i++ {
		series = append(series, models.ScoreSnapshot{
			Timestamp:    start.Add(time.Duration(i) * time.Hour),
			Busyness:     busyness,
			HolidayPhase: "normal",
		})
	}
	return series
}

func withCurrent(series []models.ScoreSnapshot, busyness int) []models.ScoreSnapshot {
	return append(series, models.ScoreSnapshot{
		Timestamp:    detectNow,
		Busyness:     busyness,
		HolidayPhase: "normal",
	})
}

func eventsOf(kind models.AnomalyType, events []models.AnomalyEvent) []models.AnomalyEvent {
	var out []models.AnomalyEvent
	for _, e := range events {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestDetectUnexpectedPeakHighSeverity(t *testing.T) {
	// Flat baseline at 40 with std 0; zscore divisor floors at 1, so
	// busyness 80 gives z=40, far past the severe threshold.
	series := withCurrent(flatSeries(200, 40), 80)
	events := Detect(series, models.SignalRecord{}, nil)

	peaks := eventsOf(models.AnomalyUnexpectedPeak, events)
	if len(peaks) != 1 {
		t.Fatalf("expected one unexpected_peak, got %v", events)
	}
	if peaks[0].Severity != models.SeverityHigh {
		t.Fatalf("expected high severity, got %s", peaks[0].Severity)
	}
	if peaks[0].Persistence != models.PersistenceTransient {
		t.Fatalf("expected transient with empty log, got %s", peaks[0].Persistence)
	}
	if peaks[0].Confidence < 0.40 || peaks[0].Confidence > 0.95 {
		t.Fatalf("confidence %f outside clamp", peaks[0].Confidence)
	}
}

func TestDetectNothingOnBaselineScore(t *testing.T) {
	series := withCurrent(flatSeries(200, 40), 41)
	if events := Detect(series, models.SignalRecord{}, nil); len(events) != 0 {
		t.Fatalf("expected no anomalies near baseline, got %v", events)
	}
}

func TestDetectSuppressedDemand(t *testing.T) {
	series := withCurrent(flatSeries(200, 60), 20)
	events := Detect(series, models.SignalRecord{}, nil)

	lows := eventsOf(models.AnomalySuppressedDemand, events)
	if len(lows) != 1 {
		t.Fatalf("expected one suppressed_demand, got %v", events)
	}
	if lows[0].Severity != models.SeverityHigh {
		t.Fatalf("expected high severity at z<=-3, got %s", lows[0].Severity)
	}
	// No agreements, one penalty: base 0.56 - 0.10.
	if math.Abs(lows[0].Confidence-0.46) > 1e-9 {
		t.Fatalf("expected confidence 0.46, got %f", lows[0].Confidence)
	}
}

func TestDetectProlongedPeak(t *testing.T) {
	// Baseline from all but the run; last three readings sit above
	// mean+std+1 without tripping the volatility range.
	series := flatSeries(100, 40)
	for i := len(series) - 2; i < len(series); i++ {
		series[i].Busyness = 55
	}
	series = withCurrent(series, 55)

	events := Detect(series, models.SignalRecord{}, nil)
	long := eventsOf(models.AnomalyProlongedPeak, events)
	if len(long) != 1 {
		t.Fatalf("expected prolonged_peak, got %v", events)
	}
	if long[0].Severity != models.SeverityMedium {
		t.Fatalf("expected medium severity, got %s", long[0].Severity)
	}
}

func TestDetectVolatileDemand(t *testing.T) {
	series := flatSeries(100, 40)
	series[len(series)-3].Busyness = 62
	series[len(series)-2].Busyness = 38
	series[len(series)-1].Busyness = 58
	series = withCurrent(series, 40)

	events := Detect(series, models.SignalRecord{}, nil)
	vol := eventsOf(models.AnomalyVolatileDemand, events)
	if len(vol) != 1 {
		t.Fatalf("expected volatile_demand, got %v", events)
	}
	if vol[0].Severity != models.SeverityLow {
		t.Fatalf("expected low severity, got %s", vol[0].Severity)
	}
}

func TestDetectConfidenceAgreementCredit(t *testing.T) {
	sig := models.SignalRecord{}
	sig.Transport.StressRaw = 24
	sig.Events.TotalToday = 3
	comfort := 0.8
	sig.Weather.ComfortScore = &comfort

	series := withCurrent(flatSeries(200, 40), 80)
	peaks := eventsOf(models.AnomalyUnexpectedPeak, Detect(series, sig, nil))
	if len(peaks) != 1 {
		t.Fatalf("expected one peak, got %v", peaks)
	}
	// Three agreements, no penalties: 0.58 + 3*0.08.
	if math.Abs(peaks[0].Confidence-0.82) > 1e-9 {
		t.Fatalf("expected confidence 0.82, got %f", peaks[0].Confidence)
	}
	if len(peaks[0].Drivers) != 3 {
		t.Fatalf("expected three drivers, got %v", peaks[0].Drivers)
	}
}

func TestPersistenceLabels(t *testing.T) {
	logOf := func(kinds ...models.AnomalyType) []models.AnomalyEvent {
		out := make([]models.AnomalyEvent, len(kinds))
		for i, k := range kinds {
			out[i] = models.AnomalyEvent{Type: k}
		}
		return out
	}
	peak := models.AnomalyUnexpectedPeak
	other := models.AnomalyVolatileDemand

	if got := persistenceLabel(peak, nil); got != models.PersistenceTransient {
		t.Fatalf("empty log: got %s", got)
	}
	if got := persistenceLabel(peak, logOf(peak, other)); got != models.PersistenceTransient {
		t.Fatalf("one match: got %s", got)
	}
	if got := persistenceLabel(peak, logOf(peak, other, peak)); got != models.PersistenceEmerging {
		t.Fatalf("two matches: got %s", got)
	}
	if got := persistenceLabel(peak, logOf(peak, peak, peak, peak, other)); got != models.PersistenceEstablished {
		t.Fatalf("four matches: got %s", got)
	}
	// Only the trailing window counts.
	stale := logOf(peak, peak, peak, peak, other, other, other, other, other, other)
	if got := persistenceLabel(peak, stale); got != models.PersistenceTransient {
		t.Fatalf("matches outside window: got %s", got)
	}
}

func TestBaselinePrefersMatchingHour(t *testing.T) {
	// 20 days of history: 14:00 always scores 70, every other hour 30.
	var series []models.ScoreSnapshot
	start := detectNow.Add(-20 * 24 * time.Hour)
	for i := 0; i < 20*24; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		busyness := 30
		if ts.Hour() == 14 {
			busyness = 70
		}
		series = append(series, models.ScoreSnapshot{Timestamp: ts, Busyness: busyness})
	}

	b := BaselineFor(series, 14)
	if !b.HourMatched {
		t.Fatal("expected hour-matched baseline")
	}
	if b.Mean != 70 {
		t.Fatalf("expected mean 70 for 14:00, got %f", b.Mean)
	}
}

func TestBaselineFallsBackToRecentWindow(t *testing.T) {
	series := flatSeries(40, 50) // hourly run covers each hour only a couple of times
	b := BaselineFor(series, 3)
	if b.HourMatched {
		t.Fatal("expected flat fallback with too few hour matches")
	}
	if b.Mean != 50 {
		t.Fatalf("expected fallback mean 50, got %f", b.Mean)
	}
}

func TestBaselineSkipsLegacyRows(t *testing.T) {
	series := flatSeries(200, 40)
	for i := 0; i < 50; i++ {
		series[i].Busyness = -1
	}
	b := BaselineFor(series, 14)
	if b.Mean != 40 {
		t.Fatalf("expected legacy rows skipped, mean 40, got %f", b.Mean)
	}
}

func TestSummarizeAggregates(t *testing.T) {
	log := []models.AnomalyEvent{
		{Timestamp: detectNow, Type: models.AnomalyUnexpectedPeak, Severity: models.SeverityHigh, Confidence: 0.9, Persistence: models.PersistenceEmerging, Drivers: []string{"fair weather"}},
		{Timestamp: detectNow.Add(time.Hour), Type: models.AnomalyUnexpectedPeak, Severity: models.SeverityMedium, Confidence: 0.6, Persistence: models.PersistenceTransient, Drivers: []string{"fair weather", "elevated transport stress"}},
		{Timestamp: detectNow.Add(2 * time.Hour), Type: models.AnomalyVolatileDemand, Severity: models.SeverityLow, Confidence: 0.45, Persistence: models.PersistenceTransient},
	}
	s := Summarize(log, detectNow)
	if s.TotalAnomalies != 3 {
		t.Fatalf("expected 3 anomalies, got %d", s.TotalAnomalies)
	}
	if s.ByType["unexpected_peak"] != 2 || s.ByType["volatile_demand"] != 1 {
		t.Fatalf("unexpected type counts %v", s.ByType)
	}
	if s.TopDrivers["fair weather"] != 2 {
		t.Fatalf("unexpected driver counts %v", s.TopDrivers)
	}
	if s.ConfidenceStats == nil || s.ConfidenceStats.Min != 0.45 || s.ConfidenceStats.Max != 0.9 {
		t.Fatalf("unexpected confidence stats %+v", s.ConfidenceStats)
	}
	if math.Abs(s.ConfidenceStats.Avg-0.65) > 1e-9 {
		t.Fatalf("expected avg 0.65, got %f", s.ConfidenceStats.Avg)
	}
}

func TestSummarizeEmptyLog(t *testing.T) {
	s := Summarize(nil, detectNow)
	if s == nil || s.TotalAnomalies != 0 || s.ConfidenceStats != nil {
		t.Fatalf("unexpected empty summary %+v", s)
	}
}
