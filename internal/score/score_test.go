package score

import (
	"testing"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/normalize"
)

// A plain Tuesday in June, outside lunch hours and the festive season.
var quietTime = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func signalAt(now time.Time, weather, transit, events string) models.SignalRecord {
	return normalize.Record(normalize.RawSnapshots{
		Weather: []byte(weather),
		Transit: []byte(transit),
		Events:  []byte(events),
	}, now)
}

func TestComputeAllMissingYieldsBaseline(t *testing.T) {
	sig := signalAt(quietTime, "", "", "")
	snap := Compute(sig, nil, quietTime)
	if snap.Busyness != 40 {
		t.Fatalf("expected baseline 40, got %d", snap.Busyness)
	}
	if len(snap.Drivers) != 1 || snap.Drivers[0] != FallbackDriver {
		t.Fatalf("expected single fallback driver, got %v", snap.Drivers)
	}
	if snap.HolidayPhase != PhaseNormal {
		t.Fatalf("expected normal phase, got %s", snap.HolidayPhase)
	}
}

func TestComputeWarmClearDay(t *testing.T) {
	sig := signalAt(quietTime,
		`{"temperature_C": 22, "windspeed_kmh": 8, "weather_code": 800}`,
		`[{"name":"Victoria","status":"Good Service"},{"name":"Northern","status":"Good Service"}]`,
		`[]`)
	snap := Compute(sig, nil, quietTime)
	if snap.Busyness != 52 {
		t.Fatalf("expected 40+12=52, got %d", snap.Busyness)
	}
	// The temperature driver fires, so the fallback must not.
	if len(snap.Drivers) != 1 || snap.Drivers[0] != "Comfortable weather supports walk-ins" {
		t.Fatalf("unexpected drivers %v", snap.Drivers)
	}
}

func TestComputeSevereDisruptionWithEvents(t *testing.T) {
	transit := `[
		{"name":"Victoria","status":"Severe Delays"},
		{"name":"Northern","status":"Severe Delays"},
		{"name":"Circle","status":"Severe Delays"},
		{"name":"Piccadilly","status":"Severe Delays"}
	]`
	events := `[
		{"name":"Street Market","start":"2025-06-10T11:00:00Z"},
		{"name":"Book Fair","start":"2025-06-10T14:00:00Z"},
		{"name":"Quiz Night","start":"2025-06-10T19:00:00Z"}
	]`
	sig := signalAt(quietTime, "", transit, events)
	snap := Compute(sig, nil, quietTime)
	if snap.Busyness != 98 {
		t.Fatalf("expected 40+40+18=98, got %d", snap.Busyness)
	}
	if snap.Components.Transport != models.ImpactHigh {
		t.Fatalf("expected High transport impact, got %s", snap.Components.Transport)
	}
	if snap.Drivers[0] != "Multiple disrupted lines" {
		t.Fatalf("expected disruption driver first, got %v", snap.Drivers)
	}
}

func TestComputeClampsToHundred(t *testing.T) {
	transit := `[{"name":"Victoria","status":"Suspended"},{"name":"Northern","status":"Suspended"}]`
	events := `[
		{"name":"Mega Festival","start":"2025-06-10T12:00:00Z"},
		{"name":"Arena Show","start":"2025-06-10T13:00:00Z"},
		{"name":"Food Fair","start":"2025-06-10T15:00:00Z"},
		{"name":"Open Day","start":"2025-06-10T16:00:00Z"},
		{"name":"Night Run","start":"2025-06-10T18:00:00Z"}
	]`
	sig := signalAt(quietTime, `{"temperature_C": 20}`, transit, events)
	snap := Compute(sig, nil, quietTime)
	if snap.Busyness != 100 {
		t.Fatalf("expected clamp at 100, got %d", snap.Busyness)
	}
}

func TestComputeScoreAlwaysInRange(t *testing.T) {
	freezing := signalAt(quietTime, `{"temperature_C": -30, "weather_code": 602}`, "", "")
	snap := Compute(freezing, nil, quietTime)
	if snap.Busyness < 0 || snap.Busyness > 100 {
		t.Fatalf("score %d out of range", snap.Busyness)
	}
}

func TestHolidayPhases(t *testing.T) {
	cases := []struct {
		day    time.Time
		phase  string
		uplift float64
	}{
		{time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), "normal", 0},
		{time.Date(2025, 12, 5, 12, 0, 0, 0, time.UTC), "festive_buildup", 3},
		{time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC), "festive_peak", 6},
		{time.Date(2025, 12, 28, 12, 0, 0, 0, time.UTC), "twixmas", 8},
		{time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), "year_turn", 10},
		{time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC), "year_turn", 10},
		{time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC), "new_year_wind_down", 4},
		{time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC), "normal", 0},
	}
	for _, tc := range cases {
		phase, uplift := HolidayPhase(tc.day)
		if phase != tc.phase || uplift != tc.uplift {
			t.Fatalf("%s: expected (%s, %.0f), got (%s, %.0f)", tc.day, tc.phase, tc.uplift, phase, uplift)
		}
	}
}

func TestLunchUplift(t *testing.T) {
	venue := []models.Venue{{Name: "Morty & Bob's", Rating: 4.6, Types: []string{"cafe"}}}
	day := func(h, m int) time.Time {
		return time.Date(2025, 6, 10, h, m, 0, 0, time.UTC)
	}

	if got := LunchUplift(day(10, 0), venue); got != 0 {
		t.Fatalf("expected no uplift before the window, got %f", got)
	}
	if got := LunchUplift(day(13, 15), venue); got != 8 {
		t.Fatalf("expected peak uplift 8 at 13:15, got %f", got)
	}
	if got := LunchUplift(day(15, 30), venue); got != 0 {
		t.Fatalf("expected no uplift after taper, got %f", got)
	}
	ramp := LunchUplift(day(12, 0), venue)
	if ramp <= 0 || ramp >= 8 {
		t.Fatalf("expected partial ramp uplift, got %f", ramp)
	}
	taper := LunchUplift(day(14, 30), venue)
	if taper <= 0 || taper >= 8 {
		t.Fatalf("expected partial taper uplift, got %f", taper)
	}

	// No qualifying venue, no signature.
	lowRated := []models.Venue{{Name: "Grease Spot", Rating: 3.1, Types: []string{"restaurant"}}}
	if got := LunchUplift(day(13, 15), lowRated); got != 0 {
		t.Fatalf("expected no uplift without a high-rated venue, got %f", got)
	}
	if got := LunchUplift(day(13, 15), nil); got != 0 {
		t.Fatalf("expected no uplift without venues, got %f", got)
	}
}

func TestImpactsNeutralDefaults(t *testing.T) {
	sig := signalAt(quietTime, "", "", "")
	imp := Impacts(sig)
	// comfort 0.4 neutral -> Low; stress 0.2 neutral -> Low; events 0 -> Low
	if imp.Weather != models.ImpactLow || imp.Transport != models.ImpactLow || imp.Events != models.ImpactLow {
		t.Fatalf("expected all Low for missing inputs, got %+v", imp)
	}
}

func TestImpactCutPoints(t *testing.T) {
	comfort := 0.8
	sig := models.SignalRecord{
		Weather:   models.WeatherSignal{ComfortScore: &comfort},
		Transport: models.TransportSignal{StressNorm: 0.4},
		Events:    models.EventsSignal{EventsScore: 0.6},
	}
	imp := Impacts(sig)
	if imp.Weather != models.ImpactHigh {
		t.Fatalf("expected High weather impact, got %s", imp.Weather)
	}
	if imp.Transport != models.ImpactMedium {
		t.Fatalf("expected Medium transport impact, got %s", imp.Transport)
	}
	if imp.Events != models.ImpactHigh {
		t.Fatalf("expected High events impact, got %s", imp.Events)
	}
}
