package normalize

import (
	"fmt"
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func TestWeatherComfortBounds(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"absent", ""},
		{"garbage", `{"temperature_C": "not a number"`},
		{"wrong type", `[1,2,3]`},
		{"freezing storm", `{"temperature_C": -20, "weather_code": 211}`},
		{"heatwave", `{"temperature_C": 45, "weather_code": 800}`},
		{"mild rain", `{"temperature_C": 18, "weather_code": 501}`},
		{"condition string", `{"temperature_C": 18, "condition": "Snow"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Weather([]byte(tc.raw))
			if w.ComfortScore == nil {
				return
			}
			if *w.ComfortScore < 0 || *w.ComfortScore > 1 {
				t.Fatalf("comfort %f out of range", *w.ComfortScore)
			}
		})
	}
}

func TestWeatherMissingTemperature(t *testing.T) {
	w := Weather([]byte(`{"windspeed_kmh": 20, "weather_code": 500}`))
	if w.ComfortScore != nil {
		t.Fatalf("expected nil comfort without temperature, got %f", *w.ComfortScore)
	}
	if w.WindspeedKmh == nil || *w.WindspeedKmh != 20 {
		t.Fatalf("expected windspeed 20")
	}
}

func TestWeatherPeakComfort(t *testing.T) {
	w := Weather([]byte(`{"temperature_C": 18, "weather_code": 800}`))
	if w.ComfortScore == nil || *w.ComfortScore != 1.0 {
		t.Fatalf("expected comfort 1.0 at 18C clear, got %v", w.ComfortScore)
	}
}

func TestTransportListShape(t *testing.T) {
	raw := `[
		{"name": "Victoria", "mode": "tube", "status": "Good Service"},
		{"name": "Northern", "mode": "tube", "status": "Severe Delays"},
		{"name": "Circle", "mode": "tube", "status": "Suspended"},
		{"name": "Mystery", "mode": "tube", "status": "Leaves On Line"}
	]`
	tr := Transport([]byte(raw))
	if tr.LineCount != 4 {
		t.Fatalf("expected 4 lines, got %d", tr.LineCount)
	}
	want := (0.0 + 40 + 70 + 15) / 4
	if tr.StressRaw != want {
		t.Fatalf("expected stress %f, got %f", want, tr.StressRaw)
	}
	if tr.DisruptedLineCount != 2 {
		t.Fatalf("expected 2 disrupted lines, got %d", tr.DisruptedLineCount)
	}
	if tr.StressNorm < 0 || tr.StressNorm > 1 {
		t.Fatalf("stress norm %f out of range", tr.StressNorm)
	}
}

func TestTransportMapShape(t *testing.T) {
	raw := `{"Victoria": {"mode": "tube", "status": "Minor Delays"}, "Northern": {"mode": "tube", "status": "Good Service"}}`
	tr := Transport([]byte(raw))
	if tr.LineCount != 2 {
		t.Fatalf("expected 2 lines, got %d", tr.LineCount)
	}
	if tr.StressRaw != 7.5 {
		t.Fatalf("expected stress 7.5, got %f", tr.StressRaw)
	}
}

func TestTransportWrappedShape(t *testing.T) {
	raw := `{"status": [{"name": "DLR", "mode": "dlr", "status": "Part Closure"}]}`
	tr := Transport([]byte(raw))
	if tr.LineCount != 1 || tr.StressRaw != 55 {
		t.Fatalf("unexpected wrapped parse: %+v", tr)
	}
}

func TestTransportAbsentUsesNeutralDefault(t *testing.T) {
	for _, raw := range []string{"", "null", `"nope"`, `{"lines": []}`} {
		tr := Transport([]byte(raw))
		if tr.StressNorm != 0.2 {
			t.Fatalf("raw %q: expected neutral stress norm 0.2, got %f", raw, tr.StressNorm)
		}
		if tr.StressRaw != 0 || tr.DisruptedLineCount != 0 {
			t.Fatalf("raw %q: expected zero stress and no disrupted lines", raw)
		}
	}
}

func TestTransportDisruptedNeverExceedsLineCount(t *testing.T) {
	raw := `[{"status": "Suspended"}, {"status": "Service Closed"}, {"status": "Severe Delays"}]`
	tr := Transport([]byte(raw))
	if tr.DisruptedLineCount > tr.LineCount {
		t.Fatalf("disrupted %d exceeds line count %d", tr.DisruptedLineCount, tr.LineCount)
	}
}

func TestEventsScoreAndCounts(t *testing.T) {
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	raw := fmt.Sprintf(`[
		{"name": "Summer Festival", "start": "%s"},
		{"name": "Poetry Evening", "start": "2025-06-14T19:30:00Z"},
		{"name": "Morning Markets", "start": "2025-06-14T09:00:00"},
		{"name": "Acoustic Live", "start": "2025-06-20T20:00:00Z"},
		{"name": "Broken Entry", "start": "whenever"},
		"not an object"
	]`, "2025-06-14T18:00:00Z")
	e := Events([]byte(raw), now)
	if e.TotalToday != 3 {
		t.Fatalf("expected 3 events today, got %d", e.TotalToday)
	}
	if e.Evening != 2 {
		t.Fatalf("expected 2 evening events, got %d", e.Evening)
	}
	if e.Large != 1 {
		t.Fatalf("expected 1 large event, got %d", e.Large)
	}
	want := 0.08*3 + 0.18*1
	if diff := e.EventsScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected score %f, got %f", want, e.EventsScore)
	}
}

func TestEventsAbsent(t *testing.T) {
	e := Events(nil, time.Now())
	if e.EventsScore != 0 || e.TotalToday != 0 {
		t.Fatalf("expected zeroed events signal, got %+v", e)
	}
}

func TestClassifyEventSize(t *testing.T) {
	cases := map[string]string{
		"Arena Rock Night":         "large",
		"Sold Out: Comedy Gala":    "large",
		"The Returning World Tour": "medium",
		"Board Games Meetup":       "small",
	}
	for name, want := range cases {
		if got := classifyEventSize(name); got != want {
			t.Fatalf("%q: expected %s, got %s", name, want, got)
		}
	}
}

func TestVenuesTolerantShapes(t *testing.T) {
	raw := `[
		{"name": "Morty & Bob's", "rating": 4.6, "types": ["cafe", "restaurant"], "lat": 51.53, "lng": -0.12},
		{"name": "Corner Shop", "type": "convenience_store", "rating": 4.1},
		{"rating": 5.0},
		42
	]`
	vs := Venues([]byte(raw))
	if len(vs) != 2 {
		t.Fatalf("expected 2 venues, got %d", len(vs))
	}
	if vs[0].Rating != 4.6 || len(vs[0].Types) != 2 {
		t.Fatalf("unexpected first venue %+v", vs[0])
	}
	if len(vs[1].Types) != 1 || vs[1].Types[0] != "convenience_store" {
		t.Fatalf("expected singular type folded into Types, got %+v", vs[1])
	}
}

func TestRecordNeverPanicsOnGarbage(t *testing.T) {
	garbage := [][]byte{nil, []byte("{"), []byte("[[["), []byte(`"str"`), []byte("123")}
	now := time.Now()
	for _, g := range garbage {
		rec := Record(RawSnapshots{Weather: g, Transit: g, Events: g, Venues: g}, now)
		if rec.Transport.StressNorm < 0 || rec.Transport.StressNorm > 1 {
			t.Fatalf("stress norm out of range for garbage input")
		}
		if rec.Events.EventsScore < 0 || rec.Events.EventsScore > 1 {
			t.Fatalf("events score out of range for garbage input")
		}
	}
}

func TestComfortScoreValue(t *testing.T) {
	// 9C in rain: temp score 0.5 minus 0.30 penalty.
	got := ComfortScore(f64(9), 500)
	if got == nil {
		t.Fatalf("expected score")
	}
	if diff := *got - 0.2; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected 0.2, got %f", *got)
	}
}
