package normalize

import (
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// Severity points per line status. The closed vocabulary comes from the
// TfL status feed; anything outside it takes a mild unknown penalty.
var statusPoints = map[string]float64{
	"Good Service":    0,
	"Minor Delays":    15,
	"Reduced Service": 20,
	"Special Service": 20,
	"Severe Delays":   40,
	"Part Closure":    55,
	"Planned Closure": 60,
	"Service Closed":  70,
	"Suspended":       70,
}

const (
	unknownStatusPoints = 15
	stressNormDivisor   = 60.0
	disruptedThreshold  = 40.0
)

type transitLine struct {
	Name   string
	Mode   string
	Status string
}

// Transport normalizes a raw transit snapshot: stress_raw is the mean
// severity points across lines, stress_norm its [0,1] rescale, and
// disrupted lines are those at or above the Severe Delays threshold.
// No usable lines means the neutral stress_norm default.
func Transport(raw []byte) models.TransportSignal {
	t := models.TransportSignal{StressNorm: models.NeutralStressNorm}

	lines := transitLines(decodeAny(raw))
	if len(lines) == 0 {
		return t
	}

	var sum float64
	for _, l := range lines {
		pts, ok := statusPoints[l.Status]
		if !ok {
			pts = unknownStatusPoints
		}
		sum += pts
		if pts >= disruptedThreshold {
			t.DisruptedLineCount++
		}
	}

	t.LineCount = len(lines)
	t.StressRaw = sum / float64(len(lines))
	t.StressNorm = clamp01(t.StressRaw / stressNormDivisor)
	return t
}

// transitLines accepts the raw shapes line feeds come in: a list of
// line objects, a mapping of name to line object, or either of those
// nested under a "lines", "status", or "tfl" wrapper key.
func transitLines(v any) []transitLine {
	if s := asSlice(v); s != nil {
		return linesFromSlice(s)
	}

	m := asMap(v)
	if m == nil {
		return nil
	}
	for _, key := range []string{"lines", "status", "tfl"} {
		if inner, ok := m[key]; ok {
			if s := asSlice(inner); s != nil {
				return linesFromSlice(s)
			}
			if im := asMap(inner); im != nil {
				return linesFromMap(im)
			}
		}
	}
	return linesFromMap(m)
}

func linesFromSlice(s []any) []transitLine {
	out := make([]transitLine, 0, len(s))
	for _, item := range s {
		m := asMap(item)
		if m == nil {
			continue
		}
		l := transitLine{Name: "Unknown", Mode: "unknown", Status: "Unknown"}
		if name, ok := asString(m["name"]); ok {
			l.Name = name
		}
		if mode, ok := asString(m["mode"]); ok {
			l.Mode = mode
		}
		if status, ok := asString(m["status"]); ok {
			l.Status = status
		}
		out = append(out, l)
	}
	return out
}

func linesFromMap(m map[string]any) []transitLine {
	out := make([]transitLine, 0, len(m))
	for name, item := range m {
		im := asMap(item)
		if im == nil {
			continue
		}
		l := transitLine{Name: name, Mode: "unknown", Status: "Unknown"}
		if mode, ok := asString(im["mode"]); ok {
			l.Mode = mode
		}
		if status, ok := asString(im["status"]); ok {
			l.Status = status
		}
		out = append(out, l)
	}
	return out
}
