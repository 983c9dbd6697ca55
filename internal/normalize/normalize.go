// Package normalize converts raw per-source JSON snapshots into the
// canonical SignalRecord. Every known raw shape (dict-of-dicts,
// list-of-dicts, nested wrappers) maps to the same record; anything
// else counts as malformed and yields that field's neutral default.
// No input, however garbled, makes this package return an error.
package normalize

import (
	"encoding/json"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// RawSnapshots carries the latest raw bytes per source. A nil slice
// means the source was absent this cycle, which is normal.
type RawSnapshots struct {
	Weather []byte
	Transit []byte
	Events  []byte
	Venues  []byte
}

// Record builds the canonical SignalRecord for the current cycle.
func Record(raw RawSnapshots, now time.Time) models.SignalRecord {
	return models.SignalRecord{
		Timestamp: now.UTC().Truncate(time.Second),
		Weather:   Weather(raw.Weather),
		Transport: Transport(raw.Transit),
		Events:    Events(raw.Events, now),
	}
}

func decodeAny(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func firstFloat(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := asFloat(m[k]); ok {
			v := f
			return &v
		}
	}
	return nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
