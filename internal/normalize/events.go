package normalize

import (
	"strings"
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/util"
)

// Venue-size keywords: names carrying these almost always mean a large
// draw; "live"/"tour" usually means mid-sized.
var largeEventKeywords = []string{
	"concert", "festival", "sold out", "arena", "o2", "headline", "premiere",
}

const (
	eveningCutHour    = 17
	eventsTodayWeight = 0.08
	largeEventWeight  = 0.18
)

// Events normalizes a raw events list: counts today's events, the
// evening subset, and large events, and derives the pressure score.
func Events(raw []byte, now time.Time) models.EventsSignal {
	var e models.EventsSignal

	items := asSlice(decodeAny(raw))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}

		name, ok := asString(m["name"])
		if !ok {
			name, _ = asString(m["title"])
		}
		if classifyEventSize(name) == "large" {
			e.Large++
		}

		start, _ := asString(m["start"])
		if start == "" {
			start, _ = asString(m["start_local"])
		}
		if start == "" {
			start, _ = asString(m["local"])
		}
		t, ok := util.ParseTime(start)
		if !ok {
			continue
		}
		if util.SameUTCDay(t, now) {
			e.TotalToday++
			if t.UTC().Hour() >= eveningCutHour {
				e.Evening++
			}
		}
	}

	e.EventsScore = clamp01(eventsTodayWeight*float64(e.TotalToday) + largeEventWeight*float64(e.Large))
	return e
}

func classifyEventSize(name string) string {
	n := strings.ToLower(name)
	for _, kw := range largeEventKeywords {
		if strings.Contains(n, kw) {
			return "large"
		}
	}
	if strings.Contains(n, "live") || strings.Contains(n, "tour") {
		return "medium"
	}
	return "small"
}
