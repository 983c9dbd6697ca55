package score

import (
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// Impact cut points per normalized signal.
const (
	weatherHighCut   = 0.75
	weatherMediumCut = 0.45

	transportHighCut   = 0.65
	transportMediumCut = 0.30

	eventsHighCut   = 0.55
	eventsMediumCut = 0.25
)

// Impacts labels each component independently by thresholding its
// normalized signal. A nil comfort score takes the neutral default.
func Impacts(sig models.SignalRecord) models.ImpactSet {
	comfort := models.NeutralComfort
	if sig.Weather.ComfortScore != nil {
		comfort = *sig.Weather.ComfortScore
	}
	return models.ImpactSet{
		Weather:   impactLevel(comfort, weatherHighCut, weatherMediumCut),
		Transport: impactLevel(sig.Transport.StressNorm, transportHighCut, transportMediumCut),
		Events:    impactLevel(sig.Events.EventsScore, eventsHighCut, eventsMediumCut),
	}
}

func impactLevel(v, highCut, mediumCut float64) models.ImpactLevel {
	switch {
	case v >= highCut:
		return models.ImpactHigh
	case v >= mediumCut:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}
