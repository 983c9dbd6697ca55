package score

import (
	"fmt"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/normalize"
)

// FallbackDriver is emitted when no driver condition matches, so the
// drivers list is never empty.
const FallbackDriver = "Baseline estimate (limited signals)"

// Drivers builds the explanation list in priority order: transport
// disruption, events, temperature, venue rating. Each check contributes
// at most one entry.
func Drivers(sig models.SignalRecord, venues []models.Venue) []string {
	var drivers []string

	switch bad := sig.Transport.DisruptedLineCount; {
	case bad >= 3:
		drivers = append(drivers, "Multiple disrupted lines")
	case bad >= 1:
		drivers = append(drivers, "Some transport disruption")
	}

	switch {
	case sig.Events.Large >= 1:
		drivers = append(drivers, fmt.Sprintf("%d large event(s) nearby", sig.Events.Large))
	case sig.Events.TotalToday >= 3:
		drivers = append(drivers, fmt.Sprintf("%d events today", sig.Events.TotalToday))
	}

	if t := sig.Weather.TemperatureC; t != nil {
		if *t >= 18 && normalize.IsClearCondition(sig.Weather.ConditionCode) {
			drivers = append(drivers, "Comfortable weather supports walk-ins")
		} else if *t <= 6 {
			drivers = append(drivers, "Cold weather pushes indoor demand")
		}
	}

	if v := LunchVenue(venues); v != nil {
		drivers = append(drivers, fmt.Sprintf("%s (%.1f★) draws lunch trade", v.Name, v.Rating))
	}

	if len(drivers) == 0 {
		drivers = []string{FallbackDriver}
	}
	return drivers
}
