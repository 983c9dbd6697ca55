package score

import (
	"time"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// Lunch signature window, in minutes from midnight: demand ramps from
// 11:30 to a 13:15 peak, then tapers to nothing by 15:15.
const (
	lunchRampStart  = 11*60 + 30
	lunchPeak       = 13*60 + 15
	lunchTaperEnd   = 15*60 + 15
	lunchPeakUplift = 8.0

	highRatedCutoff = 4.5
)

var foodVenueTypes = map[string]bool{
	"restaurant":    true,
	"cafe":          true,
	"bakery":        true,
	"bar":           true,
	"food":          true,
	"meal_takeaway": true,
	"meal_delivery": true,
}

// LunchUplift returns the lunch-signature score contribution: non-zero
// only when a nearby high-rated food venue exists and t falls inside
// the lunch window.
func LunchUplift(t time.Time, venues []models.Venue) float64 {
	if LunchVenue(venues) == nil {
		return 0
	}
	mins := t.UTC().Hour()*60 + t.UTC().Minute()
	switch {
	case mins >= lunchRampStart && mins < lunchPeak:
		return lunchPeakUplift * float64(mins-lunchRampStart) / float64(lunchPeak-lunchRampStart)
	case mins >= lunchPeak && mins < lunchTaperEnd:
		return lunchPeakUplift * float64(lunchTaperEnd-mins) / float64(lunchTaperEnd-lunchPeak)
	default:
		return 0
	}
}

// LunchVenue returns the best high-rated food venue, or nil.
func LunchVenue(venues []models.Venue) *models.Venue {
	var best *models.Venue
	for i := range venues {
		v := &venues[i]
		if v.Rating < highRatedCutoff || !isFoodVenue(v) {
			continue
		}
		if best == nil || v.Rating > best.Rating {
			best = v
		}
	}
	return best
}

func isFoodVenue(v *models.Venue) bool {
	for _, t := range v.Types {
		if foodVenueTypes[t] {
			return true
		}
	}
	return false
}
