package score

import "time"

// PhaseNormal means no seasonal uplift applies.
const PhaseNormal = "normal"

// HolidayPhase returns the festive-season sub-phase for t and its score
// uplift. Uplifts escalate toward the year boundary and decay into
// early January.
func HolidayPhase(t time.Time) (string, float64) {
	m, d := t.UTC().Month(), t.UTC().Day()
	switch {
	case m == time.December && d <= 23:
		return "festive_buildup", 3
	case m == time.December && d >= 24 && d <= 26:
		return "festive_peak", 6
	case m == time.December && d >= 27 && d <= 30:
		return "twixmas", 8
	case (m == time.December && d == 31) || (m == time.January && d == 1):
		return "year_turn", 10
	case m == time.January && d >= 2 && d <= 6:
		return "new_year_wind_down", 4
	default:
		return PhaseNormal, 0
	}
}
