package normalize

import (
	"math"
	"strings"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

const comfortPeakC = 18.0

// Weather normalizes a raw weather snapshot. Missing temperature leaves
// the comfort score nil rather than defaulted; scoring substitutes its
// own neutral value downstream.
func Weather(raw []byte) models.WeatherSignal {
	w := models.WeatherSignal{ConditionCode: -1}

	m := asMap(decodeAny(raw))
	if m == nil {
		return w
	}

	w.TemperatureC = firstFloat(m, "temperature_C", "temperature", "temp_C", "temp")
	w.WindspeedKmh = firstFloat(m, "windspeed_kmh", "windspeed", "wind_kmh", "wind")

	if code := firstFloat(m, "weather_code", "condition_code"); code != nil {
		w.ConditionCode = int(*code)
	} else if cond, ok := asString(m["condition"]); ok {
		w.ConditionCode = codeForCondition(cond)
	}

	w.ComfortScore = ComfortScore(w.TemperatureC, w.ConditionCode)
	return w
}

// ComfortScore is a rough comfort proxy in [0,1]: peak at 18C, decaying
// linearly to zero 18 degrees away, minus a condition-band penalty.
// Nil when the temperature is unknown.
func ComfortScore(tempC *float64, conditionCode int) *float64 {
	if tempC == nil || math.IsNaN(*tempC) {
		return nil
	}
	dist := math.Abs(*tempC - comfortPeakC)
	tempScore := math.Max(0, 1-dist/comfortPeakC)
	score := clamp01(tempScore - conditionPenalty(conditionCode))
	return &score
}

// conditionPenalty maps OpenWeather code bands to comfort penalties.
func conditionPenalty(code int) float64 {
	switch {
	case code >= 200 && code < 300: // thunderstorm
		return 0.35
	case code >= 300 && code < 400: // drizzle
		return 0.18
	case code >= 500 && code < 600: // rain
		return 0.30
	case code >= 600 && code < 700: // snow
		return 0.40
	case code >= 700 && code < 800: // mist/haze
		return 0.10
	default:
		return 0
	}
}

// codeForCondition maps the condition strings some feeds send instead
// of numeric codes to a representative code in the same band.
func codeForCondition(cond string) int {
	switch strings.ToLower(strings.TrimSpace(cond)) {
	case "thunderstorm":
		return 210
	case "drizzle":
		return 300
	case "rain":
		return 500
	case "snow":
		return 600
	case "mist", "fog", "haze", "smoke":
		return 701
	case "clear":
		return 800
	case "clouds", "cloudy":
		return 801
	default:
		return -1
	}
}

// IsFairWeather reports a known, comfortable reading. Used as a
// corroborating driver by the anomaly detector.
func IsFairWeather(w models.WeatherSignal) bool {
	return w.ComfortScore != nil && *w.ComfortScore >= 0.6
}

// IsClearCondition treats an unknown code as clear, matching the
// scorer's optimistic driver wording for comfortable weather.
func IsClearCondition(code int) bool {
	return code == -1 || code == 800
}
