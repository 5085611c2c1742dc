package weather

import (
	"strings"

	"github.com/i474232898/bom-weather-sync/internal/common"
)

// noDataMarker is what BOM reports in the weather field when the station
// has nothing to say.
const noDataMarker = "-"

// Rain thresholds in millimetres since 9am.
const (
	heavyRainMm    = 5.0
	moderateRainMm = 1.0
)

// Classify maps an observation onto a Category. Both the free-text weather
// field and the cloud field are searched for keywords; rain_trace drives the
// rain intensity. Rules are evaluated in order and the first match wins:
//
//  1. "thunder"                              -> Thunderstorm
//  2. rain >= 5.0                            -> Heavy Rain
//  3. rain >= 1.0 or "rain"/"shower"/"drizzle" -> Moderate Rain
//  4. rain > 0                               -> Light Rain
//  5. "snow"/"hail"                          -> Snow/Hail
//  6. "fog"/"haze"                           -> Foggy/Clear
//  7. otherwise                              -> Clear
//
// Wind and temperature are informational only. ErrNoData is returned when
// the weather field is the "-" marker.
func Classify(obs Observation) (Category, error) {
	if obs.WeatherText != nil && strings.TrimSpace(*obs.WeatherText) == noDataMarker {
		return CategoryUnknown, ErrNoData
	}

	signal := common.Deref(obs.WeatherText) + " " + common.Deref(obs.Cloud)
	rain := obs.RainTraceMm

	switch {
	case common.HasAny(signal, "thunder"):
		return CategoryThunderstorm, nil
	case rain >= heavyRainMm:
		return CategoryHeavyRain, nil
	case rain >= moderateRainMm || common.HasAny(signal, "rain", "shower", "drizzle"):
		return CategoryModerateRain, nil
	case rain > 0:
		return CategoryLightRain, nil
	case common.HasAny(signal, "snow", "hail"):
		return CategorySnowOrHail, nil
	case common.HasAny(signal, "fog", "haze"):
		return CategoryFoggyClear, nil
	default:
		return CategoryClear, nil
	}
}

// ClassifyPayload parses a raw payload and classifies it in one step.
func ClassifyPayload(raw []byte) (Observation, Category, error) {
	obs, err := ParseObservation(raw)
	if err != nil {
		return Observation{}, CategoryUnknown, err
	}
	cat, err := Classify(obs)
	if err != nil {
		return obs, CategoryUnknown, err
	}
	return obs, cat, nil
}
