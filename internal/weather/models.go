package weather

import (
	"time"
)

// Category represents a coarse, normalized weather category.
type Category string

const (
	// CategoryUnknown is the zero value; LastState starts here so the first
	// successful classification is always announced.
	CategoryUnknown      Category = ""
	CategoryClear        Category = "Clear"
	CategoryLightRain    Category = "Light Rain"
	CategoryModerateRain Category = "Moderate Rain"
	CategoryHeavyRain    Category = "Heavy Rain"
	CategoryThunderstorm Category = "Thunderstorm"
	CategorySnowOrHail   Category = "Snow/Hail"
	CategoryFoggyClear   Category = "Foggy/Clear"
)

// Label returns the display label for the category.
func (c Category) Label() string {
	if c == CategoryUnknown {
		return "Unknown"
	}
	return string(c)
}

// Station identifies which BOM observation feed to poll.
type Station struct {
	Product string `json:"station_product" validate:"required"`
	ID      string `json:"station_id" validate:"required"`
}

// Key returns a canonical string key for the station.
func (s Station) Key() string {
	return s.Product + "." + s.ID
}

// Observation is the subset of the latest BOM observation record we care
// about. Pointer fields are nil when the feed did not report a value.
type Observation struct {
	StationName  string    `json:"stationName"`
	ProductName  string    `json:"productName,omitempty"`
	Cloud        *string   `json:"cloud,omitempty"`
	WeatherText  *string   `json:"weather,omitempty"`
	RainTraceMm  float64   `json:"rainTraceMm"` // absent is 0
	WindSpeedKmh *float64  `json:"windSpeedKmh,omitempty"`
	AirTempC     *float64  `json:"airTempC,omitempty"`
	ObservedAt   time.Time `json:"observedAt"`
}

// DisplayName is the station name joined with the product name when known.
func (o Observation) DisplayName() string {
	if o.ProductName == "" {
		return o.StationName
	}
	return o.StationName + " - " + o.ProductName
}

// LastState is the last announced (category, station) pair.
type LastState struct {
	Category    Category `json:"category"`
	StationName string   `json:"stationName"`
}

// ChangeEvent is emitted when the category or the station changes.
// Seq increases strictly with every accepted change.
type ChangeEvent struct {
	ID           string    `json:"id"`
	Seq          uint64    `json:"seq"`
	Category     Category  `json:"category"`
	StationName  string    `json:"stationName"`
	DisplayName  string    `json:"displayName"`
	RainTraceMm  *float64  `json:"rainTraceMm,omitempty"`
	WindSpeedKmh *float64  `json:"windSpeedKmh,omitempty"`
	AirTempC     *float64  `json:"airTempC,omitempty"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
}
