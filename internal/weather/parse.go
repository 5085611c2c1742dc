package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// bomTimeLayout is the compact timestamp layout used by aifstime_utc.
const bomTimeLayout = "20060102150405"

// payload mirrors the parts of a BOM "fwo" observation product we read.
type payload struct {
	Observations *struct {
		Header []struct {
			ID          string `json:"ID"`
			Name        string `json:"name"`
			ProductName string `json:"product_name"`
		} `json:"header"`
		Data []record `json:"data"`
	} `json:"observations"`
}

type record struct {
	Name        string `json:"name"`
	WMO         text   `json:"wmo"`
	Cloud       text   `json:"cloud"`
	Weather     text   `json:"weather"`
	RainTrace   number `json:"rain_trace"`
	WindSpdKmh  number `json:"wind_spd_kmh"`
	AirTemp     number `json:"air_temp"`
	AifstimeUTC text   `json:"aifstime_utc"`
}

// number decodes a BOM numeric field. The feed mixes JSON numbers, numeric
// strings, null and "-"; anything that is not a finite number decodes as
// absent.
type number struct {
	v *float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.v = &f
	return nil
}

// text decodes a nullable field as a string; non-string scalars keep their
// raw JSON form (wmo is a number in the feed).
type text struct {
	v *string
}

func (t *text) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}
	t.v = &s
	return nil
}

func (t text) String() string {
	if t.v == nil {
		return ""
	}
	return strings.TrimSpace(*t.v)
}

// ParseObservation extracts the latest observation from a raw BOM payload.
// Only a missing observations container, header or data record is fatal;
// absent optional fields are left nil.
func ParseObservation(raw []byte) (Observation, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.Observations == nil {
		return Observation{}, fmt.Errorf("%w: missing observations", ErrMalformed)
	}
	if len(p.Observations.Header) == 0 {
		return Observation{}, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	if len(p.Observations.Data) == 0 {
		return Observation{}, fmt.Errorf("%w: empty data", ErrMalformed)
	}

	header := p.Observations.Header[0]
	data := p.Observations.Data[0]

	name := firstNonEmpty(header.Name, data.Name, data.WMO.String(), header.ID)
	if name == "" {
		return Observation{}, fmt.Errorf("%w: no station name or identifier", ErrMalformed)
	}

	obs := Observation{
		StationName:  name,
		ProductName:  strings.TrimSpace(header.ProductName),
		Cloud:        data.Cloud.v,
		WeatherText:  data.Weather.v,
		WindSpeedKmh: data.WindSpdKmh.v,
		AirTempC:     data.AirTemp.v,
		ObservedAt:   time.Now().UTC(),
	}
	if data.RainTrace.v != nil {
		obs.RainTraceMm = *data.RainTrace.v
	}
	if ts, err := time.Parse(bomTimeLayout, data.AifstimeUTC.String()); err == nil {
		obs.ObservedAt = ts.UTC()
	}

	return obs, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
