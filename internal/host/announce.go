package host

import (
	"strconv"
	"strings"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// StrongWindKmh is the wind speed above which announcements carry a warning.
const StrongWindKmh = 40.0

// FormatAnnouncement renders the user-facing message for a change event.
// Fields the feed did not report are left out.
func FormatAnnouncement(ev weather.ChangeEvent) string {
	var b strings.Builder
	b.WriteString("[BOM - ")
	b.WriteString(ev.DisplayName)
	b.WriteString("] Weather: ")
	b.WriteString(ev.Category.Label())

	if ev.AirTempC != nil {
		b.WriteString(" | Temp: ")
		b.WriteString(formatFloat(*ev.AirTempC))
		b.WriteString("°C")
	}
	if ev.WindSpeedKmh != nil {
		b.WriteString(" | Wind: ")
		b.WriteString(formatFloat(*ev.WindSpeedKmh))
		b.WriteString(" km/h")
		if *ev.WindSpeedKmh > StrongWindKmh {
			b.WriteString(" ⚠ Strong Winds!")
		}
	}
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
