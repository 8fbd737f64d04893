package schema

import (
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Location is a geocoded place
type Location struct {
	Name        string  `json:"name"`
	Admin1      string  `json:"admin1,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone,omitempty"`
}

// Weather is the result of one current-weather lookup. PlaceName is the
// canonical name of the resolved location, not the query text.
type Weather struct {
	PlaceName       string  `json:"place_name" jsonschema:"Resolved name of the place, including region and country"`
	Temperature     float64 `json:"temperature" jsonschema:"Air temperature two metres above ground"`
	Condition       string  `json:"condition" jsonschema:"Human-readable weather condition"`
	WindSpeed       float64 `json:"wind_speed" jsonschema:"Wind speed ten metres above ground"`
	WeatherCode     int     `json:"weather_code" jsonschema:"WMO weather interpretation code"`
	TemperatureUnit string  `json:"temperature_unit,omitempty" jsonschema:"Unit of temperature, for example °C"`
	WindSpeedUnit   string  `json:"wind_speed_unit,omitempty" jsonschema:"Unit of wind speed, for example km/h"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Time            string  `json:"time,omitempty" jsonschema:"Local time of the observation (ISO8601)"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DisplayName returns the name, region and country joined with commas,
// skipping empty or repeated parts (e.g. "Ubud, Bali, Indonesia")
func (l Location) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{l.Name, l.Admin1, l.Country} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(parts) > 0 && strings.EqualFold(parts[len(parts)-1], part) {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (l Location) String() string {
	return types.Stringify(l)
}

func (w Weather) String() string {
	return types.Stringify(w)
}
