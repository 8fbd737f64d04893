package openmeteo

import (
	"net/url"
	"strconv"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Conditions are the current conditions at a coordinate
type Conditions struct {
	Time            string  `json:"time"`
	Interval        int     `json:"interval"`
	Temperature     float64 `json:"temperature_2m"`
	WeatherCode     int     `json:"weather_code"`
	WindSpeed       float64 `json:"wind_speed_10m"`
	TemperatureUnit string  `json:"-"`
	WindSpeedUnit   string  `json:"-"`
}

type geocodingResponse struct {
	Results []schema.Location `json:"results"`
	Error   bool              `json:"error"`
	Reason  string            `json:"reason"`
}

type forecastResponse struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Timezone  string      `json:"timezone"`
	Units     units       `json:"current_units"`
	Current   *Conditions `json:"current"`
	Error     bool        `json:"error"`
	Reason    string      `json:"reason"`
}

type units struct {
	Temperature string `json:"temperature_2m"`
	WindSpeed   string `json:"wind_speed_10m"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Variables requested from the forecast API
const currentVariables = "temperature_2m,weather_code,wind_speed_10m"

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// geocodingRequest asks for the single best match, in English
func geocodingRequest(name string) url.Values {
	result := url.Values{}
	result.Set("name", name)
	result.Set("count", "1")
	result.Set("language", "en")
	result.Set("format", "json")
	return result
}

// forecastRequest asks for current conditions in the local timezone
func forecastRequest(lat, lon float64) url.Values {
	result := url.Values{}
	result.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	result.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	result.Set("current", currentVariables)
	result.Set("timezone", "auto")
	return result
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Conditions) String() string {
	return types.Stringify(c)
}
