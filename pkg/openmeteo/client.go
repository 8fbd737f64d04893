/*
openmeteo implements an API client for the Open-Meteo geocoding and
forecast APIs, which need no API key.
https://open-meteo.com/en/docs
*/
package openmeteo

import (
	"context"
	"errors"
	"strings"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	rate "golang.org/x/time/rate"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	geocoding *client.Client
	forecast  *client.Client
	limiter   *rate.Limiter
}

// Opt sets an option on the client
type Opt func(*opts) error

type opts struct {
	geocoding string
	forecast  string
	client    []client.ClientOpt
	limiter   *rate.Limiter
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	geocodingEndPoint = "https://geocoding-api.open-meteo.com/v1"
	forecastEndPoint  = "https://api.open-meteo.com/v1"
)

const (
	endpointGeocoding = "geocoding"
	endpointForecast  = "forecast"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Open-Meteo client
func New(opt ...Opt) (*Client, error) {
	o := &opts{
		geocoding: geocodingEndPoint,
		forecast:  forecastEndPoint,
	}
	for _, fn := range opt {
		if err := fn(o); err != nil {
			return nil, err
		}
	}

	geocoding, err := client.New(append(o.client, client.OptEndpoint(o.geocoding))...)
	if err != nil {
		return nil, err
	}
	forecast, err := client.New(append(o.client, client.OptEndpoint(o.forecast))...)
	if err != nil {
		return nil, err
	}

	return &Client{
		geocoding: geocoding,
		forecast:  forecast,
		limiter:   o.limiter,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithGeocodingEndpoint overrides the geocoding API base URL
func WithGeocodingEndpoint(url string) Opt {
	return func(o *opts) error {
		if url = strings.TrimSpace(url); url == "" {
			return weatherbot.ErrBadParameter.With("empty geocoding endpoint")
		}
		o.geocoding = url
		return nil
	}
}

// WithForecastEndpoint overrides the forecast API base URL
func WithForecastEndpoint(url string) Opt {
	return func(o *opts) error {
		if url = strings.TrimSpace(url); url == "" {
			return weatherbot.ErrBadParameter.With("empty forecast endpoint")
		}
		o.forecast = url
		return nil
	}
}

// WithClientOpt passes options through to both underlying HTTP clients,
// for example client.OptTrace or client.OptTimeout
func WithClientOpt(opt ...client.ClientOpt) Opt {
	return func(o *opts) error {
		o.client = append(o.client, opt...)
		return nil
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given
// burst. Requests wait for a token rather than fail.
func WithRateLimit(rps float64, burst int) Opt {
	return func(o *opts) error {
		if rps <= 0 || burst < 1 {
			return weatherbot.ErrBadParameter.Withf("invalid rate limit %v/%d", rps, burst)
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Geocode resolves a free-text place name to its first match. Returns
// ErrLocationNotFound when the provider has no match.
func (c *Client) Geocode(ctx context.Context, name string) (*schema.Location, error) {
	var response geocodingResponse

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	// Request -> Response
	start := time.Now()
	if err := c.geocoding.DoWithContext(ctx, nil, &response, client.OptPath("search"), client.OptQuery(geocodingRequest(name))); err != nil {
		observability.ObserveWeatherAPI(endpointGeocoding, observability.StatusError, start)
		return nil, providerError(ctx, err)
	} else if response.Error {
		observability.ObserveWeatherAPI(endpointGeocoding, observability.StatusError, start)
		return nil, weatherbot.ErrProvider.With(response.Reason)
	} else if len(response.Results) == 0 {
		observability.ObserveWeatherAPI(endpointGeocoding, observability.StatusNotFound, start)
		return nil, weatherbot.ErrLocationNotFound.Withf("%q", name)
	}
	observability.ObserveWeatherAPI(endpointGeocoding, observability.StatusOK, start)

	// Return the first match
	location := response.Results[0]
	return &location, nil
}

// Current returns the current conditions at a coordinate
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	var response forecastResponse

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	// Request -> Response
	start := time.Now()
	if err := c.forecast.DoWithContext(ctx, nil, &response, client.OptPath("forecast"), client.OptQuery(forecastRequest(lat, lon))); err != nil {
		observability.ObserveWeatherAPI(endpointForecast, observability.StatusError, start)
		return nil, providerError(ctx, err)
	} else if response.Error {
		observability.ObserveWeatherAPI(endpointForecast, observability.StatusError, start)
		return nil, weatherbot.ErrProvider.With(response.Reason)
	} else if response.Current == nil {
		observability.ObserveWeatherAPI(endpointForecast, observability.StatusError, start)
		return nil, weatherbot.ErrProvider.With("response has no current conditions")
	}
	observability.ObserveWeatherAPI(endpointForecast, observability.StatusOK, start)

	// Copy units into the conditions
	conditions := *response.Current
	conditions.TemperatureUnit = response.Units.Temperature
	conditions.WindSpeedUnit = response.Units.WindSpeed
	return &conditions, nil
}

// Lookup geocodes the place and then fetches its current conditions
func (c *Client) Lookup(ctx context.Context, place string) (*schema.Weather, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, weatherbot.ErrBadParameter.With("location is required")
	}

	// Resolve the place
	location, err := c.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}

	// Fetch conditions at the resolved coordinates
	conditions, err := c.Current(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return nil, err
	}

	return &schema.Weather{
		PlaceName:       location.DisplayName(),
		Temperature:     conditions.Temperature,
		Condition:       Condition(conditions.WeatherCode),
		WindSpeed:       conditions.WindSpeed,
		WeatherCode:     conditions.WeatherCode,
		TemperatureUnit: conditions.TemperatureUnit,
		WindSpeedUnit:   conditions.WindSpeedUnit,
		Latitude:        location.Latitude,
		Longitude:       location.Longitude,
		Time:            conditions.Time,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// wait blocks until the rate limiter, if any, allows a request
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxerr := ctx.Err(); ctxerr != nil {
			return ctxerr
		}
		return weatherbot.ErrProvider.With(err)
	}
	return nil
}

// providerError returns context errors as-is and wraps anything else
func providerError(ctx context.Context, err error) error {
	if ctxerr := ctx.Err(); ctxerr != nil {
		return ctxerr
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return weatherbot.ErrProvider.With(err)
}
