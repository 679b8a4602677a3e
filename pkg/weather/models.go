package weather

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingCity is returned when a lookup is attempted without a city.
	ErrMissingCity = errors.New("a city must be provided")

	// ErrNotConfigured is returned when the provider key or base URL is missing.
	ErrNotConfigured = errors.New("weather provider is not configured")
)

// Response is the subset of the OpenWeatherMap current-weather payload we read.
type Response struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// Conditions is what the search host shows for a committed city.
type Conditions struct {
	DisplayName          string  `json:"displayName" msgpack:"name"`
	TemperatureCelsius   float64 `json:"temperatureCelsius" msgpack:"temp"`
	ConditionDescription string  `json:"conditionDescription" msgpack:"desc"`
	ConditionIconID      string  `json:"conditionIconId" msgpack:"icon"`
}

// Conditions flattens a provider response.
func (r *Response) Conditions() *Conditions {
	c := &Conditions{
		DisplayName:        r.Name,
		TemperatureCelsius: r.Main.Temp,
	}
	if len(r.Weather) > 0 {
		c.ConditionDescription = r.Weather[0].Description
		c.ConditionIconID = r.Weather[0].Icon
	}
	return c
}

// RoundedTemperature returns the temperature rounded half away from zero.
func (c *Conditions) RoundedTemperature() int {
	return int(math.Round(c.TemperatureCelsius))
}

// IconURL points at the provider's 2x icon for the condition.
func (c *Conditions) IconURL() string {
	if c.ConditionIconID == "" {
		return ""
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", c.ConditionIconID)
}

// APIError carries a failed lookup's HTTP status and human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather API error (HTTP %d): %s", e.Status, e.Message)
}

// providerError is the error body returned by OpenWeatherMap.
type providerError struct {
	Cod     any    `json:"cod"` // int or string depending on the endpoint
	Message string `json:"message"`
}

// proxyError is the error body returned by the proxy endpoint.
type proxyError struct {
	Error string `json:"error"`
}
