/*
Package weather fetches current conditions for a city.

Two clients share the Fetcher interface: Client talks to OpenWeatherMap with
the provider key, and ProxyClient talks to this project's /api/weather
endpoint so the key never leaves the server. Proxy is that endpoint.
*/
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org"

const weatherPath = "data/2.5/weather"

// Fetcher looks up current conditions for a city.
type Fetcher interface {
	Current(ctx context.Context, city string) (*Conditions, error)
}

// Settings configures a provider client.
type Settings struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client wraps an HTTP client configured for OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client with an explicit timeout instead of http.DefaultClient.
func NewClient(s Settings) *Client {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     s.APIKey,
		baseURL:    s.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether both the key and base URL are set.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

// Raw performs the provider request and returns its status and body untouched.
func (c *Client) Raw(ctx context.Context, city string) (int, []byte, error) {
	if city == "" {
		return 0, nil, ErrMissingCity
	}
	if !c.Configured() {
		return 0, nil, ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, nil, fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath(weatherPath)

	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug("Provider responded", "city", city, "status", resp.StatusCode, "took", time.Since(start))
	return resp.StatusCode, body, nil
}

// Current requests current weather for the given city.
func (c *Client) Current(ctx context.Context, city string) (*Conditions, error) {
	status, body, err := c.Raw(ctx, city)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, &APIError{Status: status, Message: providerMessage(body)}
	}

	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return r.Conditions(), nil
}

// providerMessage extracts the provider's error message, with a generic fallback.
func providerMessage(body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err != nil || pe.Message == "" {
		return "Failed to fetch weather data"
	}
	return pe.Message
}
