package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Proxy serves GET /api/weather?city=... and hides the provider key from callers.
// Successful provider bodies are passed through verbatim.
type Proxy struct {
	client *Client
}

// NewProxy creates the handler. A client without key or base URL is accepted;
// requests then fail with 500 until the server is configured.
func NewProxy(client *Client) *Proxy {
	return &Proxy{client: client}
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, http.StatusBadRequest, "City is required")
		return
	}
	if p.client == nil || !p.client.Configured() {
		log.Error("Server configuration error: API key or base URL is missing.")
		writeError(w, http.StatusInternalServerError, "Server configuration error.")
		return
	}

	status, body, err := p.client.Raw(r.Context(), city)
	if err != nil {
		log.Errorf("Weather proxy error for %q: %v", city, err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if !json.Valid(body) {
		log.Errorf("Weather proxy error for %q: provider answered %d with a non-JSON body", city, status)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if status < 200 || status > 299 {
		writeError(w, status, providerMessage(body))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("Writing weather response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(proxyError{Error: message}); err != nil {
		log.Errorf("Encoding error response: %v", err)
	}
}

// ProxyClient fetches conditions through a Proxy endpoint.
type ProxyClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewProxyClient targets the proxy at baseURL, e.g. "http://localhost:8080".
func NewProxyClient(baseURL string, timeout time.Duration) *ProxyClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProxyClient{
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/weather",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Current asks the proxy for the city's weather.
func (c *ProxyClient) Current(ctx context.Context, city string) (*Conditions, error) {
	if city == "" {
		return nil, ErrMissingCity
	}

	u := c.endpoint + "?" + url.Values{"city": {city}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var pe proxyError
		if err := json.NewDecoder(resp.Body).Decode(&pe); err != nil || pe.Error == "" {
			pe.Error = fmt.Sprintf("Could not fetch weather for %s", city)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: pe.Error}
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return r.Conditions(), nil
}

// Describe turns a lookup error into the message shown to the user.
func Describe(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrMissingCity):
		return "A city must be provided."
	case errors.Is(err, context.DeadlineExceeded):
		return "The weather service took too long to respond."
	default:
		return "An unexpected error occurred."
	}
}
