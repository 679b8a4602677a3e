package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/weathrly/internal/logger"
	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/config"
	"github.com/bastiangx/weathrly/pkg/suggest"
	"github.com/bastiangx/weathrly/pkg/weather"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for city suggestions and weather lookups.
type Server struct {
	catalog *catalog.Catalog
	fetcher weather.Fetcher
	config  *config.Config
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	session *session
	timeout time.Duration
	logger  *log.Logger
}

// NewServer creates an IPC server on stdin/stdout.
func NewServer(cat *catalog.Catalog, fetcher weather.Fetcher, cfg *config.Config) *Server {
	return NewServerWithIO(cat, fetcher, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates an IPC server on arbitrary streams.
func NewServerWithIO(cat *catalog.Catalog, fetcher weather.Fetcher, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	timeout := cfg.Weather.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		catalog: cat,
		fetcher: fetcher,
		config:  cfg,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
		session: newSession(cat),
		timeout: timeout,
		logger:  logger.New("ipc"),
	}
}

// Start processes requests until the input ends or ctx is cancelled.
// A request that cannot be decoded ends the session, since the stream can no
// longer be trusted to be aligned on a value boundary.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting IPC server")
	defer s.session.close()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("IPC input closed")
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			s.send(ErrorResponse{Error: "invalid request", Code: 400})
			return fmt.Errorf("decode request: %w", err)
		}
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	s.logger.Debug("IPC request", "id", req.ID, "action", req.Action)

	switch req.Action {
	case ActionSuggest:
		s.handleSuggest(req)
	case ActionPopular:
		start := time.Now()
		cities := s.catalog.Popular()
		s.send(SuggestResponse{
			ID:          req.ID,
			Suggestions: cities,
			Count:       len(cities),
			TimeTaken:   time.Since(start).Microseconds(),
		})
	case ActionWeather:
		s.send(s.lookup(ctx, req.ID, req.City))
	case ActionFocus, ActionInput, ActionKey, ActionClick, ActionPointer, ActionSubmit, ActionState, ActionBounds:
		s.handleEvent(ctx, req)
	default:
		s.send(ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: 400})
	}
}

func (s *Server) handleSuggest(req Request) {
	prefix := req.Prefix
	if prefix == "" {
		s.send(ErrorResponse{ID: req.ID, Error: "missing prefix", Code: 400})
		return
	}
	if len([]rune(prefix)) > s.config.Server.MaxPrefix {
		s.send(ErrorResponse{ID: req.ID, Error: fmt.Sprintf("prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix), Code: 400})
		return
	}
	if !utils.IsCityName(prefix) {
		s.send(SuggestResponse{ID: req.ID, Suggestions: []catalog.City{}, Error: suggest.ValidationMessage})
		return
	}

	limit := clampLimit(req.Limit, s.config.Server.MaxLimit)
	start := time.Now()
	cities := s.catalog.Prefix(prefix, limit)
	if cities == nil {
		cities = []catalog.City{}
	}
	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: cities,
		Count:       len(cities),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

// clampLimit applies the default cap when limit is unset or too large.
func clampLimit(limit, maxLimit int) int {
	if maxLimit <= 0 {
		maxLimit = suggest.MaxSuggestions
	}
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}

func (s *Server) handleEvent(ctx context.Context, req Request) {
	resp := s.session.apply(req)
	if resp.Selected != "" {
		w := s.lookup(ctx, req.ID, resp.Selected)
		resp.Weather = &w
	}
	s.send(resp)
}

func (s *Server) lookup(ctx context.Context, id, city string) WeatherResponse {
	resp := WeatherResponse{ID: id}
	if s.fetcher == nil {
		resp.Error = "weather lookups are disabled"
		resp.Status = 500
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conditions, err := s.fetcher.Current(ctx, city)
	if err != nil {
		s.logger.Warnf("Weather lookup for %q failed: %v", city, err)
		resp.Error = weather.Describe(err)
		var apiErr *weather.APIError
		switch {
		case errors.As(err, &apiErr):
			resp.Status = apiErr.Status
		case errors.Is(err, weather.ErrMissingCity):
			resp.Status = 400
		default:
			resp.Status = 500
		}
		return resp
	}
	resp.Conditions = conditions
	return resp
}

// send writes one msgpack value to the client.
func (s *Server) send(v any) {
	if err := s.encoder.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}
