package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/weathrly/internal/logger"
	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/config"
	"github.com/bastiangx/weathrly/pkg/suggest"
	"github.com/bastiangx/weathrly/pkg/weather"
	"github.com/charmbracelet/log"
)

// HTTPServer serves the weather proxy and JSON catalog queries.
type HTTPServer struct {
	catalog *catalog.Catalog
	proxy   *weather.Proxy
	config  *config.Config
	mux     *http.ServeMux
	logger  *log.Logger
}

// CitiesResponse is the JSON body of /api/cities and /api/cities/popular.
type CitiesResponse struct {
	Title  string         `json:"title"`
	Cities []catalog.City `json:"cities"`
	Count  int            `json:"count"`
}

// NewHTTPServer builds the router. client may be unconfigured; the proxy then answers 500.
func NewHTTPServer(cat *catalog.Catalog, client *weather.Client, cfg *config.Config) *HTTPServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &HTTPServer{
		catalog: cat,
		proxy:   weather.NewProxy(client),
		config:  cfg,
		mux:     http.NewServeMux(),
		logger:  logger.New("http"),
	}
	s.routes()
	return s
}

// Router returns the handler for all routes.
func (s *HTTPServer) Router() http.Handler { return s.mux }

func (s *HTTPServer) routes() {
	s.mux.Handle("/api/weather", s.proxy)
	s.mux.HandleFunc("/api/cities", s.handleCities)
	s.mux.HandleFunc("/api/cities/popular", s.handlePopular)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// GET /api/cities?q=lis&limit=5
func (s *HTTPServer) handleCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query is required"})
		return
	}
	if len([]rune(q)) > s.config.Server.MaxPrefix {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query is too long"})
		return
	}
	if !utils.IsCityName(q) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": suggest.ValidationMessage})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cities := s.catalog.Prefix(q, clampLimit(limit, s.config.Server.MaxLimit))
	if cities == nil {
		cities = []catalog.City{}
	}
	writeJSON(w, http.StatusOK, CitiesResponse{Title: suggest.TitleSuggestions, Cities: cities, Count: len(cities)})
}

// GET /api/cities/popular
func (s *HTTPServer) handlePopular(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cities := s.catalog.Popular()
	writeJSON(w, http.StatusOK, CitiesResponse{Title: suggest.TitlePopular, Cities: cities, Count: len(cities)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	timeout := s.config.Server.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("HTTP server listening on %s", s.config.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown: signal received, closing server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Errorf("Error during shutdown: %v", err)
		return err
	}
	s.logger.Info("Shutdown complete")
	return nil
}
