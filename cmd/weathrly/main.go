/*
Package main runs weathrly: a city search with autocomplete in front of a
current-weather lookup.

# Usage

Serve the weather proxy and the JSON city search over HTTP (default):

	weathrly -addr :8080

Run the full-screen terminal app, fetching through a running proxy:

	weathrly -tui -proxy http://localhost:8080

Drive the search control line by line for debugging:

	weathrly -c -d

Serve msgpack IPC on stdin/stdout for an editor or another UI process:

	weathrly -ipc

Without -proxy, the terminal modes and IPC call OpenWeatherMap directly and
need OPENWEATHER_API_KEY.

# Configuration

Runtime configuration is read from a TOML file, created with defaults on first
run:

	[server]
	addr = ":8080"
	max_limit = 7
	max_prefix = 60
	timeout_sec = 10

	[weather]
	base_url = "https://api.openweathermap.org"
	timeout_sec = 10
	proxy_url = ""

	[catalog]
	path = ""

	[cli]
	default_city = "cape town"
	show_popular = true

OPENWEATHER_API_KEY and OPENWEATHER_API_BASE_URL override the file. An empty
catalog path uses the bundled city list.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/weathrly/internal/cli"
	"github.com/bastiangx/weathrly/internal/logger"
	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/config"
	"github.com/bastiangx/weathrly/pkg/server"
	"github.com/bastiangx/weathrly/pkg/weather"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "weathrly"
	gh      = "https://github.com/bastiangx/weathrly"
)

// sigContext returns a context cancelled on SIGINT or SIGTERM.
func sigContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// main resolves config and the catalog, then hands off to one mode.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	jsonLogs := flag.Bool("json", false, "Log as JSON")
	configPath := flag.String("config", "", "Path to the TOML config file")
	citiesPath := flag.String("cities", "", "Path to a JSON city list (default: bundled list)")
	addr := flag.String("addr", "", "HTTP listen address (default from config)")
	proxyURL := flag.String("proxy", "", "Fetch weather through this weathrly server instead of the provider")
	ipcMode := flag.Bool("ipc", false, "Serve msgpack IPC on stdin/stdout")
	cliMode := flag.Bool("c", false, "Run the line-mode CLI -- useful for testing and debugging")
	tuiMode := flag.Bool("tui", false, "Run the full-screen terminal app")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(os.Stderr, *debugMode, *jsonLogs)

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	cfg, usedPath := config.LoadConfigWithPriority(*configPath, pathResolver)
	if usedPath != "" {
		log.Debugf("Using config file: (%s)", usedPath)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *proxyURL != "" {
		cfg.Weather.ProxyURL = *proxyURL
	}
	if *citiesPath != "" {
		cfg.Catalog.Path = *citiesPath
	}

	cat, err := openCatalog(pathResolver, cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load city catalog: %v", err)
	}
	log.Debugf("Catalog ready: %d cities", cat.Len())

	ctx, stop := sigContext()
	defer stop()

	switch {
	case *cliMode:
		h := cli.NewInputHandler(cat, newFetcher(cfg), cfg.Weather.Timeout(), os.Stdin, os.Stdout)
		if err := untilDone(ctx, func() error { return h.Start(ctx) }); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *tuiMode:
		// the alt screen owns the terminal; keep logs out of it unless debugging
		if !*debugMode {
			log.SetLevel(log.FatalLevel)
		}
		m := cli.NewModel(cat, newFetcher(cfg), cfg.Weather.Timeout(), cfg.CLI.DefaultCity)
		m.SetPopularOnFocus(cfg.CLI.ShowPopular)
		if err := cli.RunTerminal(ctx, m); err != nil {
			fmt.Fprintf(os.Stderr, "terminal error: %v\n", err)
			os.Exit(1)
		}

	case *ipcMode:
		log.Debug("spawning IPC")
		srv := server.NewServer(cat, newFetcher(cfg), cfg)
		if err := untilDone(ctx, func() error { return srv.Start(ctx) }); err != nil {
			log.Fatalf("IPC server error: %v", err)
		}

	default:
		client := weather.NewClient(weather.Settings{
			APIKey:  cfg.Weather.APIKey,
			BaseURL: cfg.Weather.BaseURL,
			Timeout: cfg.Weather.Timeout(),
		})
		if !client.Configured() {
			log.Warnf("%s is not set; /api/weather will answer 500", config.EnvAPIKey)
		}
		showStartupInfo(cfg, cat)
		srv := server.NewHTTPServer(cat, client, cfg)
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}
}

// untilDone runs a stdin-driven loop and returns early on a signal, since a
// blocked read never observes ctx.
func untilDone(ctx context.Context, run func() error) error {
	errCh := make(chan error, 1)
	go func() { errCh <- run() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		return nil
	}
}

// openCatalog loads a custom city list when one is set, else the bundled one.
func openCatalog(resolver *utils.PathResolver, path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	resolved, err := resolver.FindDataFile(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using city list at: %s", resolved)
	return catalog.Open(resolved)
}

// newFetcher prefers the proxy so the provider key can stay on the server.
// It returns nil when neither a proxy nor a key is configured.
func newFetcher(cfg *config.Config) weather.Fetcher {
	if cfg.Weather.ProxyURL != "" {
		log.Debugf("Fetching weather through %s", cfg.Weather.ProxyURL)
		return weather.NewProxyClient(cfg.Weather.ProxyURL, cfg.Weather.Timeout())
	}
	client := weather.NewClient(weather.Settings{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: cfg.Weather.Timeout(),
	})
	if !client.Configured() {
		log.Warnf("No proxy and no %s; weather lookups are disabled", config.EnvAPIKey)
		return nil
	}
	return client
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ Weathrly ] City search and current weather")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the HTTP server.
func showStartupInfo(cfg *config.Config, cat *catalog.Catalog) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("cities: %d", cat.Len())
	log.Infof("listening on ( %s )", cfg.Server.Addr)
	log.Info("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
