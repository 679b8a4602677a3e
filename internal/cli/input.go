// Package cli drives the city search control from a terminal, either line by line
// for debugging or as a full-screen bubbletea app.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/weathrly/internal/logger"
	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/suggest"
	"github.com/bastiangx/weathrly/pkg/weather"
	"github.com/charmbracelet/log"
)

// InputHandler reads one event per line and prints the control's state after each.
// Plain lines replace the input text; lines starting with ':' are commands.
type InputHandler struct {
	controller  *suggest.Controller
	engine      *suggest.Engine
	fetcher     weather.Fetcher
	populations map[catalog.City]int64
	out         *log.Logger
	in          io.Reader
	timeout     time.Duration
	loading     bool
	ctx         context.Context
}

// NewInputHandler wires a controller over cat. fetcher may be nil, which
// disables weather lookups on commit.
func NewInputHandler(cat *catalog.Catalog, fetcher weather.Fetcher, timeout time.Duration, in io.Reader, out io.Writer) *InputHandler {
	h := &InputHandler{
		engine:      suggest.NewEngine(cat),
		fetcher:     fetcher,
		populations: make(map[catalog.City]int64, cat.Len()),
		out:         logger.NewWithConfig(out, "", log.InfoLevel, false, false, log.TextFormatter),
		in:          in,
		timeout:     timeout,
		ctx:         context.Background(),
	}
	for i, r := range cat.Records() {
		h.populations[r.Project()] = cat.Population(i)
	}
	h.controller = suggest.NewController(h.engine, suggest.HostFuncs{
		CitySelect:  h.onCitySelect,
		InputChange: func(v string) { log.Debug("Input changed", "value", v) },
		Loading:     func() bool { return h.loading },
	})
	return h
}

// Start begins the input loop. It returns nil when the input ends.
func (h *InputHandler) Start(ctx context.Context) error {
	h.ctx = ctx
	h.out.Print("Weathrly CLI [DBG]")
	h.out.Print("type a city prefix and press Enter, or :help for commands (Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		h.handleLine(strings.TrimRight(scanner.Text(), "\r"))
	}
	return scanner.Err()
}

// handleLine applies a single line and prints the resulting state.
func (h *InputHandler) handleLine(line string) {
	if !strings.HasPrefix(line, ":") {
		h.controller.InputChanged(line)
		h.printState()
		return
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch cmd {
	case "focus", "f":
		h.controller.Focus()
	case "down", "j":
		h.controller.KeyDown(suggest.KeyArrowDown)
	case "up", "k":
		h.controller.KeyDown(suggest.KeyArrowUp)
	case "enter":
		if !h.controller.KeyDown(suggest.KeyEnter) {
			h.controller.Submit()
		}
	case "esc":
		h.controller.KeyDown(suggest.KeyEscape)
	case "submit":
		if !h.controller.Submit() {
			h.out.Warn("Nothing to submit")
		}
	case "click":
		i, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			h.out.Errorf("click needs a row number, got %q", arg)
			return
		}
		// rows are printed 1-based
		if !h.controller.Click(i - 1) {
			h.out.Warnf("No suggestion at row %d", i)
		}
	case "weather":
		h.lookup(strings.TrimSpace(arg))
		return
	case "help", "h":
		h.printHelp()
		return
	default:
		h.out.Errorf("Unknown command: %s", cmd)
		return
	}
	h.printState()
}

func (h *InputHandler) onCitySelect(city string) {
	h.out.Printf("Selected %s", city)
	h.lookup(city)
}

// lookup fetches and prints the weather for city. The control ignores
// input while it runs.
func (h *InputHandler) lookup(city string) {
	if h.fetcher == nil {
		h.out.Warn("Weather lookups are disabled")
		return
	}
	h.loading = true
	defer func() { h.loading = false }()

	ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
	defer cancel()

	start := time.Now()
	h.out.Print("Fetching weather...")
	c, err := h.fetcher.Current(ctx, city)
	log.Debugf("Took [ %v ] for weather lookup '%s'", time.Since(start), city)
	if err != nil {
		h.out.Errorf("Error: %s", weather.Describe(err))
		return
	}
	h.out.Printf("%s: %d°C, %s", c.DisplayName, c.RoundedTemperature(), c.ConditionDescription)
}

func (h *InputHandler) printState() {
	st := h.engine.State()
	if st.HasError() {
		h.out.Error(st.ValidationError)
		return
	}
	if !st.Visible {
		if st.InputValue != "" {
			h.out.Warnf("No suggestions for '%s'", st.InputValue)
		}
		return
	}

	h.out.Printf("%s:", st.Title)
	for i, c := range st.Suggestions {
		marker := " "
		if i == st.ActiveIndex {
			marker = ">"
		}
		name := fmt.Sprintf("\033[38;5;75m%s\033[0m", utils.Truncate(c.City, 32))
		pop := utils.FormatWithCommas(h.populations[c])
		h.out.Printf("%s%2d. %-44s %-24s (pop: %12s)", marker, i+1, name, utils.Truncate(c.Country, 24), pop)
	}
}

func (h *InputHandler) printHelp() {
	h.out.Print("commands:")
	h.out.Print("  :focus        show popular cities when the input is empty")
	h.out.Print("  :down / :up   move the highlight")
	h.out.Print("  :enter        select the highlight, or submit the typed text")
	h.out.Print("  :esc          close the list")
	h.out.Print("  :click N      select row N")
	h.out.Print("  :submit       look up the typed text")
	h.out.Print("  :weather CITY look up CITY directly")
}
