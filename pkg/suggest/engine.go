package suggest

import (
	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/charmbracelet/log"
)

const (
	// MaxSuggestions caps every filtered list.
	MaxSuggestions = 7

	TitlePopular     = "Popular Cities"
	TitleSuggestions = "Suggestions"

	// ValidationMessage is shown when the input breaks the city-name character policy.
	ValidationMessage = "City names may only contain letters, spaces, hyphens and apostrophes."
)

// State is a snapshot of one search control.
// ActiveIndex is -1 or a valid index into Suggestions.
type State struct {
	InputValue      string
	Suggestions     []catalog.City
	Visible         bool
	ActiveIndex     int
	Title           string
	ValidationError string
}

// HasError reports whether the current input failed validation.
func (s State) HasError() bool {
	return s.ValidationError != ""
}

// Active returns the highlighted suggestion, if any.
func (s State) Active() (catalog.City, bool) {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Suggestions) {
		return catalog.City{}, false
	}
	return s.Suggestions[s.ActiveIndex], true
}

// Engine owns the autocomplete state of a single control.
// It is not safe for concurrent use; drive it from one event loop.
type Engine struct {
	source Source
	state  State
}

// NewEngine creates an engine with empty state.
func NewEngine(source Source) *Engine {
	return &Engine{
		source: source,
		state:  State{ActiveIndex: -1},
	}
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	s := e.state
	if e.state.Suggestions != nil {
		s.Suggestions = make([]catalog.City, len(e.state.Suggestions))
		copy(s.Suggestions, e.state.Suggestions)
	}
	return s
}

// UpdateSuggestions stores text as the input value, validates it and refilters.
// Empty text only hides the list; the previous suggestions stay until ShowPopularCities replaces them.
func (e *Engine) UpdateSuggestions(text string) {
	e.state.InputValue = text
	e.state.ActiveIndex = -1

	if text != "" && !utils.IsCityName(text) {
		log.Debug("Rejected input", "text", text)
		e.state.ValidationError = ValidationMessage
		e.state.Suggestions = nil
		e.state.Visible = false
		return
	}
	e.state.ValidationError = ""

	if text == "" {
		e.state.Visible = false
		return
	}

	e.replaceSuggestions(e.source.Prefix(text, MaxSuggestions), TitleSuggestions)
	e.state.Visible = len(e.state.Suggestions) > 0
	log.Debugf("%d suggestions for %q", len(e.state.Suggestions), text)
}

// ShowPopularCities swaps in the popular list, but only while the input is empty.
func (e *Engine) ShowPopularCities() {
	if e.state.InputValue != "" {
		return
	}
	e.state.ValidationError = ""
	e.replaceSuggestions(e.source.Popular(), TitlePopular)
	e.state.Visible = true
}

// Reset hides the list and clears the highlight. Input and suggestions are kept.
func (e *Engine) Reset() {
	e.state.Visible = false
	e.state.ActiveIndex = -1
}

// Hide only changes visibility.
func (e *Engine) Hide() {
	e.state.Visible = false
}

// SetInputValue replaces the text without refiltering.
func (e *Engine) SetInputValue(text string) {
	e.state.InputValue = text
}

// SetActiveIndex sets the highlight. Values outside [-1, len-1] are clamped into it.
func (e *Engine) SetActiveIndex(i int) {
	e.state.ActiveIndex = clamp(i, -1, len(e.state.Suggestions)-1)
}

// AdjustActiveIndex moves the highlight by delta and clamps the result to [lo, hi].
// The bounds are narrowed to the current list so the index never dangles.
func (e *Engine) AdjustActiveIndex(delta, lo, hi int) {
	last := len(e.state.Suggestions) - 1
	if last < 0 {
		e.state.ActiveIndex = -1
		return
	}
	hi = min(hi, last)
	lo = max(lo, -1)
	e.state.ActiveIndex = clamp(e.state.ActiveIndex+delta, lo, hi)
}

func (e *Engine) replaceSuggestions(list []catalog.City, title string) {
	e.state.ActiveIndex = -1
	e.state.Suggestions = list
	e.state.Title = title
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
