package suggest

import "github.com/charmbracelet/log"

// Key names the keys the controller reacts to.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// Controller turns input events into Engine mutations.
// It keeps no state of its own.
type Controller struct {
	engine *Engine
	host   Host
}

// NewController wires an engine to its host. A nil host is replaced by a no-op one.
func NewController(engine *Engine, host Host) *Controller {
	if host == nil {
		host = HostFuncs{}
	}
	return &Controller{engine: engine, host: host}
}

// Engine returns the engine driven by c.
func (c *Controller) Engine() *Engine {
	return c.engine
}

// InputChanged refilters and forwards the raw text to the host.
func (c *Controller) InputChanged(text string) {
	if c.host.IsLoading() {
		return
	}
	c.engine.UpdateSuggestions(text)
	c.host.OnInputChange(text)
}

// Focus shows the popular cities when the field is empty.
func (c *Controller) Focus() {
	if c.host.IsLoading() {
		return
	}
	c.engine.ShowPopularCities()
}

// KeyDown handles a key press. It returns true when the key was consumed and
// the host must not run its default action (submitting the typed text on Enter).
func (c *Controller) KeyDown(key Key) bool {
	if c.host.IsLoading() {
		return true
	}

	s := &c.engine.state
	if !s.Visible {
		return false
	}

	switch key {
	case KeyArrowDown:
		c.engine.AdjustActiveIndex(1, -1, len(s.Suggestions)-1)
		return true
	case KeyArrowUp:
		// floor is 0: once moved, only Escape brings back "no highlight"
		c.engine.AdjustActiveIndex(-1, 0, len(s.Suggestions)-1)
		return true
	case KeyEnter:
		if city, ok := s.Active(); ok {
			c.commit(city.City)
			return true
		}
	case KeyEscape:
		c.engine.Reset()
	}
	return false
}

// Click commits the suggestion at index. Out-of-range clicks are ignored.
func (c *Controller) Click(index int) bool {
	if c.host.IsLoading() {
		return false
	}
	s := c.engine.state
	if !s.Visible || index < 0 || index >= len(s.Suggestions) {
		return false
	}
	c.commit(s.Suggestions[index].City)
	return true
}

// Submit commits the typed text as is. Empty or invalid input is ignored.
func (c *Controller) Submit() bool {
	if c.host.IsLoading() {
		return false
	}
	text := c.engine.state.InputValue
	if text == "" || c.engine.state.HasError() {
		return false
	}
	c.commit(text)
	return true
}

func (c *Controller) commit(city string) {
	log.Debug("Committing city", "city", city)
	c.engine.SetInputValue(city)
	c.host.OnCitySelect(city)
	c.engine.Reset()
}
