package server

import (
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/suggest"
	"github.com/charmbracelet/log"
)

// session is the one search control driven over IPC.
type session struct {
	engine     *suggest.Engine
	controller *suggest.Controller
	document   *suggest.Document
	watcher    *suggest.Watcher
	bounds     suggest.Bounds
	selected   string
}

func newSession(cat *catalog.Catalog) *session {
	s := &session{
		engine:   suggest.NewEngine(cat),
		document: suggest.NewDocument(),
	}
	s.controller = suggest.NewController(s.engine, suggest.HostFuncs{
		CitySelect: func(city string) { s.selected = city },
		InputChange: func(value string) {
			log.Debug("IPC input changed", "value", value)
		},
	})
	// until the UI reports bounds every pointer-down counts as outside
	s.watcher = suggest.Watch(s.document, suggest.BoundaryFunc(func(p suggest.Point) bool {
		return s.bounds.Contains(p)
	}), s.engine)
	return s
}

// apply feeds one event to the control and snapshots the result.
func (s *session) apply(req Request) StateResponse {
	s.selected = ""
	handled := false

	switch req.Action {
	case ActionFocus:
		s.controller.Focus()
	case ActionInput:
		s.controller.InputChanged(req.Text)
	case ActionKey:
		handled = s.controller.KeyDown(suggest.Key(req.Key))
		// Enter with no highlight submits the typed text, like a form would
		if !handled && suggest.Key(req.Key) == suggest.KeyEnter {
			handled = s.controller.Submit()
		}
	case ActionClick:
		handled = s.controller.Click(req.Index)
	case ActionPointer:
		s.document.PointerDown(suggest.Point{X: req.X, Y: req.Y})
	case ActionSubmit:
		handled = s.controller.Submit()
	case ActionBounds:
		s.bounds = suggest.Bounds{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	}

	st := s.engine.State()
	suggestions := st.Suggestions
	if suggestions == nil {
		suggestions = []catalog.City{}
	}
	return StateResponse{
		ID:              req.ID,
		InputValue:      st.InputValue,
		Suggestions:     suggestions,
		Visible:         st.Visible,
		ActiveIndex:     st.ActiveIndex,
		Title:           st.Title,
		ValidationError: st.ValidationError,
		Handled:         handled,
		Selected:        s.selected,
	}
}

func (s *session) close() {
	s.watcher.Close()
}
