/*
Package server exposes the city search over two transports.

# IPC

IPC mode reads msgpack-encoded requests from stdin and writes msgpack
responses to stdout, one value after another. Every request carries an ID and
an action; the response echoes the ID.

Stateless catalog queries:

	{"id": "r1", "a": "suggest", "p": "lon", "l": 7}
	{"id": "r2", "a": "popular"}

A weather lookup:

	{"id": "r3", "a": "weather", "c": "cape town"}

The remaining actions drive one search control owned by the IPC session, so a
thin UI can forward raw events and render the returned state:

	{"id": "e1", "a": "focus"}
	{"id": "e2", "a": "input", "t": "lis"}
	{"id": "e3", "a": "key", "k": "ArrowDown"}
	{"id": "e4", "a": "key", "k": "Enter"}
	{"id": "e5", "a": "click", "i": 2}
	{"id": "e6", "a": "pointer", "x": 80, "y": 3}
	{"id": "e7", "a": "submit"}

Pointer events are checked against the control's rectangle, which the UI
reports with a bounds action whenever its layout changes:

	{"id": "b1", "a": "bounds", "x": 0, "y": 0, "w": 40, "h": 9}

A commit in any of those responses carries the selected city and the weather
lookup result for it.

# HTTP

HTTP mode serves the weather proxy and JSON catalog queries:

	GET /api/weather?city=lisbon
	GET /api/cities?q=lis
	GET /api/cities/popular
	GET /healthz
*/
package server

import (
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/weather"
)

// Actions understood by the IPC server.
const (
	ActionSuggest = "suggest"
	ActionPopular = "popular"
	ActionWeather = "weather"
	ActionFocus   = "focus"
	ActionInput   = "input"
	ActionKey     = "key"
	ActionClick   = "click"
	ActionPointer = "pointer"
	ActionSubmit  = "submit"
	ActionState   = "state"
	ActionBounds  = "bounds"
)

// Request is the single IPC request envelope. Unused fields are omitted.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	City   string `msgpack:"c,omitempty"`
	Text   string `msgpack:"t,omitempty"`
	Key    string `msgpack:"k,omitempty"`
	Index  int    `msgpack:"i,omitempty"`
	X      int    `msgpack:"x,omitempty"`
	Y      int    `msgpack:"y,omitempty"`
	Width  int    `msgpack:"w,omitempty"`
	Height int    `msgpack:"h,omitempty"`
}

// SuggestResponse answers suggest and popular requests.
type SuggestResponse struct {
	ID          string         `msgpack:"id"`
	Suggestions []catalog.City `msgpack:"s"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"`
	Error       string         `msgpack:"e,omitempty"`
}

// WeatherResponse answers weather requests.
type WeatherResponse struct {
	ID         string              `msgpack:"id"`
	Conditions *weather.Conditions `msgpack:"w,omitempty"`
	Error      string              `msgpack:"e,omitempty"`
	Status     int                 `msgpack:"st,omitempty"`
}

// StateResponse mirrors the session control after an event.
type StateResponse struct {
	ID              string         `msgpack:"id"`
	InputValue      string         `msgpack:"v"`
	Suggestions     []catalog.City `msgpack:"s"`
	Visible         bool           `msgpack:"vis"`
	ActiveIndex     int            `msgpack:"ai"`
	Title           string         `msgpack:"ti"`
	ValidationError string         `msgpack:"ve,omitempty"`
	// Handled tells the UI not to run its default action for a key.
	Handled  bool             `msgpack:"h"`
	Selected string           `msgpack:"sel,omitempty"`
	Weather  *WeatherResponse `msgpack:"w,omitempty"`
}

// ErrorResponse reports a malformed or unknown request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
