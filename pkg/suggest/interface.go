// Package suggest is the core, providing the autocomplete state machine behind the city search control.
package suggest

import "github.com/bastiangx/weathrly/pkg/catalog"

// Source defines where suggestions come from. *catalog.Catalog satisfies it.
type Source interface {
	// Prefix returns up to limit cities whose name starts with text, ignoring case, in dataset order.
	Prefix(text string, limit int) []catalog.City

	// Popular returns the precomputed most populous cities.
	Popular() []catalog.City
}

// Host is whatever embeds the search control and reacts to it.
type Host interface {
	// OnCitySelect is called with the committed city name.
	OnCitySelect(city string)

	// OnInputChange is called with the raw text on every edit.
	OnInputChange(value string)

	// IsLoading reports an in-flight weather fetch. The control ignores input while true.
	IsLoading() bool
}

// HostFuncs adapts plain functions to Host. Nil fields are no-ops.
type HostFuncs struct {
	CitySelect  func(city string)
	InputChange func(value string)
	Loading     func() bool
}

func (h HostFuncs) OnCitySelect(city string) {
	if h.CitySelect != nil {
		h.CitySelect(city)
	}
}

func (h HostFuncs) OnInputChange(value string) {
	if h.InputChange != nil {
		h.InputChange(value)
	}
}

func (h HostFuncs) IsLoading() bool {
	return h.Loading != nil && h.Loading()
}
