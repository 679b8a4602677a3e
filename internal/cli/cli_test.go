package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/suggest"
	"github.com/bastiangx/weathrly/pkg/weather"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.CityRecord{
		{City: "London", Country: "United Kingdom", Population: "8961989"},
		{City: "Londrina", Country: "Brazil", Population: "575377"},
		{City: "Lisbon", Country: "Portugal", Population: "505526"},
		{City: "Tokyo", Country: "Japan", Population: "37977000"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

type fakeFetcher struct {
	calls []string
	err   error
}

func (f *fakeFetcher) Current(_ context.Context, city string) (*weather.Conditions, error) {
	f.calls = append(f.calls, city)
	if f.err != nil {
		return nil, f.err
	}
	return &weather.Conditions{DisplayName: city, TemperatureCelsius: 18.4, ConditionDescription: "light rain", ConditionIconID: "10d"}, nil
}

func runLines(t *testing.T, f weather.Fetcher, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	h := NewInputHandler(testCatalog(t), f, time.Second, in, &out)
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return out.String()
}

func TestInputHandlerSuggestions(t *testing.T) {
	out := runLines(t, nil, "lon")
	for _, want := range []string{"Suggestions:", "London", "Londrina", "8,961,989"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Lisbon") {
		t.Errorf("Lisbon should not match 'lon':\n%s", out)
	}
}

func TestInputHandlerFocusAndValidation(t *testing.T) {
	out := runLines(t, nil, ":focus", "l0n")
	if !strings.Contains(out, suggest.TitlePopular) || !strings.Contains(out, "Tokyo") {
		t.Errorf("focus should list popular cities:\n%s", out)
	}
	if !strings.Contains(out, suggest.ValidationMessage) {
		t.Errorf("expected validation message:\n%s", out)
	}
}

func TestInputHandlerSelectFetchesWeather(t *testing.T) {
	f := &fakeFetcher{}
	out := runLines(t, f, "lon", ":down", ":down", ":enter")
	if len(f.calls) != 1 || f.calls[0] != "Londrina" {
		t.Fatalf("fetcher calls = %v", f.calls)
	}
	if !strings.Contains(out, "Londrina: 18°C, light rain") {
		t.Errorf("expected weather line:\n%s", out)
	}
}

func TestInputHandlerClickAndErrors(t *testing.T) {
	f := &fakeFetcher{err: &weather.APIError{Status: 404, Message: "city not found"}}
	out := runLines(t, f, "li", ":click 1", ":click 5", ":bogus")
	if len(f.calls) != 1 || f.calls[0] != "Lisbon" {
		t.Fatalf("fetcher calls = %v", f.calls)
	}
	if !strings.Contains(out, "Error: city not found") {
		t.Errorf("expected lookup error:\n%s", out)
	}
	if !strings.Contains(out, "No suggestion at row 5") || !strings.Contains(out, "Unknown command: bogus") {
		t.Errorf("expected command errors:\n%s", out)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and any batched commands, feeding a weather result back
// into the model.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, m, c)
		}
	case weatherMsg:
		m.Update(msg)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(keyMsg(string(r)))
	}
}

func TestModelInitFetchesDefaultCity(t *testing.T) {
	f := &fakeFetcher{}
	m := NewModel(testCatalog(t), f, time.Second, "cape town")
	defer m.Close()

	cmd := m.Init()
	if !m.loading || !strings.Contains(m.View(), statusLoading) {
		t.Errorf("expected loading state, view:\n%s", m.View())
	}
	runCmd(t, m, cmd)
	if m.loading || m.conditions == nil || m.conditions.DisplayName != "cape town" {
		t.Errorf("unexpected state after lookup: loading=%v conditions=%+v", m.loading, m.conditions)
	}
	if !strings.Contains(m.View(), "18°C") {
		t.Errorf("view should show the temperature:\n%s", m.View())
	}
}

func TestModelIdleStatus(t *testing.T) {
	m := NewModel(testCatalog(t), &fakeFetcher{}, time.Second, "")
	defer m.Close()
	m.Init()
	if !strings.Contains(m.View(), statusIdle) {
		t.Errorf("expected idle status:\n%s", m.View())
	}
}

func TestModelTypingAndKeyboardSelect(t *testing.T) {
	f := &fakeFetcher{}
	m := NewModel(testCatalog(t), f, time.Second, "")
	defer m.Close()

	typeText(m, "lon")
	st := m.engine.State()
	if st.InputValue != "lon" || !st.Visible || len(st.Suggestions) != 2 {
		t.Fatalf("unexpected state after typing: %+v", st)
	}

	m.Update(keyMsg("down"))
	_, cmd := m.Update(keyMsg("enter"))
	if m.input.Value() != "London" {
		t.Errorf("input should show the committed city, got %q", m.input.Value())
	}
	runCmd(t, m, cmd)
	if len(f.calls) != 1 || f.calls[0] != "London" {
		t.Errorf("fetcher calls = %v", f.calls)
	}
	if m.engine.State().Visible {
		t.Error("list should close after a commit")
	}
}

func TestModelIgnoresTypingWhileLoading(t *testing.T) {
	m := NewModel(testCatalog(t), &fakeFetcher{}, time.Second, "")
	defer m.Close()

	m.loading = true
	typeText(m, "lon")
	if m.input.Value() != "" || m.engine.State().InputValue != "" {
		t.Errorf("typing should be ignored while loading, got %q", m.input.Value())
	}
}

func TestModelFocusShowsPopular(t *testing.T) {
	m := NewModel(testCatalog(t), nil, time.Second, "")
	defer m.Close()

	m.Update(tea.FocusMsg{})
	st := m.engine.State()
	if !st.Visible || st.Title != suggest.TitlePopular || st.Suggestions[0].City != "Tokyo" {
		t.Errorf("focus should show popular cities: %+v", st)
	}
	if !strings.Contains(m.View(), suggest.TitlePopular) {
		t.Errorf("view should render the list title:\n%s", m.View())
	}
}

func TestModelPopularOnFocusDisabled(t *testing.T) {
	m := NewModel(testCatalog(t), nil, time.Second, "")
	defer m.Close()
	m.SetPopularOnFocus(false)

	m.Update(tea.FocusMsg{})
	m.Update(keyMsg("tab"))
	if m.engine.State().Visible {
		t.Error("focus should not open the list when popular cities are disabled")
	}
}

func TestModelMouse(t *testing.T) {
	f := &fakeFetcher{}
	m := NewModel(testCatalog(t), f, time.Second, "")
	defer m.Close()

	typeText(m, "lon")
	press := func(x, y int) tea.Cmd {
		_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		return cmd
	}

	// outside the control closes the list
	press(controlWidth+5, firstRow)
	if m.engine.State().Visible {
		t.Fatal("pointer outside the control should close the list")
	}

	typeText(m, "d")
	if st := m.engine.State(); !st.Visible || st.InputValue != "lond" {
		t.Fatalf("unexpected state: %+v", st)
	}

	// second row is Londrina
	runCmd(t, m, press(3, firstRow+1))
	if len(f.calls) != 1 || f.calls[0] != "Londrina" {
		t.Errorf("fetcher calls = %v", f.calls)
	}
}

func TestModelShowsLookupError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("dial tcp: refused")}
	m := NewModel(testCatalog(t), f, time.Second, "nowhere")
	defer m.Close()

	runCmd(t, m, m.Init())
	if !strings.Contains(m.View(), "Error: An unexpected error occurred.") {
		t.Errorf("expected error status:\n%s", m.View())
	}
}

func TestModelWithoutFetcher(t *testing.T) {
	m := NewModel(testCatalog(t), nil, time.Second, "lisbon")
	defer m.Close()
	m.Init()
	if m.loading || !strings.Contains(m.View(), "Weather lookups are disabled") {
		t.Errorf("expected disabled status:\n%s", m.View())
	}
}
