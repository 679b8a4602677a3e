package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bastiangx/weathrly/internal/utils"
	"github.com/bastiangx/weathrly/pkg/catalog"
	"github.com/bastiangx/weathrly/pkg/suggest"
	"github.com/bastiangx/weathrly/pkg/weather"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Screen rows of the control. The list title sits right below the input and
// suggestion rows follow it.
const (
	inputRow     = 2
	firstRow     = 4
	controlWidth = 48
)

const (
	statusLoading = "Fetching weather..."
	statusIdle    = "Search for a city to see the weather."
)

var (
	ink    = lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	love   = lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}
	foam   = lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}
	subtle = lipgloss.Color("242")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(ink)
	titleStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	itemStyle    = lipgloss.NewStyle().PaddingLeft(1)
	activeStyle  = lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("60")).Foreground(lipgloss.Color("255"))
	countryStyle = lipgloss.NewStyle().Foreground(subtle)
	errorStyle   = lipgloss.NewStyle().Foreground(love)
	tempStyle    = lipgloss.NewStyle().Bold(true).Foreground(foam)
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// weatherMsg carries a finished lookup back into the update loop.
type weatherMsg struct {
	city       string
	conditions *weather.Conditions
	err        error
}

// Model is the bubbletea host page: a search control plus the weather panel.
type Model struct {
	engine     *suggest.Engine
	controller *suggest.Controller
	document   *suggest.Document
	watcher    *suggest.Watcher

	fetcher        weather.Fetcher
	timeout        time.Duration
	defaultCity    string
	popularOnFocus bool

	input   textinput.Model
	spinner spinner.Model

	loading    bool
	pending    string
	conditions *weather.Conditions
	errMsg     string
}

// NewModel builds the page over cat. defaultCity is fetched on start when set.
func NewModel(cat *catalog.Catalog, fetcher weather.Fetcher, timeout time.Duration, defaultCity string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a city name"
	ti.Prompt = "› "
	ti.CharLimit = 60
	ti.Width = controlWidth - 4
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		engine:         suggest.NewEngine(cat),
		document:       suggest.NewDocument(),
		fetcher:        fetcher,
		timeout:        timeout,
		defaultCity:    defaultCity,
		popularOnFocus: true,
		input:          ti,
		spinner:        sp,
	}
	m.controller = suggest.NewController(m.engine, suggest.HostFuncs{
		CitySelect: func(city string) { m.pending = city },
		Loading:    func() bool { return m.loading },
	})
	m.watcher = suggest.Watch(m.document, suggest.BoundaryFunc(func(p suggest.Point) bool {
		return m.bounds().Contains(p)
	}), m.engine)
	return m
}

// SetPopularOnFocus controls whether focusing the empty field lists popular cities.
func (m *Model) SetPopularOnFocus(on bool) {
	m.popularOnFocus = on
}

// focus forwards a focus event to the control.
func (m *Model) focus() {
	if m.popularOnFocus {
		m.controller.Focus()
	}
}

// Close releases the pointer subscription.
func (m *Model) Close() {
	m.watcher.Close()
}

// bounds is the screen rectangle of the input and its open list.
func (m *Model) bounds() suggest.Bounds {
	height := 1
	if st := m.engine.State(); st.Visible {
		height += 1 + len(st.Suggestions)
	}
	return suggest.Bounds{X: 0, Y: inputRow, Width: controlWidth, Height: height}
}

func (m *Model) Init() tea.Cmd {
	if m.defaultCity == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.fetch(m.defaultCity))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = min(controlWidth, msg.Width) - 4
		return m, nil

	case tea.FocusMsg:
		m.focus()
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case weatherMsg:
		m.loading = false
		if msg.err != nil {
			log.Debug("Weather lookup failed", "city", msg.city, "err", msg.err)
			m.errMsg = weather.Describe(msg.err)
			m.conditions = nil
		} else {
			m.errMsg = ""
			m.conditions = msg.conditions
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "down":
		m.controller.KeyDown(suggest.KeyArrowDown)
		return nil
	case "up":
		m.controller.KeyDown(suggest.KeyArrowUp)
		return nil
	case "esc":
		m.controller.KeyDown(suggest.KeyEscape)
		return nil
	case "tab":
		m.focus()
		return nil
	case "enter":
		if !m.controller.KeyDown(suggest.KeyEnter) {
			m.controller.Submit()
		}
		return m.afterCommit()
	}

	if m.loading {
		return nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.controller.InputChanged(v)
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	m.document.PointerDown(suggest.Point{X: msg.X, Y: msg.Y})

	st := m.engine.State()
	if !st.Visible || msg.X >= controlWidth {
		return nil
	}
	if row := msg.Y - firstRow; row >= 0 && row < len(st.Suggestions) {
		m.controller.Click(row)
		return m.afterCommit()
	}
	return nil
}

// afterCommit syncs the text field and starts the lookup for a committed city.
func (m *Model) afterCommit() tea.Cmd {
	if m.pending == "" {
		return nil
	}
	city := m.pending
	m.pending = ""
	m.input.SetValue(m.engine.State().InputValue)
	m.input.CursorEnd()
	return m.fetch(city)
}

// fetch marks the page as loading and runs the lookup off the update loop.
func (m *Model) fetch(city string) tea.Cmd {
	if m.fetcher == nil {
		m.errMsg = "Weather lookups are disabled"
		return nil
	}
	m.loading = true
	m.errMsg = ""

	fetcher, timeout := m.fetcher, m.timeout
	lookup := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		c, err := fetcher.Current(ctx, city)
		return weatherMsg{city: city, conditions: c, err: err}
	}
	return tea.Batch(m.spinner.Tick, lookup)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("weathrly"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	st := m.engine.State()
	if st.HasError() {
		b.WriteString(errorStyle.Render(st.ValidationError))
		b.WriteString("\n")
	}
	if st.Visible {
		b.WriteString(titleStyle.Render(st.Title))
		b.WriteString("\n")
		for i, c := range st.Suggestions {
			style := itemStyle
			if i == st.ActiveIndex {
				style = activeStyle
			}
			line := utils.Truncate(c.City, 28) + " " + countryStyle.Render(utils.Truncate(c.Country, 16))
			b.WriteString(style.Width(controlWidth).Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("↑/↓ move • enter select • esc close • tab popular • ctrl+c quit"))
	return b.String()
}

func (m *Model) status() string {
	switch {
	case m.loading:
		return m.spinner.View() + " " + statusLoading
	case m.errMsg != "":
		return errorStyle.Render("Error: " + m.errMsg)
	case m.conditions != nil:
		c := m.conditions
		line := fmt.Sprintf("%s  %s  %s", headerStyle.Render(c.DisplayName),
			tempStyle.Render(fmt.Sprintf("%d°C", c.RoundedTemperature())), c.ConditionDescription)
		if u := c.IconURL(); u != "" {
			line += "\n" + hintStyle.Render(u)
		}
		return line
	default:
		return statusIdle
	}
}

// RunTerminal runs the full-screen page until the user quits or ctx ends.
func RunTerminal(ctx context.Context, m *Model) error {
	defer m.Close()
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
