package suggest

import (
	"testing"
)

type recordingHost struct {
	selected []string
	inputs   []string
	loading  bool
}

func (h *recordingHost) OnCitySelect(city string)   { h.selected = append(h.selected, city) }
func (h *recordingHost) OnInputChange(value string) { h.inputs = append(h.inputs, value) }
func (h *recordingHost) IsLoading() bool            { return h.loading }

func newTestController(t *testing.T) (*Controller, *recordingHost) {
	t.Helper()
	host := &recordingHost{}
	return NewController(NewEngine(testCatalog(t)), host), host
}

func TestInputChangedForwardsText(t *testing.T) {
	c, host := newTestController(t)
	c.InputChanged("l")
	c.InputChanged("lo")
	c.InputChanged("lo!")

	if len(host.inputs) != 3 || host.inputs[2] != "lo!" {
		t.Errorf("host should see every keystroke, got %v", host.inputs)
	}
	if !c.Engine().State().HasError() {
		t.Error("engine should have validated the last input")
	}
}

func TestFocusShowsPopularOnlyWhenEmpty(t *testing.T) {
	c, _ := newTestController(t)
	c.Focus()
	if s := c.Engine().State(); s.Title != TitlePopular || !s.Visible || len(s.Suggestions) != 7 {
		t.Errorf("focus on empty input should show popular cities: %+v", s)
	}

	c.InputChanged("par")
	c.Focus()
	if s := c.Engine().State(); s.Title != TitleSuggestions || len(s.Suggestions) != 2 {
		t.Errorf("focus should not override filtered suggestions: %+v", s)
	}
}

func TestArrowDownClampsAtLastIndex(t *testing.T) {
	c, _ := newTestController(t)
	c.InputChanged("lon")

	for i := 0; i < 20; i++ {
		if !c.KeyDown(KeyArrowDown) {
			t.Fatal("ArrowDown should be consumed while the list is visible")
		}
		want := min(i, MaxSuggestions-1)
		if got := c.Engine().State().ActiveIndex; got != want {
			t.Fatalf("after %d presses active index = %d, expected %d", i+1, got, want)
		}
	}
}

func TestArrowUpFloorIsZero(t *testing.T) {
	c, _ := newTestController(t)
	c.InputChanged("lon")

	// Up from no highlight lands on the first entry
	c.KeyDown(KeyArrowUp)
	if got := c.Engine().State().ActiveIndex; got != 0 {
		t.Fatalf("ArrowUp from -1 should land on 0, got %d", got)
	}

	c.KeyDown(KeyArrowDown)
	c.KeyDown(KeyArrowDown)
	c.KeyDown(KeyArrowDown)
	for i := 0; i < 10; i++ {
		c.KeyDown(KeyArrowUp)
		if got := c.Engine().State().ActiveIndex; got < 0 {
			t.Fatalf("ArrowUp went below 0: %d", got)
		}
	}
	if got := c.Engine().State().ActiveIndex; got != 0 {
		t.Errorf("expected to rest at 0, got %d", got)
	}
}

func TestArrowKeysNoopWhenHidden(t *testing.T) {
	c, _ := newTestController(t)
	c.InputChanged("zzz")

	if c.KeyDown(KeyArrowDown) || c.KeyDown(KeyArrowUp) {
		t.Error("arrow keys should not be consumed without a visible list")
	}
	if got := c.Engine().State().ActiveIndex; got != -1 {
		t.Errorf("active index moved on a hidden list: %d", got)
	}
}

func TestEnterCommitsActiveSuggestion(t *testing.T) {
	c, host := newTestController(t)
	c.InputChanged("par")
	c.KeyDown(KeyArrowDown)
	c.KeyDown(KeyArrowDown)

	if !c.KeyDown(KeyEnter) {
		t.Fatal("Enter on a highlighted entry should suppress the form submit")
	}
	if len(host.selected) != 1 || host.selected[0] != "Parma" {
		t.Fatalf("expected Parma to be selected, got %v", host.selected)
	}
	s := c.Engine().State()
	if s.InputValue != "Parma" {
		t.Errorf("input should show the chosen city, got %q", s.InputValue)
	}
	if s.Visible || s.ActiveIndex != -1 {
		t.Errorf("commit should reset the list: %+v", s)
	}
}

func TestEnterWithoutHighlightFallsThrough(t *testing.T) {
	c, host := newTestController(t)
	c.InputChanged("par")

	if c.KeyDown(KeyEnter) {
		t.Fatal("Enter without a highlight should be left to the host")
	}
	if len(host.selected) != 0 {
		t.Fatalf("nothing should be committed yet, got %v", host.selected)
	}

	if !c.Submit() {
		t.Fatal("Submit should commit free text")
	}
	if len(host.selected) != 1 || host.selected[0] != "par" {
		t.Errorf("expected free text commit, got %v", host.selected)
	}
}

func TestSubmitIgnoresEmptyAndInvalid(t *testing.T) {
	c, host := newTestController(t)
	if c.Submit() {
		t.Error("empty input should not be submitted")
	}
	c.InputChanged("Paris!")
	if c.Submit() {
		t.Error("invalid input should not be submitted")
	}
	if len(host.selected) != 0 {
		t.Errorf("unexpected commits: %v", host.selected)
	}
}

func TestEscapeResets(t *testing.T) {
	c, _ := newTestController(t)
	c.InputChanged("lon")
	c.KeyDown(KeyArrowDown)
	c.KeyDown(KeyEscape)

	s := c.Engine().State()
	if s.Visible || s.ActiveIndex != -1 {
		t.Errorf("Escape should hide and clear highlight: %+v", s)
	}
	if s.InputValue != "lon" {
		t.Errorf("Escape should keep the input, got %q", s.InputValue)
	}
}

func TestClickCommits(t *testing.T) {
	c, host := newTestController(t)
	c.Focus()

	if c.Click(42) {
		t.Error("out-of-range click should be ignored")
	}
	if !c.Click(1) {
		t.Fatal("click on a visible row should commit")
	}
	if len(host.selected) != 1 || host.selected[0] != "Delhi" {
		t.Errorf("expected Delhi, got %v", host.selected)
	}
	if c.Click(0) {
		t.Error("click on a hidden list should be ignored")
	}
}

func TestLoadingDisablesInput(t *testing.T) {
	c, host := newTestController(t)
	host.loading = true

	c.InputChanged("par")
	c.Focus()
	if s := c.Engine().State(); s.InputValue != "" || s.Visible {
		t.Errorf("input should be ignored while loading: %+v", s)
	}
	if len(host.inputs) != 0 {
		t.Errorf("host should not see input while loading: %v", host.inputs)
	}

	host.loading = false
	c.InputChanged("par")
	c.KeyDown(KeyArrowDown)
	host.loading = true
	c.KeyDown(KeyEnter)
	c.Click(0)
	c.Submit()
	if len(host.selected) != 0 {
		t.Errorf("nothing should commit while loading: %v", host.selected)
	}
}

func TestNilHost(t *testing.T) {
	c := NewController(NewEngine(testCatalog(t)), nil)
	c.InputChanged("par")
	c.KeyDown(KeyArrowDown)
	if !c.KeyDown(KeyEnter) {
		t.Fatal("expected commit to succeed with a nil host")
	}
	if got := c.Engine().State().InputValue; got != "Paris" {
		t.Errorf("expected Paris, got %q", got)
	}
}

func TestHostFuncs(t *testing.T) {
	var picked string
	loading := false
	host := HostFuncs{
		CitySelect: func(city string) { picked = city },
		Loading:    func() bool { return loading },
	}
	c := NewController(NewEngine(testCatalog(t)), host)
	c.InputChanged("tok")
	c.Click(0)
	if picked != "Tokyo" {
		t.Errorf("expected Tokyo, got %q", picked)
	}
}
