package tui

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/contactdeck/internal/contact"
)

// fakeFeed records calls and exposes settable state.
type fakeFeed struct {
	data    []contact.Person
	loading bool
	err     string

	initCalls     int
	loadMoreCalls int
	resetCalls    int
	closeCalls    int
}

type fakeLoadedMsg struct{}

func (f *fakeFeed) Init() tea.Cmd {
	f.initCalls++
	return nil
}

func (f *fakeFeed) Update(tea.Msg) tea.Cmd { return nil }

func (f *fakeFeed) LoadMore() tea.Cmd {
	f.loadMoreCalls++
	return func() tea.Msg { return fakeLoadedMsg{} }
}

func (f *fakeFeed) ResetError() { f.resetCalls++ }
func (f *fakeFeed) Close() { f.closeCalls++ }
func (f *fakeFeed) Data() []contact.Person { return f.data }
func (f *fakeFeed) HasData() bool { return len(f.data) > 0 }
func (f *fakeFeed) IsLoading() bool { return f.loading }
func (f *fakeFeed) Err() string { return f.err }

func person(id, name string) contact.Person {
	return contact.Person{ID: id, FirstNameLastName: name, JobTitle: "Engineer", EmailAddress: id + "@example.com"}
}

func people(n int) []contact.Person {
	out := make([]contact.Person, n)
	for i := range out {
		id := strconv.Itoa(i + 1)
		out[i] = person(id, "Person "+strings.Repeat("a", i+1))
	}
	return out
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func names(rows []contact.Person) []string {
	out := make([]string, len(rows))
	for i, p := range rows {
		out[i] = p.FirstNameLastName
	}
	return out
}

// refresh runs one update cycle after the fake's state was changed.
func refresh(m *Model) {
	m.Update(fakeLoadedMsg{})
}

func TestModel_InitStartsFeed(t *testing.T) {
	f := &fakeFeed{}
	m := New(f)

	cmd := m.Init()
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, f.initCalls)
}

func TestModel_FullScreenLoader(t *testing.T) {
	f := &fakeFeed{loading: true}
	m := New(f)

	view := m.View()
	assert.NotContains(t, view, "Selected contacts")
	assert.NotContains(t, view, loadMoreLabel)
}

func TestModel_NoDataHasNoControl(t *testing.T) {
	f := &fakeFeed{}
	m := New(f)

	view := m.View()
	assert.Contains(t, view, "Selected contacts: 0")
	assert.NotContains(t, view, loadMoreLabel)
}

func TestModel_ControlShownWithData(t *testing.T) {
	f := &fakeFeed{data: people(3)}
	m := New(f)

	assert.Contains(t, m.View(), loadMoreLabel)
}

func TestModel_ControlDisabledWhileLoading(t *testing.T) {
	f := &fakeFeed{data: people(3), loading: true}
	m := New(f)

	view := m.View()
	assert.NotContains(t, view, loadMoreLabel, "spinner replaces the label")
	assert.Contains(t, view, m.loading.Spinner())

	press(m, "end", "enter")
	press(m, "l")
	assert.Equal(t, 0, f.loadMoreCalls)
}

func TestModel_LoadMoreViaControlOncePerActivation(t *testing.T) {
	f := &fakeFeed{data: people(3)}
	m := New(f)

	press(m, "end")
	require.True(t, m.list.FocusedItem().loadMore)

	cmd := press(m, "enter")
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, f.loadMoreCalls)

	press(m, "enter")
	assert.Equal(t, 2, f.loadMoreCalls)
	assert.Equal(t, 0, m.SelectedCount(), "activating the control does not select")
}

func TestModel_LoadMoreKey(t *testing.T) {
	f := &fakeFeed{}
	m := New(f)

	press(m, "l")
	assert.Equal(t, 1, f.loadMoreCalls, "retry is possible before any page arrived")
}

func TestModel_ErrorToast(t *testing.T) {
	f := &fakeFeed{data: people(2), err: "Something went wrong"}
	m := New(f)

	view := m.View()
	assert.Contains(t, view, "Something went wrong")
	assert.Contains(t, view, closeLabel)

	press(m, "x")
	assert.Equal(t, 1, f.resetCalls)
}

func TestModel_ErrorToastOverlaysList(t *testing.T) {
	f := &fakeFeed{data: people(40)}
	m := New(f)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	before := m.View()
	height := m.list.Height()

	f.err = "Something went wrong"
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	after := m.View()

	assert.Equal(t, height, m.list.Height(), "the list keeps its size while an error is shown")
	assert.Equal(t, lipgloss.Height(before), lipgloss.Height(after))
	assert.Contains(t, after, "Something went wrong")
	assert.Contains(t, after, "Selected contacts: 0")
}

func TestOverlayBottom(t *testing.T) {
	assert.Equal(t, "a\nX\nY", overlayBottom("a\nb\nc", "X\nY"))
	assert.Equal(t, "a\nX\nY", overlayBottom("a", "X\nY"), "short bases grow instead")
}

func TestModel_DismissWithoutErrorIsNoop(t *testing.T) {
	f := &fakeFeed{data: people(2)}
	m := New(f)

	press(m, "x", "esc")
	assert.Equal(t, 0, f.resetCalls)
	assert.NotContains(t, m.View(), closeLabel)
}

func TestModel_DismissWithEsc(t *testing.T) {
	f := &fakeFeed{err: "boom"}
	m := New(f)

	press(m, "esc")
	assert.Equal(t, 1, f.resetCalls)
}

func TestModel_SelectionFloatsToTop(t *testing.T) {
	f := &fakeFeed{data: []contact.Person{person("1", "Alice Z"), person("2", "Bob A")}}
	m := New(f)

	assert.Equal(t, []string{"Alice Z", "Bob A"}, names(m.Rows()))

	press(m, "down", "space")
	assert.Equal(t, []string{"Bob A", "Alice Z"}, names(m.Rows()))
	assert.Equal(t, 1, m.SelectedCount())
	assert.Contains(t, m.View(), "Selected contacts: 1")
	assert.Equal(t, 0, m.list.Focused(), "toggling scrolls back to the top")
}

func TestModel_DoubleToggleRestoresOrder(t *testing.T) {
	f := &fakeFeed{data: people(5)}
	m := New(f)
	before := names(m.Rows())

	press(m, "down", "down", "space")
	assert.NotEqual(t, before, names(m.Rows()))

	// The toggled contact is now first and focus is back at the top.
	press(m, "space")
	assert.Equal(t, before, names(m.Rows()))
	assert.Equal(t, 0, m.SelectedCount())
}

func TestModel_CounterMatchesSelection(t *testing.T) {
	f := &fakeFeed{data: people(6)}
	m := New(f)

	seq := []string{"space", "down", "down", "space", "end", "up", "space", "space"}
	for _, k := range seq {
		press(m, k)
		assert.Contains(t, m.View(), "Selected contacts: "+strconv.Itoa(m.selected.Count()))
	}
}

func TestModel_GrowthFocusesControl(t *testing.T) {
	f := &fakeFeed{data: people(10)}
	m := New(f, WithPageSize(10))
	assert.Equal(t, 0, m.list.Focused(), "first page does not move focus")

	f.data = people(20)
	refresh(m)
	item := m.list.FocusedItem()
	require.NotNil(t, item)
	assert.True(t, item.loadMore)
}

func TestModel_FocusFollowsContactAcrossRefresh(t *testing.T) {
	f := &fakeFeed{data: people(4)}
	m := New(f, WithPageSize(10))

	press(m, "down", "down")
	focused := m.list.FocusedItem().person.ID

	f.loading = true
	refresh(m)
	assert.Equal(t, focused, m.list.FocusedItem().person.ID)
}

func TestModel_Quit(t *testing.T) {
	f := &fakeFeed{data: people(1)}
	m := New(f)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, f.closeCalls)
	assert.Empty(t, m.View())
}

func TestModel_CtrlCQuits(t *testing.T) {
	f := &fakeFeed{}
	m := New(f)

	cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, f.closeCalls)
}

func TestModel_WindowResize(t *testing.T) {
	f := &fakeFeed{data: people(40)}
	m := New(f)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 15})
	assert.Equal(t, 100, m.list.Width())
	assert.Equal(t, 15-chromeHeight-controlHeight, m.list.Height())
}

func TestRenderLoading(t *testing.T) {
	assert.Equal(t, "Loading...", RenderLoading(nil))
	assert.Contains(t, RenderLoading(NewLoadingState("Fetching contacts")), "Fetching contacts")
}
