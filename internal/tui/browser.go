// Package tui renders the contact browser with Bubble Tea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/contactdeck/internal/contact"
	"github.com/rshade/contactdeck/internal/selection"
	"github.com/rshade/contactdeck/internal/source"
	listview "github.com/rshade/contactdeck/internal/tui/list"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minListHeight = 3

	// Rows taken by the counter header and the help footer.
	chromeHeight = 3
	// Extra rows taken by the bordered load-more control.
	controlHeight = 2

	loadMoreLabel = "Load more"
	closeLabel    = "Close error message"
)

// Feed is the data the browser presents and the actions it can trigger.
// *feed.Feed implements it.
type Feed interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	LoadMore() tea.Cmd
	ResetError()
	Close()
	Data() []contact.Person
	HasData() bool
	IsLoading() bool
	Err() string
}

// row is one focusable line: a contact or the load-more control.
type row struct {
	person   contact.Person
	selected bool
	loadMore bool
}

func (r row) key() string {
	if r.loadMore {
		return "\x00load-more"
	}
	return r.person.ID
}

// Model is the Bubble Tea model of the contact browser.
type Model struct {
	feed     Feed
	selected *selection.Set
	sorter   *selection.Sorter
	printer  *message.Printer
	logger   zerolog.Logger

	list    *listview.VirtualListModel[row]
	loading *LoadingState
	keys    keyMap
	help    help.Model

	pageSize int
	width    int
	height   int

	// Values seen by the previous sync, used to detect growth and toggles.
	seenLen   int
	seenCount int

	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithLanguage sets the locale used to collate names and format the counter.
func WithLanguage(tag language.Tag) Option {
	return func(m *Model) {
		m.sorter = selection.NewSorter(tag)
		m.printer = message.NewPrinter(tag)
	}
}

// WithPageSize sets the page size used to detect growth past the first page.
func WithPageSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// New creates a browser over f.
func New(f Feed, opts ...Option) *Model {
	m := &Model{
		feed:     f,
		selected: selection.NewSet(),
		sorter:   selection.NewSorter(language.English),
		printer:  message.NewPrinter(language.English),
		logger:   zerolog.Nop(),
		loading:  NewLoadingState(""),
		help:     help.New(),
		pageSize: source.DefaultPageSize,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.list = listview.NewVirtualListModel[row](nil, minListHeight, m.width, m.renderRow)
	m.keys = newKeyMap(m.list.KeyMap())
	m.sync()
	return m
}

// Init starts the first fetch and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.feed.Init(), m.loading.Init())
}

// Update handles input, spinner ticks and feed messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case spinner.TickMsg:
		return m, m.loading.Update(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	default:
		cmd = m.feed.Update(msg)
	}

	m.sync()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logger.Debug().Msg("quit requested")
		m.quitting = true
		m.feed.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.logger.Debug().Str("error", m.feed.Err()).Msg("error dismissed")
		m.feed.ResetError()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.LoadMore):
		return m.loadMore()
	case key.Matches(msg, m.keys.Toggle):
		return m.activate()
	case m.list.Handles(msg):
		m.list.Update(msg)
	}
	return nil
}

// activate toggles the focused contact or presses the focused control.
func (m *Model) activate() tea.Cmd {
	r := m.list.FocusedItem()
	if r == nil {
		return nil
	}
	if r.loadMore {
		if !m.controlEnabled() {
			return nil
		}
		return m.loadMore()
	}
	now := m.selected.Toggle(r.person.ID)
	m.logger.Debug().Str("id", r.person.ID).Bool("selected", now).Msg("selection toggled")
	return nil
}

func (m *Model) loadMore() tea.Cmd {
	if m.feed.IsLoading() {
		return nil
	}
	m.logger.Debug().Int("have", len(m.feed.Data())).Msg("load more")
	return m.feed.LoadMore()
}

func (m *Model) controlEnabled() bool {
	return m.feed.HasData() && !m.feed.IsLoading()
}

// sync rebuilds the rows from the feed and selection and applies the
// scroll effects: toggling scrolls to the top, growth past the first page
// focuses the load-more control.
func (m *Model) sync() {
	data := m.feed.Data()
	sorted := m.sorter.Sort(data, m.selected)

	rows := make([]row, 0, len(sorted)+1)
	for _, p := range sorted {
		rows = append(rows, row{person: p, selected: m.selected.Contains(p.ID)})
	}
	if m.feed.HasData() {
		rows = append(rows, row{loadMore: true})
	}

	var focusKey string
	if r := m.list.FocusedItem(); r != nil {
		focusKey = r.key()
	}

	m.list.SetItems(rows)
	m.list.SetSize(m.width, m.listHeight())
	m.keys.Dismiss.SetEnabled(m.feed.Err() != "")

	count := m.selected.Count()
	grew := len(data) != m.seenLen && len(data) > m.pageSize

	switch {
	case count != m.seenCount:
		m.list.SetFocused(0)
	case grew:
		m.list.SetFocused(len(rows) - 1)
	default:
		m.list.SetFocused(indexOf(rows, focusKey))
	}

	m.seenLen = len(data)
	m.seenCount = count
}

func indexOf(rows []row, k string) int {
	for i, r := range rows {
		if r.key() == k {
			return i
		}
	}
	return 0
}

func (m *Model) listHeight() int {
	h := m.height - chromeHeight
	if m.feed.HasData() {
		h -= controlHeight
	}
	return max(h, minListHeight)
}

// SelectedCount returns the number of selected contacts.
func (m *Model) SelectedCount() int {
	return m.selected.Count()
}

// Rows returns the contacts in display order.
func (m *Model) Rows() []contact.Person {
	out := make([]contact.Person, 0, m.list.ItemCount())
	for _, r := range m.list.Items() {
		if !r.loadMore {
			out = append(out, r.person)
		}
	}
	return out
}

// View renders the browser.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.feed.IsLoading() && !m.feed.HasData() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			RenderLoading(m.loading))
	}

	sections := []string{
		HeaderStyle.Render(m.printer.Sprintf("Selected contacts: %d", m.selected.Count())),
	}

	if m.feed.HasData() {
		sections = append(sections, m.list.View())
	} else {
		sections = append(sections, InfoStyle.Render("No contacts loaded. Press l to try again."))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if toast := m.renderToast(); toast != "" {
		body = overlayBottom(body, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toast))
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys))
}

// overlayBottom draws top over the last lines of base without changing its
// height. The first line of base always stays visible; when base is too
// short, top is appended instead.
func overlayBottom(base, top string) string {
	baseLines := strings.Split(base, "\n")
	topLines := strings.Split(top, "\n")

	start := len(baseLines) - len(topLines)
	if start < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, base, top)
	}
	copy(baseLines[start:], topLines)
	return strings.Join(baseLines, "\n")
}

func (m *Model) renderRow(r row, focused bool) string {
	if r.loadMore {
		return m.renderControl(focused)
	}

	mark := "[ ]"
	if r.selected {
		mark = SelectedMarkStyle.Render("[x]")
	}

	name := r.person.FirstNameLastName
	if focused {
		name = FocusedRowStyle.Render(name)
	} else {
		name = NameStyle.Render(name)
	}

	return strings.Join([]string{mark, name, SubtleStyle.Render(r.person.Description())}, " ")
}

func (m *Model) renderControl(focused bool) string {
	switch {
	case m.feed.IsLoading():
		return ButtonDisabledStyle.Render(m.loading.Spinner())
	case focused:
		return ButtonFocusedStyle.Render(loadMoreLabel)
	default:
		return ButtonStyle.Render(loadMoreLabel)
	}
}

// renderToast renders the error notification, or "" when there is no error.
func (m *Model) renderToast() string {
	msg := m.feed.Err()
	if msg == "" {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Center,
		msg,
		SubtleStyle.Render("  [x] "+closeLabel),
	)
	return ToastStyle.Render(body)
}
