package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// halfViewportDivisor is used to calculate half the viewport height for centering.
const halfViewportDivisor = 2

// RenderFunc renders an item. focused reports whether the item has the cursor.
type RenderFunc[T any] func(item T, focused bool) string

// KeyMap defines the navigation bindings understood by the list.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

// DefaultKeyMap returns arrow, vim-style and paging bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "bottom"),
		),
	}
}

// VirtualListModel is a focusable list that renders only the rows inside
// its viewport, so the cost of View does not grow with the item count.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	keys       KeyMap

	// focused is the index of the item holding the cursor.
	focused int

	// visibleFrom and visibleTo bound the rendered window [from, to).
	visibleFrom int
	visibleTo   int

	height int
	width  int
}

// NewVirtualListModel creates a list over items with the given viewport size.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		keys:       DefaultKeyMap(),
		height:     height,
		width:      width,
	}

	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resize messages.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// Handles reports whether msg is one of the list's navigation keys.
func (m *VirtualListModel[T]) Handles(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown, m.keys.Home, m.keys.End)
}

// KeyMap returns the list's navigation bindings.
func (m *VirtualListModel[T]) KeyMap() KeyMap {
	return m.keys
}

func (m *VirtualListModel[T]) handleKeyMsg(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.SetFocused(m.focused - 1)
	case key.Matches(msg, m.keys.Down):
		m.SetFocused(m.focused + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.SetFocused(m.focused - m.height)
	case key.Matches(msg, m.keys.PageDown):
		m.SetFocused(m.focused + m.height)
	case key.Matches(msg, m.keys.Home):
		m.SetFocused(0)
	case key.Matches(msg, m.keys.End):
		m.SetFocused(len(m.items) - 1)
	}
}

// updateVisibleRange recomputes the window so the focused item is visible,
// centering it where the list is long enough.
func (m *VirtualListModel[T]) updateVisibleRange() {
	if len(m.items) == 0 || m.height <= 0 {
		m.visibleFrom = 0
		m.visibleTo = 0
		return
	}

	halfViewport := m.height / halfViewportDivisor
	from := m.focused - halfViewport
	to := from + m.height

	if from < 0 {
		from = 0
		to = m.height
	}
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}

	m.visibleFrom = from
	m.visibleTo = to
}

// View renders the rows inside the viewport.
func (m *VirtualListModel[T]) View() string {
	if m.visibleTo <= m.visibleFrom {
		return ""
	}

	lines := make([]string, 0, m.visibleTo-m.visibleFrom)
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		lines = append(lines, m.renderFunc(m.items[i], i == m.focused))
	}
	return strings.Join(lines, "\n")
}

// SetItems replaces the items, clamping the focus to the new bounds.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.SetFocused(m.focused)
}

// Items returns the current items.
func (m *VirtualListModel[T]) Items() []T {
	return m.items
}

// SetSize changes the viewport dimensions.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 0)
	m.updateVisibleRange()
}

// ItemCount returns the total number of items in the list.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Focused returns the focused item index.
func (m *VirtualListModel[T]) Focused() int {
	return m.focused
}

// SetFocused moves the focus to index, capping to valid bounds.
func (m *VirtualListModel[T]) SetFocused(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.focused = 0
	case index >= len(m.items):
		m.focused = len(m.items) - 1
	default:
		m.focused = index
	}

	m.updateVisibleRange()
}

// FocusedItem returns the focused item, or nil if the list is empty.
func (m *VirtualListModel[T]) FocusedItem() *T {
	if m.focused < 0 || m.focused >= len(m.items) {
		return nil
	}
	return &m.items[m.focused]
}

// VisibleFrom returns the first visible item index (inclusive).
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.visibleFrom
}

// VisibleTo returns the last visible item index (exclusive).
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.visibleTo
}

// Height returns the viewport height.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}
