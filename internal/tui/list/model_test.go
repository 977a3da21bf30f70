package listview

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(item int, focused bool) string {
	if focused {
		return "> " + strconv.Itoa(item)
	}
	return "  " + strconv.Itoa(item)
}

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestVirtualList_Navigation(t *testing.T) {
	m := NewVirtualListModel(items(50), 10, 80, render)

	tests := []struct {
		key  string
		want int
	}{
		{"down", 1},
		{"j", 2},
		{"k", 1},
		{"up", 0},
		{"up", 0},
		{"pgdown", 10},
		{"pgup", 0},
		{"end", 49},
		{"down", 49},
		{"home", 0},
		{"G", 49},
		{"g", 0},
	}

	for _, tt := range tests {
		m.Update(keyMsg(tt.key))
		assert.Equal(t, tt.want, m.Focused(), "after %q", tt.key)
	}
}

func TestVirtualList_RendersOnlyViewport(t *testing.T) {
	m := NewVirtualListModel(items(1000), 10, 80, render)
	m.SetFocused(500)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, m.View(), "> 500")
	assert.LessOrEqual(t, m.VisibleFrom(), 500)
	assert.Greater(t, m.VisibleTo(), 500)
}

func TestVirtualList_WindowAtEdges(t *testing.T) {
	m := NewVirtualListModel(items(30), 10, 80, render)
	assert.Equal(t, 0, m.VisibleFrom())
	assert.Equal(t, 10, m.VisibleTo())

	m.SetFocused(29)
	assert.Equal(t, 20, m.VisibleFrom())
	assert.Equal(t, 30, m.VisibleTo())

	short := NewVirtualListModel(items(3), 10, 80, render)
	assert.Equal(t, 0, short.VisibleFrom())
	assert.Equal(t, 3, short.VisibleTo())
}

func TestVirtualList_SetItemsClampsFocus(t *testing.T) {
	m := NewVirtualListModel(items(20), 5, 80, render)
	m.SetFocused(19)

	m.SetItems(items(4))
	assert.Equal(t, 3, m.Focused())

	m.SetItems(nil)
	assert.Equal(t, 0, m.Focused())
	assert.Nil(t, m.FocusedItem())
	assert.Empty(t, m.View())
}

func TestVirtualList_FocusedItem(t *testing.T) {
	m := NewVirtualListModel(items(5), 5, 80, render)
	m.SetFocused(3)

	item := m.FocusedItem()
	require.NotNil(t, item)
	assert.Equal(t, 3, *item)

	m.SetFocused(-4)
	assert.Equal(t, 0, m.Focused())
}

func TestVirtualList_Resize(t *testing.T) {
	m := NewVirtualListModel(items(100), 10, 80, render)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 4})

	assert.Equal(t, 120, m.Width())
	assert.Equal(t, 4, m.Height())
	assert.Len(t, strings.Split(m.View(), "\n"), 4)
}

func TestVirtualList_Handles(t *testing.T) {
	m := NewVirtualListModel(items(1), 1, 80, render)
	assert.True(t, m.Handles(keyMsg("j")))
	assert.True(t, m.Handles(keyMsg("end")))
	assert.False(t, m.Handles(keyMsg("x")))
}
