package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadingState drives a spinner with a message.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a loading state showing message next to the spinner.
func NewLoadingState(message string) *LoadingState {
	return &LoadingState{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		message: message,
	}
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its own tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// Spinner returns the current spinner frame.
func (l *LoadingState) Spinner() string {
	return l.spinner.View()
}

// RenderLoading returns the loading line. A nil state renders plain text.
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return "Loading..."
	}
	if loading.message == "" {
		return loading.spinner.View()
	}
	return fmt.Sprintf("%s %s", loading.spinner.View(), loading.message)
}
