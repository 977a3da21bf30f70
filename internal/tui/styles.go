package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorAccent   = lipgloss.Color("57")
	ColorSelected = lipgloss.Color("42")
	ColorSubtle   = lipgloss.Color("240")
	ColorSpinner  = lipgloss.Color("205")
	ColorCritical = lipgloss.Color("196")
	ColorOnAccent = lipgloss.Color("229")
)

// Text styles.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorSubtle).
			BorderBottom(true)

	SubtleStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

	InfoStyle = lipgloss.NewStyle().Italic(true).Foreground(ColorSubtle)

	NameStyle = lipgloss.NewStyle().Bold(true)

	SelectedMarkStyle = lipgloss.NewStyle().Foreground(ColorSelected).Bold(true)

	FocusedRowStyle = lipgloss.NewStyle().
			Foreground(ColorOnAccent).
			Background(ColorAccent)
)

// Control styles.
var (
	ButtonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle)

	ButtonFocusedStyle = ButtonStyle.
				BorderForeground(ColorAccent).
				Foreground(ColorOnAccent).
				Background(ColorAccent)

	ButtonDisabledStyle = ButtonStyle.Foreground(ColorSubtle)

	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorSpinner)
)

// ToastStyle frames the error notification.
var ToastStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder()).
	BorderForeground(ColorCritical).
	Foreground(ColorCritical).
	Padding(0, 1)
