package cli

import "github.com/charmbracelet/lipgloss"

// theme holds the colors of command output.
type theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

var defaultTheme = theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t theme) status(s string) string {
	return lipgloss.NewStyle().Foreground(t.Status).Render(s)
}

func (t theme) success(s string) string {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render(s)
}

func (t theme) failure(s string) string {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(s)
}

func (t theme) hint(s string) string {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true).Render(s)
}

func (t theme) header(s string) string {
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(s)
}
