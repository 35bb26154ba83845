package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// NewRenderer returns a function that renders markdown using glamour.
// A renderer that cannot be built falls back to returning the markdown as is.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// StatusStyle is the style of the one-line status printed after each action.
func StatusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
}
