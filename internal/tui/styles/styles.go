// Package styles holds the dashboard's lipgloss palette and themes.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a resolved color palette for the dashboard.
type Theme struct {
	Name string

	Primary lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Border  lipgloss.Color

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Selected   lipgloss.Style
	Help       lipgloss.Style
	ErrorText  lipgloss.Style
	StatusLine lipgloss.Style
	Panel      lipgloss.Style
	FieldLabel lipgloss.Style
}

// Default is the dark theme.
func Default() *Theme {
	t := &Theme{
		Name:    "default",
		Primary: lipgloss.Color("#A78BFA"), // Purple
		Accent:  lipgloss.Color("#10B981"), // Green
		Warning: lipgloss.Color("#F59E0B"), // Amber
		Error:   lipgloss.Color("#F87171"), // Red
		Muted:   lipgloss.Color("#9CA3AF"), // Gray
		Text:    lipgloss.Color("#F9FAFB"), // Light text
		Border:  lipgloss.Color("#6B7280"), // Gray
	}
	t.derive()
	return t
}

// Light is the light-background theme.
func Light() *Theme {
	t := &Theme{
		Name:    "light",
		Primary: lipgloss.Color("#6D28D9"),
		Accent:  lipgloss.Color("#047857"),
		Warning: lipgloss.Color("#B45309"),
		Error:   lipgloss.Color("#B91C1C"),
		Muted:   lipgloss.Color("#6B7280"),
		Text:    lipgloss.Color("#111827"),
		Border:  lipgloss.Color("#9CA3AF"),
	}
	t.derive()
	return t
}

// ForName resolves a configured theme name, falling back to the default.
func ForName(name string) *Theme {
	if strings.EqualFold(name, "light") {
		return Light()
	}
	return Default()
}

func (t *Theme) derive() {
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1)
	t.Subtitle = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	t.Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Text).Background(t.Primary).Padding(0, 1)
	t.Help = lipgloss.NewStyle().Foreground(t.Muted)
	t.ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	t.StatusLine = lipgloss.NewStyle().Foreground(t.Accent)
	t.Panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.FieldLabel = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

// Status badge colors per project lifecycle status.
var (
	StatusNotStarted = lipgloss.Color("#9CA3AF") // Gray
	StatusInProgress = lipgloss.Color("#60A5FA") // Blue
	StatusCompleted  = lipgloss.Color("#10B981") // Green
	StatusOnHold     = lipgloss.Color("#F59E0B") // Amber
)

// StatusBadge renders a colored badge for a lifecycle status.
func StatusBadge(status string) string {
	color := StatusNotStarted
	switch status {
	case "In Progress":
		color = StatusInProgress
	case "Completed":
		color = StatusCompleted
	case "On Hold":
		color = StatusOnHold
	}
	return lipgloss.NewStyle().Foreground(color).Render("● " + status)
}
