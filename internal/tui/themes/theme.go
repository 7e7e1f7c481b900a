// Package themes holds the color schemes of the alert dashboard.
package themes

import (
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Urgency       map[model.Urgency]lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
}

type palette struct {
	primary, foreground, muted, border        lipgloss.Color
	success, warning, errorC                  lipgloss.Color
	critical, high, medium, low, selectedText lipgloss.Color
}

func newTheme(p palette) Theme {
	urgency := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}

	return Theme{
		Primary:    p.primary,
		Foreground: p.foreground,
		Muted:      p.muted,
		Border:     p.border,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.muted),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.selectedText).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.border),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorC).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),

		Urgency: map[model.Urgency]lipgloss.Style{
			model.UrgencyCritical: urgency(p.critical),
			model.UrgencyHigh:     urgency(p.high),
			model.UrgencyMedium:   urgency(p.medium),
			model.UrgencyLow:      urgency(p.low),
		},
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:      lipgloss.Color("#f4a300"),
	foreground:   lipgloss.Color("#fafafa"),
	muted:        lipgloss.Color("#737373"),
	border:       lipgloss.Color("#404040"),
	success:      lipgloss.Color("#10b981"),
	warning:      lipgloss.Color("#f59e0b"),
	errorC:       lipgloss.Color("#ef4444"),
	critical:     lipgloss.Color("#ff3b30"),
	high:         lipgloss.Color("#ff9500"),
	medium:       lipgloss.Color("#ffcc00"),
	low:          lipgloss.Color("#8e8e93"),
	selectedText: lipgloss.Color("#1a1a1a"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:      lipgloss.Color("#cba6f7"),
	foreground:   lipgloss.Color("#cdd6f4"),
	muted:        lipgloss.Color("#6c7086"),
	border:       lipgloss.Color("#45475a"),
	success:      lipgloss.Color("#a6e3a1"),
	warning:      lipgloss.Color("#f9e2af"),
	errorC:       lipgloss.Color("#f38ba8"),
	critical:     lipgloss.Color("#f38ba8"),
	high:         lipgloss.Color("#fab387"),
	medium:       lipgloss.Color("#f9e2af"),
	low:          lipgloss.Color("#6c7086"),
	selectedText: lipgloss.Color("#1e1e2e"),
})

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
