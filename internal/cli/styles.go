// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"

	"github.com/Edisonlex/lubri/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (motor-oil amber).
	PrimaryColor = lipgloss.Color("#F4A300")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				Padding(0, 1)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	OilIcon     = "🛢️"
	ChartIcon   = "📊"
	BoxIcon     = "📦"
)

var urgencyColors = map[model.Urgency]lipgloss.Color{
	model.UrgencyCritical: lipgloss.Color("#FF3B30"),
	model.UrgencyHigh:     lipgloss.Color("#FF9500"),
	model.UrgencyMedium:   lipgloss.Color("#FFCC00"),
	model.UrgencyLow:      lipgloss.Color("#8E8E93"),
}

var urgencyLabels = map[model.Urgency]string{
	model.UrgencyCritical: "CRITICA",
	model.UrgencyHigh:     "ALTA",
	model.UrgencyMedium:   "MEDIA",
	model.UrgencyLow:      "BAJA",
}

var trendArrows = map[model.Trend]string{
	model.TrendImproving: "↑",
	model.TrendStable:    "→",
	model.TrendWorsening: "↓",
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the oil icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(OilIcon + " " + title)
}

// UrgencyBadge renders an urgency as a colored label.
func UrgencyBadge(u model.Urgency) string {
	label, ok := urgencyLabels[u]
	if !ok {
		return SubtleStyle.Render(string(u))
	}
	return lipgloss.NewStyle().Bold(true).Foreground(urgencyColors[u]).Render(label)
}

// TrendArrow renders a trend as an arrow; worsening is highlighted.
func TrendArrow(t model.Trend) string {
	arrow, ok := trendArrows[t]
	if !ok {
		return "?"
	}
	if t == model.TrendWorsening {
		return ErrorStyle.Render(arrow)
	}
	return arrow
}

// FormatConfidence renders a confidence as a percentage, dimmed when it is
// at or below the classifier floor.
func FormatConfidence(c, floor float64) string {
	s := fmt.Sprintf("%3.0f%%", c*100)
	if c <= floor {
		return SubtleStyle.Render(s)
	}
	if c >= 0.8 {
		return SuccessStyle.Render(s)
	}
	return s
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}
