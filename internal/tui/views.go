package tui

import (
	"fmt"
	"strings"

	"github.com/Edisonlex/lubri/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var roleNames = map[model.Role]string{
	model.RoleAdmin:      "Administrador",
	model.RoleCashier:    "Cajero",
	model.RoleTechnician: "Tecnico",
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	theme := m.config.Theme
	sections := []string{m.renderHeader(), m.renderSummary()}

	if !m.ready {
		sections = append(sections, theme.StatusPending.Render("Waiting for alerts..."))
	} else if len(m.visible) == 0 {
		sections = append(sections, theme.StatusSuccess.Render("No alerts for this role."))
	} else {
		sections = append(sections, theme.RoundedBox.Render(m.table.View()))
	}

	if line := m.renderStatus(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	theme := m.config.Theme
	title := theme.Title.Render("🛢️  Alertas de stock")
	role := theme.Bold.Render(roleNames[m.role])

	updated := "never"
	if !m.lastUpdate.IsZero() {
		updated = m.lastUpdate.Format("15:04:05")
	}

	return fmt.Sprintf("%s  %s %s  %s",
		title,
		theme.Subtitle.Render("rol:"), role,
		theme.Subtitle.Render("actualizado "+updated))
}

func (m Model) renderSummary() string {
	theme := m.config.Theme
	parts := make([]string, 0, len(model.Urgencies())+1)
	for _, u := range model.Urgencies() {
		style, ok := theme.Urgency[u]
		if !ok {
			style = theme.Normal
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %d", urgencyLabel(u), m.summary.ByUrgency[u])))
	}
	parts = append(parts, theme.Subtitle.Render(fmt.Sprintf("agotados %d · bajo minimo %d · mostrando %d de %d",
		m.summary.OutOfStock, m.summary.BelowMinimum, len(m.visible), m.summary.Total)))
	return strings.Join(parts, "  ")
}

func (m Model) renderStatus() string {
	theme := m.config.Theme
	if m.lastError != nil {
		return theme.StatusError.Render("✗ " + m.lastError.Error())
	}
	if m.status != "" {
		return theme.StatusSuccess.Render("✓ " + m.status)
	}
	return ""
}
