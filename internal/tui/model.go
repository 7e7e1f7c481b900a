// Package tui implements the live stock-alert dashboard.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

var roleCycle = []model.Role{model.RoleAdmin, model.RoleCashier, model.RoleTechnician}

// Model holds the dashboard state.
type Model struct {
	lastUpdate  time.Time
	lastError   error
	snapshots   <-chan alerts.Snapshot
	help        help.Model
	table       table.Model
	role        model.Role
	status      string
	all         []model.StockAlert
	visible     []model.StockAlert
	summary     alerts.Summary
	keymap      KeyMap
	config      Config
	prioritizer alerts.Prioritizer
	width       int
	height      int
	quitting    bool
	ready       bool
}

// NewModel creates a dashboard reading snapshots from ch. A nil channel
// means snapshots arrive only through Refresh.
func NewModel(ch <-chan alerts.Snapshot, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	return Model{
		snapshots:   ch,
		config:      cfg,
		keymap:      DefaultKeyMap(),
		help:        h,
		table:       t,
		role:        cfg.Role,
		prioritizer: alerts.NewPrioritizer(cfg.Cap),
		summary:     alerts.Summarize(nil),
		width:       cfg.Width,
		height:      cfg.Height,
	}
}

func columns(width int) []table.Column {
	product := width - 9 - 12 - 6 - 5 - 6 - 14
	if product < 16 {
		product = 16
	}
	return []table.Column{
		{Title: "Urgencia", Width: 9},
		{Title: "Producto", Width: product},
		{Title: "SKU", Width: 12},
		{Title: "Stock", Width: 6},
		{Title: "Min", Width: 5},
		{Title: "Tend.", Width: 6},
	}
}

func tableHeight(height int) int {
	h := height - 9
	if h < 3 {
		return 3
	}
	return h
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func waitForSnapshot(ch <-chan alerts.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg{snapshot: snap}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		return m, waitForSnapshot(m.snapshots)

	case refreshedMsg:
		m.applySnapshot(msg.snapshot)
		m.status = "Refreshed"
		return m, nil

	case refreshFailedMsg:
		m.lastError = msg.err
		return m, nil

	case feedClosedMsg:
		m.snapshots = nil
		m.status = "Alert feed stopped"
		return m, nil

	case ackDoneMsg:
		if msg.err != nil {
			m.lastError = fmt.Errorf("acknowledge %s: %w", msg.id, msg.err)
			return m, nil
		}
		m.removeAlert(msg.id)
		m.status = "Acknowledged " + msg.id
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.NextRole):
		m.role = nextRole(m.role)
		m.lastError = nil
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keymap.Acknowledge):
		return m, m.acknowledgeSelected()

	case key.Matches(msg, m.keymap.Roles...):
		for i, b := range m.keymap.Roles {
			if key.Matches(msg, b) && i < len(roleCycle) {
				m.role = roleCycle[i]
			}
		}
		m.lastError = nil
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.refresh()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func nextRole(r model.Role) model.Role {
	for i, role := range roleCycle {
		if role == r {
			return roleCycle[(i+1)%len(roleCycle)]
		}
	}
	return roleCycle[0]
}

func (m *Model) applySnapshot(s alerts.Snapshot) {
	m.all = s.Alerts
	m.lastUpdate = s.TakenAt
	m.lastError = nil
	m.ready = true
	m.recompute()
}

func (m *Model) removeAlert(id string) {
	kept := make([]model.StockAlert, 0, len(m.all))
	for _, a := range m.all {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.all = kept
	m.recompute()
}

func (m *Model) recompute() {
	m.visible = m.prioritizer.Prioritize(m.all, m.role)
	m.summary = alerts.Summarize(m.all)

	rows := make([]table.Row, len(m.visible))
	for i, a := range m.visible {
		rows[i] = table.Row{
			urgencyLabel(a.Urgency),
			a.ProductName,
			a.SKU,
			fmt.Sprintf("%d", a.CurrentStock),
			fmt.Sprintf("%d", a.MinStock),
			trendLabel(a.Trend),
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Selected returns the highlighted alert.
func (m Model) Selected() (model.StockAlert, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return model.StockAlert{}, false
	}
	return m.visible[c], true
}

// Role returns the role whose list is shown.
func (m Model) Role() model.Role {
	return m.role
}

// Visible returns the prioritized list currently shown.
func (m Model) Visible() []model.StockAlert {
	return m.visible
}

func (m Model) acknowledgeSelected() tea.Cmd {
	if m.config.Acknowledge == nil {
		return nil
	}
	a, ok := m.Selected()
	if !ok {
		return nil
	}
	ack := m.config.Acknowledge
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ackDoneMsg{id: a.ID, err: ack(ctx, a.ID)}
	}
}

func (m Model) refresh() tea.Cmd {
	if m.config.Refresh == nil {
		return nil
	}
	refresh := m.config.Refresh
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		snap, err := refresh(ctx)
		if err != nil {
			return refreshFailedMsg{err: err}
		}
		return refreshedMsg{snapshot: snap}
	}
}

func urgencyLabel(u model.Urgency) string {
	switch u {
	case model.UrgencyCritical:
		return "CRITICA"
	case model.UrgencyHigh:
		return "ALTA"
	case model.UrgencyMedium:
		return "MEDIA"
	case model.UrgencyLow:
		return "BAJA"
	default:
		return string(u)
	}
}

func trendLabel(t model.Trend) string {
	switch t {
	case model.TrendImproving:
		return "↑"
	case model.TrendWorsening:
		return "↓"
	default:
		return "→"
	}
}

var _ tea.Model = Model{}
