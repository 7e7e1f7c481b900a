package tui

import (
	"context"
	"fmt"

	"github.com/Edisonlex/lubri/internal/alerts"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the poller and shows the dashboard until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, poller *alerts.Poller, opts ...Option) error {
	if poller == nil {
		return fmt.Errorf("poller is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]Option{WithRefresh(poller.Poll)}, opts...)
	m := NewModel(poller.Run(ctx), opts...)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
