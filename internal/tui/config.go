package tui

import (
	"context"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Acknowledge func(ctx context.Context, id string) error
	Refresh     func(ctx context.Context) (alerts.Snapshot, error)
	Role        model.Role
	Cap         int
	Width       int
	Height      int
	ShowHelp    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Role:     model.RoleAdmin,
		Cap:      alerts.DefaultCap,
		Width:    100,
		Height:   24,
		ShowHelp: false,
	}
}

// WithTheme sets the theme.
func WithTheme(t themes.Theme) Option {
	return func(c *Config) {
		c.Theme = t
	}
}

// WithRole sets the starting role. Unknown roles start as admin.
func WithRole(r model.Role) Option {
	return func(c *Config) {
		if r.Known() {
			c.Role = r
		}
	}
}

// WithCap sets how many alerts are listed.
func WithCap(n int) Option {
	return func(c *Config) {
		c.Cap = n
	}
}

// WithAcknowledge enables the acknowledge key.
func WithAcknowledge(fn func(ctx context.Context, id string) error) Option {
	return func(c *Config) {
		c.Acknowledge = fn
	}
}

// WithRefresh enables on-demand polling.
func WithRefresh(fn func(ctx context.Context) (alerts.Snapshot, error)) Option {
	return func(c *Config) {
		c.Refresh = fn
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
