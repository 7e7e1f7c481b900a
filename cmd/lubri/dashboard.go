package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/tui"
	"github.com/Edisonlex/lubri/internal/tui/themes"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Live alert dashboard",
		Long: `Open a terminal dashboard that polls the stored alerts and shows the
prioritized list. Tab switches role, a acknowledges the selected alert.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			roleFlag, _ := cmd.Flags().GetString("role")
			themeName, _ := cmd.Flags().GetString("theme")
			interval, _ := cmd.Flags().GetDuration("interval")
			by, _ := cmd.Flags().GetString("by")
			if interval <= 0 {
				interval = appConfig.Alerts.PollInterval
			}
			if by == "" {
				by = os.Getenv("USER")
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// Logging would corrupt the alt screen.
			prev := slog.Default()
			logger, _ := common.NewLogger(io.Discard, slog.LevelError, "console")
			slog.SetDefault(logger)
			defer slog.SetDefault(prev)

			poller := alerts.NewPoller(db, interval,
				alerts.WithLogger(logger),
				alerts.WithRetry(common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 2}),
				alerts.WithFailureHook(func(error) { metrics.AlertPollFailures.Inc() }),
			)

			return tui.Run(ctx, poller,
				tui.WithRole(resolveRole(roleFlag)),
				tui.WithCap(appConfig.Alerts.Cap),
				tui.WithTheme(themes.ByName(themeName)),
				tui.WithAcknowledge(func(ctx context.Context, id string) error {
					return db.AcknowledgeAlert(ctx, id, by)
				}),
			)
		},
	}

	cmd.Flags().StringP("role", "r", "", "Starting role (default from config)")
	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")
	cmd.Flags().Duration("interval", 0, "Poll interval (default from config)")
	cmd.Flags().String("by", "", "Name recorded on acknowledged alerts (default $USER)")
	return cmd
}
