package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/cli"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/ecuador"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"alert"},
		Short:   "Work with stock alerts",
		Long: `Show the prioritized stock alert list for a role and record what staff did
about it. Alerts are produced by the inventory service and stored here by
"alerts add" or the HTTP API.`,
	}

	cmd.AddCommand(alertsListCmd())
	cmd.AddCommand(alertsAddCmd())
	cmd.AddCommand(alertsAckCmd())
	cmd.AddCommand(alertsStockCmd())
	cmd.AddCommand(alertsSummaryCmd())

	return cmd
}

func alertsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the prioritized alerts for a role",
		Long: `Show at most --cap active alerts visible to --role, most urgent first.
Roles: admin (administrador), cashier (cajero), technician (tecnico).
With --watch the list is reprinted on every poll.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			roleFlag, _ := cmd.Flags().GetString("role")
			limit, _ := cmd.Flags().GetInt("cap")
			asJSON, _ := cmd.Flags().GetBool("json")
			watch, _ := cmd.Flags().GetBool("watch")
			interval, _ := cmd.Flags().GetDuration("interval")

			role := resolveRole(roleFlag)
			if limit <= 0 {
				limit = appConfig.Alerts.Cap
			}
			if interval <= 0 {
				interval = appConfig.Alerts.PollInterval
			}
			p := alerts.NewPrioritizer(limit)

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !watch {
				active, err := db.ActiveAlerts(ctx)
				if err != nil {
					return fmt.Errorf("failed to load alerts: %w", err)
				}
				list := p.Prioritize(active, role)
				metrics.ObservePrioritized(string(role), len(list))
				if asJSON {
					return printJSON(list)
				}
				printAlertView(alerts.View{TakenAt: time.Now(), Role: role, Alerts: list, Summary: alerts.Summarize(active)})
				return nil
			}

			poller := alerts.NewPoller(db, interval,
				alerts.WithLogger(slog.Default()),
				alerts.WithRetry(common.RetryOptions{
					MaxAttempts:  3,
					InitialDelay: 100 * time.Millisecond,
					MaxDelay:     time.Second,
					Multiplier:   2,
				}),
				alerts.WithFailureHook(func(error) { metrics.AlertPollFailures.Inc() }),
			)

			for view := range alerts.Feed(ctx, poller.Run(ctx), p, role) {
				if asJSON {
					if err := printJSON(view); err != nil {
						return err
					}
					continue
				}
				fmt.Print("\033[H\033[2J") //nolint:forbidigo // clear screen between polls
				printAlertView(view)
			}
			return nil
		},
	}

	cmd.Flags().StringP("role", "r", "", "Role asking for alerts (default from config)")
	cmd.Flags().Int("cap", 0, "Maximum alerts to show (default from config)")
	cmd.Flags().Bool("json", false, "Print as JSON")
	cmd.Flags().BoolP("watch", "w", false, "Keep polling and reprint the list")
	cmd.Flags().Duration("interval", 0, "Poll interval for --watch (default from config)")
	return cmd
}

func printAlertView(v alerts.View) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Stock alerts · %s · %s", v.Role, v.TakenAt.Format("15:04:05")))) //nolint:forbidigo // User-facing output
	fmt.Println(cli.RenderSummary(v.Summary))                                                              //nolint:forbidigo // User-facing output
	fmt.Println(cli.RenderAlerts(v.Alerts))                                                                //nolint:forbidigo // User-facing output
}

func alertsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <product name>",
		Short: "Record a stock alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, _ := cmd.Flags().GetString("id")
			sku, _ := cmd.Flags().GetString("sku")
			category, _ := cmd.Flags().GetString("category")
			supplier, _ := cmd.Flags().GetString("supplier")
			urgency, _ := cmd.Flags().GetString("urgency")
			trend, _ := cmd.Flags().GetString("trend")
			current, _ := cmd.Flags().GetInt("stock")
			minimum, _ := cmd.Flags().GetInt("min")

			if id == "" {
				id = uuid.NewString()
			}

			alert := &model.StockAlert{
				ID:           id,
				ProductName:  args[0],
				Category:     category,
				SKU:          sku,
				Supplier:     supplier,
				CurrentStock: current,
				MinStock:     minimum,
				Urgency:      model.Urgency(urgency),
				Trend:        model.Trend(trend),
			}
			if err := ecuador.NewValidator().Struct(alert); err != nil {
				return common.NewUserError("invalid alert", err)
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := db.UpsertAlert(ctx, alert); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Stored alert " + alert.ID)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().String("id", "", "Alert ID (generated when empty)")
	cmd.Flags().String("sku", "", "Product SKU")
	cmd.Flags().String("category", "", "Product category")
	cmd.Flags().String("supplier", "", "Supplier name")
	cmd.Flags().StringP("urgency", "u", string(model.UrgencyMedium), "critical, high, medium or low")
	cmd.Flags().String("trend", string(model.TrendStable), "improving, stable or worsening")
	cmd.Flags().Int("stock", 0, "Current stock")
	cmd.Flags().Int("min", 0, "Minimum stock")
	return cmd
}

func alertsAckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ack <id>",
		Short: "Acknowledge an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			by, _ := cmd.Flags().GetString("by")
			if by == "" {
				by = os.Getenv("USER")
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			err = db.AcknowledgeAlert(ctx, args[0], by)
			switch {
			case errors.Is(err, common.ErrNotFound):
				return common.NewUserError("alert not found: "+args[0], err)
			case errors.Is(err, storage.ErrAlreadyResolved):
				fmt.Println(cli.FormatInfo("Alert " + args[0] + " was already resolved")) //nolint:forbidigo // User-facing output
				return nil
			case err != nil:
				return err
			}

			fmt.Println(cli.FormatSuccess("Acknowledged " + args[0])) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().String("by", "", "Who handled the alert (default $USER)")
	return cmd
}

func alertsStockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock <sku> <quantity>",
		Short: "Record a stock count and resolve replenished alerts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			qty, err := strconv.Atoi(args[1])
			if err != nil || qty < 0 {
				return common.NewUserError("quantity must be a non-negative number", err)
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			resolved, err := db.RecordStock(ctx, args[0], qty)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("no active alerts for "+args[0], err)
			}
			if err != nil {
				return err
			}

			if resolved > 0 {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d alert(s) resolved", resolved))) //nolint:forbidigo // User-facing output
			} else {
				fmt.Println(cli.FormatInfo("Stock recorded; still at or below minimum")) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}
}

func alertsSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count active alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			asJSON, _ := cmd.Flags().GetBool("json")

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			active, err := db.ActiveAlerts(ctx)
			if err != nil {
				return err
			}
			s := alerts.Summarize(active)
			if asJSON {
				return printJSON(s)
			}
			fmt.Println(cli.RenderSummary(s)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}
