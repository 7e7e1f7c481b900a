package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Edisonlex/lubri/internal/classification"
	"github.com/Edisonlex/lubri/internal/cli"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"rule"},
		Short:   "Manage custom classification rules",
		Long: `Custom rules are added to the built-in keyword table. Each rule is a
case-insensitive regular expression that adds its weight to one category
when it matches. Run "lubri products recategorize" after changing rules.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesToggleCmd("enable", true))
	cmd.AddCommand(rulesToggleCmd("disable", false))
	cmd.AddCommand(rulesDeleteCmd())
	cmd.AddCommand(rulesTestCmd())

	return cmd
}

func parseRuleID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, common.NewUserError("invalid rule ID: "+s, err)
	}
	return id, nil
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List custom rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			builtin, _ := cmd.Flags().GetBool("builtin")

			if builtin {
				for _, r := range classification.DefaultRules() {
					field := string(r.Field)
					if field == "" {
						field = "any"
					}
					fmt.Printf("%-24s %-11s %-8s %4.1f  %s\n", r.Name, r.Category, field, r.Weight, r.Pattern) //nolint:forbidigo // User-facing output
				}
				return nil
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rules, err := db.ListPatternRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}
			fmt.Println(cli.RenderRules(rules)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
	cmd.Flags().Bool("builtin", false, "Show the built-in keyword table instead")
	return cmd
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <pattern>",
		Short: "Add a custom rule",
		Long: `Add a custom rule. Example:

  lubri rules add "Liquido de frenos" '\bdot\s*[345]\b' --category additives --weight 2.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryFlag, _ := cmd.Flags().GetString("category")
			fieldFlag, _ := cmd.Flags().GetString("field")
			weight, _ := cmd.Flags().GetFloat64("weight")
			reason, _ := cmd.Flags().GetString("reason")

			category, err := model.ParseCategory(categoryFlag)
			if err != nil {
				return common.NewUserError("unknown category "+strconv.Quote(categoryFlag), err)
			}
			field := model.RuleField(fieldFlag)
			if fieldFlag == "any" {
				field = model.RuleFieldAny
			}

			rule := &model.PatternRule{
				Name:     args[0],
				Pattern:  args[1],
				Category: category,
				Field:    field,
				Weight:   weight,
				Reason:   reason,
				IsActive: true,
			}

			// Compile before storing so a bad pattern never reaches the table.
			if _, err := classification.NewClassifier(classification.FromPatternRules([]model.PatternRule{*rule})); err != nil {
				return common.NewUserError("rule rejected", err)
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := db.CreatePatternRule(ctx, rule); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %d (%s)", rule.ID, rule.Name))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", "", "Category the rule scores for (required)")
	cmd.Flags().String("field", "any", "Field to match: any, name, brand, sku, supplier")
	cmd.Flags().Float64P("weight", "w", 1.0, "Score added on match")
	cmd.Flags().String("reason", "", "Reason reported when the rule fires")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func rulesToggleCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("%s a custom rule", map[bool]string{true: "Enable", false: "Disable"}[active]),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := db.SetPatternRuleActive(ctx, id, active); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("rule not found: "+args[0], err)
				}
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rule %d %sd", id, use))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseRuleID(args[0])
			if err != nil {
				return err
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := db.DeletePatternRule(ctx, id); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("rule not found: "+args[0], err)
				}
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %d", id))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func rulesTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <pattern> <text>",
		Short: "Check whether a pattern matches some text",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			match, err := classification.MatchPattern(args[0], args[1])
			if err != nil {
				return common.NewUserError("invalid pattern", err)
			}
			if match != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Pattern matches %q", match))) //nolint:forbidigo // User-facing output
			} else {
				fmt.Println(cli.FormatWarning("No match")) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}
}
