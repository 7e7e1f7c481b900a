package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/Edisonlex/lubri/internal/cli"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "catalog"},
		Short:   "Manage the classified product catalog",
	}

	cmd.AddCommand(productsImportCmd())
	cmd.AddCommand(productsListCmd())
	cmd.AddCommand(productsShowCmd())
	cmd.AddCommand(productsSetCmd())
	cmd.AddCommand(productsRecategorizeCmd())
	cmd.AddCommand(productsStatsCmd())

	return cmd
}

func productsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import and classify a catalog CSV",
		Long: `Import a catalog file with a header row. Recognised columns are
name/nombre, brand/marca, sku/codigo, supplier/proveedor and supplier_ruc/ruc;
only the name column is required. Re-importing updates existing products by
SKU and never overwrites a category set by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return common.NewUserError("cannot open catalog file", err)
			}
			defer func() { _ = f.Close() }()

			handler := cli.NewInterruptHandler(os.Stdout, "Catalog import")
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "lubri products import "+args[0])
			defer stop()

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc, closeCache, err := newCatalog(ctx, db)
			if err != nil {
				return err
			}
			defer closeCache()

			bar := cli.NewProgressBar(os.Stderr, -1, "Classifying products...")
			res, err := svc.ImportCSV(ctx, f, func(line int) { cli.Advance(bar, line) })
			_ = bar.Finish()
			if err != nil {
				if handler.WasInterrupted() {
					return nil
				}
				return err
			}

			for _, rowErr := range res.Errors {
				fmt.Println(cli.FormatWarning(rowErr.Error())) //nolint:forbidigo // User-facing output
			}

			summary := fmt.Sprintf("Imported: %d\nSkipped:  %d\n\n%s",
				res.Imported, res.Skipped, cli.RenderCategoryCounts(res.ByCategory))
			fmt.Println(cli.RenderBox(cli.BoxIcon+" Import complete", summary)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func productsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			categoryFlag, _ := cmd.Flags().GetString("category")
			manual, _ := cmd.Flags().GetBool("manual")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			asJSON, _ := cmd.Flags().GetBool("json")

			filter := service.ProductFilter{Limit: limit, Offset: offset}
			if categoryFlag != "" {
				c, err := model.ParseCategory(categoryFlag)
				if err != nil {
					return common.NewUserError("unknown category "+strconv.Quote(categoryFlag), err)
				}
				filter.Category = c
			}
			if manual {
				filter.Source = model.SourceManual
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			products, err := db.ListProducts(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			if asJSON {
				if products == nil {
					products = []model.Product{}
				}
				return printJSON(products)
			}
			fmt.Println(cli.RenderProducts(products, appConfig.Classifier.Floor)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category (oils, filters, lubricants, additives, other)")
	cmd.Flags().Bool("manual", false, "Only products categorized by hand")
	cmd.Flags().Int("limit", 50, "Maximum rows (0 for all)")
	cmd.Flags().Int("offset", 0, "Rows to skip")
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func productsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|sku>",
		Short: "Show a product and why it got its category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var p *model.Product
			if id, convErr := strconv.Atoi(args[0]); convErr == nil {
				p, err = db.GetProduct(ctx, id)
			} else {
				p, err = db.GetProductBySKU(ctx, args[0])
			}
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError("product not found: "+args[0], err)
			}
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderClassification(p.ProductDescriptor, p.Classification, appConfig.Classifier.Floor)) //nolint:forbidigo // User-facing output
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("id %d · sku %s · source %s · updated %s", //nolint:forbidigo // User-facing output
				p.ID, p.SKU, p.Source, p.UpdatedAt.Format("2006-01-02 15:04"))))
			return nil
		},
	}
}

func productsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <category>",
		Short: "Assign a category by hand",
		Long: `Assign a category by hand. The product is marked manual and later imports
or recategorize runs leave it alone.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return common.NewUserError("invalid product ID: "+args[0], err)
			}
			category, err := model.ParseCategory(args[1])
			if err != nil {
				return common.NewUserError("unknown category "+strconv.Quote(args[1]), err)
			}

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := db.SetProductCategory(ctx, id, category); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("product not found: "+args[0], err)
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Product %d is now %s", id, category.Label()))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func productsRecategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize",
		Short: "Reclassify stored products with the current rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := cli.NewInterruptHandler(os.Stdout, "Recategorize")
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "lubri products recategorize")
			defer stop()

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc, closeCache, err := newCatalog(ctx, db)
			if err != nil {
				return err
			}
			defer closeCache()

			var bar *progressbar.ProgressBar
			res, err := svc.Recategorize(ctx, func(done, total int) {
				if bar == nil {
					bar = cli.NewProgressBar(os.Stderr, total, "Reclassifying...")
				}
				cli.Advance(bar, done)
			})
			if err != nil {
				if handler.WasInterrupted() {
					return nil
				}
				return err
			}

			slog.Info("Recategorize finished", "changed", res.Changed, "unchanged", res.Unchanged, "manual", res.Manual)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d changed, %d unchanged, %d manual kept", //nolint:forbidigo // User-facing output
				res.Changed, res.Unchanged, res.Manual)))
			return nil
		},
	}
}

func productsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count products per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, cleanup, err := getDatabase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			counts, err := db.CountProductsByCategory(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderCategoryCounts(counts)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
