package main

import (
	"fmt"
	"strings"

	"github.com/Edisonlex/lubri/internal/catalog"
	"github.com/Edisonlex/lubri/internal/cli"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <product name>",
		Short: "Classify a product description",
		Long: `Run one product description through the classifier and show the category,
confidence and the keywords that decided it. Nothing is stored.

Example:
  lubri classify "Aceite Castrol GTX 20W-50" --brand Castrol`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("brand", "", "Product brand")
	cmd.Flags().String("sku", "", "Product SKU")
	cmd.Flags().String("supplier", "", "Supplier name")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().Bool("builtin", false, "Ignore stored rules and use only the built-in table")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	brand, _ := cmd.Flags().GetString("brand")
	sku, _ := cmd.Flags().GetString("sku")
	supplier, _ := cmd.Flags().GetString("supplier")
	asJSON, _ := cmd.Flags().GetBool("json")
	builtin, _ := cmd.Flags().GetBool("builtin")

	desc := model.ProductDescriptor{
		Name:     strings.Join(args, " "),
		Brand:    brand,
		SKU:      sku,
		Supplier: supplier,
	}

	var result model.ClassificationResult
	if builtin || !appConfig.Classifier.UseStoredRules {
		result = catalog.NewService(newClassifier(), nil).Classify(ctx, desc)
	} else {
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
		result = svc.Classify(ctx, desc)
	}

	if asJSON {
		return printJSON(result)
	}

	fmt.Println(cli.RenderClassification(desc, result, appConfig.Classifier.Floor)) //nolint:forbidigo // User-facing output
	return nil
}
