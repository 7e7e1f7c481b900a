package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Edisonlex/lubri/internal/model"
	"github.com/go-playground/validator/v10"
)

// ErrMissingNameColumn is returned when a catalog file has no name column.
var ErrMissingNameColumn = errors.New("catalog file has no name column")

// importBatchSize bounds how many products are written per transaction.
const importBatchSize = 200

// ImportRow is one validated catalog line.
type ImportRow struct {
	Name        string `validate:"required,max=256"`
	Brand       string `validate:"max=256"`
	SKU         string `validate:"max=64"`
	Supplier    string `validate:"max=256"`
	SupplierRUC string `validate:"omitempty,ec_ruc"`
}

// RowError reports a rejected line.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ImportResult summarizes an import.
type ImportResult struct {
	ByCategory map[model.Category]int
	Errors     []RowError
	Imported   int
	Skipped    int
}

var columnAliases = map[string]string{
	"name":         "name",
	"nombre":       "name",
	"producto":     "name",
	"brand":        "brand",
	"marca":        "brand",
	"sku":          "sku",
	"codigo":       "sku",
	"código":       "sku",
	"supplier":     "supplier",
	"proveedor":    "supplier",
	"supplier_ruc": "supplier_ruc",
	"ruc":          "supplier_ruc",
}

// ImportCSV reads a catalog file with a header row, classifies every valid
// line and saves it. Invalid lines are skipped and reported in the result.
// progress, when set, is called after each line.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, progress func(line int)) (ImportResult, error) {
	res := ImportResult{ByCategory: make(map[model.Category]int)}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return res, fmt.Errorf("failed to read header: %w", err)
	}

	columns := mapColumns(header)
	if _, ok := columns["name"]; !ok {
		return res, ErrMissingNameColumn
	}

	batch := make([]*model.Product, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.products.SaveProducts(ctx, batch); err != nil {
			return fmt.Errorf("failed to save products: %w", err)
		}
		for _, p := range batch {
			res.ByCategory[p.Classification.Category]++
		}
		res.Imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}
		line, _ := reader.FieldPos(0)

		row := rowFromRecord(record, columns)
		if row.Name == "" && row.Brand == "" && row.SKU == "" {
			continue
		}

		if err := s.validate.Struct(row); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Line: line, Err: describeValidation(err)})
			continue
		}

		desc := model.ProductDescriptor{
			Name:     row.Name,
			Brand:    row.Brand,
			SKU:      row.SKU,
			Supplier: row.Supplier,
		}
		batch = append(batch, &model.Product{
			ProductDescriptor: desc,
			SupplierRUC:       row.SupplierRUC,
			Source:            model.SourceClassifier,
			Classification:    s.Classify(ctx, desc),
		})

		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}

		if progress != nil {
			progress(line)
		}
	}

	if err := flush(); err != nil {
		return res, err
	}

	s.logger.Info("Catalog import finished",
		"imported", res.Imported,
		"skipped", res.Skipped)

	return res, nil
}

func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := columnAliases[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}
	return columns
}

func rowFromRecord(record []string, columns map[string]int) ImportRow {
	get := func(col string) string {
		i, ok := columns[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return ImportRow{
		Name:        get("name"),
		Brand:       get("brand"),
		SKU:         get("sku"),
		Supplier:    get("supplier"),
		SupplierRUC: get("supplier_ruc"),
	}
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "ec_ruc":
			msgs = append(msgs, fmt.Sprintf("invalid RUC %q", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
