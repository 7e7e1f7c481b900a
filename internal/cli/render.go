package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...)
}

// RenderAlerts renders a prioritized alert list as a table.
func RenderAlerts(list []model.StockAlert) string {
	if len(list) == 0 {
		return SubtleStyle.Render("No active alerts for this role.")
	}

	t := newTable("#", "Urgency", "Product", "SKU", "Stock", "Min", "Trend", "ID")
	for i, a := range list {
		stock := strconv.Itoa(a.CurrentStock)
		if a.OutOfStock() {
			stock = ErrorStyle.Render("0")
		}
		t.Row(
			strconv.Itoa(i+1),
			UrgencyBadge(a.Urgency),
			a.ProductName,
			a.SKU,
			stock,
			strconv.Itoa(a.MinStock),
			TrendArrow(a.Trend),
			SubtleStyle.Render(a.ID),
		)
	}
	return t.String()
}

// RenderSummary renders alert counts as a short block.
func RenderSummary(s alerts.Summary) string {
	var b strings.Builder
	for _, u := range model.Urgencies() {
		fmt.Fprintf(&b, "%s %d  ", UrgencyBadge(u), s.ByUrgency[u])
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %d  Out of stock: %d  Below minimum: %d  Worsening: %d",
		s.Total, s.OutOfStock, s.BelowMinimum, s.Worsening)
	return b.String()
}

// RenderClassification renders one classifier result.
func RenderClassification(desc model.ProductDescriptor, res model.ClassificationResult, floor float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", BoldStyle.Render(res.Category.Label()), FormatConfidence(res.Confidence, floor))
	for _, r := range res.Reasons {
		fmt.Fprintf(&b, "  • %s\n", r)
	}
	return RenderBox(desc.Name, strings.TrimRight(b.String(), "\n"))
}

// RenderProducts renders stored products as a table.
func RenderProducts(products []model.Product, floor float64) string {
	if len(products) == 0 {
		return SubtleStyle.Render("No products found.")
	}

	t := newTable("ID", "Name", "Brand", "SKU", "Category", "Conf", "Source")
	for _, p := range products {
		source := string(p.Source)
		if p.Source == model.SourceManual {
			source = WarningStyle.Render(source)
		}
		t.Row(
			strconv.Itoa(p.ID),
			p.Name,
			p.Brand,
			p.SKU,
			p.Classification.Category.Label(),
			FormatConfidence(p.Classification.Confidence, floor),
			source,
		)
	}
	return t.String()
}

// RenderCategoryCounts renders per-category product counts in priority order.
func RenderCategoryCounts(counts map[model.Category]int) string {
	t := newTable("Category", "Products")
	for _, c := range model.Categories() {
		t.Row(c.Label(), strconv.Itoa(counts[c]))
	}
	return t.String()
}

// RenderRules renders stored classification rules.
func RenderRules(rules []model.PatternRule) string {
	if len(rules) == 0 {
		return SubtleStyle.Render("No custom rules.")
	}

	t := newTable("ID", "Name", "Category", "Field", "Pattern", "Weight", "Active")
	for _, r := range rules {
		field := string(r.Field)
		if field == "" {
			field = "any"
		}
		active := SuccessStyle.Render(SuccessIcon)
		if !r.IsActive {
			active = SubtleStyle.Render(ErrorIcon)
		}
		t.Row(
			strconv.Itoa(r.ID),
			r.Name,
			r.Category.Label(),
			field,
			r.Pattern,
			strconv.FormatFloat(r.Weight, 'g', -1, 64),
			active,
		)
	}
	return t.String()
}
