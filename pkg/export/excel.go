// Package export serializes transfer suggestions and statistics into an
// Excel workbook, one sheet per table.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/engine"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/stats"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/output"
)

// Sheet names, one per output table.
const (
	SheetSuggestions = "Transfer Suggestions"
	SheetSummary     = "Summary"
	SheetByArticle   = "By Article"
	SheetByOM        = "By OM"
	SheetByType      = "By Transfer Type"
	SheetByReceiver  = "By Receive Site"
	SheetViolations  = "Violations"
)

// WriteFile builds the workbook and saves it at path.
func WriteFile(path string, lines []engine.TransferLine, summary stats.Summary) error {
	wb, err := BuildWorkbook(lines, summary)
	if err != nil {
		return err
	}
	defer func() {
		_ = wb.Close()
	}()
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// BuildWorkbook assembles the export workbook in memory.
func BuildWorkbook(lines []engine.TransferLine, summary stats.Summary) (*excelize.File, error) {
	wb := excelize.NewFile()
	if err := wb.SetSheetName(wb.GetSheetName(0), SheetSuggestions); err != nil {
		return nil, err
	}

	rows := [][]interface{}{toCells(output.CsvHeader)}
	for _, line := range lines {
		rows = append(rows, toCells(output.LineValues(line)))
	}
	if err := writeSheet(wb, SheetSuggestions, rows); err != nil {
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Transfer Qty", summary.TotalTransferQty},
		{"Total Transfer Lines", summary.TotalLines},
		{"Distinct Articles", summary.UniqueArticles},
		{"Distinct OMs", summary.UniqueGroups},
		{"Constraint Violations", len(summary.Violations)},
	}
	if err := addSheet(wb, SheetSummary, summaryRows); err != nil {
		return nil, err
	}

	articleRows := [][]interface{}{
		{"Article", "Total Demand", "Total Transferred", "OMs Touched", "Lines", "Fulfillment Rate %", "Violation"},
	}
	for _, a := range summary.ByArticle {
		articleRows = append(articleRows, []interface{}{
			a.Article, a.TotalDemand, a.TotalTransferred, a.GroupsTouched, a.Lines,
			a.FulfillmentRate.String(), yesNo(a.Violation),
		})
	}
	if err := addSheet(wb, SheetByArticle, articleRows); err != nil {
		return nil, err
	}

	omRows := [][]interface{}{
		{"OM", "Total Demand", "Total Transferred", "Articles Touched", "Lines"},
	}
	for _, g := range summary.ByGroup {
		omRows = append(omRows, []interface{}{
			g.Group, g.TotalDemand, g.TotalTransferred, g.ArticlesTouched, g.Lines,
		})
	}
	if err := addSheet(wb, SheetByOM, omRows); err != nil {
		return nil, err
	}

	typeRows := [][]interface{}{
		{"Transfer Type", "Total Qty", "Lines"},
	}
	for _, t := range summary.ByTransferType {
		typeRows = append(typeRows, []interface{}{string(t.TransferType), t.TotalQty, t.Lines})
	}
	if err := addSheet(wb, SheetByType, typeRows); err != nil {
		return nil, err
	}

	receiverRows := [][]interface{}{
		{"Receive Site", "Received", "Target Qty", "Fulfillment Rate %"},
	}
	for _, r := range summary.ByReceiveSite {
		receiverRows = append(receiverRows, []interface{}{
			r.Site, r.Received, r.TargetQty, r.FulfillmentRate.String(),
		})
	}
	if err := addSheet(wb, SheetByReceiver, receiverRows); err != nil {
		return nil, err
	}

	if len(summary.Violations) > 0 {
		violationRows := [][]interface{}{
			{"Article", "Total Demand", "Total Transferred", "Overage"},
		}
		for _, v := range summary.Violations {
			violationRows = append(violationRows, []interface{}{
				v.Article, v.TotalDemand, v.TotalTransferred, v.Overage,
			})
		}
		if err := addSheet(wb, SheetViolations, violationRows); err != nil {
			return nil, err
		}
	}

	return wb, nil
}

func addSheet(wb *excelize.File, name string, rows [][]interface{}) error {
	if _, err := wb.NewSheet(name); err != nil {
		return err
	}
	return writeSheet(wb, name, rows)
}

func writeSheet(wb *excelize.File, name string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
