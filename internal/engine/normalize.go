package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
)

// Normalize coerces raw rows into StockRecords. Columns is the header set
// of the source table; rows map column names to raw cell text. Structurally
// missing columns are fatal and reported together in a SchemaError; every
// per-cell anomaly is repaired in place and noted on the record instead.
func Normalize(columns []string, rows []map[string]string) ([]StockRecord, error) {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[strings.TrimSpace(col)] = true
	}

	var missing []string
	for _, col := range constants.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make([]StockRecord, 0, len(rows))
	for _, row := range rows {
		rec := StockRecord{
			Article:     strings.TrimSpace(row[constants.ColumnArticle]),
			Description: strings.TrimSpace(row[constants.ColumnArticleDescription]),
			RPType:      strings.TrimSpace(row[constants.ColumnRPType]),
			Site:        strings.TrimSpace(row[constants.ColumnSite]),
			Group:       strings.TrimSpace(row[constants.ColumnOM]),
		}

		rec.MOQ = normalizeQty(&rec, constants.ColumnMOQ, row[constants.ColumnMOQ])
		rec.NetStock = normalizeQty(&rec, constants.ColumnNetStock, row[constants.ColumnNetStock])
		rec.Target = normalizeQty(&rec, constants.ColumnTarget, row[constants.ColumnTarget])
		rec.PendingReceived = normalizeQty(&rec, constants.ColumnPendingReceived, row[constants.ColumnPendingReceived])
		rec.SafetyStock = normalizeQty(&rec, constants.ColumnSafetyStock, row[constants.ColumnSafetyStock])
		rec.LastMonthSold = normalizeSales(&rec, constants.ColumnLastMonthSold, row[constants.ColumnLastMonthSold])
		rec.MTDSold = normalizeSales(&rec, constants.ColumnMTDSold, row[constants.ColumnMTDSold])

		if rec.RPType != "ND" && rec.RPType != "RF" {
			rec.Notes = append(rec.Notes, fmt.Sprintf("invalid RP Type %q forced to ND", rec.RPType))
			rec.RPType = "ND"
		}

		rec.EffectiveSales = effectiveSales(rec.LastMonthSold, rec.MTDSold)
		records = append(records, rec)
	}

	return records, nil
}

// normalizeQty parses a numeric cell and clamps it to be non-negative.
// Unparsable cells become 0 silently, matching the source system; negative
// values are clamped with a note.
func normalizeQty(rec *StockRecord, column, raw string) int {
	v := parseInt(raw)
	if v < 0 {
		rec.Notes = append(rec.Notes, fmt.Sprintf("negative %s %d clamped to 0", column, v))
		return 0
	}
	return v
}

// normalizeSales additionally caps sales figures at MaxSalesQty.
func normalizeSales(rec *StockRecord, column, raw string) int {
	v := normalizeQty(rec, column, raw)
	if v > constants.MaxSalesQty {
		rec.Notes = append(rec.Notes, fmt.Sprintf("%s %d capped at %d", column, v, constants.MaxSalesQty))
		return constants.MaxSalesQty
	}
	return v
}

// parseInt accepts integer and decimal cell text, truncating decimals
// toward zero. Anything else yields 0.
func parseInt(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// effectiveSales is last month's quantity when positive, else month-to-date.
func effectiveSales(lastMonth, mtd int) int {
	if lastMonth > 0 {
		return lastMonth
	}
	return mtd
}
