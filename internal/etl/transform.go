package etl

// transform.go validates raw source rows and derives per-record metrics.
//
// The transformer is a pure per-record derivation applied across an ordered
// sequence: deduplicate by SKU (first occurrence wins), verify required
// fields, parse values into typed records, then compute profit margin and
// stock level. Price anomalies are logged but never rejected; the only
// fatal validation failure is a missing required field.

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/fernandoperilla54-svg/autoparts-database/internal/source"
	"github.com/shopspring/decimal"
)

// requiredColumns must be present and non-empty on every row.
var requiredColumns = []string{
	source.ColSKU,
	source.ColName,
	source.ColPurchasePrice,
	source.ColSalePrice,
	source.ColCurrentStock,
	source.ColMinimumStock,
}

var hundred = decimal.NewFromInt(100)

// Transform turns raw rows into transformed records ready for loading.
// Returns a *MissingFieldError when required fields are absent anywhere in
// the batch; any other error means a value could not be parsed.
func Transform(logger *slog.Logger, rows []source.Row) ([]TransformedRecord, error) {
	deduped, dropped := dedupeBySKU(rows)
	if dropped > 0 {
		logger.Warn("duplicate SKUs detected, keeping first occurrence", "dropped", dropped)
	}

	if missing := missingFields(deduped); len(missing) > 0 {
		return nil, &MissingFieldError{Fields: missing}
	}

	out := make([]TransformedRecord, 0, len(deduped))
	anomalies := 0

	for i, row := range deduped {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d (sku %s): %w", i+1, row[source.ColSKU], err)
		}

		tr := TransformedRecord{
			InventoryRecord: rec,
			StockLevel:      StockLevelFor(rec.CurrentStock, rec.MinimumStock),
		}

		if rec.PurchasePrice.IsZero() {
			logger.Warn("purchase price is zero, profit margin undefined", "sku", rec.SKU)
		} else {
			tr.ProfitMargin = rec.SalePrice.Sub(rec.PurchasePrice).
				Div(rec.PurchasePrice).Mul(hundred).Round(2)
			tr.MarginValid = true
		}

		if rec.SalePrice.LessThanOrEqual(rec.PurchasePrice) {
			anomalies++
			logger.Warn("sale price not above purchase price",
				"sku", rec.SKU,
				"purchase_price", rec.PurchasePrice,
				"sale_price", rec.SalePrice,
			)
		}

		out = append(out, tr)
	}

	if anomalies > 0 {
		logger.Warn("price anomalies in batch", "count", anomalies)
	}
	logger.Info("transformation complete", "records", len(out), "duplicates_dropped", dropped)

	return out, nil
}

// StockLevelFor categorizes inventory health. The lower bound of each tier
// is inclusive: current == minimum is CRITICAL, current == 2*minimum is LOW.
func StockLevelFor(current, minimum int) StockLevel {
	switch {
	case current == 0:
		return StockOut
	case current <= minimum:
		return StockCritical
	case current <= 2*minimum:
		return StockLow
	default:
		return StockNormal
	}
}

// dedupeBySKU keeps the first row for each SKU and reports how many were
// dropped. Row order is preserved.
func dedupeBySKU(rows []source.Row) ([]source.Row, int) {
	seen := make(map[string]bool, len(rows))
	out := make([]source.Row, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		sku := strings.TrimSpace(row[source.ColSKU])
		if sku != "" && seen[sku] {
			dropped++
			continue
		}
		seen[sku] = true
		out = append(out, row)
	}
	return out, dropped
}

// missingFields returns the sorted union of required columns that are absent
// or empty on any row.
func missingFields(rows []source.Row) []string {
	missing := make(map[string]bool)
	for _, row := range rows {
		for _, col := range requiredColumns {
			if strings.TrimSpace(row[col]) == "" {
				missing[col] = true
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	names := make([]string, 0, len(missing))
	for col := range missing {
		names = append(names, col)
	}
	sort.Strings(names)
	return names
}

// parseRecord converts one raw row into a typed InventoryRecord.
func parseRecord(row source.Row) (InventoryRecord, error) {
	rec := InventoryRecord{
		SKU:        strings.TrimSpace(row[source.ColSKU]),
		Name:       strings.TrimSpace(row[source.ColName]),
		PartNumber: strings.TrimSpace(row[source.ColPartNumber]),
		Category:   strings.TrimSpace(row[source.ColCategory]),
		Supplier:   strings.TrimSpace(row[source.ColSupplier]),
		Location:   strings.TrimSpace(row[source.ColLocation]),
	}

	var err error
	if rec.PurchasePrice, err = parsePrice(row[source.ColPurchasePrice]); err != nil {
		return rec, fmt.Errorf("invalid purchase_price %q: %w", row[source.ColPurchasePrice], err)
	}
	if rec.SalePrice, err = parsePrice(row[source.ColSalePrice]); err != nil {
		return rec, fmt.Errorf("invalid sale_price %q: %w", row[source.ColSalePrice], err)
	}
	if rec.PurchasePrice.IsNegative() {
		return rec, fmt.Errorf("purchase_price must not be negative: %s", rec.PurchasePrice)
	}

	if rec.CurrentStock, err = parseStock(row[source.ColCurrentStock]); err != nil {
		return rec, fmt.Errorf("invalid current_stock %q: %w", row[source.ColCurrentStock], err)
	}
	if rec.MinimumStock, err = parseStock(row[source.ColMinimumStock]); err != nil {
		return rec, fmt.Errorf("invalid minimum_stock %q: %w", row[source.ColMinimumStock], err)
	}

	if raw := strings.TrimSpace(row[source.ColMaximumStock]); raw != "" {
		max, err := parseStock(raw)
		if err != nil {
			return rec, fmt.Errorf("invalid maximum_stock %q: %w", raw, err)
		}
		rec.MaximumStock = &max
	}

	return rec, nil
}

// parsePrice parses a decimal price, tolerating currency symbols and
// thousands separators from hand-edited files.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£ ")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

// parseStock parses a non-negative stock count.
func parseStock(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative: %d", n)
	}
	return n, nil
}
