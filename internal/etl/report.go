package etl

import (
	"context"
	"fmt"
	"sort"
)

const lowStockQuery = `
SELECT p.sku, p.name, i.current_stock, i.minimum_stock, i.location
FROM products p
JOIN inventory i ON p.sku = i.product_sku
WHERE i.current_stock <= i.minimum_stock AND p.active = true`

// LowStockReport returns all active products at or below their minimum stock
// threshold, ordered ascending by current stock with name as tie-break.
// An empty result is not an error.
func LowStockReport(ctx context.Context, db DBTX) ([]LowStockItem, error) {
	rows, err := db.Query(ctx, lowStockQuery)
	if err != nil {
		return nil, fmt.Errorf("low stock query: %w", err)
	}
	defer rows.Close()

	var items []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.SKU, &it.Name, &it.CurrentStock, &it.MinimumStock, &it.Location); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		it.Status = reportStatus(it.CurrentStock)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read low stock rows: %w", err)
	}

	sortLowStock(items)
	return items, nil
}

// reportStatus re-derives a two-tier status for the report: the report only
// distinguishes out-of-stock from critical.
func reportStatus(current int) StockLevel {
	if current == 0 {
		return StockOut
	}
	return StockCritical
}

// sortLowStock orders items for triage: lowest stock first, then by name.
func sortLowStock(items []LowStockItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CurrentStock != items[j].CurrentStock {
			return items[i].CurrentStock < items[j].CurrentStock
		}
		return items[i].Name < items[j].Name
	})
}
