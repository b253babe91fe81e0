package etl

// load.go persists transformed records into the products and inventory
// tables under insert-or-update semantics.
//
// Both upserts have asymmetric conflict rules: product category, supplier,
// part number, and warranty are written only at insert time, as is the
// inventory maximum stock. The caller wraps Load in a single transaction;
// any error aborts the whole batch and the caller rolls everything back.

import (
	"context"
	"fmt"
	"log/slog"
)

// productUpsertQuery returns (xmax = 0), which is true only for a freshly
// inserted row. This is an explicit insert-vs-update signal; rowcount-based
// heuristics cannot tell a conflict-update apart from an insert.
const productUpsertQuery = `
INSERT INTO products (sku, name, part_number, category_id, supplier_id,
                      purchase_price, sale_price, warranty_months)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    purchase_price = EXCLUDED.purchase_price,
    sale_price = EXCLUDED.sale_price,
    updated_at = CURRENT_TIMESTAMP
RETURNING (xmax = 0) AS inserted`

const inventoryUpsertQuery = `
INSERT INTO inventory (product_sku, current_stock, minimum_stock, maximum_stock, location)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (product_sku) DO UPDATE SET
    current_stock = EXCLUDED.current_stock,
    minimum_stock = EXCLUDED.minimum_stock,
    location = EXCLUDED.location,
    updated_at = CURRENT_TIMESTAMP`

// stockLevelOrder fixes the order of the breakdown log lines.
var stockLevelOrder = []StockLevel{StockOut, StockCritical, StockLow, StockNormal}

// Loader writes transformed records to the store.
type Loader struct {
	// WarrantyMonths is assigned to newly inserted products.
	WarrantyMonths int

	// MaxStockFactor sets the default maximum stock to
	// factor * minimum stock when a record carries none.
	MaxStockFactor int
}

// Load persists every record as one product and one inventory row.
// db must be a transaction spanning the whole batch: the first error aborts
// the load and the caller is expected to roll back everything written so far.
func (l Loader) Load(ctx context.Context, db DBTX, res *Resolver, recs []TransformedRecord, logger *slog.Logger) (LoadStats, error) {
	stats := LoadStats{Levels: make(map[StockLevel]int)}

	for _, rec := range recs {
		categoryID := res.CategoryID(rec.Category)
		supplierID := res.SupplierID(rec.Supplier)

		var inserted bool
		err := db.QueryRow(ctx, productUpsertQuery,
			rec.SKU, rec.Name, rec.PartNumber, categoryID, supplierID,
			rec.PurchasePrice, rec.SalePrice, l.WarrantyMonths,
		).Scan(&inserted)
		if err != nil {
			return stats, fmt.Errorf("upsert product %s: %w", rec.SKU, err)
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}

		maxStock := rec.MinimumStock * l.MaxStockFactor
		if rec.MaximumStock != nil {
			maxStock = *rec.MaximumStock
		}

		_, err = db.Exec(ctx, inventoryUpsertQuery,
			rec.SKU, rec.CurrentStock, rec.MinimumStock, maxStock, rec.Location,
		)
		if err != nil {
			return stats, fmt.Errorf("upsert inventory %s: %w", rec.SKU, err)
		}

		stats.Levels[rec.StockLevel]++
	}

	logger.Info("load complete", "inserted", stats.Inserted, "updated", stats.Updated)
	for _, level := range stockLevelOrder {
		if n := stats.Levels[level]; n > 0 {
			logger.Info("stock level breakdown", "level", string(level), "products", n)
		}
	}

	return stats, nil
}
