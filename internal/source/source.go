// Package source supplies raw inventory records to the pipeline.
//
// A Source produces untyped rows: plain column-name to raw-value maps. All
// parsing, validation, and derivation happens downstream in the transformer,
// so fixture and file sources are interchangeable.
package source

import "context"

// Column names produced by every source. Downstream code addresses rows
// by these keys.
const (
	ColSKU           = "sku"
	ColName          = "name"
	ColPartNumber    = "part_number"
	ColCategory      = "category"
	ColSupplier      = "supplier"
	ColPurchasePrice = "purchase_price"
	ColSalePrice     = "sale_price"
	ColCurrentStock  = "current_stock"
	ColMinimumStock  = "minimum_stock"
	ColMaximumStock  = "maximum_stock"
	ColLocation      = "location"
)

// Row is a single untyped inventory record, keyed by lowercase column name.
type Row map[string]string

// Source produces an ordered sequence of raw inventory rows.
type Source interface {
	// Name identifies the source in logs ("fixture", file path, ...).
	Name() string

	// Rows returns all records the source holds. The order is significant:
	// the transformer keeps the first occurrence of a duplicated SKU.
	Rows(ctx context.Context) ([]Row, error)
}
