// Package etl implements the transform-and-load core of the autoparts
// inventory pipeline: validation and derivation of inventory records,
// lookup resolution, idempotent upserts into the products and inventory
// tables, and the low-stock report.
// This package has no CLI dependencies and talks to the store only
// through the DBTX interface.
package etl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// StockLevel categorizes inventory health from current vs. minimum stock.
type StockLevel string

const (
	StockOut      StockLevel = "OUT_OF_STOCK"
	StockCritical StockLevel = "CRITICAL"
	StockLow      StockLevel = "LOW"
	StockNormal   StockLevel = "NORMAL"
)

// InventoryRecord is one typed inventory record parsed from a source row.
type InventoryRecord struct {
	SKU           string
	Name          string
	PartNumber    string
	Category      string
	Supplier      string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	CurrentStock  int
	MinimumStock  int
	// MaximumStock is nil when the source does not supply one; the loader
	// then applies its configured default at insert time.
	MaximumStock *int
	Location     string
}

// TransformedRecord is an InventoryRecord plus derived fields.
type TransformedRecord struct {
	InventoryRecord

	// ProfitMargin is (sale-purchase)/purchase*100 rounded to 2 decimals.
	// Only meaningful when MarginValid is true.
	ProfitMargin decimal.Decimal

	// MarginValid is false when the purchase price is zero, which makes
	// the margin undefined.
	MarginValid bool

	StockLevel StockLevel
}

// LoadStats aggregates the outcome of a batch load.
type LoadStats struct {
	Inserted int
	Updated  int
	Levels   map[StockLevel]int
}

// LowStockItem is one row of the low-stock report. The report uses only
// two status tiers: OUT_OF_STOCK and CRITICAL.
type LowStockItem struct {
	SKU          string
	Name         string
	CurrentStock int
	MinimumStock int
	Location     string
	Status       StockLevel
}

// RunResult is the terminal outcome of a pipeline run.
type RunResult struct {
	OK       bool
	Phase    Phase
	Duration time.Duration
	Stats    LoadStats
	Report   []LowStockItem
}

// MissingFieldError reports required fields absent from the input batch.
// It aborts the whole batch before anything reaches the store.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
