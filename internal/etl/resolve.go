package etl

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	categoriesQuery = `SELECT id, name FROM categories`
	suppliersQuery  = `SELECT id, name FROM suppliers`
)

// Resolver maps category and supplier names to their store-assigned ids.
// Unknown names resolve to the configured default id with a logged warning;
// resolution never fails.
type Resolver struct {
	categories map[string]int32
	suppliers  map[string]int32
	defaultID  int32
	logger     *slog.Logger
}

// NewResolver builds a resolver from pre-fetched name→id maps.
func NewResolver(categories, suppliers map[string]int32, defaultID int32, logger *slog.Logger) *Resolver {
	return &Resolver{
		categories: categories,
		suppliers:  suppliers,
		defaultID:  defaultID,
		logger:     logger,
	}
}

// LoadResolver reads the category and supplier lookup tables and builds a
// resolver. The maps are built once per pipeline run; nothing is cached
// across runs.
func LoadResolver(ctx context.Context, db DBTX, defaultID int32, logger *slog.Logger) (*Resolver, error) {
	categories, err := loadLookup(ctx, db, categoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	suppliers, err := loadLookup(ctx, db, suppliersQuery)
	if err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}

	logger.Debug("lookup tables loaded",
		"categories", len(categories),
		"suppliers", len(suppliers),
	)
	return NewResolver(categories, suppliers, defaultID, logger), nil
}

// CategoryID resolves a category name, falling back to the default id.
func (r *Resolver) CategoryID(name string) int32 {
	if id, ok := r.categories[name]; ok {
		return id
	}
	r.logger.Warn("category not found, using default", "category", name, "default_id", r.defaultID)
	return r.defaultID
}

// SupplierID resolves a supplier name, falling back to the default id.
func (r *Resolver) SupplierID(name string) int32 {
	if id, ok := r.suppliers[name]; ok {
		return id
	}
	r.logger.Warn("supplier not found, using default", "supplier", name, "default_id", r.defaultID)
	return r.defaultID
}

// loadLookup runs an id+name query and returns the name→id map.
func loadLookup(ctx context.Context, db DBTX, query string) (map[string]int32, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string]int32)
	for rows.Next() {
		var id int32
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		m[name] = id
	}
	return m, rows.Err()
}
