package source

import "context"

// FixtureSource returns a built-in sample table of automotive parts.
// Used as the default source and as the fallback when a file source
// is unavailable.
type FixtureSource struct{}

// NewFixture creates a fixture source.
func NewFixture() *FixtureSource {
	return &FixtureSource{}
}

// Name implements Source.
func (s *FixtureSource) Name() string { return "fixture" }

// Rows implements Source.
func (s *FixtureSource) Rows(_ context.Context) ([]Row, error) {
	return sampleRows(), nil
}

// sampleRows builds the sample inventory table.
func sampleRows() []Row {
	type part struct {
		sku, name, partNumber, category, supplier string
		purchase, sale                            string
		current, minimum, location                string
	}

	parts := []part{
		{"AP001", "Filtro Aceite Toyota Corolla", "FT-123", "Filtros", "AutoParts Supply", "8.50", "12.00", "25", "10", "A1-02"},
		{"AP002", "Pastillas Freno Delanteras Nissan", "PB-456", "Frenos", "Brake Systems MX", "45.00", "65.00", "12", "5", "B2-15"},
		{"AP003", "Batería 12V 60Ah Universal", "BAT-789", "Eléctrico", "MotorTech", "120.00", "180.00", "8", "3", "C3-08"},
		{"AP004", "Aceite Motor 5W30 Sintético", "OIL-012", "Lubricantes", "AutoParts Supply", "15.75", "22.50", "45", "15", "A1-10"},
		{"AP005", "Amortiguadores Delanteros VW", "AMT-345", "Suspensión", "MotorTech", "85.00", "125.00", "15", "8", "B1-05"},
		{"AP006", "Bujías Iridio Standard", "BJI-678", "Motor", "AutoParts Supply", "12.50", "18.75", "30", "12", "A2-12"},
	}

	rows := make([]Row, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, Row{
			ColSKU:           p.sku,
			ColName:          p.name,
			ColPartNumber:    p.partNumber,
			ColCategory:      p.category,
			ColSupplier:      p.supplier,
			ColPurchasePrice: p.purchase,
			ColSalePrice:     p.sale,
			ColCurrentStock:  p.current,
			ColMinimumStock:  p.minimum,
			ColLocation:      p.location,
		})
	}
	return rows
}
