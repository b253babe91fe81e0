package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFixtureRows(t *testing.T) {
	rows, err := NewFixture().Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	if len(rows) != 6 {
		t.Fatalf("len(rows) = %d, want 6", len(rows))
	}
	if rows[0][ColSKU] != "AP001" {
		t.Errorf("rows[0][sku] = %q, want %q", rows[0][ColSKU], "AP001")
	}
	if rows[5][ColSKU] != "AP006" {
		t.Errorf("rows[5][sku] = %q, want %q", rows[5][ColSKU], "AP006")
	}

	// Every fixture row carries the full column set except maximum_stock.
	for i, row := range rows {
		for _, col := range []string{ColSKU, ColName, ColPartNumber, ColCategory,
			ColSupplier, ColPurchasePrice, ColSalePrice, ColCurrentStock,
			ColMinimumStock, ColLocation} {
			if row[col] == "" {
				t.Errorf("rows[%d][%s] is empty", i, col)
			}
		}
	}
}

func TestFileRows(t *testing.T) {
	path := writeTempCSV(t, "sku,name,part_number,category,supplier,purchase_price,sale_price,current_stock,minimum_stock,location\n"+
		"AP100,Radiador Honda Civic,RAD-100,Enfriamiento,MotorTech,55.00,82.00,4,2,D1-01\n"+
		"\n"+ // empty rows are skipped
		"AP101,\"Correa Distribución, Kit\",KIT-101,Motor,AutoParts Supply,30.00,48.00,9,6,D1-02\n")

	rows, err := NewFile(path).Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0][ColSKU] != "AP100" {
		t.Errorf("rows[0][sku] = %q, want %q", rows[0][ColSKU], "AP100")
	}
	if rows[1][ColName] != "Correa Distribución, Kit" {
		t.Errorf("rows[1][name] = %q, want quoted value preserved", rows[1][ColName])
	}
	if rows[1][ColPurchasePrice] != "30.00" {
		t.Errorf("rows[1][purchase_price] = %q, want %q", rows[1][ColPurchasePrice], "30.00")
	}
}

func TestFileRows_BOMHeader(t *testing.T) {
	path := writeTempCSV(t, "\uFEFFsku,name\nAP200,Bomba Agua\n")

	rows, err := NewFile(path).Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	if rows[0][ColSKU] != "AP200" {
		t.Errorf("BOM not stripped from header: rows[0] = %v", rows[0])
	}
}

func TestFileRows_ShortRow(t *testing.T) {
	// A short row fills only the columns it has; missing ones stay absent.
	path := writeTempCSV(t, "sku,name,location\nAP300,Termostato\n")

	rows, err := NewFile(path).Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}

	if rows[0][ColSKU] != "AP300" {
		t.Errorf("rows[0][sku] = %q, want %q", rows[0][ColSKU], "AP300")
	}
	if _, ok := rows[0][ColLocation]; ok {
		t.Errorf("rows[0][location] present, want absent for short row")
	}
}

func TestFileRows_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "empty file", content: ""},
		{name: "header only", content: "sku,name\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.csv")
			if !tt.missing {
				path = writeTempCSV(t, tt.content)
			}
			if _, err := NewFile(path).Rows(context.Background()); err == nil {
				t.Error("Rows() = nil error, want error")
			}
		})
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}
