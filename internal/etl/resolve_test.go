package etl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadResolver(t *testing.T) {
	db := &fakeDB{
		queryResults: []queryResult{
			{rows: &fakeRows{rows: [][]any{
				{int32(1), "Filtros"},
				{int32(2), "Frenos"},
			}}},
			{rows: &fakeRows{rows: [][]any{
				{int32(1), "AutoParts Supply"},
				{int32(3), "MotorTech"},
			}}},
		},
	}

	res, err := LoadResolver(context.Background(), db, 1, discardLogger())
	if err != nil {
		t.Fatalf("LoadResolver() error = %v", err)
	}

	if len(db.queryCalls) != 2 {
		t.Fatalf("len(queryCalls) = %d, want 2 (categories, suppliers)", len(db.queryCalls))
	}
	if got := res.CategoryID("Frenos"); got != 2 {
		t.Errorf("CategoryID(Frenos) = %d, want 2", got)
	}
	if got := res.SupplierID("MotorTech"); got != 3 {
		t.Errorf("SupplierID(MotorTech) = %d, want 3", got)
	}
}

func TestResolver_UnknownFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	res := NewResolver(
		map[string]int32{"Filtros": 2},
		map[string]int32{"MotorTech": 3},
		1, logger,
	)

	if got := res.CategoryID("Exotic"); got != 1 {
		t.Errorf("CategoryID(Exotic) = %d, want default 1", got)
	}
	if !strings.Contains(buf.String(), "category not found") {
		t.Errorf("expected fallback warning, got logs:\n%s", buf.String())
	}

	buf.Reset()
	if got := res.SupplierID("Unknown Corp"); got != 1 {
		t.Errorf("SupplierID(Unknown Corp) = %d, want default 1", got)
	}
	if !strings.Contains(buf.String(), "supplier not found") {
		t.Errorf("expected fallback warning, got logs:\n%s", buf.String())
	}
}

func TestLoadResolver_QueryError(t *testing.T) {
	db := &fakeDB{
		queryResults: []queryResult{
			{err: errors.New("relation does not exist")},
		},
	}

	if _, err := LoadResolver(context.Background(), db, 1, discardLogger()); err == nil {
		t.Error("LoadResolver() = nil error, want query failure")
	}
}
