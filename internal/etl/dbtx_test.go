package etl

// dbtx_test.go provides a scripted in-memory DBTX for exercising the
// resolver, loader, and report without a live database. Responses are
// consumed in call order.

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type call struct {
	sql  string
	args []any
}

type queryResult struct {
	rows *fakeRows
	err  error
}

type rowResult struct {
	inserted bool
	err      error
}

type fakeDB struct {
	queryResults []queryResult
	rowResults   []rowResult
	execErrs     []error

	queryCalls    []call
	queryRowCalls []call
	execCalls     []call
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	db.execCalls = append(db.execCalls, call{sql: sql, args: args})
	if n := len(db.execCalls); n <= len(db.execErrs) && db.execErrs[n-1] != nil {
		return pgconn.CommandTag{}, db.execErrs[n-1]
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	db.queryCalls = append(db.queryCalls, call{sql: sql, args: args})
	if len(db.queryResults) == 0 {
		return &fakeRows{}, nil
	}
	res := db.queryResults[0]
	db.queryResults = db.queryResults[1:]
	if res.err != nil {
		return nil, res.err
	}
	return res.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	db.queryRowCalls = append(db.queryRowCalls, call{sql: sql, args: args})
	if len(db.rowResults) == 0 {
		return fakeRow{}
	}
	res := db.rowResults[0]
	db.rowResults = db.rowResults[1:]
	return fakeRow(res)
}

// fakeRow scans a single was-insert flag, matching the product upsert.
type fakeRow struct {
	inserted bool
	err      error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	b, ok := dest[0].(*bool)
	if !ok {
		return fmt.Errorf("unsupported scan dest %T", dest[0])
	}
	*b = r.inserted
	return nil
}

// fakeRows replays a fixed result set through the pgx.Rows interface.
type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	for i, d := range dest {
		switch v := d.(type) {
		case *int:
			*v = row[i].(int)
		case *int32:
			*v = row[i].(int32)
		case *string:
			*v = row[i].(string)
		case *bool:
			*v = row[i].(bool)
		default:
			return fmt.Errorf("unsupported scan dest %T", d)
		}
	}
	return nil
}

// discardLogger drops all log output in tests that don't inspect it.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
