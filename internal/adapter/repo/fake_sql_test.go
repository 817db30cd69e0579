package repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeSQL serves canned rows keyed by query text and records the calls it saw.
type fakeSQL struct {
	rows    map[string][][]any
	err     error
	queries []string
	args    [][]any
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.record(query, args)
	return pgconn.CommandTag{}, f.err
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.record(query, args)
	if f.err != nil {
		return &fakeRows{err: f.err}
	}
	data := f.rows[query]
	if len(data) == 0 {
		return &fakeRows{err: pgx.ErrNoRows}
	}
	return &fakeRows{data: data[:1], idx: 1}
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.record(query, args)
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.rows[query]
	if !ok {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return &fakeRows{data: data}, nil
}

func (f *fakeSQL) record(query string, args []any) {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
}

type fakeRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

// Scan copies the current row into dest. Values must match the destination
// element type exactly; nil leaves the destination zeroed.
func (r *fakeRows) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.idx == 0 || r.idx > len(r.data) {
		return pgx.ErrNoRows
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: got %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan column %d: cannot assign %s to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) Close()                                       {}
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, fmt.Errorf("values not supported in test rows") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
