package store

import (
	"context"
	"fmt"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/querysql"
	"github.com/roach88/dualstore/internal/schema"
)

// FindBy executes the compiled SELECT for the query and maps rows back to
// records. Results are deterministic: the requested ordering with a rowid
// tiebreaker, or insertion (rowid) order when no ordering is requested.
//
// Returns an empty slice, never nil, when nothing matches.
func (s *Store) FindBy(ctx context.Context, m schema.Model, q query.Query, order *query.OrderBy) ([]schema.Record, error) {
	stmt, params, err := querysql.CompileSelect(m, q, order)
	if err != nil {
		return nil, fmt.Errorf("compile select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", m.Name, err)
	}
	defer rows.Close()

	records := []schema.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, m)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %q: %w", m.Name, err)
	}
	return records, nil
}

// rowScanner is the subset of *sql.Rows scanRecord needs.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord maps one row onto a record. Columns are positional in the
// model's declared attribute order (the order CompileSelect emits).
// SQLite hands TEXT back as []byte through the empty interface; it is
// converted so stored strings round-trip as strings. NULL columns are
// omitted from the record, matching the shape the record was stored
// with: an attribute the record never carried stays absent.
func scanRecord(row rowScanner, m schema.Model) (schema.Record, error) {
	dest := make([]any, len(m.Attributes))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan %q row: %w", m.Name, err)
	}

	rec := make(schema.Record, len(m.Attributes))
	for i, attr := range m.Attributes {
		v := *(dest[i].(*any))
		if v == nil {
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec[attr] = v
	}
	return rec, nil
}
