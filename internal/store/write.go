package store

import (
	"context"
	"fmt"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/querysql"
	"github.com/roach88/dualstore/internal/schema"
)

// Upsert inserts the record or, when a record with the same identifier
// already exists, replaces its attribute values. The row keeps its
// original rowid on update, so insertion order is preserved for the
// deterministic tiebreaker.
//
// The record must already be canonical and projected to the model's
// attributes; declared attributes absent from the record are stored NULL.
func (s *Store) Upsert(ctx context.Context, m schema.Model, rec schema.Record) error {
	params := make([]any, len(m.Attributes))
	for i, attr := range m.Attributes {
		params[i] = rec[attr]
	}

	if _, err := s.db.ExecContext(ctx, querysql.CompileUpsert(m), params...); err != nil {
		return fmt.Errorf("upsert into %q: %w", m.Name, err)
	}
	return nil
}

// DeleteBy removes every record matching the query. An empty query
// empties the model's table.
func (s *Store) DeleteBy(ctx context.Context, m schema.Model, q query.Query) error {
	stmt, params, err := querysql.CompileDelete(m, q)
	if err != nil {
		return fmt.Errorf("compile delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, stmt, params...); err != nil {
		return fmt.Errorf("delete from %q: %w", m.Name, err)
	}
	return nil
}
