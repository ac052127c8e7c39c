// Package querysql compiles declarative queries to parameterized SQL for
// the relational engine. Values are always bound positionally, never
// interpolated into the statement text.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// operator spellings for the range descriptor, applied in this order so
// the clause text is deterministic for a given query.
var rangeOps = []struct {
	sql  string
	pick func(r *query.Range) any
}{
	{">", func(r *query.Range) any { return r.GreaterThan }},
	{">=", func(r *query.Range) any { return r.GreaterThanOrEqual }},
	{"<", func(r *query.Range) any { return r.LessThan }},
	{"<=", func(r *query.Range) any { return r.LessThanOrEqual }},
}

// CompileSelect builds a SELECT statement for the model's table.
//
// The column list is the model's declared attribute order, so row scanning
// is positional. Every statement carries an ORDER BY: the requested
// attribute (with a rowid tiebreaker, keeping equal keys in insertion
// order), or bare rowid when no ordering is requested, so results are
// deterministic across engines and SQLite versions.
func CompileSelect(m schema.Model, q query.Query, order *query.OrderBy) (string, []any, error) {
	if order != nil && !m.HasAttribute(order.Attr) {
		return "", nil, fmt.Errorf("model %q has no attribute %q to order by", m.Name, order.Attr)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	for i, attr := range m.Attributes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(attr))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(tableName(m)))

	params, err := writeWhere(&sb, m, q)
	if err != nil {
		return "", nil, err
	}

	sb.WriteString(" ORDER BY ")
	if order != nil {
		sb.WriteString(quoteIdent(order.Attr))
		if order.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
		sb.WriteString(", rowid ASC")
	} else {
		sb.WriteString("rowid ASC")
	}

	return sb.String(), params, nil
}

// CompileDelete builds a DELETE statement for the model's table.
// An empty query deletes every record.
func CompileDelete(m schema.Model, q query.Query) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(quoteIdent(tableName(m)))

	params, err := writeWhere(&sb, m, q)
	if err != nil {
		return "", nil, err
	}
	return sb.String(), params, nil
}

// CompileUpsert builds the insert-or-update statement keyed on the
// identifier: a second insert with the same id replaces the attribute
// values of the first.
func CompileUpsert(m schema.Model) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(tableName(m)))
	sb.WriteString(" (")
	for i, attr := range m.Attributes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(attr))
	}
	sb.WriteString(") VALUES (")
	for i := range m.Attributes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
	}
	sb.WriteString(") ON CONFLICT(")
	sb.WriteString(quoteIdent(schema.IDAttribute))
	sb.WriteString(")")

	assigns := make([]string, 0, len(m.Attributes))
	for _, attr := range m.Attributes {
		if attr == schema.IDAttribute {
			continue
		}
		assigns = append(assigns, quoteIdent(attr)+" = excluded."+quoteIdent(attr))
	}
	if len(assigns) == 0 {
		// Identifier-only model: nothing to update on conflict.
		sb.WriteString(" DO NOTHING")
		return sb.String()
	}
	sb.WriteString(" DO UPDATE SET ")
	sb.WriteString(strings.Join(assigns, ", "))
	return sb.String()
}

// writeWhere appends the WHERE clause for q (nothing for an empty query)
// and returns the positional parameters in clause order. A range term
// emits one ANDed comparison per operator it carries.
func writeWhere(sb *strings.Builder, m schema.Model, q query.Query) ([]any, error) {
	if q.IsEmpty() {
		return nil, nil
	}

	var params []any
	first := true
	writeTerm := func(attr, op string, value any) {
		if first {
			sb.WriteString(" WHERE ")
			first = false
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(quoteIdent(attr))
		sb.WriteString(" ")
		sb.WriteString(op)
		sb.WriteString(" ?")
		params = append(params, value)
	}

	for _, t := range q {
		if !m.HasAttribute(t.Attr) {
			return nil, fmt.Errorf("model %q has no attribute %q", m.Name, t.Attr)
		}
		if t.Range == nil {
			writeTerm(t.Attr, "=", t.Value)
			continue
		}
		for _, op := range rangeOps {
			if v := op.pick(t.Range); v != nil {
				writeTerm(t.Attr, op.sql, v)
			}
		}
	}
	return params, nil
}

// tableName maps a model to its table. One store per model.
func tableName(m schema.Model) string {
	return m.Name
}

// quoteIdent quotes an identifier for SQLite.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
