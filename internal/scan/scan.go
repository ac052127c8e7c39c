// Package scan implements the fallback query path: walk every record,
// evaluate the operator semantics in memory, and sort by the requested
// attribute. Both engines defer to this package's semantics: the indexed
// and relational paths must return exactly what Reduce would.
package scan

import (
	"sort"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// Matches reports whether the record satisfies every term of the query.
// Scalar terms require strict equality; range terms require every operator
// present on the descriptor to hold under native-ordering comparison. An
// empty query matches everything. An absent or nil attribute matches no
// operator, the way SQL NULL matches no comparison.
func Matches(rec schema.Record, q query.Query) bool {
	for _, t := range q {
		v, ok := rec[t.Attr]
		if !ok || v == nil {
			return false
		}
		if t.Range == nil {
			if !query.Equal(v, t.Value) {
				return false
			}
			continue
		}
		if t.Range.GreaterThan != nil && query.Compare(v, t.Range.GreaterThan) <= 0 {
			return false
		}
		if t.Range.GreaterThanOrEqual != nil && query.Compare(v, t.Range.GreaterThanOrEqual) < 0 {
			return false
		}
		if t.Range.LessThan != nil && query.Compare(v, t.Range.LessThan) >= 0 {
			return false
		}
		if t.Range.LessThanOrEqual != nil && query.Compare(v, t.Range.LessThanOrEqual) > 0 {
			return false
		}
	}
	return true
}

// Reduce filters records by the query and applies the ordering directive.
//
// The sort is stable: records with equal sort keys keep their relative
// input order. Returns an empty slice, never nil, when nothing matches.
// The input slice is not modified.
func Reduce(records []schema.Record, q query.Query, order *query.OrderBy) []schema.Record {
	out := make([]schema.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, q) {
			out = append(out, rec)
		}
	}
	Sort(out, order)
	return out
}

// Sort orders records in place by the directive's attribute, stably.
// A nil directive leaves the input order untouched.
func Sort(records []schema.Record, order *query.OrderBy) {
	if order == nil {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		c := query.Compare(records[i][order.Attr], records[j][order.Attr])
		if order.Descending {
			return c > 0
		}
		return c < 0
	})
}
