package query

import (
	"github.com/roach88/dualstore/internal/schema"
)

// Path identifies the execution strategy chosen for a query.
type Path int

const (
	// PathScan walks every record and reduces in memory. Always correct;
	// the fallback whenever no native path applies.
	PathScan Path = iota

	// PathGet is the direct identifier lookup for a single-attribute
	// equality query on the id.
	PathGet

	// PathIndexed is a native range scan over a declared sorted index.
	PathIndexed

	// PathRelational is a generated SQL WHERE/ORDER BY.
	PathRelational
)

func (p Path) String() string {
	switch p {
	case PathScan:
		return "SCAN"
	case PathGet:
		return "GET"
	case PathIndexed:
		return "INDEXED"
	case PathRelational:
		return "RELATIONAL"
	default:
		return "UNKNOWN"
	}
}

// Plan is the planner's decision for one query.
type Plan struct {
	Path  Path
	Index schema.Index // the matched index, set when Path is PathIndexed
}

// PlanIndexed decides the execution path for the sorted-index engine.
//
// The decision, in order:
//  1. Empty query: full cursor scan (select-all).
//  2. Single equality term on the identifier: direct get.
//  3. A declared index whose attribute tuple exactly equals the query's
//     attribute list (same order), with balanced bounds: indexed range scan.
//  4. Otherwise: scan-and-reduce.
//
// Shapes that an index exists for but cannot express as one composite
// range degrade to PathScan silently; correctness is preserved, only
// performance differs.
func PlanIndexed(indexes []schema.Index, q Query) Plan {
	if q.IsEmpty() {
		return Plan{Path: PathScan}
	}

	if len(q) == 1 && q[0].Attr == schema.IDAttribute && q[0].Range == nil {
		return Plan{Path: PathGet}
	}

	attrs := q.Attributes()
	for _, ix := range indexes {
		if ix.Matches(attrs) && BalancedBounds(q) {
			return Plan{Path: PathIndexed, Index: ix}
		}
	}
	return Plan{Path: PathScan}
}

// PlanRelational decides the execution path for the relational engine.
// The relational engine ignores index declarations entirely: every query
// compiles to SQL, and the SQL engine is its planner.
func PlanRelational(q Query) Plan {
	return Plan{Path: PathRelational}
}

// BalancedBounds reports whether the query's range shape can be expressed
// as a single composite key range.
//
// The range primitive accepts one unified lower-bound tuple and one
// unified upper-bound tuple across all queried attributes. That works
// when the number of attributes contributing a lower bound equals the
// number contributing an upper bound, or when one of the counts is zero.
// Asymmetric shapes (one attribute bounded both sides, another bounded on
// one side only) cannot be a single range. A one-attribute query is
// trivially balanced.
func BalancedBounds(q Query) bool {
	if len(q) <= 1 {
		return true
	}
	lower, upper := 0, 0
	for _, t := range q {
		if t.Range == nil {
			continue
		}
		if t.Range.HasLower() {
			lower++
		}
		if t.Range.HasUpper() {
			upper++
		}
	}
	return lower == upper || lower == 0 || upper == 0
}
