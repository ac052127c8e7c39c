package memindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/scan"
	"github.com/roach88/dualstore/internal/schema"
)

// FindBy plans and executes the query:
//
//   - GET: direct identifier lookup, no cursor involved
//   - INDEXED: cursor traversal of the matched index between the compiled
//     bounds, with a residual predicate check per hit (a composite
//     lexicographic range over-selects interior tuples; re-checking keeps
//     the result identical to the scan path)
//   - SCAN: full traversal in insertion order, reduced in memory
//
// When an ordering directive is present the result is sorted by the
// requested attribute with the insertion sequence as tiebreaker; without
// one, results come back in insertion order on every path, matching the
// scan reference exactly. Returns an empty slice, never nil.
func (s *Store) FindBy(ctx context.Context, m schema.Model, q query.Query, order *query.OrderBy) ([]schema.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ms, ok := s.models[m.Name]
	if !ok {
		return nil, fmt.Errorf("no store for model %q", m.Name)
	}

	entries := ms.collect(q, order)
	records := make([]schema.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.rec.Clone())
	}
	return records, nil
}

// Get returns the record with the given identifier, or nil when absent.
// This is the O(1) fast path for single-attribute identifier equality.
func (s *Store) Get(ctx context.Context, m schema.Model, id string) (schema.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ms, ok := s.models[m.Name]
	if !ok {
		return nil, fmt.Errorf("no store for model %q", m.Name)
	}
	if e, exists := ms.byID[id]; exists {
		return e.rec.Clone(), nil
	}
	return nil, nil
}

// collect runs the planned query and returns matching entries in result
// order. Callers hold the store lock.
func (ms *modelStore) collect(q query.Query, order *query.OrderBy) []*entry {
	plan := query.PlanIndexed(indexSpecs(ms.indexes), q)

	var entries []*entry
	switch plan.Path {
	case query.PathGet:
		id, _ := q[0].Value.(string)
		if e, ok := ms.byID[id]; ok {
			entries = []*entry{e}
		}

	case query.PathIndexed:
		ix := ms.indexFor(plan.Index)
		kr := query.CompileRange(q)
		dir := query.TraversalDirection(order)
		entries = ms.cursorScan(ix, kr, dir, q)
		if order == nil {
			// Cursor hits arrive in key order; without an ordering
			// directive results are insertion-ordered on every path.
			sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
		}

	default: // query.PathScan
		entries = ms.allBySeq()
		filtered := entries[:0:0]
		for _, e := range entries {
			if scan.Matches(e.rec, q) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if order != nil {
		sortEntries(entries, order)
	}
	return entries
}

// cursorScan traverses the index between the range's bounds, collecting
// every posting whose key lies inside the range and whose record passes
// the residual predicate.
func (ms *modelStore) cursorScan(ix *indexTree, kr query.KeyRange, dir query.Direction, q query.Query) []*entry {
	var entries []*entry
	visit := func(item indexItem) bool {
		if dir == query.Forward && kr.Above(item.key) {
			return false
		}
		if dir == query.Reverse && kr.Below(item.key) {
			return false
		}
		if kr.Contains(item.key) {
			e := ms.byID[item.id]
			if e != nil && scan.Matches(e.rec, q) {
				entries = append(entries, e)
			}
		}
		return true
	}

	if dir == query.Reverse {
		if pivot, ok := pivotFor(kr.Upper, maxSeq); ok {
			ix.tree.Descend(pivot, visit)
		} else {
			ix.tree.Reverse(visit)
		}
		return entries
	}

	if pivot, ok := pivotFor(kr.Lower, minSeq); ok {
		ix.tree.Ascend(pivot, visit)
	} else {
		ix.tree.Scan(visit)
	}
	return entries
}

// pivotFor builds the cursor seek position from a bound tuple, seeded
// with minSeq (forward) or maxSeq (reverse) so postings sharing the
// boundary key are not skipped. Seeking is only a performance shortcut,
// so it bails out (full traversal) when any position is unbounded; the
// in-loop bound checks stay authoritative.
func pivotFor(bound []query.BoundValue, seq int64) (indexItem, bool) {
	key := make([]any, len(bound))
	for i, b := range bound {
		if b.Unbounded {
			return indexItem{}, false
		}
		key[i] = b.Value
	}
	if len(key) == 0 {
		return indexItem{}, false
	}
	return indexItem{key: key, seq: seq}, true
}

// allBySeq returns every entry in insertion order.
func (ms *modelStore) allBySeq() []*entry {
	entries := make([]*entry, 0, len(ms.byID))
	for _, e := range ms.byID {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	return entries
}

// sortEntries orders entries by the directive's attribute, tiebreaking on
// insertion sequence so equal keys keep insertion order in both
// directions, exactly like a stable sort over an insertion-ordered scan.
func sortEntries(entries []*entry, order *query.OrderBy) {
	sort.Slice(entries, func(i, j int) bool {
		c := query.Compare(entries[i].rec[order.Attr], entries[j].rec[order.Attr])
		if c != 0 {
			if order.Descending {
				return c > 0
			}
			return c < 0
		}
		return entries[i].seq < entries[j].seq
	})
}

func indexSpecs(trees []*indexTree) []schema.Index {
	specs := make([]schema.Index, len(trees))
	for i, ix := range trees {
		specs[i] = ix.spec
	}
	return specs
}
