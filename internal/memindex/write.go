package memindex

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// Upsert inserts the record or replaces the attribute values of the
// existing record with the same identifier. On replace the entry keeps
// its insertion sequence, so ordering tiebreaks behave like the
// relational engine's rowid.
//
// The record must already be canonical and projected to the model's
// attributes, with a non-empty identifier.
func (s *Store) Upsert(ctx context.Context, m schema.Model, rec schema.Record) error {
	id := rec.ID()
	if id == "" {
		return fmt.Errorf("record for %q has no identifier", m.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.models[m.Name]
	if !ok {
		return fmt.Errorf("no store for model %q", m.Name)
	}

	if old, exists := ms.byID[id]; exists {
		ms.removeFromIndexes(old, id)
		old.rec = rec
		ms.addToIndexes(old, id)
		return nil
	}

	ms.nextSeq++
	e := &entry{seq: ms.nextSeq, rec: rec}
	ms.byID[id] = e
	ms.addToIndexes(e, id)
	return nil
}

// DeleteBy removes every record matching the query. An empty query
// empties the model's store.
func (s *Store) DeleteBy(ctx context.Context, m schema.Model, q query.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.models[m.Name]
	if !ok {
		return fmt.Errorf("no store for model %q", m.Name)
	}

	matched := ms.collect(q, nil)
	for _, e := range matched {
		id := e.rec.ID()
		ms.removeFromIndexes(e, id)
		delete(ms.byID, id)
	}
	return nil
}

func (ms *modelStore) addToIndexes(e *entry, id string) {
	for _, ix := range ms.indexes {
		ix.tree.Set(indexItem{key: ix.keyFor(e.rec), seq: e.seq, id: id})
	}
}

func (ms *modelStore) removeFromIndexes(e *entry, id string) {
	for _, ix := range ms.indexes {
		ix.tree.Delete(indexItem{key: ix.keyFor(e.rec), seq: e.seq, id: id})
	}
}

// Cursor pivot seeds: a forward pivot starts below every posting sharing
// its key, a reverse pivot above.
const (
	minSeq = math.MinInt64
	maxSeq = math.MaxInt64
)
