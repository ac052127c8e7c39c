package memindex

import (
	"fmt"
	"sync"

	"github.com/tidwall/btree"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// entry wraps a stored record with its insertion sequence number. The
// sequence is the stable tiebreaker for ordering (the analogue of the
// relational engine's rowid) and survives upserts of the same id.
type entry struct {
	seq int64
	rec schema.Record
}

// indexItem is one posting in a secondary index tree: the composite key
// extracted from a record plus enough identity to reach the record.
type indexItem struct {
	key []any
	seq int64
	id  string
}

func lessItems(a, b indexItem) bool {
	if c := query.CompareKeys(a.key, b.key); c != 0 {
		return c < 0
	}
	return a.seq < b.seq
}

// indexTree is one sorted index over a model store.
type indexTree struct {
	spec schema.Index
	tree *btree.BTreeG[indexItem]
}

// keyFor extracts the index's composite key from a record.
func (ix *indexTree) keyFor(rec schema.Record) []any {
	key := make([]any, len(ix.spec.Attributes))
	for i, attr := range ix.spec.Attributes {
		key[i] = rec[attr]
	}
	return key
}

// modelStore holds one model's records and indexes.
type modelStore struct {
	model   schema.Model
	byID    map[string]*entry
	indexes []*indexTree
	nextSeq int64
}

func newModelStore(m schema.Model, specs []schema.Index) *modelStore {
	ms := &modelStore{
		model: m,
		byID:  make(map[string]*entry),
	}
	for _, spec := range specs {
		ms.indexes = append(ms.indexes, &indexTree{
			spec: spec,
			tree: btree.NewBTreeG(lessItems),
		})
	}
	return ms
}

// indexFor returns the tree backing the given index declaration.
func (ms *modelStore) indexFor(spec schema.Index) *indexTree {
	for _, ix := range ms.indexes {
		if ix.spec.Matches(spec.Attributes) {
			return ix
		}
	}
	return nil
}

// Store is the sorted-index engine. All access is guarded by one RWMutex;
// the engine serializes actual mutation internally, mirroring how the
// native object-store engines serialize device I/O.
type Store struct {
	mu      sync.RWMutex
	catalog *schema.Catalog
	models  map[string]*modelStore
	version int
}

// Open builds the object stores and index trees for every model in the
// catalog. A fresh Store is always empty: construction is the "recreate
// everything" upgrade path, so a version bump on the owning database
// simply builds a new instance.
func Open(catalog *schema.Catalog, version int) (*Store, error) {
	if version <= 0 {
		return nil, fmt.Errorf("schema version must be a positive integer, got %d", version)
	}
	s := &Store{
		catalog: catalog,
		models:  make(map[string]*modelStore),
		version: version,
	}
	for _, name := range catalog.ModelNames() {
		m, _ := catalog.Model(name)
		s.models[name] = newModelStore(m, catalog.Indexes(name))
	}
	return s, nil
}

// Version returns the schema version the store was built for.
func (s *Store) Version() int {
	return s.version
}

// Close releases the store. In-memory stores hold no external resources;
// Close exists for symmetry with the relational engine.
func (s *Store) Close() error {
	return nil
}
