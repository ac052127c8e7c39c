package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// Config describes one database.
type Config struct {
	Name        string
	Description string

	// Version is the schema version. Must be a positive integer: the
	// engines truncate fractional versions, which would silently fail to
	// trigger the drop-and-recreate upgrade.
	Version int
}

// EngineKind selects the storage engine at construction time.
type EngineKind int

const (
	// EngineAuto probes the relational engine and falls back to the
	// sorted-index engine when it is unavailable.
	EngineAuto EngineKind = iota

	// EngineIndexed is the in-memory sorted-index engine.
	EngineIndexed

	// EngineRelational is the SQLite engine.
	EngineRelational
)

// Options carries engine selection for the factory.
type Options struct {
	Engine EngineKind

	// Path is the relational engine's database file. Defaults to
	// "<config name>.db" in the working directory.
	Path string
}

// DB is the engine-agnostic facade. Both engines implement it
// identically; callers cannot tell which one is underneath.
//
// Semantics shared by all operations: an unknown model rejects with an
// UNKNOWN_MODEL error, a nil/empty query means "all records", and every
// failure is local to the triggering call.
type DB interface {
	// Insert upserts each record, keyed by identifier. A record without
	// an id is assigned one. Multiple records are written concurrently
	// and joined: the first failure rejects the batch, but siblings
	// already dispatched are not rolled back; partial application is
	// possible and is a known limitation.
	Insert(ctx context.Context, model string, records ...schema.Record) error

	// FindOneBy returns the first record of the equivalent FindBy, or
	// nil when nothing matches.
	FindOneBy(ctx context.Context, model string, q query.Query, order *query.OrderBy) (schema.Record, error)

	// FindBy returns every matching record. Never returns a nil slice.
	FindBy(ctx context.Context, model string, q query.Query, order *query.OrderBy) ([]schema.Record, error)

	// DeleteBy removes every matching record; with an empty query it
	// empties the model's store.
	DeleteBy(ctx context.Context, model string, q query.Query) error

	// Close releases the underlying engine.
	Close() error
}

// Open constructs a database over the given catalog.
//
// The catalog is immutable after this call; the returned DB is the only
// way in. With EngineAuto the relational engine is preferred and the
// sorted-index engine is the capability fallback.
func Open(cfg Config, catalog *schema.Catalog, opts Options) (DB, error) {
	if cfg.Version <= 0 {
		return nil, openFailure(fmt.Sprintf("version must be a positive integer, got %d", cfg.Version), nil)
	}

	switch opts.Engine {
	case EngineRelational:
		return openRelational(cfg, catalog, opts)
	case EngineIndexed:
		return openIndexed(cfg, catalog)
	default:
		rel, err := openRelational(cfg, catalog, opts)
		if err == nil {
			return rel, nil
		}
		return openIndexed(cfg, catalog)
	}
}

// base carries what both engine adapters share: the catalog, and the pure
// preparation steps that make records and queries canonical before any
// engine sees them.
type base struct {
	catalog *schema.Catalog
	newID   func() string
}

func newBase(catalog *schema.Catalog) base {
	return base{catalog: catalog, newID: uuid.NewString}
}

// model resolves the model descriptor or fails with UNKNOWN_MODEL.
func (b base) model(op, name string) (schema.Model, error) {
	m, ok := b.catalog.Model(name)
	if !ok {
		return schema.Model{}, unknownModelError(op, name)
	}
	return m, nil
}

// prepareQuery validates the query shape against the model and
// canonicalizes its values. Attribute checks live here, not in the
// engines, so an undeclared query or ordering attribute is rejected
// identically no matter which engine is underneath.
func (b base) prepareQuery(op string, m schema.Model, q query.Query, order *query.OrderBy) (query.Query, error) {
	if order != nil && !m.HasAttribute(order.Attr) {
		return nil, operationFailure(op, m.Name, fmt.Errorf("model %q has no attribute %q to order by", m.Name, order.Attr))
	}
	if q.IsEmpty() {
		return nil, nil
	}
	if err := q.Validate(); err != nil {
		return nil, operationFailure(op, m.Name, err)
	}
	for _, t := range q {
		if !m.HasAttribute(t.Attr) {
			return nil, operationFailure(op, m.Name, fmt.Errorf("model %q has no attribute %q", m.Name, t.Attr))
		}
	}
	cq, err := q.Canonical()
	if err != nil {
		return nil, operationFailure(op, m.Name, err)
	}
	return cq, nil
}

// prepareRecord projects the record to the model's declared attributes,
// canonicalizes its values, and assigns an identifier when absent.
//
// Nil-valued attributes are dropped: the relational engine stores absent
// and nil identically (as NULL), so keeping nil keys on the index engine
// would make the two engines return differently shaped records.
func (b base) prepareRecord(op string, m schema.Model, rec schema.Record) (schema.Record, error) {
	projected := m.Project(rec)
	canonical, err := schema.CanonicalRecord(projected)
	if err != nil {
		return nil, operationFailure(op, m.Name, err)
	}
	for attr, v := range canonical {
		if v == nil {
			delete(canonical, attr)
		}
	}
	if canonical.ID() == "" {
		canonical[schema.IDAttribute] = b.newID()
	}
	return canonical, nil
}

// insertAll dispatches one upsert per record concurrently and joins them.
// The first failure rejects the aggregate; writes already issued are not
// retracted.
func insertAll(ctx context.Context, records []schema.Record, upsert func(context.Context, schema.Record) error) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) == 1 {
		return upsert(ctx, records[0])
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, rec := range records {
		wg.Add(1)
		go func(rec schema.Record) {
			defer wg.Done()
			if err := upsert(ctx, rec); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(rec)
	}
	wg.Wait()
	return firstErr
}

// firstOrNil implements the FindOneBy contract on top of FindBy.
func firstOrNil(records []schema.Record) schema.Record {
	if len(records) == 0 {
		return nil
	}
	return records[0]
}
