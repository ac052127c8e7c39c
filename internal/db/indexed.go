package db

import (
	"context"

	"github.com/roach88/dualstore/internal/memindex"
	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// indexedDB adapts the sorted-index engine to the facade.
type indexedDB struct {
	base
	store *memindex.Store
}

func openIndexed(cfg Config, catalog *schema.Catalog) (DB, error) {
	s, err := memindex.Open(catalog, cfg.Version)
	if err != nil {
		return nil, openFailure("open index store", err)
	}
	return &indexedDB{base: newBase(catalog), store: s}, nil
}

func (d *indexedDB) Insert(ctx context.Context, model string, records ...schema.Record) error {
	m, err := d.model("insert", model)
	if err != nil {
		return err
	}

	prepared := make([]schema.Record, len(records))
	for i, rec := range records {
		if prepared[i], err = d.prepareRecord("insert", m, rec); err != nil {
			return err
		}
	}

	return insertAll(ctx, prepared, func(ctx context.Context, rec schema.Record) error {
		if err := d.store.Upsert(ctx, m, rec); err != nil {
			return operationFailure("insert", m.Name, err)
		}
		return nil
	})
}

func (d *indexedDB) FindBy(ctx context.Context, model string, q query.Query, order *query.OrderBy) ([]schema.Record, error) {
	m, err := d.model("findBy", model)
	if err != nil {
		return nil, err
	}
	cq, err := d.prepareQuery("findBy", m, q, order)
	if err != nil {
		return nil, err
	}

	records, err := d.store.FindBy(ctx, m, cq, order)
	if err != nil {
		return nil, operationFailure("findBy", m.Name, err)
	}
	return records, nil
}

// FindOneBy short-circuits a single identifier-equality term to the
// engine's direct get instead of a cursor plan.
func (d *indexedDB) FindOneBy(ctx context.Context, model string, q query.Query, order *query.OrderBy) (schema.Record, error) {
	m, err := d.model("findOneBy", model)
	if err != nil {
		return nil, err
	}
	cq, err := d.prepareQuery("findOneBy", m, q, order)
	if err != nil {
		return nil, err
	}

	if len(cq) == 1 && cq[0].Attr == schema.IDAttribute && cq[0].Range == nil {
		if id, ok := cq[0].Value.(string); ok {
			rec, err := d.store.Get(ctx, m, id)
			if err != nil {
				return nil, operationFailure("findOneBy", m.Name, err)
			}
			return rec, nil
		}
	}

	records, err := d.store.FindBy(ctx, m, cq, order)
	if err != nil {
		return nil, operationFailure("findOneBy", m.Name, err)
	}
	return firstOrNil(records), nil
}

func (d *indexedDB) DeleteBy(ctx context.Context, model string, q query.Query) error {
	m, err := d.model("deleteBy", model)
	if err != nil {
		return err
	}
	cq, err := d.prepareQuery("deleteBy", m, q, nil)
	if err != nil {
		return err
	}

	if err := d.store.DeleteBy(ctx, m, cq); err != nil {
		return operationFailure("deleteBy", m.Name, err)
	}
	return nil
}

func (d *indexedDB) Close() error {
	return d.store.Close()
}
