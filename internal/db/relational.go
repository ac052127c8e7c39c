package db

import (
	"context"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
	"github.com/roach88/dualstore/internal/store"
)

// relationalDB adapts the SQLite engine to the facade. Index
// declarations play no part here: every query compiles to SQL and the
// SQL engine plans it.
type relationalDB struct {
	base
	store *store.Store
}

func openRelational(cfg Config, catalog *schema.Catalog, opts Options) (DB, error) {
	path := opts.Path
	if path == "" {
		path = cfg.Name + ".db"
	}
	s, err := store.Open(path, catalog, cfg.Version)
	if err != nil {
		return nil, openFailure("open relational store", err)
	}
	return &relationalDB{base: newBase(catalog), store: s}, nil
}

func (d *relationalDB) Insert(ctx context.Context, model string, records ...schema.Record) error {
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

func (d *relationalDB) FindBy(ctx context.Context, model string, q query.Query, order *query.OrderBy) ([]schema.Record, error) {
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

func (d *relationalDB) FindOneBy(ctx context.Context, model string, q query.Query, order *query.OrderBy) (schema.Record, error) {
	records, err := d.FindBy(ctx, model, q, order)
	if err != nil {
		return nil, err
	}
	return firstOrNil(records), nil
}

func (d *relationalDB) DeleteBy(ctx context.Context, model string, q query.Query) error {
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

func (d *relationalDB) Close() error {
	return d.store.Close()
}
