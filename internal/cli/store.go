package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dualstore/internal/db"
	"github.com/roach88/dualstore/internal/schema"
)

// storeOptions are the flags shared by every command that opens a store.
type storeOptions struct {
	Catalog string
	Path    string
	Engine  string
	Name    string
	Version int
}

func addStoreFlags(cmd *cobra.Command, opts *storeOptions) {
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to the CUE catalog file (required)")
	cmd.Flags().StringVar(&opts.Path, "db", "", "SQLite database file (relational engine)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "auto", "storage engine (auto|relational|indexed)")
	cmd.Flags().StringVar(&opts.Name, "name", "dualstore", "database name")
	cmd.Flags().IntVar(&opts.Version, "schema-version", 1, "schema version (positive integer)")
	_ = cmd.MarkFlagRequired("catalog")
}

// openDatabase loads the catalog and opens the selected engine.
// The indexed engine starts empty on every invocation; persistent
// workflows need the relational engine with a --db path.
func openDatabase(opts *storeOptions) (db.DB, *schema.Catalog, error) {
	engine, err := parseEngine(opts.Engine)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := schema.LoadCatalog(opts.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	d, err := db.Open(
		db.Config{Name: opts.Name, Version: opts.Version},
		catalog,
		db.Options{Engine: engine, Path: opts.Path},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return d, catalog, nil
}

func parseEngine(name string) (db.EngineKind, error) {
	switch name {
	case "auto":
		return db.EngineAuto, nil
	case "relational":
		return db.EngineRelational, nil
	case "indexed":
		return db.EngineIndexed, nil
	default:
		return 0, fmt.Errorf("invalid engine %q: must be auto, relational, or indexed", name)
	}
}
