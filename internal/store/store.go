package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/dualstore/internal/schema"
)

// Store is the relational engine: one SQLite database holding one table
// per model. The handle is opened once and cached for the life of the
// instance.
type Store struct {
	db      *sql.DB
	catalog *schema.Catalog
}

// Open creates or opens the SQLite database at path and reconciles its
// schema with the catalog.
//
// The stored schema version (PRAGMA user_version) is compared against
// version: on mismatch every model's table is dropped and recreated, in
// parallel per model, and Open does not return until all creations have
// joined. Version must be a positive integer; SQLite truncates fractional
// versions, so non-integers would silently fail to trigger an upgrade.
func Open(path string, catalog *schema.Catalog, version int) (*Store, error) {
	if version <= 0 {
		return nil, fmt.Errorf("schema version must be a positive integer, got %d", version)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY and keeps in-memory databases on one schema.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := reconcileSchema(db, catalog, version); err != nil {
		db.Close()
		return nil, fmt.Errorf("reconcile schema: %w", err)
	}

	return &Store{db: db, catalog: catalog}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// reconcileSchema drops and recreates every model's table when the stored
// version differs from the requested one. Table creation runs per model in
// parallel and joins before returning; the first error wins.
func reconcileSchema(db *sql.DB, catalog *schema.Catalog, version int) error {
	var stored int
	if err := db.QueryRow("PRAGMA user_version").Scan(&stored); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	recreate := stored != version

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, name := range catalog.ModelNames() {
		m, _ := catalog.Model(name)
		wg.Add(1)
		go func(m schema.Model) {
			defer wg.Done()
			if err := createTable(db, m, recreate); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(m)
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	if recreate {
		// PRAGMA does not support parameter binding.
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

func createTable(db *sql.DB, m schema.Model, recreate bool) error {
	if recreate {
		if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(m.Name))); err != nil {
			return fmt.Errorf("drop table %q: %w", m.Name, err)
		}
	}

	cols := make([]string, 0, len(m.Attributes))
	for _, attr := range m.Attributes {
		col := quoteIdent(attr)
		if attr == schema.IDAttribute {
			// No declared type: columns keep whatever storage class the
			// canonical value carries, so collation matches the in-memory
			// engine exactly.
			col += " PRIMARY KEY"
		}
		cols = append(cols, col)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(m.Name), strings.Join(cols, ", "))
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create table %q: %w", m.Name, err)
	}
	return nil
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
