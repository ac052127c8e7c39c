// Package db is the stable public surface over both storage engines: the
// four-operation facade (Insert, FindOneBy, FindBy, DeleteBy), the engine
// factory, and the error taxonomy. Callers never touch an engine
// directly; the two adapters implement the same interface and are chosen
// at construction time.
package db
