// Package store is the relational storage engine adapter, backed by
// SQLite. Each model owns one table (columns = declared attributes,
// identifier as primary key). A version bump drops and recreates every
// table; all prior data is lost on upgrade, a stated limitation of the
// drop-and-recreate migration model.
package store
