// Package schema defines the model catalog: model descriptors, index
// declarations, and the record type persisted by both storage engines.
//
// A Catalog is immutable after construction. It is built either
// programmatically with NewCatalog or from a CUE catalog file with
// LoadCatalog, and is passed by value of reference into the database
// factory; there is no process-wide registry.
package schema
