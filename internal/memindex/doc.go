// Package memindex is the sorted-index storage engine adapter: an
// in-memory object store per model plus one B-tree per declared index
// (and the implicit identifier index). Range queries traverse an index
// with a forward or backward cursor between compiled bounds; everything
// else falls back to a full scan with in-memory reduction.
package memindex
