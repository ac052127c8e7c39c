// Package query defines the declarative query form shared by both storage
// engines: ordered attribute terms (scalar equality or range operators), a
// single-attribute ordering directive, the execution-path planner, and the
// key-range compiler for the sorted-index path.
//
// Everything in this package is pure: no engine handles, no I/O. The two
// engine adapters and the scan reducer all build on these functions, which
// is what keeps their result semantics identical.
package query
