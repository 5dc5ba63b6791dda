// Package backend defines the contract between logshim loggers and the
// logging library that actually emits records.
//
// A Backend hands out one Logger per dotted name and owns level state:
// explicit levels are stored per name and the effective level of a logger
// is the explicit level of its nearest configured ancestor, or the
// backend's default. Loggers never format anything; they receive a
// finished message, an optional error and a context whose mdc.Map carries
// the caller location.
//
// Adapters only implement Sink. NewProvider wraps a Sink with the name
// hierarchy, the per-name logger cache and Reset, so each adapter is a
// thin translation from core levels and fields to its library's types.
package backend
