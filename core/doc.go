// Package core defines the shared types used across logshim.
//
// It provides the Level type for severity filtering, the Entry type that
// carries one rendered log call to a handler, the Field type for the
// key-value pairs attached to an entry, and CallerInfo, which describes a
// single stack frame.
//
// Entry objects are pooled via sync.Pool. Callers get an Entry with
// GetEntry and return it with PutEntry once the handler has consumed it.
// The pool pre-allocates the Fields slice with capacity 4, which covers the
// location keys attached by traced loggers.
//
// CallerInfo renders frames as descriptors of the form
//
//	/path/to/file.go:42:in `(*Server).Serve'
//
// which is the textual format that the mdc package parses back into its
// fileName, lineNumber and methodName keys.
package core
