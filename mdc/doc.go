// Package mdc implements a mapped diagnostic context: a small string map
// scoped to one task and carried in a context.Context.
//
// Traced loggers use WithLocation to place the caller's fileName,
// lineNumber and methodName in a per-call copy of the map for the duration
// of exactly one backend call. Backends read the map with FromContext and
// attach its contents to the records they emit.
//
// A Map is safe for concurrent use. Keys put by the application are shared
// by every goroutine holding the context; use Fork to give a goroutine its
// own copy.
package mdc
