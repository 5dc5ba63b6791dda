// Package logger is the public API of logshim. Most users only need to
// import this package.
//
// A Registry maps names to Logger facades over one backend. Names use
// "::" or "." as separators and live under the backend's root name, so
// "billing::Invoice" becomes "root.billing.Invoice". Every name maps to a
// single Logger for the lifetime of the Registry:
//
//	reg := logger.NewRegistry(zapbackend.NewLogger(zl))
//	log := reg.MustGet("billing::Invoice")
//	log.Info("created", id)
//
// A Logger's level lives in the backend, which resolves it through the
// name hierarchy. The tracing flag and the formatter are resolved by the
// Registry: an unset value is taken from the nearest registered ancestor,
// and the root falls back to false and the registry's default formatter.
//
// The logging methods accept a message, an optional second value and a
// trailing lazy value, mirroring a conventional leveled logger:
//
//	log.Error(err)                        // message and error are err
//	log.Error("charge failed", err)       // message and error
//	log.Debug("cache", func() any { ... }) // tag and lazily built message
//
// The lazy value is evaluated only when the level is enabled. With tracing
// on, the caller's file, line and method are published to the context map
// (see package mdc) for exactly the duration of the backend call, so
// layouts like "%X{fileName}:%X{lineNumber}" can render them.
//
// Backend failures are returned to the caller unchanged. Fatal never
// exits the process.
//
// The package initializes a default Registry (async, InfoLevel, text
// format to stdout) in init(). The package-level functions Get, Root,
// Info and so on delegate to it.
package logger
