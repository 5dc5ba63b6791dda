// Package handler provides the Handler interface and the outputs used by
// the native backend.
//
// ConsoleHandler and FileHandler support synchronous and asynchronous
// operation. In async mode entries go to a bounded channel drained by a
// background goroutine. When the queue is full each handler applies a
// per-level OverflowPolicy: DropNewest (default for Debug, Info and Warn),
// DropOldest, or Block with a timeout after which the entry is written
// synchronously (default for Error and Fatal). Error and Fatal entries
// are never dropped under the default policy.
//
// Built-in handlers:
//
//   - ConsoleHandler writes formatted entries to any io.Writer (default: stdout).
//   - FileHandler writes to a file rotated by size through lumberjack, with
//     optional backup retention and compression.
//   - MultiHandler fans out a single entry to several children and combines
//     their errors with multierr.
//   - SlogHandler adapts a Handler to log/slog.Handler.
//
// All handlers track dropped, blocked, failed and processed counts via
// Stats.
package handler
