// Package formatter turns core entries into bytes for the native backend's
// handlers.
//
// Formatter returns a []byte; WriterFormatter writes directly to an
// io.Writer and is preferred by handlers when available. Three layouts are
// provided:
//
//   - TextFormatter: "2026-01-15T12:00:00Z [INFO] root.App - message key=value"
//   - JSONFormatter: one JSON object per line
//   - PatternFormatter: a conversion pattern such as "%-5p %c %X{fileName}: %m%n"
//
// Errors attached to an entry are rendered with throwable.Format, so the
// complete cause chain and frames reach the output.
//
// All formatters use a pooled bytes.Buffer. Buffers larger than 64 KiB are
// not returned to the pool.
package formatter
