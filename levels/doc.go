// Package levels translates between logshim's five-level enum and the
// level values of concrete logging backends.
//
// Parse accepts the loosely typed values a caller may hand to a logger's
// level setter: nil (meaning "leave unchanged"), a core.Level, a level
// name such as "warn" or "WARNING", or an ordinal 0..4. A Table adds the
// backend's own level type to that list and converts in both directions.
// Anything else yields an *UnsupportedLevelError.
package levels
