package config

import "errors"

var (
	// ErrEmptyPath is returned for an empty file path.
	ErrEmptyPath = errors.New("config: empty config path")

	// ErrUnsupportedFormat is returned for an unknown extension or format.
	ErrUnsupportedFormat = errors.New("config: unsupported config format")

	// ErrLoadFailed wraps read errors.
	ErrLoadFailed = errors.New("config: failed to load config")

	// ErrParseFailed wraps decode errors.
	ErrParseFailed = errors.New("config: failed to parse config")
)
