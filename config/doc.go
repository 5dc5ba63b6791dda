// Package config loads logger settings from YAML or JSON and applies them
// to a logger.Registry, optionally reloading on change.
//
// A file looks like:
//
//	backend:
//	  name: zap
//	  encoding: json
//	  level: info
//	root:
//	  level: warn
//	  tracing: true
//	loggers:
//	  billing::Invoice:
//	    level: debug
//	    formatter: message
//	  billing.Payment:
//	    tracing: false
//
// Logger names are application names, so "::" and "." both separate
// segments. Keys are split on "/" only, which keeps dotted names intact.
package config
