package logger

import (
	"path"
	"reflect"
)

// TypeName returns the logger name used for T: "<package>::<Type>".
// Pointer types name their element; unnamed types use their Go syntax.
func TypeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if pkg := t.PkgPath(); pkg != "" {
		return path.Base(pkg) + "::" + t.Name()
	}
	return t.Name()
}

// For returns the Logger for type T in r.
func For[T any](r *Registry) *Logger {
	return r.MustGet(TypeName[T]())
}

// ForType returns the Logger for type T in the default registry.
func ForType[T any]() *Logger {
	return For[T](Default())
}
