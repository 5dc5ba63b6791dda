package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	Int64Type
	BoolType
	DurationType
	ErrorType
	AnyType
)

// Field is a key-value pair attached to an entry. Backends use fields for
// the execution context keys (fileName, lineNumber, methodName) so that
// formatters can render them without knowing where they came from.
type Field struct {
	Key   string
	Type  FieldType
	Int64 int64
	Str   string
	Any   interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Type: StringType, Str: value}
}

// Int64 creates an integer field
func Int64(key string, value int64) Field {
	return Field{Key: key, Type: Int64Type, Int64: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	var v int64
	if value {
		v = 1
	}
	return Field{Key: key, Type: BoolType, Int64: v}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Type: DurationType, Int64: int64(value)}
}

// Error creates an error field holding err.Error()
func Error(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Type: ErrorType}
	}
	return Field{Key: key, Type: ErrorType, Str: err.Error(), Any: err}
}

// Any creates a field of arbitrary type
func Any(key string, value interface{}) Field {
	return Field{Key: key, Type: AnyType, Any: value}
}

// StringValue returns the string representation of a field's value
func (f Field) StringValue() string {
	switch f.Type {
	case StringType, ErrorType:
		return f.Str
	case Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case DurationType:
		return time.Duration(f.Int64).String()
	case AnyType:
		return fmt.Sprintf("%v", f.Any)
	default:
		return ""
	}
}

// FieldsFromMap converts a string map to fields sorted by key.
func FieldsFromMap(dst []Field, m map[string]string) []Field {
	start := len(dst)
	for k, v := range m {
		dst = append(dst, String(k, v))
	}
	slices.SortFunc(dst[start:], func(a, b Field) int {
		return strings.Compare(a.Key, b.Key)
	})
	return dst
}
