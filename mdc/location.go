package mdc

import (
	"context"
	"regexp"
	"runtime"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/philipp01105/logshim/core"
)

// Keys written by WithLocation.
const (
	FileNameKey   = "fileName"
	LineNumberKey = "lineNumber"
	MethodNameKey = "methodName"
)

// LocationKeys lists the keys written by WithLocation.
var LocationKeys = []string{FileNameKey, LineNumberKey, MethodNameKey}

// Location is a parsed caller frame. Fields are empty when unknown.
type Location struct {
	File   string
	Line   string
	Method string
}

var frameRe = regexp.MustCompile("^(.+?):(\\d+)(?::in `(.*)')?")

// ParseFrame parses a "file:line:in `method'" descriptor. The method part
// is optional. A descriptor that does not match yields a zero Location.
func ParseFrame(s string) Location {
	m := frameRe.FindStringSubmatch(s)
	if m == nil {
		return Location{}
	}
	return Location{File: m[1], Line: m[2], Method: m[3]}
}

const cacheSize = 4096

var locations *lru.Cache[uintptr, Location]

func init() {
	var err error
	locations, err = lru.New[uintptr, Location](cacheSize)
	if err != nil {
		panic(err)
	}
}

// Caller returns the Location of the frame skip levels above the caller of
// Caller. Locations are cached per program counter.
func Caller(skip int) Location {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return Location{}
	}
	pc := pcs[0]
	if loc, ok := locations.Get(pc); ok {
		return loc
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	info := core.CallerInfo{File: frame.File, Line: frame.Line, Function: frame.Function, Defined: frame.PC != 0}
	loc := ParseFrame(info.Descriptor())
	locations.Add(pc, loc)
	return loc
}

// Put writes loc into m.
func (loc Location) Put(m *Map) {
	m.mu.Lock()
	m.kv[FileNameKey] = loc.File
	m.kv[LineNumberKey] = loc.Line
	m.kv[MethodNameKey] = loc.Method
	m.mu.Unlock()
}

// LineNumber returns Line as an int, or 0.
func (loc Location) LineNumber() int {
	n, _ := strconv.Atoi(loc.Line)
	return n
}

// WithLocation runs body with a context whose Map holds the frame skip
// levels above the caller of WithLocation. The Map is a per-call copy of
// the one ctx carries, so ctx's Map never changes and concurrent calls
// sharing ctx cannot see each other's location. The keys are removed from
// the copy however body returns.
func WithLocation(ctx context.Context, skip int, body func(context.Context) error) error {
	m := clone(FromContext(ctx))
	Caller(skip + 1).Put(m)
	defer m.Remove(LocationKeys...)
	return body(WithMap(ctx, m))
}
