package core

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log entry
type Level int8

const (
	// DebugLevel for detailed debugging information
	DebugLevel Level = iota
	// InfoLevel for general informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// FatalLevel for fatal messages. Logging at this level never exits the process.
	FatalLevel
)

// Levels lists every valid level in ascending severity.
var Levels = []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel}

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return l >= DebugLevel && l <= FatalLevel
}

// Entry represents a log entry with all its metadata
type Entry struct {
	Time    time.Time
	Level   Level
	Logger  string
	Message string
	Err     error
	Fields  []Field
	Caller  CallerInfo
}

// Lookup returns the string value of the first field named key.
func (e *Entry) Lookup(key string) (string, bool) {
	for i := range e.Fields {
		if e.Fields[i].Key == key {
			return e.Fields[i].StringValue(), true
		}
	}
	return "", false
}

// CallerInfo contains information about a stack frame
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// Method returns the function name without its import path and package
// qualifier, e.g. "(*Server).Serve" for "example.com/app/server.(*Server).Serve".
func (c CallerInfo) Method() string {
	name := c.Function
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Descriptor renders the frame as "file:line:in `method'". Frames without a
// function name omit the method part.
func (c CallerInfo) Descriptor() string {
	if !c.Defined {
		return ""
	}
	var b strings.Builder
	b.Grow(len(c.File) + len(c.Function) + 16)
	b.WriteString(c.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(c.Line))
	if m := c.Method(); m != "" {
		b.WriteString(":in `")
		b.WriteString(m)
		b.WriteByte('\'')
	}
	return b.String()
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 4),
		}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Caller = CallerInfo{}
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.Logger = ""
	e.Err = nil
	e.Caller = CallerInfo{}
	entryPool.Put(e)
}

// GetCaller retrieves caller information
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}
	return FrameInfo(pc, file, line)
}

// FrameInfo builds a CallerInfo from a program counter and its position.
func FrameInfo(pc uintptr, file string, line int) CallerInfo {
	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}
	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

// CallersFrames converts program counters into CallerInfo values,
// innermost frame first.
func CallersFrames(pcs []uintptr) []CallerInfo {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]CallerInfo, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		out = append(out, CallerInfo{
			File:      f.File,
			ShortFile: filepath.Base(f.File),
			Line:      f.Line,
			Function:  f.Function,
			Defined:   true,
		})
		if !more {
			break
		}
	}
	return out
}
