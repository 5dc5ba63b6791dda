package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/throwable"
)

// DefaultPattern renders "2026-01-15 12:00:00.000 [INFO ] root.App - message".
const DefaultPattern = "%d [%-5p] %c - %m%n"

// LocationPattern renders the caller location recorded by traced loggers.
const LocationPattern = "%5p %.50X{fileName} %X{methodName}:%X{lineNumber} - %m%n"

const defaultDateLayout = "2006-01-02 15:04:05.000"

// ErrBadPattern is returned for malformed conversion patterns.
var ErrBadPattern = errors.New("formatter: bad pattern")

// PatternFormatter renders entries through a conversion pattern.
//
// Supported conversions, each optionally preceded by a width ("%5p"),
// a left-justify flag ("%-5p") or a precision that keeps the rightmost
// characters ("%.30c"):
//
//	%d or %d{layout}  timestamp, layout in time.Format syntax
//	%p                level
//	%c or %c{n}       logger name, optionally only the last n segments
//	%m                message
//	%X{key}           value of the entry field named key
//	%ex               error chain, preceded by a newline
//	%n                newline
//	%%                literal percent sign
type PatternFormatter struct {
	pattern  string
	segments []segment
	cfg      Config
}

type segment struct {
	conv  byte // 0 for literal text
	text  string
	arg   string
	width int
	prec  int
	left  bool
}

// NewPatternFormatter parses pattern.
func NewPatternFormatter(pattern string, cfg Config) (*PatternFormatter, error) {
	segs, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &PatternFormatter{pattern: pattern, segments: segs, cfg: cfg}, nil
}

// MustPatternFormatter is like NewPatternFormatter but panics on error.
func MustPatternFormatter(pattern string, cfg Config) *PatternFormatter {
	f, err := NewPatternFormatter(pattern, cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// Pattern returns the source pattern.
func (f *PatternFormatter) Pattern() string { return f.pattern }

// Format formats an entry through the pattern
func (f *PatternFormatter) Format(entry *core.Entry) ([]byte, error) {
	return render(entry, f.formatToBuffer), nil
}

// FormatTo formats an entry and writes it directly to the writer
func (f *PatternFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	return renderTo(entry, w, f.formatToBuffer)
}

func (f *PatternFormatter) formatToBuffer(entry *core.Entry, buf *bytes.Buffer) {
	for i := range f.segments {
		s := &f.segments[i]
		switch s.conv {
		case 0:
			buf.WriteString(s.text)
		case 'n':
			buf.WriteByte('\n')
		case 'e':
			if entry.Err != nil {
				buf.WriteByte('\n')
				if f.cfg.OmitErrorChain {
					buf.WriteString(entry.Err.Error())
				} else {
					buf.WriteString(throwable.Format(entry.Err))
				}
			}
		default:
			s.pad(buf, f.value(s, entry))
		}
	}
}

func (f *PatternFormatter) value(s *segment, entry *core.Entry) string {
	switch s.conv {
	case 'd':
		layout := s.arg
		if layout == "" {
			layout = defaultDateLayout
		}
		return entry.Time.Format(layout)
	case 'p':
		return entry.Level.String()
	case 'c':
		if s.arg == "" {
			return entry.Logger
		}
		return lastSegments(entry.Logger, s.arg)
	case 'm':
		return entry.Message
	case 'X':
		v, _ := entry.Lookup(s.arg)
		return v
	}
	return ""
}

func (s *segment) pad(buf *bytes.Buffer, v string) {
	if s.prec > 0 && utf8.RuneCountInString(v) > s.prec {
		r := []rune(v)
		v = string(r[len(r)-s.prec:])
	}
	n := s.width - utf8.RuneCountInString(v)
	if n <= 0 {
		buf.WriteString(v)
		return
	}
	if s.left {
		buf.WriteString(v)
		buf.WriteString(strings.Repeat(" ", n))
		return
	}
	buf.WriteString(strings.Repeat(" ", n))
	buf.WriteString(v)
}

func lastSegments(name, arg string) string {
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n <= 0 {
		return name
	}
	parts := strings.Split(name, ".")
	if n >= len(parts) {
		return name
	}
	return strings.Join(parts[len(parts)-n:], ".")
}

func parsePattern(p string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(p); i++ {
		c := p[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		i++
		if i >= len(p) {
			return nil, fmt.Errorf("%w: trailing %% in %q", ErrBadPattern, p)
		}
		if p[i] == '%' {
			lit.WriteByte('%')
			continue
		}

		var s segment
		if p[i] == '-' {
			s.left = true
			i++
		}
		i, s.width = digits(p, i)
		if i < len(p) && p[i] == '.' {
			i, s.prec = digits(p, i+1)
		}
		if i >= len(p) {
			return nil, fmt.Errorf("%w: missing conversion in %q", ErrBadPattern, p)
		}

		switch {
		case strings.HasPrefix(p[i:], "ex"):
			s.conv = 'e'
			i++
		case strings.IndexByte("dpcmnX", p[i]) >= 0:
			s.conv = p[i]
		default:
			return nil, fmt.Errorf("%w: unknown conversion %q in %q", ErrBadPattern, p[i], p)
		}

		if i+1 < len(p) && p[i+1] == '{' {
			end := strings.IndexByte(p[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated {} in %q", ErrBadPattern, p)
			}
			s.arg = p[i+2 : i+2+end]
			i += end + 2
		}
		if s.conv == 'X' && s.arg == "" {
			return nil, fmt.Errorf("%w: %%X needs a {key} in %q", ErrBadPattern, p)
		}

		flush()
		segs = append(segs, s)
	}
	flush()
	return segs, nil
}

func digits(p string, i int) (int, int) {
	n := 0
	for i < len(p) && p[i] >= '0' && p[i] <= '9' {
		n = n*10 + int(p[i]-'0')
		i++
	}
	return i, n
}
