package handler

import (
	"context"
	"log/slog"

	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/levels"
)

// SlogHandler implements slog.Handler on top of a Handler, so a handler
// pipeline can serve as the output of a slog-based backend.
type SlogHandler struct {
	handler Handler
	level   slog.Leveler
	attrs   []core.Field
	group   string
}

// NewSlogHandler creates a new slog.Handler adapter wrapping the given Handler.
func NewSlogHandler(h Handler, level slog.Leveler) *SlogHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &SlogHandler{handler: h, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level.Level()
}

// Handle converts the record to an entry. An attribute named "logger"
// sets the entry's logger name and one holding an error under "error"
// sets its error; every other attribute becomes a field.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	entry := core.GetEntry()
	entry.Time = record.Time
	entry.Level = levels.FromSlog(record.Level)
	entry.Message = record.Message

	s.add(entry, s.attrs)
	record.Attrs(func(a slog.Attr) bool {
		s.addAttr(entry, s.group, a)
		return true
	})

	err := s.handler.Handle(entry)
	if CanRecycle(s.handler) {
		core.PutEntry(entry)
	}
	return err
}

func (s *SlogHandler) add(entry *core.Entry, fields []core.Field) {
	for _, f := range fields {
		switch {
		case f.Key == "logger" && f.Type == core.StringType:
			entry.Logger = f.Str
		case f.Key == "error" && f.Type == core.ErrorType:
			entry.Err, _ = f.Any.(error)
		default:
			entry.Fields = append(entry.Fields, f)
		}
	}
}

func (s *SlogHandler) addAttr(entry *core.Entry, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		prefix := a.Key
		if group != "" && prefix != "" {
			prefix = group + "." + prefix
		} else if prefix == "" {
			prefix = group
		}
		for _, ga := range a.Value.Group() {
			s.addAttr(entry, prefix, ga)
		}
		return
	}
	s.add(entry, []core.Field{slogAttrToField(group, a)})
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slogAttrToField(s.group, a))
	}
	return &SlogHandler{handler: s.handler, level: s.level, attrs: newAttrs, group: s.group}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &SlogHandler{handler: s.handler, level: s.level, attrs: s.attrs, group: newGroup}
}

// slogAttrToField converts a slog.Attr to a core.Field, prepending the group prefix if present.
func slogAttrToField(group string, a slog.Attr) core.Field {
	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return core.String(key, v.String())
	case slog.KindInt64:
		return core.Int64(key, v.Int64())
	case slog.KindBool:
		return core.Bool(key, v.Bool())
	case slog.KindDuration:
		return core.Duration(key, v.Duration())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return core.Error(key, err)
		}
		return core.Any(key, v.Any())
	default:
		return core.Any(key, v.Any())
	}
}
