package logger

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/philipp01105/logshim/backend"
	"github.com/philipp01105/logshim/backend/backendtest"
	"github.com/philipp01105/logshim/backend/native"
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/formatter"
	"github.com/philipp01105/logshim/handler"
	"github.com/philipp01105/logshim/levels"
	"github.com/philipp01105/logshim/mdc"
	"github.com/philipp01105/logshim/throwable"
)

func newBufferRegistry(buf *bytes.Buffer) *Registry {
	h := handler.NewConsoleHandler(handler.ConsoleConfig{
		Writer:    buf,
		Async:     false, // Synchronous for testing
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	return NewRegistry(native.New(h), WithDefaultFormatter(MessageFormatter{}))
}

func lastRecord(t *testing.T, rec *backendtest.Recorder) backendtest.Record {
	t.Helper()
	r, err := rec.Last()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestLogger_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferRegistry(&buf).MustGet("app")

	// Debug should not be logged (below Info level)
	if err := log.Debug("debug message"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() > 0 {
		t.Error("Debug message was logged when level is Info")
	}

	log.Info("info message")
	if !strings.Contains(buf.String(), "[INFO] root.app - info message") {
		t.Errorf("Expected info message in output, got: %s", buf.String())
	}

	buf.Reset()
	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("Expected 'warn message' in output, got: %s", buf.String())
	}

	buf.Reset()
	log.Fatal("fatal message")
	if !strings.Contains(buf.String(), "[FATAL] root.app - fatal message") {
		t.Errorf("Expected fatal message in output, got: %s", buf.String())
	}
}

func TestLogger_LevelPredicates(t *testing.T) {
	r, _ := newTestRegistry(t)
	log := r.MustGet("app")

	if log.DebugEnabled() || !log.InfoEnabled() || !log.WarnEnabled() {
		t.Error("unexpected predicates at InfoLevel")
	}
	if err := log.SetLevel("warn"); err != nil {
		t.Fatal(err)
	}
	if log.InfoEnabled() || !log.Enabled(core.ErrorLevel) {
		t.Error("unexpected predicates at WarnLevel")
	}
}

func TestLogger_ErrorAndFatalRespectLevel(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")
	log.SetLevel(core.FatalLevel)

	log.Error("dropped")
	log.Fatal("kept")
	if rec.Len() != 1 || lastRecord(t, rec).Level != core.FatalLevel {
		t.Errorf("got %+v", rec.Records())
	}
}

func TestLogger_LazyNotEvaluatedWhenDisabled(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")

	err := log.Debug("tag", func() any {
		t.Fatal("lazy value evaluated for a disabled level")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	log.Debugf("%v", stringerFunc(func() string {
		t.Fatal("format arguments rendered for a disabled level")
		return ""
	}))
	if rec.Len() != 0 {
		t.Errorf("expected no records, got %d", rec.Len())
	}

	calls := 0
	log.Info("tag", func() any { calls++; return "built" })
	if calls != 1 {
		t.Errorf("lazy value evaluated %d times", calls)
	}
	if got := lastRecord(t, rec).Message; got != "-- tag: built" {
		t.Errorf("got %q", got)
	}
}

type stringerFunc func() string

func (f stringerFunc) String() string { return f() }

func TestLogger_MessageShapes(t *testing.T) {
	r, rec := newTestRegistry(t, backend.WithNestedErrors(true))
	log := r.MustGet("app")
	boom := errors.New("boom")

	tests := []struct {
		name    string
		call    func() error
		wantMsg string
		wantErr error
	}{
		{"empty", func() error { return log.Info() }, "-- : ", nil},
		{"message", func() error { return log.Info("x") }, "-- : x", nil},
		{"error only", func() error { return log.Error(boom) }, "-- : boom", boom},
		{"message and error", func() error { return log.Error("tag", boom) }, "-- : tag", boom},
		{"tag and lazy", func() error { return log.Info("a", func() any { return "b" }) }, "-- a: b", nil},
		{"log error", func() error { return log.LogError("charge failed", boom) }, "-- : charge failed", boom},
		{"log error without error", func() error { return log.LogError("charge failed", nil) }, "-- : charge failed", nil},
		{"formatted", func() error { return log.Infof("user %s id %d", "alice", 7) }, "-- : user alice id 7", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatal(err)
			}
			got := lastRecord(t, rec)
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.Err != tt.wantErr {
				t.Errorf("err = %v, want %v", got.Err, tt.wantErr)
			}
		})
	}
}

func TestLogger_RendersChainWithoutNestedErrors(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")
	err := throwable.Wrap(throwable.NewKind("IOError", "disk gone"), "save failed")

	log.Error(err)
	got := lastRecord(t, rec)
	if got.Err != nil {
		t.Errorf("error forwarded to a backend without nested errors: %v", got.Err)
	}
	if !strings.HasPrefix(got.Message, "-- : save failed (Exception)\n\t") {
		t.Errorf("got %q", got.Message)
	}
	if strings.Count(got.Message, "Caused by: ") != 1 || !strings.Contains(got.Message, "disk gone (IOError)") {
		t.Errorf("missing cause in %q", got.Message)
	}

	log.LogError("request failed", err)
	got = lastRecord(t, rec)
	if !strings.HasPrefix(got.Message, "-- : request failed\nsave failed (Exception)") {
		t.Errorf("got %q", got.Message)
	}
	if strings.Count(got.Message, "save failed") != 1 {
		t.Errorf("error rendered twice in %q", got.Message)
	}
}

func TestLogger_ForeignError(t *testing.T) {
	r, rec := newTestRegistry(t, backend.WithNestedErrors(true))
	inner := errors.New("java.io.IOException: closed")
	foreign := &throwable.Foreign{
		Runtime: "ruby",
		Type:    "IOError",
		Message: "stream closed",
		Trace:   []string{"app.rb:3:in `read'"},
		Native:  inner,
	}

	r.MustGet("app").Error(foreign)
	got := lastRecord(t, rec)
	if got.Err != inner {
		t.Errorf("err = %v, want the wrapped native error", got.Err)
	}
	if !strings.Contains(got.Message, "stream closed") || !strings.Contains(got.Message, "app.rb:3:in `read'") {
		t.Errorf("foreign description missing from %q", got.Message)
	}
}

func TestLogger_BackendErrorPropagates(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")
	log.SetTracing(true)
	boom := errors.New("disk full")
	rec.FailWith(boom)

	ctx := mdc.NewContext(context.Background())
	err := log.InfoContext(ctx, "x")
	if err != boom {
		t.Fatalf("err = %v, want the backend error unchanged", err)
	}
	if mdc.FromContext(ctx).Len() != 0 {
		t.Error("location keys left behind after a failed call")
	}
}

func TestLogger_Location(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")
	log.SetTracing(true)

	_, file, line, _ := runtime.Caller(0)
	log.Info("here")

	got := lastRecord(t, rec).Context
	if got[mdc.FileNameKey] != file {
		t.Errorf("fileName = %q, want %q", got[mdc.FileNameKey], file)
	}
	if got[mdc.LineNumberKey] != strconv.Itoa(line+1) {
		t.Errorf("lineNumber = %q, want %d", got[mdc.LineNumberKey], line+1)
	}
	if got[mdc.MethodNameKey] != "TestLogger_Location" {
		t.Errorf("methodName = %q", got[mdc.MethodNameKey])
	}
}

func TestLogger_LocationScopedToCall(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")
	log.SetTracing(true)

	ctx := mdc.NewContext(context.Background())
	m := mdc.FromContext(ctx)
	m.Put("request", "r-1")

	log.InfoContext(ctx, "with context")
	for _, k := range mdc.LocationKeys {
		if _, ok := m.Get(k); ok {
			t.Errorf("%s still present after the call", k)
		}
	}
	got := lastRecord(t, rec).Context
	if got["request"] != "r-1" || got[mdc.MethodNameKey] != "TestLogger_LocationScopedToCall" {
		t.Errorf("got %v", got)
	}
	if filepath.Base(got[mdc.FileNameKey]) != "logger_test.go" {
		t.Errorf("fileName = %q", got[mdc.FileNameKey])
	}
}

func infoFromA(ctx context.Context, l *Logger) error { return l.InfoContext(ctx, "A") }

func infoFromB(ctx context.Context, l *Logger) error { return l.InfoContext(ctx, "B") }

func TestLogger_LocationSharedContext(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")
	log.SetTracing(true)

	ctx := mdc.NewContext(context.Background())
	shared := mdc.FromContext(ctx)
	shared.Put("request", "r-1")

	const (
		workers = 8
		calls   = 500
	)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			call := infoFromA
			if w%2 == 1 {
				call = infoFromB
			}
			for i := 0; i < calls; i++ {
				if err := call(ctx, log); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	records := rec.Records()
	if len(records) != workers*calls {
		t.Fatalf("got %d records, want %d", len(records), workers*calls)
	}
	for _, got := range records {
		want := "infoFromA"
		if strings.HasSuffix(got.Message, "B") {
			want = "infoFromB"
		}
		if got.Context[mdc.MethodNameKey] != want {
			t.Fatalf("record %q carried methodName %q, want %q", got.Message, got.Context[mdc.MethodNameKey], want)
		}
		if got.Context[mdc.LineNumberKey] == "" || got.Context[mdc.FileNameKey] == "" {
			t.Fatalf("record %q lost its location: %v", got.Message, got.Context)
		}
		if got.Context["request"] != "r-1" {
			t.Fatalf("record %q lost the shared key: %v", got.Message, got.Context)
		}
	}
	if snap := shared.Snapshot(); len(snap) != 1 || snap["request"] != "r-1" {
		t.Errorf("shared map changed: %v", snap)
	}
}

func TestLogger_NoLocationWithoutTracing(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")

	log.Info("plain")
	if ctx := lastRecord(t, rec).Context; ctx != nil {
		t.Errorf("unexpected context %v", ctx)
	}
}

func TestLogger_InheritedTracingPublishesLocation(t *testing.T) {
	r, rec := newTestRegistry(t)
	r.Root().SetTracing(true)

	r.MustGet("A::B").Warnf("n=%d", 1)
	if _, ok := lastRecord(t, rec).Context[mdc.LineNumberKey]; !ok {
		t.Error("inherited tracing did not publish the location")
	}
}

func TestPackageLevel_Location(t *testing.T) {
	rec, p := backendtest.New()
	prev := Default()
	SetDefault(NewRegistry(p))
	defer SetDefault(prev)
	Root().SetTracing(true)

	Info("from package")
	if got := lastRecord(t, rec).Context[mdc.MethodNameKey]; got != "TestPackageLevel_Location" {
		t.Errorf("methodName = %q", got)
	}
	if got := lastRecord(t, rec).Logger; got != "root" {
		t.Errorf("logger = %q", got)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	r, _ := newTestRegistry(t)
	log := r.MustGet("app")

	if err := log.SetLevel(nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := log.ExplicitLevel(); ok {
		t.Error("nil level should be a no-op")
	}

	err := log.SetLevel("verbose")
	if !errors.Is(err, levels.ErrUnsupportedLevel) {
		t.Fatalf("err = %v", err)
	}

	if err := log.SetLevel(3); err != nil {
		t.Fatal(err)
	}
	if log.Level() != core.ErrorLevel {
		t.Errorf("level = %v", log.Level())
	}
	log.ClearLevel()
	if log.Level() != core.InfoLevel {
		t.Errorf("level after clear = %v", log.Level())
	}
}

func TestLogger_WithTemporaryLevel(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")

	err := log.WithTemporaryLevel("debug", func(l *Logger) error {
		return l.Debug("inside")
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 1 {
		t.Error("debug record missing inside the temporary level")
	}
	if _, ok := log.ExplicitLevel(); ok {
		t.Error("temporary level not cleared")
	}

	log.SetLevel("warn")
	boom := errors.New("boom")
	err = log.WithTemporaryLevel(core.DebugLevel, func(*Logger) error { return boom })
	if err != boom {
		t.Errorf("err = %v", err)
	}
	if lvl, _ := log.ExplicitLevel(); lvl != core.WarnLevel {
		t.Errorf("level after error = %v", lvl)
	}

	func() {
		defer func() { _ = recover() }()
		_ = log.WithTemporaryLevel("fatal", func(*Logger) error { panic("boom") })
	}()
	if lvl, _ := log.ExplicitLevel(); lvl != core.WarnLevel {
		t.Errorf("level after panic = %v", lvl)
	}

	if err := log.WithTemporaryLevel("nope", func(*Logger) error { return nil }); !errors.Is(err, levels.ErrUnsupportedLevel) {
		t.Errorf("err = %v", err)
	}
}

func TestLogger_Silence(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")

	log.Silence(func(l *Logger) error {
		l.Info("hidden")
		l.Warn("hidden")
		return l.Error("shown")
	})
	if rec.Len() != 1 || lastRecord(t, rec).Level != core.ErrorLevel {
		t.Errorf("got %+v", rec.Records())
	}
	if !log.InfoEnabled() {
		t.Error("level not restored after Silence")
	}
}

func TestLogger_SetAttributes(t *testing.T) {
	r, rec := newTestRegistry(t)

	if err := r.MustGet("app").SetAttributes(nil); err != nil {
		t.Fatal(err)
	}

	log, err := r.GetWith("app", &Attributes{
		Level:     "debug",
		Tracing:   Bool(true),
		Formatter: MessageFormatter{},
	})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("configured")
	got := lastRecord(t, rec)
	if got.Message != "configured" || got.Context[mdc.MethodNameKey] == "" {
		t.Errorf("got %+v", got)
	}

	if _, err := r.GetWith("other", &Attributes{Level: struct{}{}}); !errors.Is(err, levels.ErrUnsupportedLevel) {
		t.Errorf("err = %v", err)
	}
	if _, err := r.GetWith(" ", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v", err)
	}
}

func TestLogger_FatalDoesNotExit(t *testing.T) {
	r, rec := newTestRegistry(t)
	log := r.MustGet("app")

	log.Fatal("going down")
	log.LogFatal("really", errors.New("boom"))
	if rec.Len() != 2 {
		t.Errorf("expected 2 records, got %d", rec.Len())
	}
}

type widget struct{}

func TestFor(t *testing.T) {
	r, _ := newTestRegistry(t)

	l := For[widget](r)
	if l.Name() != "root.logger.widget" {
		t.Errorf("name = %q", l.Name())
	}
	if For[*widget](r) != l {
		t.Error("pointer type should share the logger of its element")
	}
	if got := TypeName[[]int](); got != "[]int" {
		t.Errorf("TypeName = %q", got)
	}
}

func BenchmarkLogger_LevelCheck(b *testing.B) {
	r := NewRegistry(native.New(handler.NewConsoleHandler(handler.ConsoleConfig{Writer: &bytes.Buffer{}})))
	log := r.MustGet("bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Should exit early due to level check
		log.Debug("debug message", func() any { return i })
	}
}

func BenchmarkLogger_InfoTracing(b *testing.B) {
	_, p := backendtest.New()
	log := NewRegistry(p).MustGet("bench")
	log.SetTracing(true)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("message")
	}
}
