package handler

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/philipp01105/logshim/core"
)

// gateWriter blocks every Write until open is closed.
type gateWriter struct {
	open chan struct{}
	once sync.Once
	mu   sync.Mutex
	buf  bytes.Buffer
}

func newGateWriter() *gateWriter { return &gateWriter{open: make(chan struct{})} }

func (w *gateWriter) Write(p []byte) (int, error) {
	<-w.open
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *gateWriter) release() { w.once.Do(func() { close(w.open) }) }

func TestOverflowPolicy_String(t *testing.T) {
	for p, want := range map[OverflowPolicy]string{DropNewest: "DropNewest", DropOldest: "DropOldest", Block: "Block", OverflowPolicy(9): "Unknown"} {
		if p.String() != want {
			t.Errorf("%d.String() = %q, want %q", p, p.String(), want)
		}
	}
}

func TestOverflowPolicy_DropNewest(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := newGateWriter()
	h := NewConsoleHandler(ConsoleConfig{
		Writer: w,
		Async:  true,
		AsyncConfig: AsyncConfig{
			BufferSize:     2,
			OverflowPolicy: map[core.Level]OverflowPolicy{core.InfoLevel: DropNewest},
		},
	})

	for i := 0; i < 10; i++ {
		_ = h.Handle(newEntry(core.InfoLevel, "test"))
	}

	dropped := h.Stats().DroppedTotal[core.InfoLevel]
	if dropped < 7 || dropped > 8 {
		t.Errorf("dropped = %d, want 7 or 8", dropped)
	}

	w.release()
	_ = h.Close()
	if got := h.Stats().ProcessedTotal + dropped; got != 10 {
		t.Errorf("processed + dropped = %d, want 10", got)
	}
}

func TestOverflowPolicy_DropOldest(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := newGateWriter()
	h := NewConsoleHandler(ConsoleConfig{
		Writer: w,
		Async:  true,
		AsyncConfig: AsyncConfig{
			BufferSize:     2,
			OverflowPolicy: map[core.Level]OverflowPolicy{core.WarnLevel: DropOldest},
		},
	})

	for i := 0; i < 10; i++ {
		_ = h.Handle(newEntry(core.WarnLevel, "warn"))
	}
	last := newEntry(core.WarnLevel, "newest")
	_ = h.Handle(last)

	if h.Stats().DroppedTotal[core.WarnLevel] == 0 {
		t.Error("Expected some dropped logs with DropOldest policy")
	}

	w.release()
	_ = h.Close()

	w.mu.Lock()
	out := w.buf.String()
	w.mu.Unlock()
	if !bytes.Contains([]byte(out), []byte("newest")) {
		t.Errorf("DropOldest must keep the newest entry, got %q", out)
	}
}

func TestOverflowPolicy_Block(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := newGateWriter()
	h := NewConsoleHandler(ConsoleConfig{
		Writer: w,
		Async:  true,
		AsyncConfig: AsyncConfig{
			BufferSize:   2,
			BlockTimeout: 10 * time.Millisecond,
		},
	})

	timer := time.AfterFunc(100*time.Millisecond, w.release)
	defer timer.Stop()

	for i := 0; i < 6; i++ {
		_ = h.Handle(newEntry(core.ErrorLevel, "error"))
	}
	_ = h.Close()

	s := h.Stats()
	if s.BlockedTotal == 0 {
		t.Error("Expected blocked writes with Block policy")
	}
	if s.DroppedTotal[core.ErrorLevel] != 0 {
		t.Errorf("Block policy must not drop, dropped %d", s.DroppedTotal[core.ErrorLevel])
	}
	if s.ProcessedTotal != 6 {
		t.Errorf("ProcessedTotal = %d, want 6", s.ProcessedTotal)
	}
}

func TestStats_Telemetry(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(ConsoleConfig{Writer: &buf})
	defer h.Close()

	for i := 0; i < 5; i++ {
		_ = h.Handle(newEntry(core.InfoLevel, "info"))
	}

	if got := h.Stats().ProcessedTotal; got != 5 {
		t.Errorf("Expected 5 processed logs, got %d", got)
	}
}

func TestStats_Counters(t *testing.T) {
	s := NewStats()
	for _, l := range core.Levels {
		s.IncrementDropped(l)
	}
	s.IncrementDropped(core.Level(42))
	s.IncrementBlocked()
	s.IncrementFailed()

	if got := s.GetTotalDropped(); got != 6 {
		t.Errorf("GetTotalDropped() = %d, want 6", got)
	}
	if got := s.GetDropped(core.FatalLevel); got != 2 {
		t.Errorf("GetDropped(Fatal) = %d, want 2", got)
	}
	if got := s.GetDropped(core.Level(42)); got != 0 {
		t.Errorf("GetDropped(invalid) = %d, want 0", got)
	}

	snap := s.GetSnapshot()
	if snap.BlockedTotal != 1 || snap.FailedTotal != 1 || len(snap.DroppedTotal) != 5 {
		t.Errorf("snapshot = %+v", snap)
	}

	s.Reset()
	if s.GetTotalDropped() != 0 || s.GetBlocked() != 0 || s.GetFailed() != 0 {
		t.Error("Reset() left counters set")
	}
}

func TestHandler_CloseIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := NewConsoleHandler(ConsoleConfig{Writer: &bytes.Buffer{}, Async: true})
	for i := 0; i < 3; i++ {
		if err := h.Close(); err != nil {
			t.Errorf("close %d failed: %v", i, err)
		}
	}
}

func TestHandler_HandleAfterClose(t *testing.T) {
	buf := &syncBuffer{}
	h := NewConsoleHandler(ConsoleConfig{Writer: buf, Async: true})
	_ = h.Close()

	if err := h.Handle(newEntry(core.InfoLevel, "late")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !bytes.Contains([]byte(buf.String()), []byte("late")) {
		t.Errorf("entry after close should be written synchronously, got %q", buf.String())
	}
}

func TestHandler_DrainTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	buf := &syncBuffer{}
	h := NewConsoleHandler(ConsoleConfig{
		Writer: buf,
		Async:  true,
		AsyncConfig: AsyncConfig{
			BufferSize:   1000,
			DrainTimeout: 100 * time.Millisecond,
		},
	})

	for i := 0; i < 100; i++ {
		_ = h.Handle(newEntry(core.InfoLevel, "test"))
	}

	start := time.Now()
	_ = h.Close()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Close took too long: %v", elapsed)
	}
}

func BenchmarkHandler_DropNewest(b *testing.B) {
	h := NewConsoleHandler(ConsoleConfig{Writer: &syncBuffer{}, Async: true, AsyncConfig: AsyncConfig{BufferSize: 64}})
	defer h.Close()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = h.Handle(newEntry(core.InfoLevel, "bench"))
	}
}
