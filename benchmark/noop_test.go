package benchmark

import (
	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/handler"
)

type noopHandler struct{}

func newNoopHandler() handler.Handler {
	return &noopHandler{}
}

func (h *noopHandler) Handle(e *core.Entry) error {
	_ = len(e.Message)
	return nil
}

func (h *noopHandler) CanRecycleEntry() bool { return true }

func (h *noopHandler) Close() error {
	return nil
}

// discardWriter is a no-op writer for benchmarking
type discardWriter struct{}

func (w discardWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
