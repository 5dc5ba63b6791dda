package handler

import (
	"errors"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/formatter"
)

// ConsoleHandler writes log entries to stdout, stderr or any io.Writer
type ConsoleHandler struct {
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	mu              sync.Mutex
	stats           *Stats
	async           *asyncQueue
}

// ConsoleConfig holds configuration for console handler
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// AsyncConfig tunes the queue used when Async is set
	AsyncConfig
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}

	h := &ConsoleHandler{
		writer:    cfg.Writer,
		formatter: cfg.Formatter,
		stats:     NewStats(),
	}
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)

	if cfg.Async {
		h.async = newAsyncQueue(cfg.AsyncConfig, h.stats, h.write)
	}
	return h
}

// Handle processes a log entry
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	if h.async == nil {
		return h.write(entry)
	}
	return h.async.enqueue(entry)
}

func (h *ConsoleHandler) write(entry *core.Entry) error {
	var err error
	if h.writerFormatter != nil {
		h.mu.Lock()
		err = h.writerFormatter.FormatTo(entry, h.writer)
		h.mu.Unlock()
	} else {
		var data []byte
		if data, err = h.formatter.Format(entry); err != nil {
			return err
		}
		h.mu.Lock()
		_, err = h.writer.Write(data)
		h.mu.Unlock()
	}

	if err == nil {
		h.stats.IncrementProcessed()
	}
	return err
}

// CanRecycleEntry returns true if the caller can recycle the entry after Handle returns
func (h *ConsoleHandler) CanRecycleEntry() bool {
	return h.async == nil
}

// Stats returns a snapshot of the current statistics
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Sync flushes the writer when it supports it, as *os.File does.
func (h *ConsoleHandler) Sync() error {
	s, ok := h.writer.(interface{ Sync() error })
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	err := s.Sync()
	if isUnsyncable(err) {
		return nil
	}
	return err
}

// Close drains the async queue, if any. The writer is left open.
func (h *ConsoleHandler) Close() error {
	if h.async != nil {
		h.async.close()
	}
	return nil
}

// isUnsyncable reports errors returned by Sync on terminals and pipes.
func isUnsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.ENOTSUP)
}
