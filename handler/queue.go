package handler

import (
	"sync"
	"time"

	"github.com/philipp01105/logshim/core"
)

// AsyncConfig configures the queue shared by the console and file handlers.
type AsyncConfig struct {
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
}

func (c *AsyncConfig) defaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 1000
	}
	if c.OverflowPolicy == nil {
		c.OverflowPolicy = DefaultLevelPolicy()
	}
	if c.BlockTimeout == 0 {
		c.BlockTimeout = 100 * time.Millisecond
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = 5 * time.Second
	}
}

// asyncQueue hands entries to a background goroutine that calls write.
// Write errors in the background are counted in stats; the entry is
// recycled either way.
type asyncQueue struct {
	cfg       AsyncConfig
	write     func(*core.Entry) error
	stats     *Stats
	queue     chan *core.Entry
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	timerMu    sync.Mutex
	blockTimer *time.Timer
}

func newAsyncQueue(cfg AsyncConfig, stats *Stats, write func(*core.Entry) error) *asyncQueue {
	cfg.defaults()
	q := &asyncQueue{
		cfg:        cfg,
		write:      write,
		stats:      stats,
		queue:      make(chan *core.Entry, cfg.BufferSize),
		closed:     make(chan struct{}),
		blockTimer: newStoppedTimer(),
	}
	q.wg.Add(1)
	go q.process()
	return q
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

func (q *asyncQueue) enqueue(entry *core.Entry) error {
	policy, ok := q.cfg.OverflowPolicy[entry.Level]
	if !ok {
		policy = DropNewest
	}

	select {
	case <-q.closed:
		return q.write(entry)
	default:
	}

	switch policy {
	case Block:
		select {
		case q.queue <- entry:
			return nil
		default:
		}
		q.timerMu.Lock()
		defer q.timerMu.Unlock()
		q.blockTimer.Reset(q.cfg.BlockTimeout)
		defer q.blockTimer.Stop()
		select {
		case q.queue <- entry:
			return nil
		case <-q.blockTimer.C:
			q.stats.IncrementBlocked()
			return q.write(entry)
		case <-q.closed:
			return q.write(entry)
		}

	case DropOldest:
		select {
		case q.queue <- entry:
			return nil
		default:
		}
		select {
		case old := <-q.queue:
			q.stats.IncrementDropped(old.Level)
			core.PutEntry(old)
		default:
		}
		select {
		case q.queue <- entry:
		default:
			q.stats.IncrementDropped(entry.Level)
		}
		return nil

	default:
		select {
		case q.queue <- entry:
		default:
			q.stats.IncrementDropped(entry.Level)
		}
		return nil
	}
}

func (q *asyncQueue) handle(entry *core.Entry) {
	if err := q.write(entry); err != nil {
		q.stats.IncrementFailed()
	}
	core.PutEntry(entry)
}

func (q *asyncQueue) process() {
	defer q.wg.Done()

	for {
		select {
		case entry := <-q.queue:
			q.handle(entry)
		case <-q.closed:
			deadline := time.After(q.cfg.DrainTimeout)
			for {
				select {
				case entry := <-q.queue:
					q.handle(entry)
				case <-deadline:
					return
				default:
					return
				}
			}
		}
	}
}

// close stops the goroutine after draining. It is safe to call twice.
func (q *asyncQueue) close() {
	q.closeOnce.Do(func() {
		close(q.closed)
		q.wg.Wait()
	})
}
