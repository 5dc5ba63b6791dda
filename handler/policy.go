package handler

import (
	"sync/atomic"

	"github.com/philipp01105/logshim/core"
)

// OverflowPolicy defines how to handle full async queues
type OverflowPolicy int

const (
	// DropNewest drops the newest log entry when queue is full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest log entry when queue is full
	DropOldest
	// Block blocks the caller until space is available (with timeout)
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy drops Debug, Info and Warn entries when the queue is
// full and blocks for Error and Fatal.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.DebugLevel: DropNewest,
		core.InfoLevel:  DropNewest,
		core.WarnLevel:  DropNewest,
		core.ErrorLevel: Block,
		core.FatalLevel: Block,
	}
}

// Stats tracks handler statistics
type Stats struct {
	dropped   [len(levelSlots)]atomic.Uint64
	blocked   atomic.Uint64
	processed atomic.Uint64
	failed    atomic.Uint64
}

var levelSlots = [...]core.Level{core.DebugLevel, core.InfoLevel, core.WarnLevel, core.ErrorLevel, core.FatalLevel}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped increments the dropped counter for a level. Unknown
// levels are counted as Fatal.
func (s *Stats) IncrementDropped(level core.Level) {
	s.dropped[slot(level)].Add(1)
}

// IncrementBlocked increments the blocked counter
func (s *Stats) IncrementBlocked() { s.blocked.Add(1) }

// IncrementProcessed increments the processed counter
func (s *Stats) IncrementProcessed() { s.processed.Add(1) }

// IncrementFailed increments the write failure counter
func (s *Stats) IncrementFailed() { s.failed.Add(1) }

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if !level.Valid() {
		return 0
	}
	return s.dropped[level].Load()
}

// GetBlocked returns the blocked count
func (s *Stats) GetBlocked() uint64 { return s.blocked.Load() }

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 { return s.processed.Load() }

// GetFailed returns the number of failed writes
func (s *Stats) GetFailed() uint64 { return s.failed.Load() }

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var n uint64
	for i := range s.dropped {
		n += s.dropped[i].Load()
	}
	return n
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.blocked.Store(0)
	s.processed.Store(0)
	s.failed.Store(0)
}

// Snapshot is a point-in-time copy of Stats
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	BlockedTotal   uint64
	ProcessedTotal uint64
	FailedTotal    uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, len(levelSlots))
	for _, l := range levelSlots {
		dropped[l] = s.GetDropped(l)
	}
	return Snapshot{
		DroppedTotal:   dropped,
		BlockedTotal:   s.GetBlocked(),
		ProcessedTotal: s.GetProcessed(),
		FailedTotal:    s.GetFailed(),
	}
}

func slot(l core.Level) int {
	if !l.Valid() {
		return int(core.FatalLevel)
	}
	return int(l)
}
