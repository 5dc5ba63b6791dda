package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/philipp01105/logshim/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
type WriterFormatter interface {
	// FormatTo formats a log entry and writes it directly to the writer
	FormatTo(entry *core.Entry, w io.Writer) error
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
	// OmitErrorChain renders only err.Error() instead of the full chain.
	OmitErrorChain bool
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	bufferPool.Put(buf)
}

// render runs fill over a pooled buffer and returns a copy of the bytes.
func render(entry *core.Entry, fill func(*core.Entry, *bytes.Buffer)) []byte {
	buf := getBuffer()
	defer putBuffer(buf)
	fill(entry, buf)
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// renderTo runs fill over a pooled buffer and writes the result to w.
func renderTo(entry *core.Entry, w io.Writer, fill func(*core.Entry, *bytes.Buffer)) error {
	buf := getBuffer()
	fill(entry, buf)
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}
