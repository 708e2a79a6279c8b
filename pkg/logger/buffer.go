package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"
)

// RingBuffer keeps the most recent log lines in memory with a fixed
// capacity. The workout plugin serves its content as an MCP resource so a
// client can inspect recent server activity without filesystem access.
type RingBuffer struct {
	mu       sync.RWMutex
	lines    []string
	capacity int
	start    int
	count    int
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RingBuffer{capacity: capacity, lines: make([]string, capacity)}
}

func (b *RingBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count < b.capacity {
		b.lines[(b.start+b.count)%b.capacity] = line
		b.count++
		return
	}
	b.lines[b.start] = line
	b.start = (b.start + 1) % b.capacity
}

// GetLast returns up to n lines, oldest first. n outside (0, count] means
// everything currently buffered.
func (b *RingBuffer) GetLast(n int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.count == 0 {
		return []string{}
	}
	if n <= 0 || n > b.count {
		n = b.count
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = b.lines[(b.start+b.count-n+i)%b.capacity]
	}
	return out
}

// Capacity returns the maximum number of lines the buffer can hold
func (b *RingBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capacity
}

// Size returns the current number of buffered lines
func (b *RingBuffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// bufferingHandler tees records to an underlying handler while also writing
// a plain-text rendition into the ring buffer.
type bufferingHandler struct {
	next   slog.Handler
	buffer *RingBuffer
	opts   slog.HandlerOptions
}

func newBufferingHandler(next slog.Handler, buffer *RingBuffer, opts *slog.HandlerOptions) slog.Handler {
	var o slog.HandlerOptions
	if opts != nil {
		o = *opts
	}
	return &bufferingHandler{next: next, buffer: buffer, opts: o}
}

func (h *bufferingHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h *bufferingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.buffer.Append(formatLine(r))
	return h.next.Handle(ctx, r)
}

func (h *bufferingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &bufferingHandler{next: h.next.WithAttrs(attrs), buffer: h.buffer, opts: h.opts}
}

func (h *bufferingHandler) WithGroup(name string) slog.Handler {
	return &bufferingHandler{next: h.next.WithGroup(name), buffer: h.buffer, opts: h.opts}
}

// formatLine renders a record as "time level message key=value ...".
func formatLine(r slog.Record) string {
	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format(time.RFC3339))
	buf.WriteString(" ")
	buf.WriteString(r.Level.String())
	buf.WriteString(" ")
	buf.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(" ")
		buf.WriteString(a.Key)
		buf.WriteString("=")
		buf.WriteString(a.Value.String())
		return true
	})
	return buf.String()
}
