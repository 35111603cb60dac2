// Package calllog keeps a bounded, in-memory record of outbound API calls for
// debugging. Credentials are masked before an entry is stored.
package calllog

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultCapacity = 20

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Input is the request side of an entry.
type Input struct {
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data,omitempty"`
	Prompt  string            `json:"prompt,omitempty"`
}

type Entry struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
	Endpoint  string `json:"endpoint"`
	Attempt   int    `json:"attempt"`
	Input     Input  `json:"input"`
	Output    any    `json:"output"`
	Status    Status `json:"status"`
}

// ErrorOutput is the output recorded for a failed attempt.
func ErrorOutput(msg string) map[string]string {
	return map[string]string{"error": Redact(msg)}
}

// Log is a fixed-capacity ring of entries, oldest evicted first. It is safe
// for concurrent use.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	head     int // index of the oldest entry
	size     int
	session  string
	now      func() time.Time
	newToken func() string
}

type Option func(*Log)

// WithClock sets the time source used for timestamps and session ids.
func WithClock(now func() time.Time) Option { return func(l *Log) { l.now = now } }

// WithSessionToken sets the suffix generator for session ids.
func WithSessionToken(fn func() string) Option { return func(l *Log) { l.newToken = fn } }

// New returns an empty log holding at most capacity entries. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int, opts ...Option) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &Log{
		entries:  make([]Entry, capacity),
		now:      time.Now,
		newToken: func() string { return uuid.NewString()[:8] },
	}
	for _, o := range opts {
		o(l)
	}
	l.ResetSession()
	return l
}

// ResetSession starts a new logical session and returns its id. Buffered
// entries are kept.
func (l *Log) ResetSession() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session = "session_" + l.now().Format("20060102150405") + "_" + l.newToken()
	return l.session
}

func (l *Log) SessionID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session
}

// Append records one call attempt under the current session. Authorization
// headers in in are masked and string outputs are redacted.
func (l *Log) Append(endpoint string, attempt int, in Input, out any, status Status) Entry {
	in.Headers = MaskHeaders(in.Headers)
	in.Prompt = Redact(in.Prompt)
	if s, ok := out.(string); ok {
		out = Redact(s)
	}

	l.mu.Lock()
	e := Entry{
		Timestamp: l.now().Format("2006-01-02 15:04:05"),
		SessionID: l.session,
		Endpoint:  endpoint,
		Attempt:   attempt,
		Input:     in,
		Output:    out,
		Status:    status,
	}
	capacity := len(l.entries)
	if l.size < capacity {
		l.entries[(l.head+l.size)%capacity] = e
		l.size++
	} else {
		l.entries[l.head] = e
		l.head = (l.head + 1) % capacity
	}
	l.mu.Unlock()

	log.Debug().Str("endpoint", endpoint).Int("attempt", attempt).Str("status", string(status)).Msg("api call logged")
	return e
}

// Snapshot returns the most recent count entries, oldest first. A count that
// is not positive or exceeds the buffered amount returns everything.
func (l *Log) Snapshot(count int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if count <= 0 || count > l.size {
		count = l.size
	}
	out := make([]Entry, 0, count)
	capacity := len(l.entries)
	for i := l.size - count; i < l.size; i++ {
		out = append(out, l.entries[(l.head+i)%capacity])
	}
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

func (l *Log) Cap() int { return len(l.entries) }

// Clear drops every entry. The session id is unchanged.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		l.entries[i] = Entry{}
	}
	l.head, l.size = 0, 0
	log.Info().Msg("api call log cleared")
}
