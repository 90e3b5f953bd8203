// Package hooks provides Logger, Observer and MetricsCollector implementations.
package hooks

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Skryldev/imagebox/core"
)

// ── Structured logger adapters ────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.log.Debug(msg, fields...)
}
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.log.Info(msg, fields...)
}
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.log.Warn(msg, fields...)
}
func (s *SlogLogger) Error(msg string, fields ...interface{}) {
	s.log.Error(msg, fields...)
}

// ZerologLogger adapts a zerolog.Logger to core.Logger. Fields are
// alternating key/value pairs; a trailing key without a value is logged
// under "!BADKEY" the way slog does.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps l.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger { return &ZerologLogger{log: l} }

// NewConsoleLogger returns a human-friendly zerolog logger writing to w
// (os.Stdout when nil) at the given level name.
func NewConsoleLogger(w io.Writer, level string) *ZerologLogger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.RFC3339
	})
	return &ZerologLogger{log: zerolog.New(cw).Level(lvl).With().Timestamp().Logger()}
}

func (z *ZerologLogger) Debug(msg string, fields ...interface{}) {
	withFields(z.log.Debug(), fields).Msg(msg)
}
func (z *ZerologLogger) Info(msg string, fields ...interface{}) {
	withFields(z.log.Info(), fields).Msg(msg)
}
func (z *ZerologLogger) Warn(msg string, fields ...interface{}) {
	withFields(z.log.Warn(), fields).Msg(msg)
}
func (z *ZerologLogger) Error(msg string, fields ...interface{}) {
	withFields(z.log.Error(), fields).Msg(msg)
}

func withFields(ev *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			ev = ev.Interface("!BADKEY", fields[i])
			break
		}
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		ev = ev.Interface(key, fields[i+1])
	}
	return ev
}

// ── Logging observer ──────────────────────────────────────────────────────────

// LoggingObserver logs every store event at info level.
type LoggingObserver struct {
	logger core.Logger
}

// NewLoggingObserver creates a LoggingObserver.
func NewLoggingObserver(l core.Logger) *LoggingObserver { return &LoggingObserver{logger: l} }

func (o *LoggingObserver) OnEvent(ev core.Event) {
	switch ev.Kind {
	case core.EventCleared:
		o.logger.Info("collection.cleared", "removed", ev.Removed)
	case core.EventUpdated:
		o.logger.Info("collection.updated",
			"id", ev.ID,
			"processed_bytes", len(ev.Record.Latest()),
		)
	default:
		o.logger.Info("collection."+string(ev.Kind), "id", ev.ID, "len", ev.Len)
	}
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	durationsUs map[string]int64 // cumulative µs per op
	calls       map[string]int64
	errors      map[string]int64 // keyed "op/category"
	misses      map[string]int64
	bytes       map[string]int64

	collectionLen int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		durationsUs: make(map[string]int64),
		calls:       make(map[string]int64),
		errors:      make(map[string]int64),
		misses:      make(map[string]int64),
		bytes:       make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordOperation(op string, d time.Duration) {
	m.mu.Lock()
	m.durationsUs[op] += d.Microseconds()
	m.calls[op]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordBytes(op string, n int64) {
	m.mu.Lock()
	m.bytes[op] += n
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordError(op string, category string) {
	m.mu.Lock()
	m.errors[op+"/"+category]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordMiss(op string) {
	m.mu.Lock()
	m.misses[op]++
	m.mu.Unlock()
}

// OnEvent lets the collector track the collection size as a gauge when
// subscribed to a store.
func (m *InMemoryMetrics) OnEvent(ev core.Event) {
	atomic.StoreInt64(&m.collectionLen, int64(ev.Len))
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		DurationsUs:   copyCounts(m.durationsUs),
		Calls:         copyCounts(m.calls),
		Errors:        copyCounts(m.errors),
		Misses:        copyCounts(m.misses),
		Bytes:         copyCounts(m.bytes),
		CollectionLen: atomic.LoadInt64(&m.collectionLen),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	DurationsUs   map[string]int64
	Calls         map[string]int64
	Errors        map[string]int64
	Misses        map[string]int64
	Bytes         map[string]int64
	CollectionLen int64
}
