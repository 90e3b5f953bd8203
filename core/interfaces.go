package core

import (
	"context"
	"io"
	"time"
)

// Encoder turns a binary source into its data-URL text form.
type Encoder interface {
	Encode(ctx context.Context, src Source) (string, error)
}

// Decoder turns a data-URL text form back into a tagged binary blob.
type Decoder interface {
	Decode(ctx context.Context, dataURL string) (*Blob, error)
}

// Prober reads image header metadata without decoding pixels.
// Implementations live in adapters/probe/.
type Prober interface {
	Probe(ctx context.Context, r io.Reader) (Metadata, error)
	CanProbe(format Format) bool
}

// Store is the image collection contract consumed by presentation code.
// Implementations live in store/.
type Store interface {
	Create(originalImage string) (string, error)
	UpdateProcessed(id, processedImage string) bool
	Remove(id string) bool
	Clear()
	Get(id string) (Record, bool)
	List() []Record
	Len() int
}

// Observer receives store mutations after they have been applied.
type Observer interface {
	OnEvent(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// OnEvent calls f(ev).
func (f ObserverFunc) OnEvent(ev Event) { f(ev) }

// IDGenerator produces candidate record identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// MetricsCollector receives performance observations from the codec and store.
type MetricsCollector interface {
	RecordOperation(op string, d time.Duration) // one call plus its duration
	RecordBytes(op string, n int64)
	RecordError(op string, category string)
	RecordMiss(op string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Registry maps Format values to Prober implementations.
type Registry interface {
	ProberFor(format Format) (Prober, bool)
	RegisterProber(format Format, p Prober)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
