package core

import (
	"context"
	"io"
	"time"
)

// Format identifies an image container format.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatGIF     Format = "gif"
	FormatUnknown Format = "unknown"
)

// Metadata holds header information read without decoding pixel data.
type Metadata struct {
	Width     int
	Height    int
	Format    Format
	SizeBytes int64
}

// Source is a file-like input: readable bytes plus a declared media type.
type Source struct {
	Reader      io.Reader
	ContentType string // declared media type, used verbatim when non-empty
	Name        string // optional logical name / filename
	Size        int64  // -1 if unknown
}

// Blob is binary image data tagged with its media type. MimeType may be "".
type Blob struct {
	Data     []byte
	MimeType string
}

// Size returns the byte length of the blob.
func (b *Blob) Size() int { return len(b.Data) }

// Record is a snapshot of one image in the collection.
type Record struct {
	ID            string
	OriginalImage string // data URL, never empty

	// ProcessedImage is the latest crop/resize result, nil until the first
	// update. Each snapshot carries its own copy.
	ProcessedImage *string

	CreatedAt time.Time
	UpdatedAt time.Time // zero until the first processed update
}

// HasProcessed reports whether a processed variant has been attached.
func (r Record) HasProcessed() bool { return r.ProcessedImage != nil }

// Latest returns the processed image when present, otherwise the original.
func (r Record) Latest() string {
	if r.ProcessedImage != nil {
		return *r.ProcessedImage
	}
	return r.OriginalImage
}

// EventKind names a store mutation.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event describes one applied store mutation. Record is the affected record
// (zero for EventCleared); Len is the collection size after the mutation.
type Event struct {
	Kind    EventKind
	ID      string
	Record  Record
	Len     int
	Removed int // records dropped by EventCleared
}

// EncodeJob is a single asynchronous encode request for the worker pool.
type EncodeJob struct {
	ID     string
	Ctx    context.Context //nolint:containedctx // intentional for async jobs
	Source Source
	// ResultCh receives exactly one result; nil for fire-and-forget.
	ResultCh chan<- EncodeResult
}

// EncodeResult wraps the outcome of an encode.
type EncodeResult struct {
	JobID   string
	DataURL string
	Err     error
}

// DecodeResult wraps the outcome of a decode.
type DecodeResult struct {
	Blob *Blob
	Err  error
}
