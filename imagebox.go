// Package imagebox keeps a collection of uploaded images as data URLs, each
// with an optional processed variant, and converts between binary images and
// their data-URL form.
package imagebox

import (
	"context"
	"io"

	"github.com/Skryldev/imagebox/adapters/export"
	"github.com/Skryldev/imagebox/adapters/probe"
	"github.com/Skryldev/imagebox/config"
	"github.com/Skryldev/imagebox/core"
	apperrors "github.com/Skryldev/imagebox/errors"
	"github.com/Skryldev/imagebox/store"
)

// Re-exported for callers that only import the root package.
type (
	Record   = core.Record
	Blob     = core.Blob
	Source   = core.Source
	Metadata = core.Metadata
	Event    = core.Event
)

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() config.Config { return config.Default() }

// Variant selects which text form of a record to export.
type Variant int

const (
	// Original is the image as first uploaded.
	Original Variant = iota
	// Processed is the latest crop/resize result.
	Processed
	// Latest is Processed when present, otherwise Original.
	Latest
)

func (v Variant) String() string {
	switch v {
	case Original:
		return "original"
	case Processed:
		return "processed"
	case Latest:
		return "latest"
	}
	return "unknown"
}

// Box wires a Codec and a Memory store together. Pass it to whatever needs
// the collection; there is no package-level instance.
type Box struct {
	cfg   config.Config
	codec *core.Codec
	store *store.Memory
	reg   *core.DefaultRegistry
}

// Option configures a Box.
type Option func(*options)

type options struct {
	logger    core.Logger
	metrics   core.MetricsCollector
	ids       core.IDGenerator
	observers []core.Observer
}

// WithLogger attaches a structured logger to the codec and store.
func WithLogger(l core.Logger) Option { return func(o *options) { o.logger = l } }

// WithMetrics attaches a metrics collector to the codec and store.
func WithMetrics(m core.MetricsCollector) Option { return func(o *options) { o.metrics = m } }

// WithIDGenerator overrides the store's id generator.
func WithIDGenerator(g core.IDGenerator) Option { return func(o *options) { o.ids = g } }

// WithObserver subscribes o to store events.
func WithObserver(obs core.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// New creates a Box with the built-in JPEG, PNG, GIF and WebP probes
// registered.
func New(cfg config.Config, opts ...Option) (*Box, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "imagebox.new", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	reg := core.NewRegistry()
	probe.RegisterDefaults(reg)

	codec := core.NewCodec(cfg, reg)
	codec.SetLogger(o.logger)
	codec.SetMetrics(o.metrics)

	storeOpts := []store.Option{
		store.WithMaxIDAttempts(cfg.MaxIDAttempts),
		store.WithLogger(o.logger),
		store.WithMetrics(o.metrics),
	}
	if o.ids != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(o.ids))
	}
	st := store.NewMemory(storeOpts...)
	for _, obs := range o.observers {
		st.Subscribe(obs)
	}

	return &Box{cfg: cfg, codec: codec, store: st, reg: reg}, nil
}

// Codec returns the underlying codec.
func (b *Box) Codec() *core.Codec { return b.codec }

// Store returns the underlying collection.
func (b *Box) Store() *store.Memory { return b.store }

// RegisterProber registers a custom header probe for the given format.
func (b *Box) RegisterProber(f core.Format, p core.Prober) { b.reg.RegisterProber(f, p) }

// Start starts the codec's encode worker pool.
func (b *Box) Start() { b.codec.Start() }

// Stop shuts the worker pool down.
func (b *Box) Stop() { b.codec.Stop() }

// Subscribe registers an observer for store events.
func (b *Box) Subscribe(o core.Observer) (unsubscribe func()) { return b.store.Subscribe(o) }

// Upload encodes src and adds it to the collection, returning the new id.
func (b *Box) Upload(ctx context.Context, src core.Source) (string, error) {
	text, err := b.codec.Encode(ctx, src)
	if err != nil {
		return "", err
	}
	return b.store.Create(text)
}

// AttachProcessed records dataURL as the processed variant of id. Unknown
// ids are ignored and reported as false.
func (b *Box) AttachProcessed(id, dataURL string) bool {
	return b.store.UpdateProcessed(id, dataURL)
}

// Export decodes the requested variant of id. It returns ErrNotFound when the
// record is gone or has no processed variant yet.
func (b *Box) Export(ctx context.Context, id string, v Variant) (*core.Blob, error) {
	rec, ok := b.store.Get(id)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryStore, "imagebox.export", apperrors.ErrNotFound)
	}
	var text string
	switch v {
	case Original:
		text = rec.OriginalImage
	case Processed:
		if rec.ProcessedImage == nil {
			return nil, apperrors.New(apperrors.CategoryStore, "imagebox.export", apperrors.ErrNotFound)
		}
		text = *rec.ProcessedImage
	default:
		text = rec.Latest()
	}
	return b.codec.Decode(ctx, text)
}

// Probe exports the variant and reads its header metadata.
func (b *Box) Probe(ctx context.Context, id string, v Variant) (core.Metadata, error) {
	blob, err := b.Export(ctx, id, v)
	if err != nil {
		return core.Metadata{}, err
	}
	return b.codec.Probe(ctx, blob)
}

// LocalExporter returns a filesystem sink rooted at Config.ExportDir.
func (b *Box) LocalExporter() (*export.Local, error) {
	l, err := export.NewLocal(b.cfg.ExportDir, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryExport, "imagebox.exporter", err)
	}
	return l, nil
}

// Save exports the variant and hands it to sink under "<id>-<variant>".
func (b *Box) Save(ctx context.Context, id string, v Variant, sink export.Exporter) (string, error) {
	blob, err := b.Export(ctx, id, v)
	if err != nil {
		return "", err
	}
	return sink.Export(ctx, id+"-"+v.String(), blob)
}

// ── Source constructors ────────────────────────────────────────────────────────

// FromReader creates a Source from an io.Reader with a declared media type.
func FromReader(r io.Reader, contentType string) core.Source {
	return core.Source{Reader: r, ContentType: contentType, Size: -1}
}

// FromReaderWithMeta creates a Source with known size, content-type and name.
func FromReaderWithMeta(r io.Reader, size int64, contentType, name string) core.Source {
	return core.Source{Reader: r, Size: size, ContentType: contentType, Name: name}
}
