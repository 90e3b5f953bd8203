package core

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/imagebox/config"
	apperrors "github.com/Skryldev/imagebox/errors"
	"github.com/Skryldev/imagebox/utils"
)

// Codec converts between binary images and data URLs. It is safe for
// concurrent use. Encode and Decode work without Start; the worker pool is
// only needed for Submit.
type Codec struct {
	cfg      config.Config
	registry Registry
	logger   Logger
	metrics  MetricsCollector

	// Worker pool.
	jobQueue chan EncodeJob
	wg       sync.WaitGroup
	once     sync.Once
	stopOnce sync.Once
	shutdown chan struct{}
	mu       sync.RWMutex // guards stopped against in-flight Submit calls
	stopped  bool

	encodedCount int64
	decodedCount int64
	errorCount   int64
}

// NewCodec creates a Codec with the given config. reg may be nil when Probe
// is not needed.
func NewCodec(cfg config.Config, reg Registry) *Codec {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	if reg == nil {
		reg = NewRegistry()
	}
	return &Codec{
		cfg:      cfg,
		registry: reg,
		logger:   NopLogger{},
		jobQueue: make(chan EncodeJob, queueSize),
		shutdown: make(chan struct{}),
	}
}

// SetLogger attaches a structured logger. nil restores the no-op logger.
func (c *Codec) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	c.logger = l
}

// SetMetrics attaches a metrics collector.
func (c *Codec) SetMetrics(m MetricsCollector) { c.metrics = m }

// Registry returns the prober registry.
func (c *Codec) Registry() Registry { return c.registry }

// Encode drains src and returns data:<mime>;base64,<payload>. It blocks until
// the whole source has been read; a read failure is returned as a source
// error and no partial result is produced.
func (c *Codec) Encode(ctx context.Context, src Source) (string, error) {
	start := time.Now()
	out, n, err := c.encode(ctx, src)
	c.observe("encode", start, n, err)
	if err != nil {
		c.logger.Warn("codec.encode.error", "name", src.Name, "error", err.Error())
		return "", err
	}
	atomic.AddInt64(&c.encodedCount, 1)
	c.logger.Debug("codec.encode.done", "name", src.Name, "bytes", n)
	return out, nil
}

func (c *Codec) encode(ctx context.Context, src Source) (string, int64, error) {
	if src.Reader == nil {
		return "", 0, apperrors.New(apperrors.CategoryInput, "encode", apperrors.ErrEmptyInput)
	}

	r := src.Reader
	if c.cfg.MaxImageBytes > 0 {
		r = &utils.LimitedReader{R: r, Max: c.cfg.MaxImageBytes}
	}
	buf, err := utils.DrainReader(ctx, r, c.cfg.ChunkSize)
	if err != nil {
		if errors.Is(err, utils.ErrLimitExceeded) {
			err = apperrors.ErrTooLarge
		}
		return "", 0, apperrors.Wrap(apperrors.CategorySource, "encode.read", err)
	}
	defer utils.ReleaseBuffer(buf)

	data := buf.Bytes()
	return FormatDataURL(c.mimeFor(src.ContentType, data), data), int64(len(data)), nil
}

func (c *Codec) mimeFor(declared string, data []byte) string {
	if declared != "" {
		return declared
	}
	if c.cfg.SniffContentType {
		if m := utils.SniffMIME(data); m != "" {
			return m
		}
	}
	return DefaultMIME
}

// EncodeBytes is the non-reading form of Encode for callers that already
// hold the bytes. mimeType is used verbatim.
func EncodeBytes(data []byte, mimeType string) string {
	return FormatDataURL(mimeType, data)
}

// Decode parses a data URL into a Blob. It does not block; ctx is only
// checked before work starts.
func (c *Codec) Decode(ctx context.Context, dataURL string) (*Blob, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "decode", err)
	}
	blob, err := ParseDataURL(dataURL)
	var n int64
	if blob != nil {
		n = int64(blob.Size())
	}
	c.observe("decode", start, n, err)
	if err != nil {
		c.logger.Warn("codec.decode.error", "error", err.Error())
		return nil, err
	}
	atomic.AddInt64(&c.decodedCount, 1)
	c.logger.Debug("codec.decode.done", "mime", blob.MimeType, "bytes", n)
	return blob, nil
}

// EncodeAsync runs Encode on its own goroutine and delivers the single
// result on the returned channel.
func (c *Codec) EncodeAsync(ctx context.Context, src Source) <-chan EncodeResult {
	ch := make(chan EncodeResult, 1)
	go func() {
		out, err := c.Encode(ctx, src)
		ch <- EncodeResult{DataURL: out, Err: err}
		close(ch)
	}()
	return ch
}

// DecodeAsync mirrors EncodeAsync for Decode. The result is ready
// immediately since decoding never waits on I/O.
func (c *Codec) DecodeAsync(ctx context.Context, dataURL string) <-chan DecodeResult {
	ch := make(chan DecodeResult, 1)
	blob, err := c.Decode(ctx, dataURL)
	ch <- DecodeResult{Blob: blob, Err: err}
	close(ch)
	return ch
}

// Batch encodes sources concurrently. Results and errors are index-aligned
// with sources.
func (c *Codec) Batch(ctx context.Context, sources []Source) ([]string, []error) {
	results := make([]string, len(sources))
	errs := make([]error, len(sources))

	workers := c.workerCount()
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, s Source) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx], errs[idx] = c.Encode(ctx, s)
		}(i, src)
	}
	wg.Wait()
	return results, errs
}

// Probe reads the header of blob and reports its dimensions and format
// through the registered probers.
func (c *Codec) Probe(ctx context.Context, blob *Blob) (Metadata, error) {
	if blob == nil || len(blob.Data) == 0 {
		return Metadata{}, apperrors.New(apperrors.CategoryInput, "probe", apperrors.ErrEmptyInput)
	}
	format := Format(utils.DetectFormat(blob.Data))
	if format == FormatUnknown {
		format = Format(utils.FormatFromMIME(blob.MimeType))
	}
	p, ok := c.registry.ProberFor(format)
	if !ok || !p.CanProbe(format) {
		return Metadata{}, apperrors.New(apperrors.CategoryDecode, "probe", apperrors.ErrUnsupportedFormat)
	}
	meta, err := p.Probe(ctx, utils.BytesReader(blob.Data))
	if err != nil {
		return Metadata{}, err
	}
	meta.SizeBytes = int64(len(blob.Data))
	return meta, nil
}

// ── Worker pool ───────────────────────────────────────────────────────────────

// Start launches the encode worker pool.  It is idempotent.
func (c *Codec) Start() {
	c.once.Do(func() {
		for i := 0; i < c.workerCount(); i++ {
			c.wg.Add(1)
			go c.worker()
		}
	})
}

// Stop shuts down all workers. Jobs still queued are answered with ErrClosed.
// Safe to call more than once.
func (c *Codec) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		close(c.shutdown)
		c.wg.Wait()
		for {
			select {
			case job := <-c.jobQueue:
				c.reply(job, "", apperrors.New(apperrors.CategoryPool, "stop", apperrors.ErrClosed))
			default:
				return
			}
		}
	})
}

// Submit enqueues an async encode. It never blocks: a full queue returns
// ErrQueueFull and a stopped codec returns ErrClosed. Workers block on
// ResultCh, so give it a buffer or keep reading it.
func (c *Codec) Submit(job EncodeJob) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stopped {
		return apperrors.New(apperrors.CategoryPool, "submit", apperrors.ErrClosed)
	}
	if job.Ctx == nil {
		job.Ctx = context.Background()
	}
	select {
	case c.jobQueue <- job:
		return nil
	default:
		return apperrors.New(apperrors.CategoryPool, "submit", apperrors.ErrQueueFull)
	}
}

func (c *Codec) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.shutdown:
			return
		case job := <-c.jobQueue:
			c.processJob(job)
		}
	}
}

func (c *Codec) processJob(job EncodeJob) {
	ctx := job.Ctx
	if timeout := c.cfg.JobTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	out, err := c.Encode(ctx, job.Source)
	c.reply(job, out, err)
}

func (c *Codec) reply(job EncodeJob, out string, err error) {
	if job.ResultCh != nil {
		job.ResultCh <- EncodeResult{JobID: job.ID, DataURL: out, Err: err}
	}
}

func (c *Codec) workerCount() int {
	if c.cfg.WorkerCount > 0 {
		return c.cfg.WorkerCount
	}
	return runtime.NumCPU()
}

func (c *Codec) observe(op string, start time.Time, n int64, err error) {
	if err != nil {
		atomic.AddInt64(&c.errorCount, 1)
	}
	if c.metrics == nil {
		return
	}
	c.metrics.RecordOperation(op, time.Since(start))
	if err != nil {
		c.metrics.RecordError(op, string(apperrors.CategoryOf(err)))
		return
	}
	c.metrics.RecordBytes(op, n)
}

// EncodedCount returns the number of successful encodes.
func (c *Codec) EncodedCount() int64 { return atomic.LoadInt64(&c.encodedCount) }

// DecodedCount returns the number of successful decodes.
func (c *Codec) DecodedCount() int64 { return atomic.LoadInt64(&c.decodedCount) }

// ErrorCount returns the number of failed encodes and decodes.
func (c *Codec) ErrorCount() int64 { return atomic.LoadInt64(&c.errorCount) }
