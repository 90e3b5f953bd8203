// Package store provides the in-process image collection.
package store

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Skryldev/imagebox/core"
	apperrors "github.com/Skryldev/imagebox/errors"
)

// DefaultMaxIDAttempts bounds regeneration when a generator repeats an id.
const DefaultMaxIDAttempts = 8

type record struct {
	id        string
	original  string
	processed *string
	createdAt time.Time
	updatedAt time.Time
}

func (r *record) snapshot() core.Record {
	out := core.Record{
		ID:            r.id,
		OriginalImage: r.original,
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.updatedAt,
	}
	if r.processed != nil {
		p := *r.processed
		out.ProcessedImage = &p
	}
	return out
}

// Memory is the authoritative in-memory image collection. Records keep
// creation order; every id ever issued stays retired for the lifetime of the
// store. All methods are safe for concurrent use and each mutation is applied
// atomically.
type Memory struct {
	mu      sync.RWMutex
	records []*record
	index   map[string]*record
	issued  map[string]struct{}

	ids         core.IDGenerator
	maxAttempts int
	logger      core.Logger
	metrics     core.MetricsCollector
	now         func() time.Time

	// pending holds events in mutation order until one goroutine delivers
	// them; both fields are guarded by mu.
	pending  []core.Event
	draining bool

	obsMu     sync.RWMutex
	observers []observerEntry
	nextObs   int
}

type observerEntry struct {
	key int
	obs core.Observer
}

// Option configures a Memory store.
type Option func(*Memory)

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(g core.IDGenerator) Option { return func(m *Memory) { m.ids = g } }

// WithMaxIDAttempts sets how many candidates Create tries before failing.
func WithMaxIDAttempts(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l core.Logger) Option {
	return func(m *Memory) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c core.MetricsCollector) Option { return func(m *Memory) { m.metrics = c } }

// WithClock overrides time.Now for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option { return func(m *Memory) { m.now = now } }

// NewMemory returns an empty store.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		index:       make(map[string]*record),
		issued:      make(map[string]struct{}),
		ids:         UUIDv7{},
		maxAttempts: DefaultMaxIDAttempts,
		logger:      core.NopLogger{},
		now:         time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

var _ core.Store = (*Memory)(nil)

// Create appends a record holding originalImage with no processed variant
// and returns its new id.
func (m *Memory) Create(originalImage string) (string, error) {
	start := time.Now()
	if originalImage == "" {
		return "", apperrors.New(apperrors.CategoryInput, "store.create", apperrors.ErrEmptyInput)
	}

	m.mu.Lock()
	id, err := m.nextIDLocked()
	if err != nil {
		m.mu.Unlock()
		m.recordError("create", err)
		return "", err
	}
	rec := &record{id: id, original: originalImage, createdAt: m.now()}
	m.records = append(m.records, rec)
	m.index[id] = rec
	n := len(m.records)
	m.enqueueLocked(core.Event{Kind: core.EventCreated, ID: id, Record: rec.snapshot(), Len: n})
	m.mu.Unlock()

	m.count("create", start)
	m.logger.Debug("store.create", "id", id, "len", n)
	m.deliver()
	return id, nil
}

// nextIDLocked draws candidates until one has never been issued. Caller must
// hold the write lock.
func (m *Memory) nextIDLocked() (string, error) {
	for i := 0; i < m.maxAttempts; i++ {
		id, err := m.ids.NewID()
		if err != nil {
			return "", apperrors.Wrap(apperrors.CategoryStore, "store.id", err)
		}
		if id == "" {
			continue
		}
		if _, used := m.issued[id]; used {
			m.logger.Warn("store.id.collision", "id", id, "attempt", i+1)
			continue
		}
		m.issued[id] = struct{}{}
		return id, nil
	}
	return "", apperrors.New(apperrors.CategoryStore, "store.id",
		fmt.Errorf("%w after %d attempts", apperrors.ErrIDExhausted, m.maxAttempts))
}

// UpdateProcessed replaces the processed image of id. A missing id is a
// no-op: nothing is created and false is returned.
func (m *Memory) UpdateProcessed(id, processedImage string) bool {
	start := time.Now()
	m.mu.Lock()
	rec, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		m.miss("update", id)
		return false
	}
	p := processedImage
	rec.processed = &p
	rec.updatedAt = m.now()
	m.enqueueLocked(core.Event{Kind: core.EventUpdated, ID: id, Record: rec.snapshot(), Len: len(m.records)})
	m.mu.Unlock()

	m.count("update", start)
	m.logger.Debug("store.update", "id", id)
	m.deliver()
	return true
}

// Remove deletes the record with id. A missing id is a no-op returning false.
func (m *Memory) Remove(id string) bool {
	start := time.Now()
	m.mu.Lock()
	rec, ok := m.index[id]
	if !ok {
		m.mu.Unlock()
		m.miss("remove", id)
		return false
	}
	delete(m.index, id)
	if i := slices.Index(m.records, rec); i >= 0 {
		m.records = slices.Delete(m.records, i, i+1)
	}
	n := len(m.records)
	m.enqueueLocked(core.Event{Kind: core.EventRemoved, ID: id, Record: rec.snapshot(), Len: n})
	m.mu.Unlock()

	m.count("remove", start)
	m.logger.Debug("store.remove", "id", id, "len", n)
	m.deliver()
	return true
}

// Clear drops every record. Issued ids stay retired. Clearing an empty store
// emits no event.
func (m *Memory) Clear() {
	start := time.Now()
	m.mu.Lock()
	n := len(m.records)
	m.records = nil
	m.index = make(map[string]*record)
	if n > 0 {
		m.enqueueLocked(core.Event{Kind: core.EventCleared, Removed: n})
	}
	m.mu.Unlock()

	m.count("clear", start)
	m.logger.Debug("store.clear", "removed", n)
	m.deliver()
}

// Get returns a snapshot of the record with id.
func (m *Memory) Get(id string) (core.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.index[id]
	if !ok {
		return core.Record{}, false
	}
	return rec.snapshot(), true
}

// List returns snapshots of all records in creation order.
func (m *Memory) List() []core.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Record, len(m.records))
	for i, r := range m.records {
		out[i] = r.snapshot()
	}
	return out
}

// Len returns the number of records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Issued reports whether id was ever handed out by this store, including ids
// whose records have since been removed.
func (m *Memory) Issued(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.issued[id]
	return ok
}

// Subscribe registers o for every applied mutation. Events arrive in mutation
// order, one at a time, after the store lock is released, so observers may
// call back into the store. With concurrent writers an event may be delivered
// by whichever goroutine is already delivering. The returned func
// unsubscribes.
func (m *Memory) Subscribe(o core.Observer) (unsubscribe func()) {
	m.obsMu.Lock()
	key := m.nextObs
	m.nextObs++
	m.observers = append(m.observers, observerEntry{key: key, obs: o})
	m.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			defer m.obsMu.Unlock()
			for i, e := range m.observers {
				if e.key == key {
					m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Memory) enqueueLocked(ev core.Event) {
	m.pending = append(m.pending, ev)
}

// deliver drains pending events unless another goroutine, or an observer
// further up this stack, is already doing so.
func (m *Memory) deliver() {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	for len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()
		for _, ev := range batch {
			m.emit(ev)
		}
		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}

func (m *Memory) emit(ev core.Event) {
	m.obsMu.RLock()
	observers := m.observers
	m.obsMu.RUnlock()
	for _, e := range observers {
		e.obs.OnEvent(ev)
	}
}

func (m *Memory) miss(op, id string) {
	m.logger.Debug("store."+op+".miss", "id", id)
	if m.metrics != nil {
		m.metrics.RecordMiss("store." + op)
	}
}

func (m *Memory) count(op string, start time.Time) {
	if m.metrics != nil {
		m.metrics.RecordOperation("store."+op, time.Since(start))
	}
}

func (m *Memory) recordError(op string, err error) {
	m.logger.Error("store."+op+".error", "error", err.Error())
	if m.metrics != nil {
		m.metrics.RecordError("store."+op, string(apperrors.CategoryOf(err)))
	}
}
