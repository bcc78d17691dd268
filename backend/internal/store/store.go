package store

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialgraph/backend/internal/model"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// Record is the contract every stored kind satisfies through its pointer type
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
	FieldValue(field string) (any, bool)
	Clone() T
	Validate() error
}

// Patch is a partial update applied in place
type Patch[T any] interface {
	Apply(rec *T)
}

// IDGenerator produces record ids
type IDGenerator func() string

// Option configures a Store or DB
type Option func(*options)

type options struct {
	newID  IDGenerator
	logger *zap.Logger
}

// WithIDGenerator overrides uuid generation, used for deterministic fixtures
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) { o.newID = gen }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.For("store")
	}
	return o
}

// Store holds the records of one kind in insertion order.
// Every method copies records in and out, callers never share memory with the store.
type Store[T any, P Record[T]] struct {
	kind    model.Kind
	mu      sync.RWMutex
	records []T
	newID   IDGenerator
	logger  *zap.Logger
}

// New creates an empty store for kind
func New[T any, P Record[T]](kind model.Kind, opts ...Option) *Store[T, P] {
	o := buildOptions(opts)
	return &Store[T, P]{
		kind:    kind,
		records: make([]T, 0),
		newID:   o.newID,
		logger:  o.logger.With(zap.String("kind", string(kind))),
	}
}

// Kind returns the record kind held by the store
func (s *Store[T, P]) Kind() model.Kind {
	return s.kind
}

// ============================================================================
// Reads
// ============================================================================

// FindMany returns every record matching p, all records when p is nil.
// The result is never nil.
func (s *Store[T, P]) FindMany(p *Predicate) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for i := range s.records {
		rec := P(&s.records[i])
		if p.matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// FindOne returns the first record matching p, or nil
func (s *Store[T, P]) FindOne(p Predicate) *T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		rec := P(&s.records[i])
		if p.matches(rec) {
			c := rec.Clone()
			return &c
		}
	}
	return nil
}

// Get returns the record with id, or nil
func (s *Store[T, P]) Get(id string) *T {
	return s.FindOne(Predicate{Field: model.FieldID, Equals: id})
}

// Exists reports whether a record with id is stored
func (s *Store[T, P]) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Len returns the number of stored records
func (s *Store[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ============================================================================
// Writes
// ============================================================================

// Create assigns a fresh id to rec and appends it.
// Any id already set on rec is replaced.
func (s *Store[T, P]) Create(rec T) (*T, error) {
	if err := P(&rec).Validate(); err != nil {
		return nil, err
	}

	stored := P(&rec).Clone()
	P(&stored).SetID(s.newID())

	s.mu.Lock()
	s.records = append(s.records, stored)
	s.mu.Unlock()

	s.logger.Debug("Record created", zap.String("id", P(&stored).GetID()))

	out := P(&stored).Clone()
	return &out, nil
}

// Change merges patch into the record with id and returns the result, or nil
// when no such record exists. Concurrent changes to the same record are
// applied in lock order; the last writer wins on overlapping fields.
func (s *Store[T, P]) Change(id string, patch Patch[T]) *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	patch.Apply(&s.records[i])
	P(&s.records[i]).SetID(id)

	out := P(&s.records[i]).Clone()
	return &out
}

// Modify runs fn on a copy of the record with id and stores the copy if fn
// succeeds. The read, fn and the write happen under one lock, so guards
// evaluated inside fn cannot race with other writers to this store.
func (s *Store[T, P]) Modify(id string, fn func(rec *T) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, apperrors.NewNotFound(string(s.kind), id)
	}

	work := P(&s.records[i]).Clone()
	if err := fn(&work); err != nil {
		return nil, err
	}
	P(&work).SetID(id)
	s.records[i] = work

	out := P(&work).Clone()
	return &out, nil
}

// Delete removes the record with id and returns it, or nil when absent
func (s *Store[T, P]) Delete(id string) *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	removed := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)

	s.logger.Debug("Record deleted", zap.String("id", id))
	return &removed
}

// indexOf must be called with the lock held
func (s *Store[T, P]) indexOf(id string) int {
	for i := range s.records {
		if P(&s.records[i]).GetID() == id {
			return i
		}
	}
	return -1
}
