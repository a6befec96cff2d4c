package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/config"
)

// Store defines the record operations shared by every backend.
// Implementations must be safe for concurrent use.
type Store interface {
	Insert(ctx context.Context, value string) (*Record, error)
	Get(ctx context.Context, value string) (*Record, error)
	Delete(ctx context.Context, value string) error
	List(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Open builds the backend selected by cfg.
func Open(cfg config.StorageConfig, opts ...Option) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(opts...), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.SQLitePath, opts...)
	default:
		return nil, errors.Newf("unknown storage backend %q", cfg.Backend)
	}
}

func validateValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Wrap(ErrInvalidValue, "string cannot be empty")
	}
	return nil
}

// MemoryStore keeps records in insertion order behind a reader/writer lock.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int // value -> position in records
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		index: make(map[string]int),
		now:   o.now,
	}
}

// Insert analyzes value and appends it. The uniqueness check and the append
// happen under the same write lock.
func (s *MemoryStore) Insert(ctx context.Context, value string) (*Record, error) {
	if err := validateValue(value); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[value]; ok {
		return nil, errors.Wrapf(ErrAlreadyExists, "string %q", value)
	}

	rec := newRecord(value, s.now())
	s.index[value] = len(s.records)
	s.records = append(s.records, rec)

	out := rec.clone()
	return &out, nil
}

// Get returns the record whose value matches exactly.
func (s *MemoryStore) Get(ctx context.Context, value string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[value]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "string %q", value)
	}
	out := s.records[i].clone()
	return &out, nil
}

// Delete removes the record whose value matches exactly.
func (s *MemoryStore) Delete(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[value]
	if !ok {
		return errors.Wrapf(ErrNotFound, "string %q", value)
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, value)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].Value] = j
	}
	return nil
}

// List returns a snapshot of every record in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
