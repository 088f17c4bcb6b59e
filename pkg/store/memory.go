package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/zonecut/pkg/errors"
)

// NullStore discards every record.
type NullStore struct{}

func (NullStore) Save(context.Context, *Record) error { return nil }

func (NullStore) Get(_ context.Context, runID string) (*Record, error) {
	return nil, errors.New(errors.ErrCodeNotFound, "analysis %s not found (persistence disabled)", runID)
}

func (NullStore) ListByPage(context.Context, string) ([]*Record, error) { return nil, nil }

func (NullStore) Close(context.Context) error { return nil }

// MemoryStore keeps records in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*Record)}
}

// Save stores a copy of rec.
func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if err := errors.ValidateRunID(rec.RunID); err != nil {
		return err
	}
	cp := *rec
	s.mu.Lock()
	s.recs[rec.RunID] = &cp
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the record.
func (s *MemoryStore) Get(_ context.Context, runID string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.recs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "analysis %s not found", runID)
	}
	cp := *rec
	return &cp, nil
}

// ListByPage returns the page's records, newest first.
func (s *MemoryStore) ListByPage(_ context.Context, pageID string) ([]*Record, error) {
	s.mu.RLock()
	var out []*Record
	for _, rec := range s.recs {
		if rec.PageID == pageID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Record) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.RunID, b.RunID))
	})
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

var (
	_ Store = NullStore{}
	_ Store = (*MemoryStore)(nil)
)
