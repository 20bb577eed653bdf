package store

import (
	"context"
	"sync"
	"time"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/observability"
)

const backendMemory = "memory"

// MemoryStore is an in-process store. Contents are lost on exit.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Load(ctx context.Context, name string) (Record, error) {
	start := time.Now()
	s.mu.RLock()
	rec, ok := s.records[name]
	s.mu.RUnlock()

	observability.Store().OnStoreGet(ctx, backendMemory, name, ok, time.Since(start), nil)
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Data = append([]byte(nil), rec.Data...)
	return rec, nil
}

func (s *MemoryStore) Save(ctx context.Context, f io.File) (Info, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Record
	if old, ok := s.records[f.Name]; ok {
		prev = &old
	}
	rec, err := newRecord(f, prev, time.Now().UTC())
	if err != nil {
		return Info{}, err
	}
	s.records[rec.Name] = rec

	observability.Store().OnStoreSave(ctx, backendMemory, rec.Name, len(rec.Data), time.Since(start), nil)
	return rec.Info, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateCourseName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[name]; !ok {
		return ErrNotFound
	}
	delete(s.records, name)
	observability.Store().OnStoreDelete(ctx, backendMemory, name, nil)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.records))
	for _, rec := range s.records {
		infos = append(infos, rec.Info)
	}
	sortInfos(infos)
	return infos, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
