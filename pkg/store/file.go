package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/observability"
)

const backendFile = "file"

// FileStore keeps each course as <dir>/<name>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "store directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// fileRecord keeps the course readable on disk instead of base64 encoded.
type fileRecord struct {
	Info
	Course json.RawMessage `json:"course"`
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) read(name string) (Record, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("read course file: %w", err)
	}
	var fr fileRecord
	if err := json.Unmarshal(data, &fr); err != nil {
		return Record{}, errs.Wrap(errs.ErrCodeStorage, err, "parse %s", s.path(name))
	}
	return Record{Info: fr.Info, Data: []byte(fr.Course)}, nil
}

func (s *FileStore) Load(ctx context.Context, name string) (Record, error) {
	start := time.Now()
	if err := errs.ValidateCourseName(name); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	rec, err := s.read(name)
	s.mu.RUnlock()

	observability.Store().OnStoreGet(ctx, backendFile, name, err == nil, time.Since(start), ignoreMiss(err))
	return rec, err
}

func (s *FileStore) Save(ctx context.Context, f io.File) (Info, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Record
	if err := errs.ValidateCourseName(f.Name); err == nil {
		if old, err := s.read(f.Name); err == nil {
			prev = &old
		}
	}
	rec, err := newRecord(f, prev, time.Now().UTC())
	if err != nil {
		return Info{}, err
	}

	data, err := json.MarshalIndent(fileRecord{Info: rec.Info, Course: rec.Data}, "", "  ")
	if err == nil {
		err = os.WriteFile(s.path(rec.Name), data, 0o644)
	}
	observability.Store().OnStoreSave(ctx, backendFile, rec.Name, len(rec.Data), time.Since(start), err)
	if err != nil {
		return Info{}, fmt.Errorf("write course file: %w", err)
	}
	return rec.Info, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateCourseName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		err = ErrNotFound
	} else if err != nil {
		err = fmt.Errorf("remove course file: %w", err)
	}
	observability.Store().OnStoreDelete(ctx, backendFile, name, ignoreMiss(err))
	return err
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		infos = append(infos, rec.Info)
	}
	sortInfos(infos)
	return infos, nil
}

func (s *FileStore) Close() error { return nil }

// Dir returns the directory holding course files.
func (s *FileStore) Dir() string {
	return s.dir
}

var _ Store = (*FileStore)(nil)

func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
}

// ignoreMiss hides ErrNotFound from hooks; a miss is reported as found=false.
func ignoreMiss(err error) error {
	if err == ErrNotFound {
		return nil
	}
	return err
}
