package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/pkg/types"
)

// FileStore keeps records in memory and, when a path is set, mirrors them to
// a JSON file after every write.
//
// Name collisions: UpdateField writes to every record carrying the name.
// Updating a name that matches nothing is a no-op.
type FileStore struct {
	filePath string
	mode     LookupMode
	records  []types.FeedbackRecord
	byID     map[string]int // id -> index of first record with that id
	logger   *zap.Logger
	mu       sync.RWMutex
}

type fileContents struct {
	Records []types.FeedbackRecord `json:"records"`
}

// NewMemoryStore creates a store that keeps records in memory only
func NewMemoryStore(mode LookupMode, logger *zap.Logger) *FileStore {
	if mode == "" {
		mode = LookupScan
	}
	return &FileStore{
		mode:    mode,
		records: []types.FeedbackRecord{},
		byID:    make(map[string]int),
		logger:  logger,
	}
}

// NewFileStore creates a store mirrored to filePath. A missing file starts an
// empty store; a file that cannot be read or decoded is an error so that it
// is never overwritten.
func NewFileStore(filePath string, mode LookupMode, logger *zap.Logger) (*FileStore, error) {
	s := NewMemoryStore(mode, logger)
	if filePath == "" {
		return s, nil
	}
	s.filePath = filePath

	if err := s.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load feedback file %s: %w", filePath, err)
		}
		logger.Info("No existing feedback file, starting fresh", zap.String("path", filePath))
	}

	return s, nil
}

// Name returns the backend name
func (s *FileStore) Name() string {
	if s.filePath == "" {
		return "memory"
	}
	return "file:" + s.filePath
}

// GetByID returns a copy of the first record with the given id
func (s *FileStore) GetByID(ctx context.Context, id string) (*types.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mode == LookupIndex {
		if i, ok := s.byID[id]; ok {
			rec := s.records[i]
			return &rec, nil
		}
		return nil, notFound(id)
	}

	if rec := firstWithID(s.records, id); rec != nil {
		return rec, nil
	}
	return nil, notFound(id)
}

// ScanAll returns a copy of all records in insertion order
func (s *FileStore) ScanAll(ctx context.Context) ([]types.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.FeedbackRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Put appends a record. Memory is only changed once the file write succeeds.
func (s *FileStore) Put(ctx context.Context, record types.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]types.FeedbackRecord, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, record)

	if err := s.save(next); err != nil {
		return unavailable("put record", err)
	}
	s.commit(next)

	s.logger.Info("Stored feedback record", zap.String("id", record.ID), zap.String("name", record.Name))
	return nil
}

// UpdateField sets the annotation on every record named name
func (s *FileStore) UpdateField(ctx context.Context, name string, kind types.AnnotationKind, value string) error {
	if kind.Attribute() == "" {
		return errUnknownKind(kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]types.FeedbackRecord, len(s.records))
	copy(next, s.records)

	updated := 0
	for i := range next {
		if next[i].Name == name {
			next[i].Apply(kind, value)
			updated++
		}
	}

	if updated > 1 {
		s.logger.Warn("Annotation applied to several records sharing a name",
			zap.String("name", name), zap.Int("records", updated))
	}

	if err := s.save(next); err != nil {
		return unavailable("update record", err)
	}
	s.commit(next)
	return nil
}

// commit replaces the in-memory records and rebuilds the id index.
// Callers hold the write lock.
func (s *FileStore) commit(records []types.FeedbackRecord) {
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		if _, ok := byID[rec.ID]; !ok {
			byID[rec.ID] = i
		}
	}
	s.records = records
	s.byID = byID
}

// load reads records from disk
func (s *FileStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}

	if contents.Records == nil {
		contents.Records = []types.FeedbackRecord{}
	}
	s.commit(contents.Records)
	return nil
}

// save writes records to a temp file next to the target and renames it into
// place, so a crash never leaves a truncated file. No-op for in-memory stores.
func (s *FileStore) save(records []types.FeedbackRecord) error {
	if s.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(fileContents{Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), filepath.Base(s.filePath)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.filePath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
