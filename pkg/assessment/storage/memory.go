package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
)

// MemoryStorage implements assessment.Storage using an in-memory map.
// This implementation is intended for testing and local runs only.
type MemoryStorage struct {
	records map[string]*assessment.Assessment
	mu      sync.RWMutex

	// failWith, when set, makes every operation fail as if the store were
	// unreachable.
	failWith error
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*assessment.Assessment),
	}
}

// Insert stores a copy of the assessment.
func (s *MemoryStorage) Insert(ctx context.Context, a *assessment.Assessment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("insert"); err != nil {
		return "", err
	}
	if a.ID == "" {
		return "", assessment.NewStorageError("memory", "insert", errors.New("assessment id is required"))
	}
	if _, exists := s.records[a.ID]; exists {
		return "", assessment.NewStorageError("memory", "insert", assessment.ErrDuplicateID)
	}

	s.records[a.ID] = a.Clone()
	return a.ID, nil
}

// FindByID returns a copy of the assessment, or (nil, nil) when absent.
func (s *MemoryStorage) FindByID(ctx context.Context, id string) (*assessment.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check("find_by_id"); err != nil {
		return nil, err
	}

	a, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return a.Clone(), nil
}

// FindOlderThan returns every assessment created strictly before cutoff,
// oldest first with ties broken by id.
func (s *MemoryStorage) FindOlderThan(ctx context.Context, cutoff time.Time) ([]*assessment.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check("find_older_than"); err != nil {
		return nil, err
	}

	results := []*assessment.Assessment{}
	for _, a := range s.records {
		if a.CreatedAt.Before(cutoff) {
			results = append(results, a.Clone())
		}
	}
	sortOldestFirst(results)

	return results, nil
}

// DeleteByIDs removes the given ids. Ids that are not stored are ignored.
func (s *MemoryStorage) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check("delete_by_ids"); err != nil {
		return 0, err
	}

	var deleted int64
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// List returns assessments matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *assessment.Query) ([]*assessment.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check("list"); err != nil {
		return nil, err
	}
	if query == nil {
		query = &assessment.Query{}
	}

	results := []*assessment.Assessment{}
	for _, a := range s.records {
		if matchesQuery(a, query) {
			results = append(results, a.Clone())
		}
	}
	sortOldestFirst(results)
	if query.SortOrder == "desc" {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}

	// Apply pagination
	start := query.Offset
	if start > len(results) {
		return []*assessment.Assessment{}, nil
	}
	results = results[start:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of assessments matching the query.
func (s *MemoryStorage) Count(ctx context.Context, query *assessment.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check("count"); err != nil {
		return 0, err
	}
	if query == nil {
		query = &assessment.Query{}
	}

	var count int64
	for _, a := range s.records {
		if matchesQuery(a, query) {
			count++
		}
	}
	return count, nil
}

// Ping reports whether the store is available.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check("ping")
}

// Close is a no-op for memory storage.
func (s *MemoryStorage) Close() error {
	return nil
}

// Size returns the number of stored assessments (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all stored assessments (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*assessment.Assessment)
}

// SetUnavailable makes every subsequent operation fail with cause wrapped
// in a StorageError. Passing nil restores normal operation (for testing).
func (s *MemoryStorage) SetUnavailable(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = cause
}

func (s *MemoryStorage) check(operation string) error {
	if s.failWith != nil {
		return assessment.NewStorageError("memory", operation, s.failWith)
	}
	return nil
}

func matchesQuery(a *assessment.Assessment, query *assessment.Query) bool {
	if query.CreatedAfter != nil && a.CreatedAt.Before(*query.CreatedAfter) {
		return false
	}
	if query.CreatedBefore != nil && !a.CreatedAt.Before(*query.CreatedBefore) {
		return false
	}
	if query.Email != "" && a.Email != query.Email {
		return false
	}
	return true
}

func sortOldestFirst(records []*assessment.Assessment) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
