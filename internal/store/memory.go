package store

import (
	"context"
	"sync"

	apperrors "loanform/internal/common/errors"
	"loanform/internal/models"
)

// MemoryStore is an in-process Store for tests and for running without
// Redis. It round-trips every blob through the same versioned envelope
// as RedisStore so the two cannot drift.
type MemoryStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	maxHistory int
}

func NewMemoryStore(maxHistory int) *MemoryStore {
	if maxHistory < 1 {
		maxHistory = 10
	}
	return &MemoryStore{
		blobs:      make(map[string][]byte),
		maxHistory: maxHistory,
	}
}

func (s *MemoryStore) save(suffix string, version int, v interface{}) error {
	raw, err := encode(version, v)
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[suffix] = raw
	return nil
}

func (s *MemoryStore) load(suffix string, version int, v interface{}) bool {
	s.mu.Lock()
	raw, ok := s.blobs[suffix]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return decode(raw, version, v)
}

func (s *MemoryStore) SaveDraft(_ context.Context, d Draft) error {
	return s.save("draft", DraftVersion, d)
}

func (s *MemoryStore) LoadDraft(_ context.Context) (*Draft, error) {
	var d Draft
	if !s.load("draft", DraftVersion, &d) {
		return nil, nil
	}
	d.Request.NormalizeVariant()
	return &d, nil
}

func (s *MemoryStore) ClearDraft(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, "draft")
	return nil
}

func (s *MemoryStore) SaveLastResult(_ context.Context, r models.PredictionResult) error {
	return s.save("last_result", ResultVersion, r)
}

func (s *MemoryStore) LoadLastResult(_ context.Context) (*models.PredictionResult, error) {
	var r models.PredictionResult
	if !s.load("last_result", ResultVersion, &r) {
		return nil, nil
	}
	return &r, nil
}

func (s *MemoryStore) AppendHistory(ctx context.Context, e models.HistoryEntry) error {
	entries, err := s.History(ctx)
	if err != nil {
		return err
	}
	entries = append([]models.HistoryEntry{e}, entries...)
	if len(entries) > s.maxHistory {
		entries = entries[:s.maxHistory]
	}
	return s.save("history", HistoryVersion, entries)
}

func (s *MemoryStore) History(_ context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if !s.load("history", HistoryVersion, &entries) {
		return nil, nil
	}
	for i := range entries {
		entries[i].Request.NormalizeVariant()
	}
	return entries, nil
}

func (s *MemoryStore) DeleteHistoryEntry(ctx context.Context, id string) error {
	entries, err := s.History(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	if len(kept) == 0 {
		return s.ClearHistory(ctx)
	}
	return s.save("history", HistoryVersion, kept)
}

func (s *MemoryStore) ClearHistory(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, "history")
	return nil
}
