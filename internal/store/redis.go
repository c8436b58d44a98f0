package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"loanform/internal/common/database"
	apperrors "loanform/internal/common/errors"
	"loanform/internal/common/logger"
	"loanform/internal/models"
)

// RedisStore keeps each blob under a namespaced key with no expiry;
// drafts and history survive restarts until explicitly cleared.
type RedisStore struct {
	rdb        *database.RedisClient
	namespace  string
	maxHistory int
	log        logger.Logger
}

// NewRedisStore wires a store over an established Redis connection.
func NewRedisStore(rdb *database.RedisClient, namespace string, maxHistory int, log logger.Logger) *RedisStore {
	if maxHistory < 1 {
		maxHistory = 10
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RedisStore{
		rdb:        rdb,
		namespace:  namespace,
		maxHistory: maxHistory,
		log:        log,
	}
}

func (s *RedisStore) key(suffix string) string {
	return s.namespace + ":" + suffix
}

func (s *RedisStore) save(ctx context.Context, suffix string, version int, v interface{}) error {
	raw, err := encode(version, v)
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	if err := s.rdb.Set(ctx, s.key(suffix), raw, 0); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

// load fetches and unwraps one blob. found is false for both a missing
// key and a version-mismatched blob; mismatches are deleted so they are
// reported once, not on every read.
func (s *RedisStore) load(ctx context.Context, suffix string, version int, v interface{}) (found bool, err error) {
	raw, err := s.rdb.Get(ctx, s.key(suffix))
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStoreUnavailableError(err)
	}
	if !decode([]byte(raw), version, v) {
		s.log.Warn("discarding stored blob with stale schema version", map[string]interface{}{
			"key": s.key(suffix),
		})
		_ = s.rdb.Del(ctx, s.key(suffix))
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) SaveDraft(ctx context.Context, d Draft) error {
	return s.save(ctx, "draft", DraftVersion, d)
}

func (s *RedisStore) LoadDraft(ctx context.Context) (*Draft, error) {
	var d Draft
	found, err := s.load(ctx, "draft", DraftVersion, &d)
	if err != nil || !found {
		return nil, err
	}
	// Variant union is not serialized; rebuild it from the snapshots.
	d.Request.NormalizeVariant()
	return &d, nil
}

func (s *RedisStore) ClearDraft(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key("draft")); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *RedisStore) SaveLastResult(ctx context.Context, r models.PredictionResult) error {
	return s.save(ctx, "last_result", ResultVersion, r)
}

func (s *RedisStore) LoadLastResult(ctx context.Context) (*models.PredictionResult, error) {
	var r models.PredictionResult
	found, err := s.load(ctx, "last_result", ResultVersion, &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

func (s *RedisStore) AppendHistory(ctx context.Context, e models.HistoryEntry) error {
	entries, err := s.History(ctx)
	if err != nil {
		return err
	}
	entries = append([]models.HistoryEntry{e}, entries...)
	if len(entries) > s.maxHistory {
		entries = entries[:s.maxHistory]
	}
	return s.save(ctx, "history", HistoryVersion, entries)
}

func (s *RedisStore) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	found, err := s.load(ctx, "history", HistoryVersion, &entries)
	if err != nil || !found {
		return nil, err
	}
	for i := range entries {
		entries[i].Request.NormalizeVariant()
	}
	return entries, nil
}

func (s *RedisStore) DeleteHistoryEntry(ctx context.Context, id string) error {
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
	return s.save(ctx, "history", HistoryVersion, kept)
}

func (s *RedisStore) ClearHistory(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key("history")); err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

// WaitReady pings Redis until it answers or the context expires.
func (s *RedisStore) WaitReady(ctx context.Context) error {
	var lastErr error
	for {
		if lastErr = s.rdb.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return apperrors.NewStoreUnavailableError(lastErr)
		case <-time.After(500 * time.Millisecond):
		}
	}
}
