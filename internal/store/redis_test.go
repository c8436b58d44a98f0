package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanform/internal/common/config"
	"loanform/internal/common/database"
	apperrors "loanform/internal/common/errors"
	"loanform/internal/common/logger"
	"loanform/internal/models"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	return NewRedisStore(rdb, "loanform-test", 10, logger.NewTestLogger(t)), mr
}

func sampleDraft() Draft {
	r := models.LoanRequest{
		Type:        models.LoanTypeCar,
		Amount:      "800000",
		TenureYears: "5",
	}
	r.SetVariant(models.VehicleDetails{
		Condition:   "new",
		Price:       "1000000",
		DownPayment: "100000",
	})
	return Draft{
		Profile: models.ApplicantProfile{Name: "Priya Sharma", Age: "30", MonthlyIncome: "50000"},
		Request: r,
	}
}

func TestRedisStore_DraftRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, sampleDraft()))

	loaded, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Priya Sharma", loaded.Profile.Name)
	assert.Equal(t, models.LoanTypeCar, loaded.Request.Type)

	// The variant union must come back usable, not just the snapshot.
	v, ok := loaded.Request.Variant.(models.VehicleDetails)
	require.True(t, ok, "variant not restored after round trip")
	assert.Equal(t, "1000000", v.Price)
}

func TestRedisStore_LoadDraft_Empty(t *testing.T) {
	s, _ := newTestStore(t)

	loaded, err := s.LoadDraft(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded, "absence is not an error")
}

func TestRedisStore_VersionMismatchDiscarded(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	// Simulate a blob written by an older build.
	stale := fmt.Sprintf(`{"version":%d,"data":{"profile":{"name":"Old"},"request":{}}}`, DraftVersion-1)
	require.NoError(t, mr.Set("loanform-test:draft", stale))

	loaded, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded, "stale-version blob must read as empty")

	// And the stale key is gone, so the next read skips the warning path.
	_, err = mr.Get("loanform-test:draft")
	assert.Error(t, err)
}

func TestRedisStore_CorruptBlobDiscarded(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, mr.Set("loanform-test:draft", "{not json"))

	loaded, err := s.LoadDraft(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_ClearDraft(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, sampleDraft()))
	require.NoError(t, s.ClearDraft(ctx))

	loaded, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_LastResultRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	result := models.PredictionResult{
		Status:           models.StatusSuccess,
		LoanType:         "carLoan",
		Approved:         true,
		SanctionedAmount: 704000,
	}
	require.NoError(t, s.SaveLastResult(ctx, result))

	loaded, err := s.LoadLastResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, result, *loaded)
}

func TestRedisStore_HistoryCap(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	d := sampleDraft()
	for i := 0; i < 13; i++ {
		result := models.PredictionResult{
			Status:        models.StatusSuccess,
			ApplicantName: fmt.Sprintf("entry-%d", i),
		}
		require.NoError(t, s.AppendHistory(ctx, models.NewHistoryEntry(d.Profile, d.Request, result)))
	}

	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 10, "history is capped")
	// Newest first; the oldest three fell off the end.
	assert.Equal(t, "entry-12", entries[0].Result.ApplicantName)
	assert.Equal(t, "entry-3", entries[9].Result.ApplicantName)
}

func TestRedisStore_HistoryEntriesKeepDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	d := sampleDraft()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendHistory(ctx, models.NewHistoryEntry(d.Profile, d.Request, models.PredictionResult{})))
	}

	entries, err := s.History(ctx)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate history id %s", e.ID)
		seen[e.ID] = true
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestRedisStore_DeleteHistoryEntry(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	d := sampleDraft()
	for i := 0; i < 3; i++ {
		result := models.PredictionResult{ApplicantName: fmt.Sprintf("entry-%d", i)}
		require.NoError(t, s.AppendHistory(ctx, models.NewHistoryEntry(d.Profile, d.Request, result)))
	}

	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Delete the middle entry; the others keep their order.
	require.NoError(t, s.DeleteHistoryEntry(ctx, entries[1].ID))

	remaining, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, entries[0].ID, remaining[0].ID)
	assert.Equal(t, entries[2].ID, remaining[1].ID)

	// Unknown IDs are a no-op, not an error.
	require.NoError(t, s.DeleteHistoryEntry(ctx, "no-such-id"))
	remaining, err = s.History(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestRedisStore_DeleteLastHistoryEntryEmptiesList(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	d := sampleDraft()
	require.NoError(t, s.AppendHistory(ctx, models.NewHistoryEntry(d.Profile, d.Request, models.PredictionResult{})))

	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.DeleteHistoryEntry(ctx, entries[0].ID))

	remaining, err := s.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// The key itself is gone, not an empty list blob.
	_, err = mr.Get("loanform-test:history")
	assert.Error(t, err)
}

func TestMemoryStore_DeleteHistoryEntry(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	d := sampleDraft()
	for i := 0; i < 2; i++ {
		result := models.PredictionResult{ApplicantName: fmt.Sprintf("entry-%d", i)}
		require.NoError(t, s.AppendHistory(ctx, models.NewHistoryEntry(d.Profile, d.Request, result)))
	}

	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, s.DeleteHistoryEntry(ctx, entries[0].ID))

	remaining, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, entries[1].ID, remaining[0].ID)
}

func TestRedisStore_StoredBlobIsEnveloped(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraft(ctx, sampleDraft()))

	raw, err := mr.Get("loanform-test:draft")
	require.NoError(t, err)

	var env struct {
		Version int             `json:"version"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, DraftVersion, env.Version)
	assert.NotEmpty(t, env.Data)
}

func TestRedisStore_WaitReady(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.WaitReady(context.Background()))

	// With Redis gone, WaitReady keeps retrying until its context expires.
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := s.WaitReady(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeStoreUnavailable, apperrors.AsStandard(err).Code)
}

func TestMemoryStore_MatchesRedisBehaviour(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	loaded, err := s.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, s.SaveDraft(ctx, sampleDraft()))
	loaded, err = s.LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	_, ok := loaded.Request.Variant.(models.VehicleDetails)
	assert.True(t, ok)

	d := sampleDraft()
	for i := 0; i < 3; i++ {
		result := models.PredictionResult{ApplicantName: fmt.Sprintf("entry-%d", i)}
		require.NoError(t, s.AppendHistory(ctx, models.NewHistoryEntry(d.Profile, d.Request, result)))
	}
	entries, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-2", entries[0].Result.ApplicantName)
}
