// Package store persists form drafts, the last prediction result, and
// the submission history. Each blob is wrapped in a versioned envelope;
// a blob written by an incompatible schema version is discarded on read
// rather than half-decoded into garbage.
package store

import (
	"context"
	"encoding/json"

	"loanform/internal/models"
)

// Schema versions, bumped independently whenever the corresponding
// payload shape changes incompatibly.
const (
	DraftVersion   = 2
	ResultVersion  = 1
	HistoryVersion = 1
)

// Draft is the restorable form state: everything the user typed, before
// any validation.
type Draft struct {
	Profile models.ApplicantProfile `json:"profile"`
	Request models.LoanRequest      `json:"request"`
}

// Store is the persistence boundary. Load methods return (nil, nil) when
// nothing usable is stored; absence is not an error.
type Store interface {
	SaveDraft(ctx context.Context, d Draft) error
	LoadDraft(ctx context.Context) (*Draft, error)
	ClearDraft(ctx context.Context) error

	SaveLastResult(ctx context.Context, r models.PredictionResult) error
	LoadLastResult(ctx context.Context) (*models.PredictionResult, error)

	// AppendHistory prepends one entry and drops the oldest beyond the
	// store's cap, as a single write.
	AppendHistory(ctx context.Context, e models.HistoryEntry) error
	History(ctx context.Context) ([]models.HistoryEntry, error)
	// DeleteHistoryEntry removes one entry by ID; unknown IDs are a
	// no-op, not an error.
	DeleteHistoryEntry(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
}

// envelope wraps every stored blob with its schema version.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

func encode(version int, v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: version, Data: data})
}

// decode unwraps raw into v. ok is false when the blob is unreadable or
// carries a different schema version; both cases mean "treat as empty".
func decode(raw []byte, version int, v interface{}) (ok bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	if env.Version != version {
		return false
	}
	return json.Unmarshal(env.Data, v) == nil
}
