package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry snapshots one successful submission for later review.
type HistoryEntry struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Profile   ApplicantProfile `json:"profile"`
	Request   LoanRequest      `json:"request"`
	Result    PredictionResult `json:"result"`
}

// NewHistoryEntry builds an entry with a fresh ID and timestamp.
func NewHistoryEntry(profile ApplicantProfile, request LoanRequest, result PredictionResult) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Profile:   profile,
		Request:   request,
		Result:    result,
	}
}
