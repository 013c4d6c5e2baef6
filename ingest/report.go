package ingest

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dumpsift/dumpsift/storage"
)

// Status is the per-store outcome of one ingestion run.
type Status string

const (
	// StatusWritten means the store accepted the full batch.
	StatusWritten Status = "written"
	// StatusSkipped means the store was unavailable and no write was
	// attempted.
	StatusSkipped Status = "skipped-unavailable"
	// StatusFailed means the write was attempted and failed; other
	// stores are unaffected.
	StatusFailed Status = "failed"
)

// StoreResult is one store's outcome within a report.
type StoreResult struct {
	Status  Status `json:"status"`
	Records int    `json:"records"`
	Cause   string `json:"cause,omitempty"`
}

// Report records the outcome of one ingestion run per store. There is
// no cross-store transactionality: a failed store never rolls back
// writes committed elsewhere, and the report is how callers observe
// the resulting partial state.
type Report struct {
	RunID      string                            `json:"run_id"`
	CaseID     string                            `json:"case_id"`
	StartedAt  time.Time                         `json:"started_at"`
	FinishedAt time.Time                         `json:"finished_at"`
	Stores     map[storage.StoreName]StoreResult `json:"stores"`

	mu sync.Mutex
}

func newReport(caseID string) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		CaseID:    caseID,
		StartedAt: time.Now().UTC(),
		Stores:    make(map[storage.StoreName]StoreResult),
	}
}

// set records one store's result. Safe for concurrent store tasks.
func (r *Report) set(name storage.StoreName, result StoreResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stores[name] = result
}

// Written reports whether the named store accepted the batch.
func (r *Report) Written(name storage.StoreName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Stores[name].Status == StatusWritten
}
