package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopsync/backend/internal/domain/shared"
)

// RunOutcome classifies a finished sync run
type RunOutcome string

const (
	// OutcomeCompleted means every kind synced to exhaustion
	OutcomeCompleted RunOutcome = "completed"

	// OutcomeCompletedWithErrors means at least one page or record
	// failed but partial progress was retained
	OutcomeCompletedWithErrors RunOutcome = "completed_with_errors"

	// OutcomeFailedAuth means the platform rejected the tenant's
	// credentials and the run aborted
	OutcomeFailedAuth RunOutcome = "failed_auth"
)

// RunTrigger records what started the run
type RunTrigger string

const (
	TriggerScheduled RunTrigger = "scheduled"
	TriggerManual    RunTrigger = "manual"
)

// KindReport counts one kind's progress within a run
type KindReport struct {
	Kind        EntityKind `json:"kind"`
	Fetched     int64      `json:"fetched"`
	Upserted    int64      `json:"upserted"`
	Inserted    int64      `json:"inserted"`
	Skipped     int64      `json:"skipped"`
	PagesFailed int64      `json:"pages_failed"`
}

// Run is the persisted report of one tenant sync
type Run struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	Trigger    RunTrigger
	Outcome    RunOutcome
	StartedAt  time.Time
	FinishedAt time.Time
	Reports    []KindReport
	Error      string
}

// NewRun starts a run report for the tenant
func NewRun(tenantID uuid.UUID, trigger RunTrigger) *Run {
	return &Run{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Trigger:    trigger,
		StartedAt:  time.Now(),
	}
}

// Report returns the report for a kind, creating it on first use
func (r *Run) Report(kind EntityKind) *KindReport {
	for i := range r.Reports {
		if r.Reports[i].Kind == kind {
			return &r.Reports[i]
		}
	}
	r.Reports = append(r.Reports, KindReport{Kind: kind})
	return &r.Reports[len(r.Reports)-1]
}

// Finish closes the run, deriving the outcome from the reports
// unless an auth failure already fixed it.
func (r *Run) Finish() {
	r.FinishedAt = time.Now()
	if r.Outcome == OutcomeFailedAuth {
		return
	}
	r.Outcome = OutcomeCompleted
	for _, rep := range r.Reports {
		if rep.PagesFailed > 0 || rep.Skipped > 0 {
			r.Outcome = OutcomeCompletedWithErrors
			return
		}
	}
}

// FailAuth aborts the run after a credential rejection
func (r *Run) FailAuth(err error) {
	r.Outcome = OutcomeFailedAuth
	if err != nil {
		r.Error = err.Error()
	}
	r.FinishedAt = time.Now()
}

// Duration returns the wall time of the run
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRepository persists run reports
type RunRepository interface {
	Save(ctx context.Context, run *Run) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Run, int64, error)
}
