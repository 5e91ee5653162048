package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shopsync/backend/internal/domain/sync"
)

// SyncRunModel persists run reports. Per-kind counters are stored as
// a JSON document since they are written once and read whole.
type SyncRunModel struct {
	BaseModel
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Trigger    string    `gorm:"type:varchar(16);not null"`
	Outcome    string    `gorm:"type:varchar(32);not null;index"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt time.Time
	Reports    string `gorm:"type:text"`
	Error      string `gorm:"type:text"`
}

// TableName returns the table name
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the model to a domain run
func (m *SyncRunModel) ToDomain() (*sync.Run, error) {
	run := &sync.Run{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Trigger:    sync.RunTrigger(m.Trigger),
		Outcome:    sync.RunOutcome(m.Outcome),
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Error:      m.Error,
	}
	if m.Reports != "" {
		if err := json.Unmarshal([]byte(m.Reports), &run.Reports); err != nil {
			return nil, err
		}
	}
	return run, nil
}

// FromDomain populates the model from a domain run
func (m *SyncRunModel) FromDomain(run *sync.Run) error {
	m.FromDomainBaseEntity(run.BaseEntity)
	m.TenantID = run.TenantID
	m.Trigger = string(run.Trigger)
	m.Outcome = string(run.Outcome)
	m.StartedAt = run.StartedAt
	m.FinishedAt = run.FinishedAt
	m.Error = run.Error

	reports, err := json.Marshal(run.Reports)
	if err != nil {
		return err
	}
	m.Reports = string(reports)
	return nil
}
