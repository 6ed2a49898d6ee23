package models

import (
	"time"

	"rcm/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobTask records a scheduled one-time job so reminders survive a restart.
// The scheduler in boot re-queues pending rows on startup.
type JobTask struct {
	ID        uuid.UUID      `gorm:"primarykey;type:uuid" json:"id"`
	Name      string         `json:"name,omitempty"`
	JobType   string         `json:"job_type,omitempty"`
	Workflow  types.Workflow `json:"workflow,omitempty"`
	RequestID uint           `json:"request_id,omitempty"`
	RunsAt    time.Time      `json:"runs_at,omitempty"`
	Status    string         `gorm:"default:'pending'" json:"status,omitempty"`
	Payload   types.JSONB    `gorm:"type:jsonb" json:"payload,omitempty"`

	types.Timestamps
}

func (j *JobTask) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
