package models

import (
	"time"

	"rcm/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestLog is append-only: one row per status transition, written in the
// same transaction as the master update. Rows are never updated or deleted.
type RequestLog struct {
	ID        uuid.UUID           `gorm:"primarykey;type:uuid" json:"id"`
	Workflow  types.Workflow      `gorm:"index:idx_request_logs_owner" json:"workflow,omitempty"`
	RequestID uint                `gorm:"index:idx_request_logs_owner" json:"request_id,omitempty"`
	Status    types.RequestStatus `json:"status,omitempty"`
	ActorType types.ActorType     `json:"actor_type,omitempty"`
	ActorID   uint                `json:"actor_id,omitempty"`
	Comments  string              `json:"comments,omitempty"`
	Payload   types.JSONB         `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt time.Time           `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
}

func (l *RequestLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
