package models

import (
	"rcm/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID           uuid.UUID                `gorm:"primarykey;type:uuid" json:"id"`
	UserID       uint                     `gorm:"index" json:"user_id,omitempty"`
	TemplateSlug string                   `json:"template_slug,omitempty"`
	Title        string                   `json:"title,omitempty"`
	Body         *string                  `json:"body,omitempty"`
	Data         *types.JSONB             `gorm:"type:jsonb" json:"data,omitempty"`
	Status       types.NotificationStatus `gorm:"default:'pending'" json:"status,omitempty"`

	types.Timestamps
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
