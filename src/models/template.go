package models

import (
	"rcm/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// MoveInTemplate is the MIP (move-in permit) template for a community. A unit
// can only accept a move-in when its community has an active template, and
// move-in creation additionally requires the welcome pack to be present.
type MoveInTemplate struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	CommunityID    uint    `gorm:"index" json:"community_id,omitempty"`
	Name           string  `json:"name,omitempty"`
	Slug           string  `gorm:"index" json:"slug,omitempty"`
	HasWelcomePack bool    `json:"has_welcome_pack"`
	WelcomePackURL *string `json:"welcome_pack_url,omitempty"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`

	Community *Community `gorm:"foreignKey:community_id" json:"-"`

	types.Timestamps
}

func (t *MoveInTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	return nil
}
