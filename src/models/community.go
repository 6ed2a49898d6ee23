package models

import (
	"time"

	"rcm/src/types"
)

type Community struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `gorm:"index" json:"slug,omitempty"`

	Buildings []Building `gorm:"foreignKey:community_id" json:"buildings,omitempty"`

	types.Timestamps
}

type Building struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	CommunityID uint   `json:"community_id,omitempty"`
	Name        string `json:"name,omitempty"`

	Community *Community `gorm:"foreignKey:community_id" json:"community,omitempty"`

	types.Timestamps
}

type Unit struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	BuildingID  uint   `json:"building_id,omitempty"`
	CommunityID uint   `json:"community_id,omitempty"`
	UnitNumber  string `gorm:"index" json:"unit_number,omitempty"`
	UnitType    string `json:"unit_type,omitempty"`

	Building  *Building  `gorm:"foreignKey:building_id" json:"building,omitempty"`
	Community *Community `gorm:"foreignKey:community_id" json:"community,omitempty"`

	types.Timestamps
}

// UnitBooking records the active occupancy linkage between a user and a unit.
// Renewal and move-out creation both require an active row here.
type UnitBooking struct {
	ID         uint                `gorm:"primarykey" json:"id"`
	UnitID     uint                `json:"unit_id,omitempty"`
	UserID     uint                `json:"user_id,omitempty"`
	Status     types.BookingStatus `gorm:"default:'active'" json:"status,omitempty"`
	LeaseStart *time.Time          `json:"lease_start,omitempty"`
	LeaseEnd   *time.Time          `json:"lease_end,omitempty"`

	Unit *Unit `gorm:"foreignKey:unit_id" json:"unit,omitempty"`
	User *User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
