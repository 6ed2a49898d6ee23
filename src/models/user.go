package models

import (
	"rcm/src/types"
)

type User struct {
	ID      uint       `gorm:"primarykey" json:"id"`
	Name    string     `json:"name,omitempty"`
	Email   string     `json:"email,omitempty"`
	Phone   string     `json:"phone,omitempty"`
	Role    types.Role `gorm:"default:'resident'" json:"role,omitempty"`
	IsAdmin bool       `json:"is_admin,omitempty"`
	UID     string     `json:"uid,omitempty"`

	UnitBookings []UnitBooking `gorm:"foreignKey:user_id" json:"unit_bookings,omitempty"`

	types.Timestamps
}
