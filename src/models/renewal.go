package models

import (
	"time"

	"rcm/src/types"
)

// RenewalRequest extends an existing move-in for another lease period. The
// parent move-in is kept so admins can walk the chain of renewals for a unit.
type RenewalRequest struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	RequestNumber   string              `gorm:"index" json:"request_number,omitempty"`
	RequestType     types.RequestType   `json:"request_type,omitempty"`
	Status          types.RequestStatus `gorm:"default:'open'" json:"status,omitempty"`
	UserID          uint                `json:"user_id,omitempty"`
	UnitID          uint                `json:"unit_id,omitempty"`
	MoveInRequestID uint                `json:"move_in_request_id,omitempty"`
	IsAutoApproved  bool                `json:"is_auto_approved"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	CancelRemarks   *string             `json:"cancel_remarks,omitempty"`

	User    *User           `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Unit    *Unit           `gorm:"foreignKey:unit_id" json:"unit,omitempty"`
	MoveIn  *MoveInRequest  `gorm:"foreignKey:move_in_request_id" json:"move_in,omitempty"`
	Details *RenewalDetails `gorm:"foreignKey:renewal_request_id" json:"details,omitempty"`

	types.AuditColumns
	types.Timestamps
}

type RenewalDetails struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	RenewalRequestID uint       `gorm:"uniqueIndex" json:"renewal_request_id,omitempty"`
	LeaseStartDate   *time.Time `json:"lease_start_date,omitempty"`
	LeaseEndDate     *time.Time `json:"lease_end_date,omitempty"`
	EmiratesID       *string    `json:"emirates_id,omitempty"`
	TradeLicenseNo   *string    `json:"trade_license_no,omitempty"`

	types.Timestamps
}
