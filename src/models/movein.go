package models

import (
	"time"

	"rcm/src/types"
)

type MoveInRequest struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	RequestNumber  string              `gorm:"index" json:"request_number,omitempty"`
	RequestType    types.RequestType   `json:"request_type,omitempty"`
	Status         types.RequestStatus `gorm:"default:'open'" json:"status,omitempty"`
	UserID         uint                `json:"user_id,omitempty"`
	UnitID         uint                `json:"unit_id,omitempty"`
	MoveInDate     *time.Time          `json:"move_in_date,omitempty"`
	ActualMoveIn   *time.Time          `json:"actual_move_in_date,omitempty"`
	IsAutoApproved bool                `json:"is_auto_approved"`
	ApprovedAt     *time.Time          `json:"approved_at,omitempty"`
	ClosureRemarks *string             `json:"closure_remarks,omitempty"`
	CancelRemarks  *string             `json:"cancel_remarks,omitempty"`

	User    *User          `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Unit    *Unit          `gorm:"foreignKey:unit_id" json:"unit,omitempty"`
	Details *MoveInDetails `gorm:"foreignKey:move_in_request_id" json:"details,omitempty"`

	types.AuditColumns
	types.Timestamps
}

// MoveInDetails holds the type-specific fields of a move-in request. Exactly
// one row exists per master record; which fields are populated follows the
// master's request type.
type MoveInDetails struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	MoveInRequestID uint       `gorm:"uniqueIndex" json:"move_in_request_id,omitempty"`
	Adults          uint       `json:"adults"`
	Children        uint       `json:"children"`
	HouseholdStaffs uint       `json:"household_staffs"`
	Pets            uint       `json:"pets"`
	EmiratesID      *string    `json:"emirates_id,omitempty"`
	CompanyName     *string    `json:"company_name,omitempty"`
	TradeLicenseNo  *string    `json:"trade_license_no,omitempty"`
	TradeLicenseExp *time.Time `json:"trade_license_expiry,omitempty"`
	LeaseStartDate  *time.Time `json:"lease_start_date,omitempty"`
	LeaseEndDate    *time.Time `json:"lease_end_date,omitempty"`

	types.Timestamps
}
