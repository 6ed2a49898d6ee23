package models

import (
	"time"

	"rcm/src/types"
)

type MoveOutRequest struct {
	ID             uint                `gorm:"primarykey" json:"id"`
	RequestNumber  string              `gorm:"index" json:"request_number,omitempty"`
	RequestType    types.RequestType   `gorm:"default:'RESIDENT'" json:"request_type,omitempty"`
	Status         types.RequestStatus `gorm:"default:'open'" json:"status,omitempty"`
	UserID         uint                `json:"user_id,omitempty"`
	UnitID         uint                `json:"unit_id,omitempty"`
	MoveOutDate    *time.Time          `json:"move_out_date,omitempty"`
	ActualMoveOut  *time.Time          `json:"actual_move_out_date,omitempty"`
	ApprovedAt     *time.Time          `json:"approved_at,omitempty"`
	ClosureRemarks *string             `json:"closure_remarks,omitempty"`
	CancelRemarks  *string             `json:"cancel_remarks,omitempty"`

	User    *User           `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Unit    *Unit           `gorm:"foreignKey:unit_id" json:"unit,omitempty"`
	Details *MoveOutDetails `gorm:"foreignKey:move_out_request_id" json:"details,omitempty"`

	types.AuditColumns
	types.Timestamps
}

type MoveOutDetails struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	MoveOutRequestID uint    `gorm:"uniqueIndex" json:"move_out_request_id,omitempty"`
	Reason           *string `json:"reason,omitempty"`

	types.Timestamps
}
