package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

// AuditColumns are carried by every master request record. IsActive is the
// soft-delete flag: nothing is ever hard-deleted by the workflow services.
type AuditColumns struct {
	CreatedBy uint `json:"created_by,omitempty"`
	UpdatedBy uint `json:"updated_by,omitempty"`
	IsActive  bool `gorm:"default:true" json:"is_active"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

type Workflow string

const (
	WORKFLOW_MOVE_IN  Workflow = "move-in"
	WORKFLOW_MOVE_OUT Workflow = "move-out"
	WORKFLOW_RENEWAL  Workflow = "renewal"
)

type RequestStatus string

const (
	REQUEST_OPEN           RequestStatus = "open"
	REQUEST_RFI_PENDING    RequestStatus = "rfi-pending"
	REQUEST_RFI_SUBMITTED  RequestStatus = "rfi-submitted"
	REQUEST_APPROVED       RequestStatus = "approved"
	REQUEST_CANCELLED      RequestStatus = "cancelled"
	REQUEST_USER_CANCELLED RequestStatus = "user-cancelled"
	REQUEST_CLOSED         RequestStatus = "closed"
)

type RequestType string

const (
	TYPE_OWNER       RequestType = "OWNER"
	TYPE_TENANT      RequestType = "TENANT"
	TYPE_HHO_OWNER   RequestType = "HHO_OWNER"
	TYPE_HHO_COMPANY RequestType = "HHO_COMPANY"
	// Move-out has a single applicant category.
	TYPE_RESIDENT RequestType = "RESIDENT"
)

type ActorType string

const (
	ACTOR_SYSTEM          ActorType = "SYSTEM"
	ACTOR_COMMUNITY_ADMIN ActorType = "COMMUNITY_ADMIN"
	ACTOR_SECURITY        ActorType = "SECURITY"
	ACTOR_SUPER_ADMIN     ActorType = "SUPER_ADMIN"
	ACTOR_RESIDENT        ActorType = "RESIDENT"
)

type Role string

const (
	ROLE_RESIDENT        Role = "resident"
	ROLE_COMMUNITY_ADMIN Role = "community-admin"
	ROLE_SECURITY        Role = "security"
	ROLE_SUPER_ADMIN     Role = "super-admin"
)

// ActorTypeForRole maps an authenticated role onto the audit-log actor enum.
func ActorTypeForRole(r Role) ActorType {
	switch r {
	case ROLE_COMMUNITY_ADMIN:
		return ACTOR_COMMUNITY_ADMIN
	case ROLE_SECURITY:
		return ACTOR_SECURITY
	case ROLE_SUPER_ADMIN:
		return ACTOR_SUPER_ADMIN
	default:
		return ACTOR_RESIDENT
	}
}

type DocumentType string

const (
	DOC_EMIRATES_ID_FRONT DocumentType = "emirates-id-front"
	DOC_EMIRATES_ID_BACK  DocumentType = "emirates-id-back"
	DOC_EJARI             DocumentType = "ejari"
	DOC_UNIT_PERMIT       DocumentType = "unit-permit"
	DOC_TRADE_LICENSE     DocumentType = "trade-license"
	DOC_TITLE_DEED        DocumentType = "title-deed"
	DOC_OTHER_1           DocumentType = "other-1"
	DOC_OTHER_2           DocumentType = "other-2"
	DOC_OTHER_3           DocumentType = "other-3"
	DOC_OTHER_4           DocumentType = "other-4"
)

type BookingStatus string

const (
	UNIT_BOOKING_ACTIVE BookingStatus = "active"
	UNIT_BOOKING_ENDED  BookingStatus = "ended"
)

type NotificationStatus string

const (
	NOTIFICATION_PENDING NotificationStatus = "pending"
	NOTIFICATION_SENT    NotificationStatus = "sent"
	NOTIFICATION_FAILED  NotificationStatus = "failed"
)

// Handler consumes one raw queue message body.
type Handler func(body string)

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type SimpleRequestParams struct {
	RequestID uint `uri:"requestId" binding:"required"`
}

type MoveInDetailsBody struct {
	Adults          uint    `json:"adults" binding:"required,min=1"`
	Children        uint    `json:"children"`
	HouseholdStaffs uint    `json:"householdStaffs"`
	Pets            uint    `json:"pets"`
	EmiratesID      *string `json:"emiratesId,omitempty"`
	CompanyName     *string `json:"companyName,omitempty"`
	TradeLicenseNo  *string `json:"tradeLicenseNo,omitempty"`
	TradeLicenseExp *string `json:"tradeLicenseExpiry,omitempty" binding:"omitempty,futuredate"`
	LeaseStartDate  *string `json:"leaseStartDate,omitempty"`
	LeaseEndDate    *string `json:"leaseEndDate,omitempty" binding:"omitempty,futuredate"`
}

type CreateMoveInRequestBody struct {
	UnitID     uint              `json:"unitId" binding:"required"`
	MoveInDate string            `json:"moveInDate" binding:"required,futuredate"`
	Details    MoveInDetailsBody `json:"details" binding:"required"`
}

type UpdateMoveInRequestBody struct {
	MoveInDate *string            `json:"moveInDate,omitempty" binding:"omitempty,futuredate"`
	Details    *MoveInDetailsBody `json:"details,omitempty"`
}

type ApproveRequestBody struct {
	Comments string `json:"comments,omitempty"`
}

// Comments and remarks are validated in the services so their absence
// answers with the workflow's own error code instead of the generic
// validation code.
type MarkRFIRequestBody struct {
	Comments string `json:"comments"`
}

type CancelRequestBody struct {
	Remarks string `json:"remarks"`
}

type CloseMoveInRequestBody struct {
	ActualMoveInDate string `json:"actualMoveInDate"`
	ClosureRemarks   string `json:"closureRemarks"`
}

type CreateMoveOutRequestBody struct {
	UnitID      uint    `json:"unitId" binding:"required"`
	MoveOutDate string  `json:"moveOutDate" binding:"required,futuredate"`
	Reason      *string `json:"reason,omitempty"`
}

type CloseMoveOutRequestBody struct {
	ActualMoveOutDate string `json:"actualMoveOutDate"`
	ClosureRemarks    string `json:"closureRemarks"`
}

type RenewalDetailsBody struct {
	LeaseStartDate string  `json:"leaseStartDate" binding:"required"`
	LeaseEndDate   string  `json:"leaseEndDate" binding:"required,futuredate"`
	EmiratesID     *string `json:"emiratesId,omitempty"`
	TradeLicenseNo *string `json:"tradeLicenseNo,omitempty"`
}

type CreateRenewalRequestBody struct {
	UnitID          uint               `json:"unitId" binding:"required"`
	MoveInRequestID uint               `json:"moveInRequestId" binding:"required"`
	Details         RenewalDetailsBody `json:"details" binding:"required"`
}

type UpdateRenewalRequestBody struct {
	Details *RenewalDetailsBody `json:"details,omitempty"`
}

type RequestListQuery struct {
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
	Status       string `form:"status"`
	CommunityIDs string `form:"communityIds"`
	BuildingIDs  string `form:"buildingIds"`
	UnitIDs      string `form:"unitIds"`
	CreatedFrom  string `form:"createdFrom"`
	CreatedTo    string `form:"createdTo"`
	MoveDateFrom string `form:"moveDateFrom"`
	MoveDateTo   string `form:"moveDateTo"`
	Search       string `form:"search"`
	SortBy       string `form:"sortBy"`
	SortOrder    string `form:"sortOrder"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// APIResponse is the uniform envelope every JSON endpoint answers with.
type APIResponse struct {
	Status     bool        `json:"status"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

const DATE_PARSE_FORMAT = "2006-01-02"
