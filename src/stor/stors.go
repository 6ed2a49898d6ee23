package stor

import (
	"rcm/src/models"
	"rcm/src/types"

	"gorm.io/gorm"
)

// NumberFn produces the final request number once the row id is known.
// Move-in and move-out numbers embed the id, so creation writes the number
// twice: a temporary one at insert, then the final one inside the same
// transaction.
type NumberFn func(id uint) string

type MoveInStor interface {
	Create(req *models.MoveInRequest, details *models.MoveInDetails, entry *models.RequestLog, finalNumber NumberFn) (*models.MoveInRequest, error)
	GetByID(id uint) (*models.MoveInRequest, error)
	GetByIDForUser(id uint, userID uint) (*models.MoveInRequest, error)
	List(q ListQuery) ([]models.MoveInRequest, int64, error)
	HasRequestInStatuses(unitID uint, statuses []types.RequestStatus) (bool, error)
	HasActiveForUnit(unitID uint, excludeID uint) (bool, error)
	Transition(req *models.MoveInRequest, updates map[string]any, entry *models.RequestLog) error
	UpdateWithDetails(req *models.MoveInRequest, updates map[string]any, details map[string]any, entry *models.RequestLog) error
}

type MoveOutStor interface {
	Create(req *models.MoveOutRequest, details *models.MoveOutDetails, entry *models.RequestLog, finalNumber NumberFn) (*models.MoveOutRequest, error)
	GetByID(id uint) (*models.MoveOutRequest, error)
	GetByIDForUser(id uint, userID uint) (*models.MoveOutRequest, error)
	List(q ListQuery) ([]models.MoveOutRequest, int64, error)
	HasActiveForUserUnit(unitID uint, userID uint) (bool, error)
	Transition(req *models.MoveOutRequest, updates map[string]any, entry *models.RequestLog) error
}

type RenewalStor interface {
	Create(req *models.RenewalRequest, details *models.RenewalDetails, entry *models.RequestLog) (*models.RenewalRequest, error)
	GetByID(id uint) (*models.RenewalRequest, error)
	GetByIDForUser(id uint, userID uint) (*models.RenewalRequest, error)
	List(q ListQuery) ([]models.RenewalRequest, int64, error)
	ExistsForUnitUser(unitID uint, userID uint) (bool, error)
	Transition(req *models.RenewalRequest, updates map[string]any, entry *models.RequestLog) error
	UpdateWithDetails(req *models.RenewalRequest, updates map[string]any, details map[string]any, entry *models.RequestLog) error
}

type UnitStor interface {
	GetByID(id uint) (*models.Unit, error)
	HasActiveBooking(unitID uint, userID uint) (bool, error)
}

type TemplateStor interface {
	GetActiveForCommunity(communityID uint) (*models.MoveInTemplate, error)
}

type DocumentStor interface {
	CreateBatch(docs []*models.RequestDocument) error
	ListForRequest(workflow types.Workflow, requestID uint) ([]models.RequestDocument, error)
}

type LogStor interface {
	ListForRequest(workflow types.Workflow, requestID uint) ([]models.RequestLog, error)
}

type UserStor interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

type Stors struct {
	MoveInStor   MoveInStor
	MoveOutStor  MoveOutStor
	RenewalStor  RenewalStor
	UnitStor     UnitStor
	TemplateStor TemplateStor
	DocumentStor DocumentStor
	LogStor      LogStor
	UserStor     UserStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		MoveInStor:   NewGormMoveInStor(db),
		MoveOutStor:  NewGormMoveOutStor(db),
		RenewalStor:  NewGormRenewalStor(db),
		UnitStor:     NewGormUnitStor(db),
		TemplateStor: NewGormTemplateStor(db),
		DocumentStor: NewGormDocumentStor(db),
		LogStor:      NewGormLogStor(db),
		UserStor:     NewGormUserStor(db),
	}
}
