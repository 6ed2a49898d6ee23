package stor

import (
	"rcm/src/models"
	"rcm/src/models/scopes"
	"rcm/src/types"

	"gorm.io/gorm"
)

type GormMoveInStor struct {
	db *gorm.DB
}

func NewGormMoveInStor(db *gorm.DB) *GormMoveInStor {
	return &GormMoveInStor{db: db}
}

func (s *GormMoveInStor) Create(req *models.MoveInRequest, details *models.MoveInDetails, entry *models.RequestLog, finalNumber NumberFn) (*models.MoveInRequest, error) {
	err := WithTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		if finalNumber != nil {
			number := finalNumber(req.ID)
			if err := tx.
				Model(&models.MoveInRequest{}).
				Scopes(scopes.WithID(req.ID)).
				Update("request_number", number).
				Error; err != nil {
				return err
			}
			req.RequestNumber = number
		}
		details.MoveInRequestID = req.ID
		if err := tx.Create(details).Error; err != nil {
			return err
		}
		entry.RequestID = req.ID
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	req.Details = details
	return req, nil
}

func (s *GormMoveInStor) GetByID(id uint) (*models.MoveInRequest, error) {
	return s.getOne(&models.MoveInRequest{ID: id})
}

func (s *GormMoveInStor) GetByIDForUser(id uint, userID uint) (*models.MoveInRequest, error) {
	return s.getOne(&models.MoveInRequest{ID: id, UserID: userID})
}

func (s *GormMoveInStor) getOne(cond *models.MoveInRequest) (*models.MoveInRequest, error) {
	var req models.MoveInRequest
	if err := s.db.
		Model(&models.MoveInRequest{}).
		Where(cond).
		Where("is_active = ?", true).
		Preload("User").
		Preload("Unit").
		Preload("Unit.Community").
		Preload("Details").
		First(&req).
		Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *GormMoveInStor) List(q ListQuery) ([]models.MoveInRequest, int64, error) {
	base := joinUnits(s.db.Model(&models.MoveInRequest{}), "move_in_requests")
	base = applyRequestFilters(base, "move_in_requests", "move_in_date", q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []models.MoveInRequest
	if err := base.
		Preload("Unit").
		Preload("Unit.Community").
		Preload("Details").
		Order(q.orderClause("move_in_requests", "created_at")).
		Offset(q.Offset()).
		Limit(q.Limit()).
		Find(&reqs).
		Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (s *GormMoveInStor) HasRequestInStatuses(unitID uint, statuses []types.RequestStatus) (bool, error) {
	var count int64
	err := s.db.
		Model(&models.MoveInRequest{}).
		Scopes(scopes.WithUnit(unitID), scopes.WithActive, scopes.WithStatuses(statuses...)).
		Count(&count).
		Error
	return count > 0, err
}

// HasActiveForUnit is the overlap check: any request for the unit not in a
// cancelled state blocks, regardless of the dates involved.
func (s *GormMoveInStor) HasActiveForUnit(unitID uint, excludeID uint) (bool, error) {
	q := s.db.
		Model(&models.MoveInRequest{}).
		Scopes(
			scopes.WithUnit(unitID),
			scopes.WithActive,
			scopes.WithoutStatuses(types.REQUEST_CANCELLED, types.REQUEST_USER_CANCELLED),
		)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (s *GormMoveInStor) Transition(req *models.MoveInRequest, updates map[string]any, entry *models.RequestLog) error {
	return WithTx(s.db, func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.MoveInRequest{}).
			Scopes(scopes.WithID(req.ID)).
			Updates(updates).
			Error; err != nil {
			return err
		}
		entry.RequestID = req.ID
		return tx.Create(entry).Error
	})
}

func (s *GormMoveInStor) UpdateWithDetails(req *models.MoveInRequest, updates map[string]any, details map[string]any, entry *models.RequestLog) error {
	return WithTx(s.db, func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.
				Model(&models.MoveInRequest{}).
				Scopes(scopes.WithID(req.ID)).
				Updates(updates).
				Error; err != nil {
				return err
			}
		}
		if len(details) > 0 {
			if err := tx.
				Model(&models.MoveInDetails{}).
				Where("move_in_request_id = ?", req.ID).
				Updates(details).
				Error; err != nil {
				return err
			}
		}
		entry.RequestID = req.ID
		return tx.Create(entry).Error
	})
}
