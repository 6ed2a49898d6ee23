package stor

import (
	"rcm/src/models"
	"rcm/src/models/scopes"
	"rcm/src/types"

	"gorm.io/gorm"
)

type GormMoveOutStor struct {
	db *gorm.DB
}

func NewGormMoveOutStor(db *gorm.DB) *GormMoveOutStor {
	return &GormMoveOutStor{db: db}
}

func (s *GormMoveOutStor) Create(req *models.MoveOutRequest, details *models.MoveOutDetails, entry *models.RequestLog, finalNumber NumberFn) (*models.MoveOutRequest, error) {
	err := WithTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		if finalNumber != nil {
			number := finalNumber(req.ID)
			if err := tx.
				Model(&models.MoveOutRequest{}).
				Scopes(scopes.WithID(req.ID)).
				Update("request_number", number).
				Error; err != nil {
				return err
			}
			req.RequestNumber = number
		}
		details.MoveOutRequestID = req.ID
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

func (s *GormMoveOutStor) GetByID(id uint) (*models.MoveOutRequest, error) {
	return s.getOne(&models.MoveOutRequest{ID: id})
}

func (s *GormMoveOutStor) GetByIDForUser(id uint, userID uint) (*models.MoveOutRequest, error) {
	return s.getOne(&models.MoveOutRequest{ID: id, UserID: userID})
}

func (s *GormMoveOutStor) getOne(cond *models.MoveOutRequest) (*models.MoveOutRequest, error) {
	var req models.MoveOutRequest
	if err := s.db.
		Model(&models.MoveOutRequest{}).
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

func (s *GormMoveOutStor) List(q ListQuery) ([]models.MoveOutRequest, int64, error) {
	base := joinUnits(s.db.Model(&models.MoveOutRequest{}), "move_out_requests")
	base = applyRequestFilters(base, "move_out_requests", "move_out_date", q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []models.MoveOutRequest
	if err := base.
		Preload("Unit").
		Preload("Unit.Community").
		Preload("Details").
		Order(q.orderClause("move_out_requests", "created_at")).
		Offset(q.Offset()).
		Limit(q.Limit()).
		Find(&reqs).
		Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (s *GormMoveOutStor) HasActiveForUserUnit(unitID uint, userID uint) (bool, error) {
	var count int64
	err := s.db.
		Model(&models.MoveOutRequest{}).
		Where("user_id = ?", userID).
		Scopes(
			scopes.WithUnit(unitID),
			scopes.WithActive,
			scopes.WithoutStatuses(types.REQUEST_CANCELLED, types.REQUEST_USER_CANCELLED, types.REQUEST_CLOSED),
		).
		Count(&count).
		Error
	return count > 0, err
}

func (s *GormMoveOutStor) Transition(req *models.MoveOutRequest, updates map[string]any, entry *models.RequestLog) error {
	return WithTx(s.db, func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.MoveOutRequest{}).
			Scopes(scopes.WithID(req.ID)).
			Updates(updates).
			Error; err != nil {
			return err
		}
		entry.RequestID = req.ID
		return tx.Create(entry).Error
	})
}
