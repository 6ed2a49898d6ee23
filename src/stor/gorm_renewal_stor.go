package stor

import (
	"rcm/src/models"
	"rcm/src/models/scopes"
	"rcm/src/types"

	"gorm.io/gorm"
)

type GormRenewalStor struct {
	db *gorm.DB
}

func NewGormRenewalStor(db *gorm.DB) *GormRenewalStor {
	return &GormRenewalStor{db: db}
}

func (s *GormRenewalStor) Create(req *models.RenewalRequest, details *models.RenewalDetails, entry *models.RequestLog) (*models.RenewalRequest, error) {
	err := WithTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		details.RenewalRequestID = req.ID
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

func (s *GormRenewalStor) GetByID(id uint) (*models.RenewalRequest, error) {
	return s.getOne(&models.RenewalRequest{ID: id})
}

func (s *GormRenewalStor) GetByIDForUser(id uint, userID uint) (*models.RenewalRequest, error) {
	return s.getOne(&models.RenewalRequest{ID: id, UserID: userID})
}

func (s *GormRenewalStor) getOne(cond *models.RenewalRequest) (*models.RenewalRequest, error) {
	var req models.RenewalRequest
	if err := s.db.
		Model(&models.RenewalRequest{}).
		Where(cond).
		Where("is_active = ?", true).
		Preload("User").
		Preload("Unit").
		Preload("Unit.Community").
		Preload("MoveIn").
		Preload("Details").
		First(&req).
		Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *GormRenewalStor) List(q ListQuery) ([]models.RenewalRequest, int64, error) {
	base := joinUnits(s.db.Model(&models.RenewalRequest{}), "renewal_requests")
	base = applyRequestFilters(base, "renewal_requests", "", q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []models.RenewalRequest
	if err := base.
		Preload("Unit").
		Preload("Unit.Community").
		Preload("Details").
		Order(q.orderClause("renewal_requests", "created_at")).
		Offset(q.Offset()).
		Limit(q.Limit()).
		Find(&reqs).
		Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// ExistsForUnitUser reports whether a non-cancelled renewal already exists
// for the unit + user pair.
func (s *GormRenewalStor) ExistsForUnitUser(unitID uint, userID uint) (bool, error) {
	var count int64
	err := s.db.
		Model(&models.RenewalRequest{}).
		Where("user_id = ?", userID).
		Scopes(
			scopes.WithUnit(unitID),
			scopes.WithActive,
			scopes.WithoutStatuses(types.REQUEST_CANCELLED, types.REQUEST_USER_CANCELLED),
		).
		Count(&count).
		Error
	return count > 0, err
}

func (s *GormRenewalStor) Transition(req *models.RenewalRequest, updates map[string]any, entry *models.RequestLog) error {
	return WithTx(s.db, func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.RenewalRequest{}).
			Scopes(scopes.WithID(req.ID)).
			Updates(updates).
			Error; err != nil {
			return err
		}
		entry.RequestID = req.ID
		return tx.Create(entry).Error
	})
}

func (s *GormRenewalStor) UpdateWithDetails(req *models.RenewalRequest, updates map[string]any, details map[string]any, entry *models.RequestLog) error {
	return WithTx(s.db, func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.
				Model(&models.RenewalRequest{}).
				Scopes(scopes.WithID(req.ID)).
				Updates(updates).
				Error; err != nil {
				return err
			}
		}
		if len(details) > 0 {
			if err := tx.
				Model(&models.RenewalDetails{}).
				Where("renewal_request_id = ?", req.ID).
				Updates(details).
				Error; err != nil {
				return err
			}
		}
		entry.RequestID = req.ID
		return tx.Create(entry).Error
	})
}
