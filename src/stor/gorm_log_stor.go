package stor

import (
	"rcm/src/models"
	"rcm/src/types"

	"gorm.io/gorm"
)

type GormLogStor struct {
	db *gorm.DB
}

func NewGormLogStor(db *gorm.DB) *GormLogStor {
	return &GormLogStor{db: db}
}

func (s *GormLogStor) ListForRequest(workflow types.Workflow, requestID uint) ([]models.RequestLog, error) {
	var logs []models.RequestLog
	err := s.db.
		Model(&models.RequestLog{}).
		Where("workflow = ? AND request_id = ?", workflow, requestID).
		Order("created_at asc").
		Find(&logs).
		Error
	return logs, err
}
