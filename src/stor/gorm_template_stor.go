package stor

import (
	"rcm/src/models"

	"gorm.io/gorm"
)

type GormTemplateStor struct {
	db *gorm.DB
}

func NewGormTemplateStor(db *gorm.DB) *GormTemplateStor {
	return &GormTemplateStor{db: db}
}

func (s *GormTemplateStor) GetActiveForCommunity(communityID uint) (*models.MoveInTemplate, error) {
	var tmpl models.MoveInTemplate
	if err := s.db.
		Model(&models.MoveInTemplate{}).
		Where("community_id = ?", communityID).
		Where("is_active = ?", true).
		First(&tmpl).
		Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}
