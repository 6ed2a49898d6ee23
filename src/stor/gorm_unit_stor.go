package stor

import (
	"rcm/src/models"
	"rcm/src/types"

	"gorm.io/gorm"
)

type GormUnitStor struct {
	db *gorm.DB
}

func NewGormUnitStor(db *gorm.DB) *GormUnitStor {
	return &GormUnitStor{db: db}
}

func (s *GormUnitStor) GetByID(id uint) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.
		Model(&models.Unit{}).
		Where(&models.Unit{ID: id}).
		Preload("Building").
		Preload("Community").
		First(&unit).
		Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (s *GormUnitStor) HasActiveBooking(unitID uint, userID uint) (bool, error) {
	var count int64
	err := s.db.
		Model(&models.UnitBooking{}).
		Where(&models.UnitBooking{UnitID: unitID, UserID: userID, Status: types.UNIT_BOOKING_ACTIVE}).
		Count(&count).
		Error
	return count > 0, err
}
