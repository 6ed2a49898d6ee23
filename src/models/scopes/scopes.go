package scopes

import (
	"rcm/src/types"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithUnit(unitID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("unit_id = ?", unitID)
	}
}

func WithActive(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func WithStatuses(statuses ...types.RequestStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN (?)", statuses)
	}
}

func WithoutStatuses(statuses ...types.RequestStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status NOT IN (?)", statuses)
	}
}
