package stor

import (
	"rcm/src/models"
	"rcm/src/types"

	"gorm.io/gorm"
)

type GormDocumentStor struct {
	db *gorm.DB
}

func NewGormDocumentStor(db *gorm.DB) *GormDocumentStor {
	return &GormDocumentStor{db: db}
}

func (s *GormDocumentStor) CreateBatch(docs []*models.RequestDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return WithTx(s.db, func(tx *gorm.DB) error {
		for _, doc := range docs {
			if err := tx.Create(doc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormDocumentStor) ListForRequest(workflow types.Workflow, requestID uint) ([]models.RequestDocument, error) {
	var docs []models.RequestDocument
	err := s.db.
		Model(&models.RequestDocument{}).
		Where("workflow = ? AND request_id = ?", workflow, requestID).
		Where("is_active = ?", true).
		Order("created_at asc").
		Find(&docs).
		Error
	return docs, err
}
