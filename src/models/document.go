package models

import (
	"rcm/src/types"
)

// RequestDocument links an uploaded file to a request. Workflow plus
// RequestID identify the owning master record across the three request
// tables.
type RequestDocument struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	Workflow     types.Workflow     `gorm:"index:idx_request_documents_owner" json:"workflow,omitempty"`
	RequestID    uint               `gorm:"index:idx_request_documents_owner" json:"request_id,omitempty"`
	DocumentType types.DocumentType `json:"document_type,omitempty"`
	FileName     string             `json:"file_name,omitempty"`
	FileURL      string             `json:"file_url,omitempty"`
	UploadedBy   uint               `json:"uploaded_by,omitempty"`
	IsActive     bool               `gorm:"default:true" json:"is_active"`

	types.Timestamps
}
