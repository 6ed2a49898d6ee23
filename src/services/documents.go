package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"rcm/src/apperr"
	"rcm/src/models"
	"rcm/src/stor"
	"rcm/src/types"

	"github.com/google/uuid"
)

// documentSlots are the accepted multipart field names on the documents
// endpoints.
var documentSlots = map[types.DocumentType]bool{
	types.DOC_EMIRATES_ID_FRONT: true,
	types.DOC_EMIRATES_ID_BACK:  true,
	types.DOC_EJARI:             true,
	types.DOC_UNIT_PERMIT:       true,
	types.DOC_TRADE_LICENSE:     true,
	types.DOC_TITLE_DEED:        true,
	types.DOC_OTHER_1:           true,
	types.DOC_OTHER_2:           true,
	types.DOC_OTHER_3:           true,
	types.DOC_OTHER_4:           true,
}

// renewalDocumentTypes restricts which slots each renewal applicant type may
// upload. One disallowed slot rejects the whole batch before anything is
// stored.
var renewalDocumentTypes = map[types.RequestType][]types.DocumentType{
	types.TYPE_TENANT: {
		types.DOC_EMIRATES_ID_FRONT,
		types.DOC_EMIRATES_ID_BACK,
		types.DOC_EJARI,
	},
	types.TYPE_HHO_OWNER: {
		types.DOC_EMIRATES_ID_FRONT,
		types.DOC_EMIRATES_ID_BACK,
		types.DOC_TITLE_DEED,
		types.DOC_UNIT_PERMIT,
	},
	types.TYPE_HHO_COMPANY: {
		types.DOC_TRADE_LICENSE,
		types.DOC_UNIT_PERMIT,
		types.DOC_TITLE_DEED,
	},
}

// DocumentUpload is one file of a multipart batch, keyed by its slot.
type DocumentUpload struct {
	Type     types.DocumentType
	FileName string
	Body     io.Reader
}

type DocumentService struct {
	stors *stor.Stors
	files FileStore
}

func NewDocumentService(stors *stor.Stors, files FileStore) *DocumentService {
	return &DocumentService{stors: stors, files: files}
}

// Upload validates the whole batch, pushes each file to blob storage and
// records a document row per file. Validation runs before any upload so a
// bad slot never leaves partial files behind.
func (s *DocumentService) Upload(ctx context.Context, actor Actor, workflow types.Workflow, requestID uint, uploads []DocumentUpload, forUser bool) ([]*models.RequestDocument, error) {
	if len(uploads) == 0 {
		return nil, apperr.BadRequest(apperr.CodeValidation, "no documents supplied")
	}
	reqType, err := s.resolveRequestType(actor, workflow, requestID, forUser)
	if err != nil {
		return nil, err
	}
	for _, u := range uploads {
		if !documentSlots[u.Type] {
			return nil, apperr.BadRequest(apperr.CodeDocTypeNotAllowed, fmt.Sprintf("document type %s is not accepted", u.Type))
		}
	}
	if workflow == types.WORKFLOW_RENEWAL {
		if allowed, ok := renewalDocumentTypes[reqType]; ok {
			for _, u := range uploads {
				if !containsDocType(allowed, u.Type) {
					return nil, apperr.BadRequest(apperr.CodeDocTypeNotAllowed, fmt.Sprintf("document type %s is not allowed for %s renewals", u.Type, reqType))
				}
			}
		}
	}

	docs := make([]*models.RequestDocument, 0, len(uploads))
	for _, u := range uploads {
		name := fmt.Sprintf("%s-%d-%s-%s", workflow, requestID, u.Type, uuid.NewString())
		stored, err := s.files.Upload(ctx, name, u.Body, string(workflow), actor.ID)
		if err != nil {
			log.Printf("Error uploading document %s: %s\n", name, err.Error())
			return nil, apperr.BadRequest(apperr.CodeDocUploadFailed, fmt.Sprintf("upload failed for %s", u.Type))
		}
		docs = append(docs, &models.RequestDocument{
			Workflow:     workflow,
			RequestID:    requestID,
			DocumentType: u.Type,
			FileName:     stored.FileName,
			FileURL:      stored.FileURL,
			UploadedBy:   actor.ID,
			IsActive:     true,
		})
	}
	if err := s.stors.DocumentStor.CreateBatch(docs); err != nil {
		log.Printf("Error saving document records: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	return docs, nil
}

func (s *DocumentService) List(actor Actor, workflow types.Workflow, requestID uint, forUser bool) ([]models.RequestDocument, error) {
	if _, err := s.resolveRequestType(actor, workflow, requestID, forUser); err != nil {
		return nil, err
	}
	docs, err := s.stors.DocumentStor.ListForRequest(workflow, requestID)
	if err != nil {
		log.Printf("Error listing documents: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	return docs, nil
}

// resolveRequestType confirms the target request exists (scoped to the
// caller on the mobile surface) and answers its applicant type.
func (s *DocumentService) resolveRequestType(actor Actor, workflow types.Workflow, requestID uint, forUser bool) (types.RequestType, error) {
	switch workflow {
	case types.WORKFLOW_MOVE_IN:
		var req *models.MoveInRequest
		var err error
		if forUser {
			req, err = s.stors.MoveInStor.GetByIDForUser(requestID, actor.ID)
		} else {
			req, err = s.stors.MoveInStor.GetByID(requestID)
		}
		if err != nil {
			return "", notFoundErr("move-in request")
		}
		return req.RequestType, nil
	case types.WORKFLOW_MOVE_OUT:
		var req *models.MoveOutRequest
		var err error
		if forUser {
			req, err = s.stors.MoveOutStor.GetByIDForUser(requestID, actor.ID)
		} else {
			req, err = s.stors.MoveOutStor.GetByID(requestID)
		}
		if err != nil {
			return "", notFoundErr("move-out request")
		}
		return req.RequestType, nil
	case types.WORKFLOW_RENEWAL:
		var req *models.RenewalRequest
		var err error
		if forUser {
			req, err = s.stors.RenewalStor.GetByIDForUser(requestID, actor.ID)
		} else {
			req, err = s.stors.RenewalStor.GetByID(requestID)
		}
		if err != nil {
			return "", notFoundErr("renewal request")
		}
		return req.RequestType, nil
	}
	return "", apperr.BadRequest(apperr.CodeValidation, "unknown workflow")
}

func containsDocType(list []types.DocumentType, t types.DocumentType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
