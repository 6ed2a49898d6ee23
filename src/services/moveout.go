package services

import (
	"log"
	"time"

	"rcm/src/apperr"
	"rcm/src/models"
	"rcm/src/stor"
	"rcm/src/types"
)

type MoveOutService struct {
	stors    *stor.Stors
	notifier Notifier
}

func NewMoveOutService(stors *stor.Stors, notifier Notifier) *MoveOutService {
	return &MoveOutService{stors: stors, notifier: notifier}
}

// Create opens a move-out request. Unlike move-in there is no auto-approval
// and a single applicant category; the resident must hold an active booking
// on the unit.
func (s *MoveOutService) Create(actor Actor, body types.CreateMoveOutRequestBody) (*models.MoveOutRequest, error) {
	unit, err := s.stors.UnitStor.GetByID(body.UnitID)
	if err != nil {
		return nil, notFoundErr("unit")
	}
	linked, err := s.stors.UnitStor.HasActiveBooking(unit.ID, actor.ID)
	if err != nil {
		log.Printf("Error checking unit booking: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	if !linked {
		return nil, apperr.BadRequest(apperr.CodeUnitNotLinked, "user has no active booking on this unit")
	}
	moveOutDate, err := parseDate(body.MoveOutDate)
	if err != nil {
		return nil, apperr.BadRequest(apperr.CodeValidation, "moveOutDate must be YYYY-MM-DD")
	}

	req := &models.MoveOutRequest{
		RequestNumber: tempNumber("MOV"),
		RequestType:   types.TYPE_RESIDENT,
		Status:        types.REQUEST_OPEN,
		UserID:        actor.ID,
		UnitID:        unit.ID,
		MoveOutDate:   moveOutDate,
		AuditColumns: types.AuditColumns{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			IsActive:  true,
		},
	}
	details := &models.MoveOutDetails{Reason: body.Reason}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_OUT,
		Status:    types.REQUEST_OPEN,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Payload:   snapshot(body),
	}
	created, err := s.stors.MoveOutStor.Create(req, details, entry, finalNumber("MOV", unit.UnitNumber))
	if err != nil {
		log.Printf("Error creating move-out request: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	created.Unit = unit
	s.notify(created, "move-out-created", "Your move-out request has been received")
	return created, nil
}

func (s *MoveOutService) Approve(actor Actor, requestID uint, body types.ApproveRequestBody) (*models.MoveOutRequest, error) {
	req, err := s.stors.MoveOutStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("move-out request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_OUT, ActionApprove, req.Status)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updates := map[string]any{
		"status":      next,
		"approved_at": now,
		"updated_by":  actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_OUT,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Comments,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveOutStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error approving move-out request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	req.ApprovedAt = &now
	s.notify(req, "move-out-approved", "Your move-out request has been approved")
	return req, nil
}

func (s *MoveOutService) Cancel(actor Actor, requestID uint, body types.CancelRequestBody, byUser bool) (*models.MoveOutRequest, error) {
	if blank(body.Remarks) {
		return nil, apperr.BadRequest(apperr.CodeRemarksRequired, "remarks are required to cancel a request")
	}
	var req *models.MoveOutRequest
	var err error
	action := ActionCancel
	if byUser {
		action = ActionUserCancel
		req, err = s.stors.MoveOutStor.GetByIDForUser(requestID, actor.ID)
	} else {
		req, err = s.stors.MoveOutStor.GetByID(requestID)
	}
	if err != nil {
		return nil, notFoundErr("move-out request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_OUT, action, req.Status)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"status":         next,
		"cancel_remarks": body.Remarks,
		"updated_by":     actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_OUT,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Remarks,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveOutStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error cancelling move-out request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	s.notify(req, "move-out-cancelled", "Your move-out request has been cancelled")
	return req, nil
}

func (s *MoveOutService) Close(actor Actor, requestID uint, body types.CloseMoveOutRequestBody) (*models.MoveOutRequest, error) {
	if blank(body.ClosureRemarks) {
		return nil, apperr.BadRequest(apperr.CodeRemarksRequired, "closure remarks are required")
	}
	actual, err := parseDate(body.ActualMoveOutDate)
	if err != nil || actual == nil {
		return nil, apperr.BadRequest(apperr.CodeActualDateRequired, "actual move-out date is required as YYYY-MM-DD")
	}
	req, err := s.stors.MoveOutStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("move-out request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_OUT, ActionClose, req.Status)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"status":          next,
		"actual_move_out": *actual,
		"closure_remarks": body.ClosureRemarks,
		"updated_by":      actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_OUT,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.ClosureRemarks,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveOutStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error closing move-out request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	req.ActualMoveOut = actual
	s.notify(req, "move-out-closed", "Your move-out request has been closed")
	return req, nil
}

func (s *MoveOutService) Get(actor Actor, requestID uint, forUser bool) (*models.MoveOutRequest, error) {
	var req *models.MoveOutRequest
	var err error
	if forUser {
		req, err = s.stors.MoveOutStor.GetByIDForUser(requestID, actor.ID)
	} else {
		req, err = s.stors.MoveOutStor.GetByID(requestID)
	}
	if err != nil {
		return nil, notFoundErr("move-out request")
	}
	return req, nil
}

func (s *MoveOutService) List(actor Actor, q types.RequestListQuery, ownOnly bool) ([]models.MoveOutRequest, *types.Pagination, error) {
	lq := listQueryFrom(actor, q, ownOnly)
	reqs, total, err := s.stors.MoveOutStor.List(lq)
	if err != nil {
		log.Printf("Error listing move-out requests: %s\n", err.Error())
		return nil, nil, apperr.Unknown()
	}
	return reqs, paginationFor(lq, total), nil
}

func (s *MoveOutService) Logs(requestID uint) ([]models.RequestLog, error) {
	logs, err := s.stors.LogStor.ListForRequest(types.WORKFLOW_MOVE_OUT, requestID)
	if err != nil {
		log.Printf("Error listing move-out logs: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	return logs, nil
}

func (s *MoveOutService) notify(req *models.MoveOutRequest, slug string, title string) {
	if s.notifier == nil {
		return
	}
	outcome := s.notifier.Notify(req.UserID, slug, title, types.JSONB{
		"requestNumber": req.RequestNumber,
		"status":        string(req.Status),
	})
	if outcome == OutcomeFailed {
		log.Printf("move-out %s: %s notification failed\n", req.RequestNumber, slug)
	}
}
