package services

import (
	"log"
	"time"

	"rcm/src/apperr"
	"rcm/src/models"
	"rcm/src/stor"
	"rcm/src/types"
)

type RenewalService struct {
	stors    *stor.Stors
	notifier Notifier
}

func NewRenewalService(stors *stor.Stors, notifier Notifier) *RenewalService {
	return &RenewalService{stors: stors, notifier: notifier}
}

// Create opens and auto-approves a renewal extending an existing move-in.
// The request type is inherited from the parent move-in, so tenant renewals
// stay tenant renewals and so on.
func (s *RenewalService) Create(actor Actor, body types.CreateRenewalRequestBody) (*models.RenewalRequest, error) {
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
	parent, err := s.stors.MoveInStor.GetByID(body.MoveInRequestID)
	if err != nil || parent.UnitID != unit.ID {
		return nil, notFoundErr("move-in request")
	}
	exists, err := s.stors.RenewalStor.ExistsForUnitUser(unit.ID, actor.ID)
	if err != nil {
		log.Printf("Error checking existing renewals: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	if exists {
		return nil, apperr.BadRequest(apperr.CodeRenewalExists, "a renewal request already exists for this unit")
	}
	movingOut, err := s.stors.MoveOutStor.HasActiveForUserUnit(unit.ID, actor.ID)
	if err != nil {
		log.Printf("Error checking active move-outs: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	if movingOut {
		return nil, apperr.BadRequest(apperr.CodeActiveMoveOut, "an active move-out request exists for this unit")
	}
	if _, err := s.stors.TemplateStor.GetActiveForCommunity(unit.CommunityID); err != nil {
		return nil, apperr.BadRequest(apperr.CodeTemplateMissing, "no move-in permit template is configured for this community")
	}
	details, err := renewalDetailsFrom(body.Details)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := &models.RenewalRequest{
		RequestNumber:   tempNumber("REN"),
		RequestType:     parent.RequestType,
		Status:          types.REQUEST_APPROVED,
		UserID:          actor.ID,
		UnitID:          unit.ID,
		MoveInRequestID: parent.ID,
		IsAutoApproved:  true,
		ApprovedAt:      &now,
		AuditColumns: types.AuditColumns{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			IsActive:  true,
		},
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_RENEWAL,
		Status:    types.REQUEST_APPROVED,
		ActorType: types.ACTOR_SYSTEM,
		ActorID:   actor.ID,
		Comments:  "auto-approved on creation",
		Payload:   snapshot(body),
	}
	created, err := s.stors.RenewalStor.Create(req, details, entry)
	if err != nil {
		log.Printf("Error creating renewal request: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	created.Unit = unit
	s.notify(created, "renewal-approved", "Your renewal request has been approved")
	return created, nil
}

func (s *RenewalService) Approve(actor Actor, requestID uint, body types.ApproveRequestBody) (*models.RenewalRequest, error) {
	req, err := s.stors.RenewalStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("renewal request")
	}
	next, err := Resolve(types.WORKFLOW_RENEWAL, ActionApprove, req.Status)
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
		Workflow:  types.WORKFLOW_RENEWAL,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Comments,
		Payload:   snapshot(body),
	}
	if err := s.stors.RenewalStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error approving renewal request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	req.ApprovedAt = &now
	s.notify(req, "renewal-approved", "Your renewal request has been approved")
	return req, nil
}

func (s *RenewalService) MarkRFI(actor Actor, requestID uint, body types.MarkRFIRequestBody) (*models.RenewalRequest, error) {
	if blank(body.Comments) {
		return nil, apperr.BadRequest(apperr.CodeCommentsRequired, "comments are required to request information")
	}
	req, err := s.stors.RenewalStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("renewal request")
	}
	next, err := Resolve(types.WORKFLOW_RENEWAL, ActionMarkRFI, req.Status)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"status":     next,
		"updated_by": actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_RENEWAL,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Comments,
		Payload:   snapshot(body),
	}
	if err := s.stors.RenewalStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error marking renewal request %d rfi: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	s.notify(req, "renewal-rfi", "More information is needed for your renewal request")
	return req, nil
}

// Cancel may run from any status short of an existing cancellation, and
// always needs a reason.
func (s *RenewalService) Cancel(actor Actor, requestID uint, body types.CancelRequestBody, byUser bool) (*models.RenewalRequest, error) {
	if blank(body.Remarks) {
		return nil, apperr.BadRequest(apperr.CodeRenewalReasonNeeded, "a reason is required to cancel a renewal")
	}
	var req *models.RenewalRequest
	var err error
	action := ActionCancel
	if byUser {
		action = ActionUserCancel
		req, err = s.stors.RenewalStor.GetByIDForUser(requestID, actor.ID)
	} else {
		req, err = s.stors.RenewalStor.GetByID(requestID)
	}
	if err != nil {
		return nil, notFoundErr("renewal request")
	}
	next, err := Resolve(types.WORKFLOW_RENEWAL, action, req.Status)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"status":         next,
		"cancel_remarks": body.Remarks,
		"updated_by":     actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_RENEWAL,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Remarks,
		Payload:   snapshot(body),
	}
	if err := s.stors.RenewalStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error cancelling renewal request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	s.notify(req, "renewal-cancelled", "Your renewal request has been cancelled")
	return req, nil
}

// Update edits the lease details of an open renewal or answers an RFI.
func (s *RenewalService) Update(actor Actor, requestID uint, body types.UpdateRenewalRequestBody, forUser bool) (*models.RenewalRequest, error) {
	req, err := s.get(requestID, actor, forUser)
	if err != nil {
		return nil, err
	}
	action := ActionUpdate
	if req.Status == types.REQUEST_RFI_PENDING {
		action = ActionSubmitRFI
	}
	next, err := Resolve(types.WORKFLOW_RENEWAL, action, req.Status)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_by": actor.ID}
	if next != req.Status {
		updates["status"] = next
	}
	var details map[string]any
	if body.Details != nil {
		parsed, err := renewalDetailsFrom(*body.Details)
		if err != nil {
			return nil, err
		}
		details = map[string]any{}
		if parsed.LeaseStartDate != nil {
			details["lease_start_date"] = *parsed.LeaseStartDate
		}
		if parsed.LeaseEndDate != nil {
			details["lease_end_date"] = *parsed.LeaseEndDate
		}
		if parsed.EmiratesID != nil {
			details["emirates_id"] = *parsed.EmiratesID
		}
		if parsed.TradeLicenseNo != nil {
			details["trade_license_no"] = *parsed.TradeLicenseNo
		}
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_RENEWAL,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Payload:   snapshot(body),
	}
	if err := s.stors.RenewalStor.UpdateWithDetails(req, updates, details, entry); err != nil {
		log.Printf("Error updating renewal request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	return s.get(requestID, actor, forUser)
}

func (s *RenewalService) Get(actor Actor, requestID uint, forUser bool) (*models.RenewalRequest, error) {
	return s.get(requestID, actor, forUser)
}

func (s *RenewalService) List(actor Actor, q types.RequestListQuery, ownOnly bool) ([]models.RenewalRequest, *types.Pagination, error) {
	lq := listQueryFrom(actor, q, ownOnly)
	reqs, total, err := s.stors.RenewalStor.List(lq)
	if err != nil {
		log.Printf("Error listing renewal requests: %s\n", err.Error())
		return nil, nil, apperr.Unknown()
	}
	return reqs, paginationFor(lq, total), nil
}

func (s *RenewalService) Logs(requestID uint) ([]models.RequestLog, error) {
	logs, err := s.stors.LogStor.ListForRequest(types.WORKFLOW_RENEWAL, requestID)
	if err != nil {
		log.Printf("Error listing renewal logs: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	return logs, nil
}

func (s *RenewalService) get(requestID uint, actor Actor, forUser bool) (*models.RenewalRequest, error) {
	var req *models.RenewalRequest
	var err error
	if forUser {
		req, err = s.stors.RenewalStor.GetByIDForUser(requestID, actor.ID)
	} else {
		req, err = s.stors.RenewalStor.GetByID(requestID)
	}
	if err != nil {
		return nil, notFoundErr("renewal request")
	}
	return req, nil
}

func (s *RenewalService) notify(req *models.RenewalRequest, slug string, title string) {
	if s.notifier == nil {
		return
	}
	outcome := s.notifier.Notify(req.UserID, slug, title, types.JSONB{
		"requestNumber": req.RequestNumber,
		"status":        string(req.Status),
	})
	if outcome == OutcomeFailed {
		log.Printf("renewal %s: %s notification failed\n", req.RequestNumber, slug)
	}
}

func renewalDetailsFrom(body types.RenewalDetailsBody) (*models.RenewalDetails, error) {
	details := &models.RenewalDetails{
		EmiratesID:     body.EmiratesID,
		TradeLicenseNo: body.TradeLicenseNo,
	}
	var err error
	if details.LeaseStartDate, err = parseDate(body.LeaseStartDate); err != nil {
		return nil, apperr.BadRequest(apperr.CodeValidation, "leaseStartDate must be YYYY-MM-DD")
	}
	if details.LeaseEndDate, err = parseDate(body.LeaseEndDate); err != nil {
		return nil, apperr.BadRequest(apperr.CodeValidation, "leaseEndDate must be YYYY-MM-DD")
	}
	return details, nil
}
