package services

import (
	"log"
	"time"

	"rcm/src/apperr"
	"rcm/src/config"
	"rcm/src/models"
	"rcm/src/stor"
	"rcm/src/types"
)

// vacancyStatuses are the move-in statuses that make a unit count as taken
// for new requests. Cancelled and closed history does not block.
var vacancyStatuses = []types.RequestStatus{
	types.REQUEST_OPEN,
	types.REQUEST_APPROVED,
	types.REQUEST_RFI_PENDING,
}

type MoveInService struct {
	stors     *stor.Stors
	notifier  Notifier
	permits   Permits
	reminders Reminders
}

func NewMoveInService(stors *stor.Stors, notifier Notifier, permits Permits, reminders Reminders) *MoveInService {
	return &MoveInService{
		stors:     stors,
		notifier:  notifier,
		permits:   permits,
		reminders: reminders,
	}
}

// Create inserts a move-in request of the given type. All four applicant
// types are auto-approved at creation; the manual approval path exists for
// requests that later drop back to open via RFI.
func (s *MoveInService) Create(actor Actor, reqType types.RequestType, body types.CreateMoveInRequestBody) (*models.MoveInRequest, error) {
	unit, err := s.stors.UnitStor.GetByID(body.UnitID)
	if err != nil {
		return nil, notFoundErr("unit")
	}
	occupied, err := s.stors.MoveInStor.HasRequestInStatuses(unit.ID, vacancyStatuses)
	if err != nil {
		log.Printf("Error checking unit vacancy: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	if occupied {
		return nil, apperr.BadRequest(apperr.CodeUnitNotVacant, "unit already has a move-in request in progress")
	}
	overlapping, err := s.stors.MoveInStor.HasActiveForUnit(unit.ID, 0)
	if err != nil {
		log.Printf("Error checking overlapping requests: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	if overlapping {
		return nil, apperr.BadRequest(apperr.CodeOverlappingRequest, "unit has an overlapping move-in request")
	}
	template, err := s.stors.TemplateStor.GetActiveForCommunity(unit.CommunityID)
	if err != nil {
		return nil, apperr.BadRequest(apperr.CodeTemplateMissing, "no move-in permit template is configured for this community")
	}
	if !template.HasWelcomePack {
		return nil, apperr.BadRequest(apperr.CodeWelcomePackMissing, "community template has no welcome pack")
	}

	moveInDate, err := parseDate(body.MoveInDate)
	if err != nil {
		return nil, apperr.BadRequest(apperr.CodeValidation, "moveInDate must be YYYY-MM-DD")
	}
	details, err := moveInDetailsFrom(body.Details)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := &models.MoveInRequest{
		RequestNumber:  tempNumber("MIN"),
		RequestType:    reqType,
		Status:         types.REQUEST_APPROVED,
		UserID:         actor.ID,
		UnitID:         unit.ID,
		MoveInDate:     moveInDate,
		IsAutoApproved: true,
		ApprovedAt:     &now,
		AuditColumns: types.AuditColumns{
			CreatedBy: actor.ID,
			UpdatedBy: actor.ID,
			IsActive:  true,
		},
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_IN,
		Status:    types.REQUEST_APPROVED,
		ActorType: types.ACTOR_SYSTEM,
		ActorID:   actor.ID,
		Comments:  "auto-approved on creation",
		Payload:   snapshot(body),
	}
	created, err := s.stors.MoveInStor.Create(req, details, entry, finalNumber("MIN", unit.UnitNumber))
	if err != nil {
		log.Printf("Error creating move-in request: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	created.Unit = unit
	s.afterApproval(created)
	return created, nil
}

// Approve moves an open or rfi-submitted request to approved. Overlap and
// template checks run again because the state of the unit may have changed
// since creation.
func (s *MoveInService) Approve(actor Actor, requestID uint, body types.ApproveRequestBody) (*models.MoveInRequest, error) {
	req, err := s.stors.MoveInStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("move-in request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_IN, ActionApprove, req.Status)
	if err != nil {
		return nil, err
	}
	overlapping, err := s.stors.MoveInStor.HasActiveForUnit(req.UnitID, req.ID)
	if err != nil {
		log.Printf("Error checking overlapping requests: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	if overlapping {
		return nil, apperr.BadRequest(apperr.CodeOverlappingRequest, "unit has an overlapping move-in request")
	}
	communityID := uint(0)
	if req.Unit != nil {
		communityID = req.Unit.CommunityID
	}
	if _, err := s.stors.TemplateStor.GetActiveForCommunity(communityID); err != nil {
		return nil, apperr.BadRequest(apperr.CodeTemplateMissing, "no move-in permit template is configured for this community")
	}
	now := time.Now()
	if req.MoveInDate == nil || req.MoveInDate.After(now.AddDate(0, 0, config.MoveInWindowDays)) {
		return nil, apperr.BadRequest(apperr.CodeMoveInDateWindow, "move-in date must be within the approval window")
	}

	updates := map[string]any{
		"status":      next,
		"approved_at": now,
		"updated_by":  actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_IN,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Comments,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveInStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error approving move-in request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	req.ApprovedAt = &now
	req.UpdatedBy = actor.ID
	s.afterApproval(req)
	return req, nil
}

// MarkRFI sends an open request back to the applicant for more information.
func (s *MoveInService) MarkRFI(actor Actor, requestID uint, body types.MarkRFIRequestBody) (*models.MoveInRequest, error) {
	if blank(body.Comments) {
		return nil, apperr.BadRequest(apperr.CodeCommentsRequired, "comments are required to request information")
	}
	req, err := s.stors.MoveInStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("move-in request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_IN, ActionMarkRFI, req.Status)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"status":     next,
		"updated_by": actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_IN,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Comments,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveInStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error marking move-in request %d rfi: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	s.notify(req, "move-in-rfi", "More information is needed for your move-in request")
	return req, nil
}

// Cancel cancels a request; byUser selects the resident-initiated variant
// which lands on user-cancelled instead of cancelled.
func (s *MoveInService) Cancel(actor Actor, requestID uint, body types.CancelRequestBody, byUser bool) (*models.MoveInRequest, error) {
	if blank(body.Remarks) {
		return nil, apperr.BadRequest(apperr.CodeRemarksRequired, "remarks are required to cancel a request")
	}
	var req *models.MoveInRequest
	var err error
	action := ActionCancel
	if byUser {
		action = ActionUserCancel
		req, err = s.stors.MoveInStor.GetByIDForUser(requestID, actor.ID)
	} else {
		req, err = s.stors.MoveInStor.GetByID(requestID)
	}
	if err != nil {
		return nil, notFoundErr("move-in request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_IN, action, req.Status)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"status":         next,
		"cancel_remarks": body.Remarks,
		"updated_by":     actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_IN,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.Remarks,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveInStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error cancelling move-in request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	s.notify(req, "move-in-cancelled", "Your move-in request has been cancelled")
	return req, nil
}

// Close completes an approved move-in. The approval must still be inside the
// close window, and the caller has to record when the resident actually
// moved in.
func (s *MoveInService) Close(actor Actor, requestID uint, body types.CloseMoveInRequestBody) (*models.MoveInRequest, error) {
	if blank(body.ClosureRemarks) {
		return nil, apperr.BadRequest(apperr.CodeRemarksRequired, "closure remarks are required")
	}
	actual, err := parseDate(body.ActualMoveInDate)
	if err != nil || actual == nil {
		return nil, apperr.BadRequest(apperr.CodeActualDateRequired, "actual move-in date is required as YYYY-MM-DD")
	}
	req, err := s.stors.MoveInStor.GetByID(requestID)
	if err != nil {
		return nil, notFoundErr("move-in request")
	}
	next, err := Resolve(types.WORKFLOW_MOVE_IN, ActionClose, req.Status)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if req.ApprovedAt == nil || now.Sub(*req.ApprovedAt) > time.Duration(config.MoveInWindowDays)*24*time.Hour {
		return nil, apperr.BadRequest(apperr.CodeApprovalExpired, "approval is older than the close window, re-approve first")
	}
	updates := map[string]any{
		"status":          next,
		"actual_move_in":  *actual,
		"closure_remarks": body.ClosureRemarks,
		"updated_by":      actor.ID,
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_IN,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Comments:  body.ClosureRemarks,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveInStor.Transition(req, updates, entry); err != nil {
		log.Printf("Error closing move-in request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	req.Status = next
	req.ActualMoveIn = actual
	s.notify(req, "move-in-closed", "Your move-in request has been closed")
	return req, nil
}

// Update edits an open request, or answers an RFI. Answering an RFI is the
// only update that changes status: rfi-pending becomes rfi-submitted.
func (s *MoveInService) Update(actor Actor, requestID uint, body types.UpdateMoveInRequestBody, forUser bool) (*models.MoveInRequest, error) {
	req, err := s.get(requestID, actor, forUser)
	if err != nil {
		return nil, err
	}
	action := ActionUpdate
	if req.Status == types.REQUEST_RFI_PENDING {
		action = ActionSubmitRFI
	}
	next, err := Resolve(types.WORKFLOW_MOVE_IN, action, req.Status)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_by": actor.ID}
	if next != req.Status {
		updates["status"] = next
	}
	if body.MoveInDate != nil {
		moveInDate, err := parseDate(*body.MoveInDate)
		if err != nil {
			return nil, apperr.BadRequest(apperr.CodeValidation, "moveInDate must be YYYY-MM-DD")
		}
		updates["move_in_date"] = *moveInDate
	}
	var details map[string]any
	if body.Details != nil {
		details, err = moveInDetailsUpdates(*body.Details)
		if err != nil {
			return nil, err
		}
	}
	entry := &models.RequestLog{
		Workflow:  types.WORKFLOW_MOVE_IN,
		Status:    next,
		ActorType: actor.ActorType(),
		ActorID:   actor.ID,
		Payload:   snapshot(body),
	}
	if err := s.stors.MoveInStor.UpdateWithDetails(req, updates, details, entry); err != nil {
		log.Printf("Error updating move-in request %d: %s\n", req.ID, err.Error())
		return nil, apperr.Unknown()
	}
	return s.get(requestID, actor, forUser)
}

func (s *MoveInService) Get(actor Actor, requestID uint, forUser bool) (*models.MoveInRequest, error) {
	return s.get(requestID, actor, forUser)
}

func (s *MoveInService) List(actor Actor, q types.RequestListQuery, ownOnly bool) ([]models.MoveInRequest, *types.Pagination, error) {
	lq := listQueryFrom(actor, q, ownOnly)
	reqs, total, err := s.stors.MoveInStor.List(lq)
	if err != nil {
		log.Printf("Error listing move-in requests: %s\n", err.Error())
		return nil, nil, apperr.Unknown()
	}
	return reqs, paginationFor(lq, total), nil
}

func (s *MoveInService) Logs(requestID uint) ([]models.RequestLog, error) {
	logs, err := s.stors.LogStor.ListForRequest(types.WORKFLOW_MOVE_IN, requestID)
	if err != nil {
		log.Printf("Error listing move-in logs: %s\n", err.Error())
		return nil, apperr.Unknown()
	}
	return logs, nil
}

func (s *MoveInService) get(requestID uint, actor Actor, forUser bool) (*models.MoveInRequest, error) {
	var req *models.MoveInRequest
	var err error
	if forUser {
		req, err = s.stors.MoveInStor.GetByIDForUser(requestID, actor.ID)
	} else {
		req, err = s.stors.MoveInStor.GetByID(requestID)
	}
	if err != nil {
		return nil, notFoundErr("move-in request")
	}
	return req, nil
}

func (s *MoveInService) notify(req *models.MoveInRequest, slug string, title string) {
	if s.notifier == nil {
		return
	}
	outcome := s.notifier.Notify(req.UserID, slug, title, types.JSONB{
		"requestNumber": req.RequestNumber,
		"status":        string(req.Status),
	})
	if outcome == OutcomeFailed {
		log.Printf("move-in %s: %s notification failed\n", req.RequestNumber, slug)
	}
}

// afterApproval runs the best-effort side effects of an approval: resident
// notification, permit generation, and the lapse reminder scheduled just
// before the close window runs out. None of them can fail the approval.
func (s *MoveInService) afterApproval(req *models.MoveInRequest) {
	s.notify(req, "move-in-approved", "Your move-in request has been approved")
	if s.permits != nil {
		url, outcome := s.permits.Generate(req.RequestNumber, req.UserID)
		switch outcome {
		case OutcomeFailed:
			log.Printf("move-in %s: permit generation failed\n", req.RequestNumber)
		case OutcomeOK:
			log.Printf("move-in %s: permit available at %s\n", req.RequestNumber, url)
		}
	}
	if s.reminders != nil && req.ApprovedAt != nil {
		runsAt := req.ApprovedAt.AddDate(0, 0, config.LapseReminderDays)
		if outcome := s.reminders.ScheduleApprovalLapse(types.WORKFLOW_MOVE_IN, req.ID, runsAt); outcome == OutcomeFailed {
			log.Printf("move-in %s: lapse reminder scheduling failed\n", req.RequestNumber)
		}
	}
}

func moveInDetailsFrom(body types.MoveInDetailsBody) (*models.MoveInDetails, error) {
	details := &models.MoveInDetails{
		Adults:          body.Adults,
		Children:        body.Children,
		HouseholdStaffs: body.HouseholdStaffs,
		Pets:            body.Pets,
		EmiratesID:      body.EmiratesID,
		CompanyName:     body.CompanyName,
		TradeLicenseNo:  body.TradeLicenseNo,
	}
	var err error
	if body.TradeLicenseExp != nil {
		if details.TradeLicenseExp, err = parseDate(*body.TradeLicenseExp); err != nil {
			return nil, apperr.BadRequest(apperr.CodeValidation, "tradeLicenseExpiry must be YYYY-MM-DD")
		}
	}
	if body.LeaseStartDate != nil {
		if details.LeaseStartDate, err = parseDate(*body.LeaseStartDate); err != nil {
			return nil, apperr.BadRequest(apperr.CodeValidation, "leaseStartDate must be YYYY-MM-DD")
		}
	}
	if body.LeaseEndDate != nil {
		if details.LeaseEndDate, err = parseDate(*body.LeaseEndDate); err != nil {
			return nil, apperr.BadRequest(apperr.CodeValidation, "leaseEndDate must be YYYY-MM-DD")
		}
	}
	return details, nil
}

func moveInDetailsUpdates(body types.MoveInDetailsBody) (map[string]any, error) {
	details, err := moveInDetailsFrom(body)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{
		"adults":           details.Adults,
		"children":         details.Children,
		"household_staffs": details.HouseholdStaffs,
		"pets":             details.Pets,
	}
	if details.EmiratesID != nil {
		updates["emirates_id"] = *details.EmiratesID
	}
	if details.CompanyName != nil {
		updates["company_name"] = *details.CompanyName
	}
	if details.TradeLicenseNo != nil {
		updates["trade_license_no"] = *details.TradeLicenseNo
	}
	if details.TradeLicenseExp != nil {
		updates["trade_license_exp"] = *details.TradeLicenseExp
	}
	if details.LeaseStartDate != nil {
		updates["lease_start_date"] = *details.LeaseStartDate
	}
	if details.LeaseEndDate != nil {
		updates["lease_end_date"] = *details.LeaseEndDate
	}
	return updates, nil
}
