package services

import (
	"net/http"

	"rcm/src/apperr"
	"rcm/src/types"
)

type Action string

const (
	ActionApprove    Action = "approve"
	ActionMarkRFI    Action = "rfi"
	ActionSubmitRFI  Action = "rfi-submit"
	ActionCancel     Action = "cancel"
	ActionUserCancel Action = "user-cancel"
	ActionClose      Action = "close"
	ActionUpdate     Action = "update"
)

type transition struct {
	from []types.RequestStatus
	to   types.RequestStatus
}

// transitionTable is the single place that says which status an action may
// run from and which status it lands on. Service methods never compare
// statuses directly; they call Resolve and act on the answer.
var transitionTable = map[types.Workflow]map[Action]transition{
	types.WORKFLOW_MOVE_IN: {
		ActionApprove: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_SUBMITTED},
			to:   types.REQUEST_APPROVED,
		},
		ActionMarkRFI: {
			from: []types.RequestStatus{types.REQUEST_OPEN},
			to:   types.REQUEST_RFI_PENDING,
		},
		ActionSubmitRFI: {
			from: []types.RequestStatus{types.REQUEST_RFI_PENDING},
			to:   types.REQUEST_RFI_SUBMITTED,
		},
		ActionCancel: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_SUBMITTED, types.REQUEST_APPROVED},
			to:   types.REQUEST_CANCELLED,
		},
		ActionUserCancel: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_SUBMITTED, types.REQUEST_APPROVED},
			to:   types.REQUEST_USER_CANCELLED,
		},
		ActionClose: {
			from: []types.RequestStatus{types.REQUEST_APPROVED},
			to:   types.REQUEST_CLOSED,
		},
		ActionUpdate: {
			from: []types.RequestStatus{types.REQUEST_OPEN},
			to:   types.REQUEST_OPEN,
		},
	},
	types.WORKFLOW_MOVE_OUT: {
		ActionApprove: {
			from: []types.RequestStatus{types.REQUEST_OPEN},
			to:   types.REQUEST_APPROVED,
		},
		ActionCancel: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_APPROVED},
			to:   types.REQUEST_CANCELLED,
		},
		ActionUserCancel: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_APPROVED},
			to:   types.REQUEST_USER_CANCELLED,
		},
		ActionClose: {
			from: []types.RequestStatus{types.REQUEST_APPROVED},
			to:   types.REQUEST_CLOSED,
		},
	},
	types.WORKFLOW_RENEWAL: {
		ActionApprove: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_SUBMITTED},
			to:   types.REQUEST_APPROVED,
		},
		ActionMarkRFI: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_SUBMITTED},
			to:   types.REQUEST_RFI_PENDING,
		},
		ActionSubmitRFI: {
			from: []types.RequestStatus{types.REQUEST_RFI_PENDING},
			to:   types.REQUEST_RFI_SUBMITTED,
		},
		ActionCancel: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_PENDING, types.REQUEST_RFI_SUBMITTED, types.REQUEST_APPROVED, types.REQUEST_CLOSED},
			to:   types.REQUEST_CANCELLED,
		},
		ActionUserCancel: {
			from: []types.RequestStatus{types.REQUEST_OPEN, types.REQUEST_RFI_PENDING, types.REQUEST_RFI_SUBMITTED, types.REQUEST_APPROVED, types.REQUEST_CLOSED},
			to:   types.REQUEST_USER_CANCELLED,
		},
		ActionUpdate: {
			from: []types.RequestStatus{types.REQUEST_OPEN},
			to:   types.REQUEST_OPEN,
		},
	},
}

var badTransitionCodes = map[types.Workflow]string{
	types.WORKFLOW_MOVE_IN:  apperr.CodeMoveInBadTransition,
	types.WORKFLOW_MOVE_OUT: apperr.CodeMoveOutBadTransition,
	types.WORKFLOW_RENEWAL:  apperr.CodeRenewalBadTransition,
}

// Resolve answers what status an action lands on from the current one, or a
// workflow-specific coded error when the transition is not in the table.
func Resolve(workflow types.Workflow, action Action, current types.RequestStatus) (types.RequestStatus, error) {
	t, ok := transitionTable[workflow][action]
	if ok {
		for _, from := range t.from {
			if from == current {
				return t.to, nil
			}
		}
	}
	return "", apperr.New(
		http.StatusBadRequest,
		badTransitionCodes[workflow],
		"request in status "+string(current)+" cannot "+string(action),
	)
}
