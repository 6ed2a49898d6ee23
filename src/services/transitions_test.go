package services

import (
	"testing"

	"rcm/src/apperr"
	"rcm/src/types"

	"github.com/stretchr/testify/assert"
)

func TestResolveMoveIn(t *testing.T) {
	cases := []struct {
		name    string
		action  Action
		current types.RequestStatus
		want    types.RequestStatus
		wantErr bool
	}{
		{"approve from open", ActionApprove, types.REQUEST_OPEN, types.REQUEST_APPROVED, false},
		{"approve from rfi-submitted", ActionApprove, types.REQUEST_RFI_SUBMITTED, types.REQUEST_APPROVED, false},
		{"approve from approved", ActionApprove, types.REQUEST_APPROVED, "", true},
		{"approve from cancelled", ActionApprove, types.REQUEST_CANCELLED, "", true},
		{"rfi from open", ActionMarkRFI, types.REQUEST_OPEN, types.REQUEST_RFI_PENDING, false},
		{"rfi from rfi-pending", ActionMarkRFI, types.REQUEST_RFI_PENDING, "", true},
		{"submit rfi from rfi-pending", ActionSubmitRFI, types.REQUEST_RFI_PENDING, types.REQUEST_RFI_SUBMITTED, false},
		{"submit rfi from open", ActionSubmitRFI, types.REQUEST_OPEN, "", true},
		{"cancel from approved", ActionCancel, types.REQUEST_APPROVED, types.REQUEST_CANCELLED, false},
		{"cancel from closed", ActionCancel, types.REQUEST_CLOSED, "", true},
		{"user cancel from open", ActionUserCancel, types.REQUEST_OPEN, types.REQUEST_USER_CANCELLED, false},
		{"close from approved", ActionClose, types.REQUEST_APPROVED, types.REQUEST_CLOSED, false},
		{"close from open", ActionClose, types.REQUEST_OPEN, "", true},
		{"close from closed", ActionClose, types.REQUEST_CLOSED, "", true},
		{"update from open", ActionUpdate, types.REQUEST_OPEN, types.REQUEST_OPEN, false},
		{"update from approved", ActionUpdate, types.REQUEST_APPROVED, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(types.WORKFLOW_MOVE_IN, tc.action, tc.current)
			if tc.wantErr {
				assert.Error(t, err)
				appErr := apperr.From(err)
				assert.Equal(t, apperr.CodeMoveInBadTransition, appErr.Code)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveMoveOut(t *testing.T) {
	cases := []struct {
		name    string
		action  Action
		current types.RequestStatus
		want    types.RequestStatus
		wantErr bool
	}{
		{"approve from open", ActionApprove, types.REQUEST_OPEN, types.REQUEST_APPROVED, false},
		{"approve from approved", ActionApprove, types.REQUEST_APPROVED, "", true},
		{"cancel from open", ActionCancel, types.REQUEST_OPEN, types.REQUEST_CANCELLED, false},
		{"cancel from closed", ActionCancel, types.REQUEST_CLOSED, "", true},
		{"close from approved", ActionClose, types.REQUEST_APPROVED, types.REQUEST_CLOSED, false},
		{"close from open", ActionClose, types.REQUEST_OPEN, "", true},
		{"rfi unsupported", ActionMarkRFI, types.REQUEST_OPEN, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(types.WORKFLOW_MOVE_OUT, tc.action, tc.current)
			if tc.wantErr {
				assert.Error(t, err)
				appErr := apperr.From(err)
				assert.Equal(t, apperr.CodeMoveOutBadTransition, appErr.Code)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveRenewal(t *testing.T) {
	cases := []struct {
		name    string
		action  Action
		current types.RequestStatus
		want    types.RequestStatus
		wantErr bool
	}{
		{"approve from open", ActionApprove, types.REQUEST_OPEN, types.REQUEST_APPROVED, false},
		{"rfi from rfi-submitted", ActionMarkRFI, types.REQUEST_RFI_SUBMITTED, types.REQUEST_RFI_PENDING, false},
		{"cancel from closed", ActionCancel, types.REQUEST_CLOSED, types.REQUEST_CANCELLED, false},
		{"user cancel from closed", ActionUserCancel, types.REQUEST_CLOSED, types.REQUEST_USER_CANCELLED, false},
		{"cancel from cancelled", ActionCancel, types.REQUEST_CANCELLED, "", true},
		{"close unsupported", ActionClose, types.REQUEST_APPROVED, "", true},
		{"update from rfi-pending", ActionUpdate, types.REQUEST_RFI_PENDING, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(types.WORKFLOW_RENEWAL, tc.action, tc.current)
			if tc.wantErr {
				assert.Error(t, err)
				appErr := apperr.From(err)
				assert.Equal(t, apperr.CodeRenewalBadTransition, appErr.Code)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveUnknownWorkflow(t *testing.T) {
	_, err := Resolve(types.Workflow("unknown"), ActionApprove, types.REQUEST_OPEN)
	assert.Error(t, err)
}
