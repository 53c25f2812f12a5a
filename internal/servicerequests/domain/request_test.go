package domain

import (
	"testing"

	"github.com/google/uuid"
)

func openRequest() Request {
	return Request{Status: StatusOpen, Approval: ApprovalAbsent}
}

func pendingRequest() Request {
	techID := uuid.New()
	return Request{Status: StatusOpen, Approval: ApprovalPending, AssignedTechnicianID: &techID}
}

func TestCheckAssignable(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr bool
	}{
		{"unassigned open", openRequest(), false},
		{"pending open", pendingRequest(), false},
		{"rejected open is reassignable", func() Request {
			r := pendingRequest()
			r.Approval = ApprovalRejected
			return r
		}(), false},
		{"closed", Request{Status: StatusClosed, Approval: ApprovalAccepted}, true},
	}

	for _, tc := range tests {
		err := tc.request.CheckAssignable()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: CheckAssignable() = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestCheckDecision(t *testing.T) {
	tests := []struct {
		name     string
		request  Request
		decision Decision
		wantErr  bool
	}{
		{"accept pending", pendingRequest(), DecisionAccepted, false},
		{"reject pending", pendingRequest(), DecisionRejected, false},
		{"unknown decision value", pendingRequest(), Decision("maybe"), true},
		{"no technician assigned", openRequest(), DecisionAccepted, true},
		{"already accepted", func() Request {
			r := pendingRequest()
			r.Approval = ApprovalAccepted
			return r
		}(), DecisionAccepted, true},
		{"already rejected", func() Request {
			r := pendingRequest()
			r.Approval = ApprovalRejected
			return r
		}(), DecisionRejected, true},
		{"closed request", func() Request {
			r := pendingRequest()
			r.Status = StatusClosed
			return r
		}(), DecisionAccepted, true},
	}

	for _, tc := range tests {
		err := tc.request.CheckDecision(tc.decision)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: CheckDecision(%q) = %v, wantErr %v", tc.name, tc.decision, err, tc.wantErr)
		}
	}
}

func TestCheckClosable(t *testing.T) {
	tests := []struct {
		name     string
		approval ApprovalStatus
		status   Status
		wantErr  bool
	}{
		{"accepted open", ApprovalAccepted, StatusOpen, false},
		{"pending open", ApprovalPending, StatusOpen, true},
		{"rejected open", ApprovalRejected, StatusOpen, true},
		{"unassigned open", ApprovalAbsent, StatusOpen, true},
		{"already closed", ApprovalAccepted, StatusClosed, true},
	}

	for _, tc := range tests {
		r := Request{Status: tc.status, Approval: tc.approval}
		err := r.CheckClosable()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: CheckClosable() = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestReassignable(t *testing.T) {
	r := pendingRequest()
	if r.Reassignable() {
		t.Error("pending request should not be flagged reassignable")
	}

	r.Approval = ApprovalRejected
	if !r.Reassignable() {
		t.Error("rejected open request should be reassignable")
	}

	r.Status = StatusClosed
	if r.Reassignable() {
		t.Error("closed request should not be reassignable")
	}
}
