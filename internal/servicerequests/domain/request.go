// Package domain provides core business rules for service (repair) requests.
package domain

import (
	"time"

	"aquaops_backend/platform/apperr"

	"github.com/google/uuid"
)

// Status is the overall lifecycle state of a service request.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// ApprovalStatus tracks the assigned technician's response to a dispatch.
// The empty value means no technician is currently assigned.
type ApprovalStatus string

const (
	ApprovalAbsent   ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalAccepted ApprovalStatus = "accepted"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Decision is a technician's response to an assignment.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// Request is a customer-filed service issue on an installed device.
//
// Lifecycle: Open{unassigned} -> Open{pending} -> Open{accepted} -> Closed,
// with a side branch Open{pending} -> Open{rejected} from which the request
// can be reassigned any number of times.
type Request struct {
	ID                   uuid.UUID
	OrganizationID       uuid.UUID
	DeviceID             uuid.UUID
	UserID               uuid.UUID
	ServiceType          string
	Location             string
	Status               Status
	Approval             ApprovalStatus
	AssignedTechnicianID *uuid.UUID
	RejectionCount       int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CheckAssignable returns a typed error when a technician cannot be assigned.
// Assignment is always legal while the request is open, whatever the current
// approval status; this covers both first assignment and reassignment after a
// rejection.
func (r *Request) CheckAssignable() error {
	if r.Status == StatusClosed {
		return ErrRequestClosed()
	}
	return nil
}

// CheckDecision returns a typed error when the given technician decision
// cannot be recorded: the request must be open with a pending assignment.
func (r *Request) CheckDecision(decision Decision) error {
	if decision != DecisionAccepted && decision != DecisionRejected {
		return ErrInvalidDecision()
	}
	if r.Status == StatusClosed {
		return ErrRequestClosed()
	}
	if r.AssignedTechnicianID == nil {
		return ErrNoTechnicianAssigned()
	}
	if r.Approval != ApprovalPending {
		return ErrNoPendingDecision()
	}
	return nil
}

// CheckClosable returns a typed error when the request cannot move to closed.
// Closure requires the assigned technician to have accepted the job.
func (r *Request) CheckClosable() error {
	if r.Status == StatusClosed {
		return ErrRequestClosed()
	}
	if r.Approval != ApprovalAccepted {
		return ErrCloseRequiresAcceptance()
	}
	return nil
}

// Reassignable reports whether the request is in the rejected side branch,
// where the assignment action is presented as "Reassign".
func (r *Request) Reassignable() bool {
	return r.Status == StatusOpen && r.Approval == ApprovalRejected
}

// ValidStatus reports whether the value is a known request status.
func ValidStatus(status Status) bool {
	return status == StatusOpen || status == StatusClosed
}

// ErrCloseRequiresAcceptance reports a closure attempt before the technician
// accepted the job.
func ErrCloseRequiresAcceptance() *apperr.Error {
	return apperr.Conflict("request can only be closed after the technician accepts the job")
}

// ErrRequestClosed reports a mutation attempt on a closed request.
func ErrRequestClosed() *apperr.Error {
	return apperr.Conflict("service request is already closed")
}

// ErrNoTechnicianAssigned reports a decision with no assigned technician.
func ErrNoTechnicianAssigned() *apperr.Error {
	return apperr.Conflict("no technician is assigned to this request")
}

// ErrAssignmentConflict reports that the request's assignment changed under a
// concurrent operator action.
func ErrAssignmentConflict() *apperr.Error {
	return apperr.Conflict("service request was updated by another operator, reload and retry")
}

// ErrNoPendingDecision reports a decision when none is awaited.
func ErrNoPendingDecision() *apperr.Error {
	return apperr.Conflict("there is no pending technician decision on this request")
}

// ErrInvalidDecision reports an unknown decision value.
func ErrInvalidDecision() *apperr.Error {
	return apperr.BadRequest("decision must be accepted or rejected")
}

// ErrNotFound reports an unknown request id.
func ErrNotFound() *apperr.Error {
	return apperr.NotFound("service request not found")
}
