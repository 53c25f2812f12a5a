// Package domain provides core business rules for installation orders.
package domain

import (
	"time"

	"aquaops_backend/platform/apperr"

	"github.com/google/uuid"
)

// State is the derived lifecycle position of an installation order. The
// progression is linear: AwaitingAssignment -> Assigned -> Completed. No
// backward transition exists; an order commits to a single technician.
type State string

const (
	StateAwaitingAssignment State = "awaiting_assignment"
	StateAssigned           State = "assigned"
	StateCompleted          State = "completed"
)

// Stages is the per-order progress record. PaymentReceived and KycVerified
// are written by the upstream payment/KYC subsystems and only displayed here;
// they do not gate assignment. TechnicianAssigned and InstallationCompleted
// are owned by the dispatch coordinator.
type Stages struct {
	PaymentReceived       bool
	KycVerified           bool
	TechnicianAssigned    bool
	InstallationCompleted bool
}

// Order is an installation order for a purchased purifier plan.
type Order struct {
	ID                   uuid.UUID
	OrganizationID       uuid.UUID
	CustomerID           uuid.UUID
	PlanID               uuid.UUID
	Stages               Stages
	AssignedTechnicianID *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// State derives the lifecycle position from the stage record.
func (o *Order) State() State {
	switch {
	case o.Stages.InstallationCompleted:
		return StateCompleted
	case o.Stages.TechnicianAssigned:
		return StateAssigned
	default:
		return StateAwaitingAssignment
	}
}

// CheckAssignable returns a typed error when a technician cannot be assigned.
// An order that already has a technician is never reassigned in this flow.
func (o *Order) CheckAssignable() error {
	if o.Stages.InstallationCompleted {
		return ErrOrderCompleted()
	}
	if o.Stages.TechnicianAssigned {
		return ErrAlreadyAssigned()
	}
	return nil
}

// CheckCompletable returns a typed error when the order cannot be marked
// complete: completion requires an assigned technician, and a completed order
// is terminal.
func (o *Order) CheckCompletable() error {
	if o.Stages.InstallationCompleted {
		return ErrOrderCompleted()
	}
	if !o.Stages.TechnicianAssigned {
		return ErrNotAssigned()
	}
	return nil
}

// ErrAlreadyAssigned reports a reassignment attempt on an installation order.
func ErrAlreadyAssigned() *apperr.Error {
	return apperr.Conflict("this order already has an assigned technician")
}

// ErrNotAssigned reports a completion attempt with no technician assigned.
func ErrNotAssigned() *apperr.Error {
	return apperr.Conflict("assign a technician before completing the installation")
}

// ErrOrderCompleted reports a mutation attempt on a completed order.
func ErrOrderCompleted() *apperr.Error {
	return apperr.Conflict("installation is already completed")
}

// ErrNotFound reports an unknown order id.
func ErrNotFound() *apperr.Error {
	return apperr.NotFound("installation order not found")
}
