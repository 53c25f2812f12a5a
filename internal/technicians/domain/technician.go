// Package domain provides core business rules for the technician registry.
package domain

import (
	"time"

	"aquaops_backend/platform/apperr"

	"github.com/google/uuid"
)

// WorkStatus is a technician's current duty state. It is owned exclusively by
// the dispatch coordinator: busy iff exactly one open assignment references
// the technician.
type WorkStatus string

const (
	WorkStatusFree WorkStatus = "free"
	WorkStatusBusy WorkStatus = "busy"
)

// KycStatus is the approval state of a technician's identity verification.
type KycStatus string

const (
	KycStatusPending  KycStatus = "pending"
	KycStatusApproved KycStatus = "approved"
	KycStatusRejected KycStatus = "rejected"
)

// Kind is the staffing pool a technician belongs to.
type Kind string

const (
	KindInstallation Kind = "installation"
	KindService      Kind = "service"
	KindAny          Kind = "any"
)

// Technician is the registry record for a field technician.
type Technician struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Email          string
	Phone          string
	Kind           Kind
	IsActive       bool
	WorkStatus     WorkStatus
	KycStatus      KycStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Eligible reports whether the technician can take on new work:
// active, currently free and KYC-approved.
func (t *Technician) Eligible() bool {
	return t.IsActive && t.WorkStatus == WorkStatusFree && t.KycStatus == KycStatusApproved
}

// ServesPool reports whether the technician staffs the given pool.
func (t *Technician) ServesPool(kind Kind) bool {
	return kind == KindAny || t.Kind == KindAny || t.Kind == kind
}

// CheckAssignable returns a typed error describing why the technician cannot
// be assigned to work in the given pool, or nil when assignment is legal. The
// messages distinguish the failing predicate so operators get an actionable
// reason rather than a generic failure.
func (t *Technician) CheckAssignable(kind Kind) error {
	switch {
	case !t.IsActive:
		return ErrInactive()
	case t.KycStatus != KycStatusApproved:
		return ErrKycNotApproved()
	case t.WorkStatus == WorkStatusBusy:
		return ErrAlreadyBusy()
	case !t.ServesPool(kind):
		return ErrWrongPool()
	default:
		return nil
	}
}

// CheckModifiable returns a typed error when the technician's registry record
// is frozen. An on-duty technician's KYC and activation state cannot change
// until the active job releases them.
func (t *Technician) CheckModifiable() error {
	if t.WorkStatus == WorkStatusBusy {
		return ErrOnDuty()
	}
	return nil
}

// ValidKind reports whether the value is a known staffing pool.
func ValidKind(kind Kind) bool {
	switch kind {
	case KindInstallation, KindService, KindAny:
		return true
	}
	return false
}

// ValidKycStatus reports whether the value is a known KYC approval status.
func ValidKycStatus(status KycStatus) bool {
	switch status {
	case KycStatusPending, KycStatusApproved, KycStatusRejected:
		return true
	}
	return false
}

// Error constructors. All eligibility failures map to a conflict so that a
// lost compare-and-set surfaces the same way as a pre-checked rejection.

// ErrNotEligible is the generic eligibility failure, used when the registry
// compare-and-set loses a race and the precise predicate is unknown.
func ErrNotEligible() *apperr.Error {
	return apperr.Conflict("technician is not eligible for assignment")
}

// ErrInactive reports an assignment attempt on a disabled account.
func ErrInactive() *apperr.Error {
	return apperr.Conflict("technician account is deactivated")
}

// ErrKycNotApproved reports an assignment attempt on an unverified technician.
func ErrKycNotApproved() *apperr.Error {
	return apperr.Conflict("technician KYC is not approved")
}

// ErrAlreadyBusy reports an assignment attempt on an on-duty technician.
func ErrAlreadyBusy() *apperr.Error {
	return apperr.Conflict("technician is already on duty")
}

// ErrWrongPool reports an assignment into a pool the technician does not staff.
func ErrWrongPool() *apperr.Error {
	return apperr.Conflict("technician does not serve this kind of work")
}

// ErrOnDuty reports a registry modification attempt on a busy technician.
func ErrOnDuty() *apperr.Error {
	return apperr.Conflict("an on-duty technician cannot be modified")
}

// ErrNotFound reports an unknown technician id.
func ErrNotFound() *apperr.Error {
	return apperr.NotFound("technician not found")
}
