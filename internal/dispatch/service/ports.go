package service

import (
	"context"

	"github.com/google/uuid"

	instdomain "aquaops_backend/internal/installations/domain"
	reqdomain "aquaops_backend/internal/servicerequests/domain"
	techdomain "aquaops_backend/internal/technicians/domain"
)

// Store is the persistence port for the dispatch coordinator. Every mutating
// method is atomic: the work-status flip on the technician and the lifecycle
// write on the order or request commit together or not at all, and each write
// re-checks its own precondition so concurrent coordinators cannot double
// book a technician or resurrect a finished job.
type Store interface {
	Technician(ctx context.Context, organizationID, id uuid.UUID) (*techdomain.Technician, error)
	ListEligibleTechnicians(ctx context.Context, organizationID uuid.UUID, kind techdomain.Kind) ([]techdomain.Technician, error)
	InstallationOrder(ctx context.Context, organizationID, id uuid.UUID) (*instdomain.Order, error)
	ServiceRequest(ctx context.Context, organizationID, id uuid.UUID) (*reqdomain.Request, error)

	// AssignInstallationTechnician books the technician and records the
	// assignment on the order in one unit.
	AssignInstallationTechnician(ctx context.Context, organizationID, orderID, technicianID uuid.UUID) error

	// CompleteInstallation marks the order done and frees its technician in
	// one unit.
	CompleteInstallation(ctx context.Context, organizationID, orderID, technicianID uuid.UUID) error

	// AssignServiceTechnician books the technician and records the assignment
	// with a pending approval. The request row update keys on
	// observedTechnicianID, the assignee the caller read, so a concurrent
	// reassignment of the same request surfaces as a conflict instead of
	// overwriting it. releaseTechnicianID, when set, is freed in the same
	// unit.
	AssignServiceTechnician(ctx context.Context, organizationID, requestID, technicianID uuid.UUID, observedTechnicianID, releaseTechnicianID *uuid.UUID) error

	// RecordServiceDecision stores the technician's accept or reject; a
	// reject frees the technician in the same unit.
	RecordServiceDecision(ctx context.Context, organizationID, requestID, technicianID uuid.UUID, decision reqdomain.Decision) error

	// CloseServiceRequest closes the request and frees its technician in one
	// unit.
	CloseServiceRequest(ctx context.Context, organizationID, requestID, technicianID uuid.UUID) error

	// RemoveServiceTechnician detaches the technician from the request and
	// frees them in one unit.
	RemoveServiceTechnician(ctx context.Context, organizationID, requestID, technicianID uuid.UUID) error
}
