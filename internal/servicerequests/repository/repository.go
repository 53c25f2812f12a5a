// Package repository provides database operations for service requests.
package repository

import (
	"context"
	"errors"
	"fmt"

	"aquaops_backend/internal/servicerequests/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `id, organization_id, device_id, user_id, service_type,
	location, status, technician_approval_status, assigned_technician_id,
	rejection_count, created_at, updated_at`

// Repository provides database operations for service requests.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new service requests repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var req domain.Request
	var approval *string
	err := row.Scan(
		&req.ID, &req.OrganizationID, &req.DeviceID, &req.UserID, &req.ServiceType,
		&req.Location, &req.Status, &approval, &req.AssignedTechnicianID,
		&req.RejectionCount, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound()
		}
		return nil, fmt.Errorf("failed to scan service request: %w", err)
	}
	if approval != nil {
		req.Approval = domain.ApprovalStatus(*approval)
	}
	return &req, nil
}

// Create inserts a new service request.
func (r *Repository) Create(ctx context.Context, req *domain.Request) error {
	query := `
		INSERT INTO service_requests (
			id, organization_id, device_id, user_id, service_type,
			location, status, technician_approval_status, assigned_technician_id,
			rejection_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.OrganizationID, req.DeviceID, req.UserID, req.ServiceType,
		req.Location, req.Status, approvalParam(req.Approval), req.AssignedTechnicianID,
		req.RejectionCount, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}

	return nil
}

// approvalParam maps the zero approval value to SQL NULL.
func approvalParam(approval domain.ApprovalStatus) *string {
	if approval == domain.ApprovalAbsent {
		return nil
	}
	s := string(approval)
	return &s
}

// GetByID retrieves a service request scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE id = $1 AND organization_id = $2`
	return scanRequest(r.pool.QueryRow(ctx, query, id, organizationID))
}

// List returns service requests for an organization, newest first. An empty
// status lists everything.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID, status domain.Status) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE organization_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.Request, 0)
	for rows.Next() {
		var req domain.Request
		var approval *string
		if err := rows.Scan(
			&req.ID, &req.OrganizationID, &req.DeviceID, &req.UserID, &req.ServiceType,
			&req.Location, &req.Status, &approval, &req.AssignedTechnicianID,
			&req.RejectionCount, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service request row: %w", err)
		}
		if approval != nil {
			req.Approval = domain.ApprovalStatus(*approval)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// AssignTechnicianTx records an assignment inside the caller's transaction and
// resets the approval to pending. Works for both first assignment and
// reassignment. The update keys on the assignee the caller observed, so two
// operators racing on the same request cannot overwrite each other's
// assignment and strand the loser's technician busy.
func (r *Repository) AssignTechnicianTx(ctx context.Context, tx pgx.Tx, organizationID, id, technicianID uuid.UUID, observedTechnicianID *uuid.UUID) error {
	query := `UPDATE service_requests
		SET assigned_technician_id = $3, technician_approval_status = 'pending', updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND status = 'open'
		  AND assigned_technician_id IS NOT DISTINCT FROM $4`

	result, err := tx.Exec(ctx, query, id, organizationID, technicianID, observedTechnicianID)
	if err != nil {
		return fmt.Errorf("failed to assign technician to request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssignmentConflict()
	}

	return nil
}

// SetDecisionTx records the technician's accept or reject inside the caller's
// transaction. A rejection bumps the rejection counter so operators can see
// how often a request bounced. The update keys on the deciding technician, so
// a decision raced by a reassignment cannot act on the new assignee's pending
// approval.
func (r *Repository) SetDecisionTx(ctx context.Context, tx pgx.Tx, organizationID, id, technicianID uuid.UUID, decision domain.Decision) error {
	query := `UPDATE service_requests
		SET technician_approval_status = $3,
		    rejection_count = rejection_count + CASE WHEN $3 = 'rejected' THEN 1 ELSE 0 END,
		    updated_at = now()
		WHERE id = $1 AND organization_id = $2
		  AND status = 'open' AND technician_approval_status = 'pending'
		  AND assigned_technician_id = $4`

	result, err := tx.Exec(ctx, query, id, organizationID, string(decision), technicianID)
	if err != nil {
		return fmt.Errorf("failed to record technician decision: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNoPendingDecision()
	}

	return nil
}

// CloseTx moves the request to closed inside the caller's transaction. Only an
// open request whose given technician has accepted closes; the assignee guard
// keeps a raced closure from freeing a technician it did not close for.
func (r *Repository) CloseTx(ctx context.Context, tx pgx.Tx, organizationID, id, technicianID uuid.UUID) error {
	query := `UPDATE service_requests
		SET status = 'closed', updated_at = now()
		WHERE id = $1 AND organization_id = $2
		  AND status = 'open' AND technician_approval_status = 'accepted'
		  AND assigned_technician_id = $3`

	result, err := tx.Exec(ctx, query, id, organizationID, technicianID)
	if err != nil {
		return fmt.Errorf("failed to close service request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrCloseRequiresAcceptance()
	}

	return nil
}

// RemoveTechnicianTx detaches the given technician inside the caller's
// transaction, returning the request to the unassigned open state. The
// assignee guard keeps a raced removal from detaching a different technician
// than the one being freed.
func (r *Repository) RemoveTechnicianTx(ctx context.Context, tx pgx.Tx, organizationID, id, technicianID uuid.UUID) error {
	query := `UPDATE service_requests
		SET assigned_technician_id = NULL, technician_approval_status = NULL, updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND status = 'open'
		  AND assigned_technician_id = $3`

	result, err := tx.Exec(ctx, query, id, organizationID, technicianID)
	if err != nil {
		return fmt.Errorf("failed to remove technician from request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssignmentConflict()
	}

	return nil
}
