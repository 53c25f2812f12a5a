// Package repository provides database operations for the technician registry.
package repository

import (
	"context"
	"errors"
	"fmt"

	"aquaops_backend/internal/technicians/domain"
	"aquaops_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const technicianColumns = `id, organization_id, name, email, phone, kind,
	is_active, work_status, kyc_approval_status, created_at, updated_at`

// Repository provides database operations for technicians.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new technicians repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTechnician(row pgx.Row) (*domain.Technician, error) {
	var tech domain.Technician
	err := row.Scan(
		&tech.ID, &tech.OrganizationID, &tech.Name, &tech.Email, &tech.Phone,
		&tech.Kind, &tech.IsActive, &tech.WorkStatus, &tech.KycStatus,
		&tech.CreatedAt, &tech.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound()
		}
		return nil, fmt.Errorf("failed to scan technician: %w", err)
	}
	return &tech, nil
}

// Create inserts a new technician.
func (r *Repository) Create(ctx context.Context, tech *domain.Technician) error {
	query := `
		INSERT INTO technicians (
			id, organization_id, name, email, phone, kind,
			is_active, work_status, kyc_approval_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		tech.ID, tech.OrganizationID, tech.Name, tech.Email, tech.Phone, tech.Kind,
		tech.IsActive, tech.WorkStatus, tech.KycStatus, tech.CreatedAt, tech.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}

	return nil
}

// GetByID retrieves a technician scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians
		WHERE id = $1 AND organization_id = $2`
	return scanTechnician(r.pool.QueryRow(ctx, query, id, organizationID))
}

// List returns all technicians for an organization, newest first.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians
		WHERE organization_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	return collectTechnicians(rows)
}

// ListEligible returns technicians that can take on new work in the given
// pool: active, free and KYC-approved. This is the single derivation used by
// every assignment selector.
func (r *Repository) ListEligible(ctx context.Context, organizationID uuid.UUID, kind domain.Kind) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians
		WHERE organization_id = $1
		  AND is_active
		  AND work_status = 'free'
		  AND kyc_approval_status = 'approved'
		  AND ($2 = 'any' OR kind = 'any' OR kind = $2)
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, organizationID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible technicians: %w", err)
	}
	defer rows.Close()

	return collectTechnicians(rows)
}

func collectTechnicians(rows pgx.Rows) ([]domain.Technician, error) {
	technicians := make([]domain.Technician, 0)
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID, &tech.OrganizationID, &tech.Name, &tech.Email, &tech.Phone,
			&tech.Kind, &tech.IsActive, &tech.WorkStatus, &tech.KycStatus,
			&tech.CreatedAt, &tech.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan technician row: %w", err)
		}
		technicians = append(technicians, tech)
	}
	return technicians, rows.Err()
}

// SetKycStatus updates a technician's KYC approval status. The guard on
// work_status implements the "on-duty technician cannot be modified" rule as
// a compare-and-set: a technician who went busy between read and write is
// rejected, not overwritten.
func (r *Repository) SetKycStatus(ctx context.Context, organizationID, id uuid.UUID, status domain.KycStatus) error {
	query := `UPDATE technicians
		SET kyc_approval_status = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND work_status = 'free'`

	result, err := r.pool.Exec(ctx, query, id, organizationID, status)
	if err != nil {
		return fmt.Errorf("failed to set kyc status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.explainModifyFailure(ctx, organizationID, id)
	}

	return nil
}

// SetActive enables or disables a technician account, with the same busy
// freeze as SetKycStatus.
func (r *Repository) SetActive(ctx context.Context, organizationID, id uuid.UUID, isActive bool) error {
	query := `UPDATE technicians
		SET is_active = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND work_status = 'free'`

	result, err := r.pool.Exec(ctx, query, id, organizationID, isActive)
	if err != nil {
		return fmt.Errorf("failed to set active flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.explainModifyFailure(ctx, organizationID, id)
	}

	return nil
}

// explainModifyFailure distinguishes an unknown technician from a busy one
// after a zero-row registry update.
func (r *Repository) explainModifyFailure(ctx context.Context, organizationID, id uuid.UUID) error {
	tech, err := r.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if err := tech.CheckModifiable(); err != nil {
		return err
	}
	return apperr.Internal("technician update affected no rows")
}

// MarkBusyTx flips a technician to busy inside the caller's transaction. The
// WHERE clause is the eligibility compare-and-set from the concurrency model:
// two operators racing for the same technician serialize on this row, and the
// loser gets ErrNotEligible with no state change.
func (r *Repository) MarkBusyTx(ctx context.Context, tx pgx.Tx, organizationID, id uuid.UUID, kind domain.Kind) error {
	query := `UPDATE technicians
		SET work_status = 'busy', updated_at = now()
		WHERE id = $1 AND organization_id = $2
		  AND is_active
		  AND work_status = 'free'
		  AND kyc_approval_status = 'approved'
		  AND ($3 = 'any' OR kind = 'any' OR kind = $3)`

	result, err := tx.Exec(ctx, query, id, organizationID, kind)
	if err != nil {
		return fmt.Errorf("failed to mark technician busy: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotEligible()
	}

	return nil
}

// MarkFreeTx returns a technician to the free pool inside the caller's
// transaction. Idempotent: freeing an already free technician is a no-op.
func (r *Repository) MarkFreeTx(ctx context.Context, tx pgx.Tx, organizationID, id uuid.UUID) error {
	query := `UPDATE technicians
		SET work_status = 'free', updated_at = now()
		WHERE id = $1 AND organization_id = $2`

	if _, err := tx.Exec(ctx, query, id, organizationID); err != nil {
		return fmt.Errorf("failed to mark technician free: %w", err)
	}

	return nil
}
