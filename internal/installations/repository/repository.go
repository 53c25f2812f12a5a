// Package repository provides database operations for installation orders.
package repository

import (
	"context"
	"errors"
	"fmt"

	"aquaops_backend/internal/installations/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, organization_id, customer_id, plan_id,
	payment_received, kyc_verified, technician_assigned, installation_completed,
	assigned_technician_id, created_at, updated_at`

// Repository provides database operations for installation orders.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new installation orders repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.OrganizationID, &order.CustomerID, &order.PlanID,
		&order.Stages.PaymentReceived, &order.Stages.KycVerified,
		&order.Stages.TechnicianAssigned, &order.Stages.InstallationCompleted,
		&order.AssignedTechnicianID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound()
		}
		return nil, fmt.Errorf("failed to scan installation order: %w", err)
	}
	return &order, nil
}

// Create inserts a new installation order.
func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO installation_orders (
			id, organization_id, customer_id, plan_id,
			payment_received, kyc_verified, technician_assigned, installation_completed,
			assigned_technician_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		order.ID, order.OrganizationID, order.CustomerID, order.PlanID,
		order.Stages.PaymentReceived, order.Stages.KycVerified,
		order.Stages.TechnicianAssigned, order.Stages.InstallationCompleted,
		order.AssignedTechnicianID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create installation order: %w", err)
	}

	return nil
}

// GetByID retrieves an installation order scoped to an organization.
func (r *Repository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM installation_orders
		WHERE id = $1 AND organization_id = $2`
	return scanOrder(r.pool.QueryRow(ctx, query, id, organizationID))
}

// List returns all installation orders for an organization, newest first.
func (r *Repository) List(ctx context.Context, organizationID uuid.UUID) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM installation_orders
		WHERE organization_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installation orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.OrganizationID, &order.CustomerID, &order.PlanID,
			&order.Stages.PaymentReceived, &order.Stages.KycVerified,
			&order.Stages.TechnicianAssigned, &order.Stages.InstallationCompleted,
			&order.AssignedTechnicianID, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan installation order row: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStages sets the payment and KYC progress flags written by the upstream
// billing and verification flows. Dispatch-owned flags are not touched here.
func (r *Repository) UpdateStages(ctx context.Context, organizationID, id uuid.UUID, paymentReceived, kycVerified bool) (*domain.Order, error) {
	query := `UPDATE installation_orders
		SET payment_received = $3, kyc_verified = $4, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + orderColumns

	return scanOrder(r.pool.QueryRow(ctx, query, id, organizationID, paymentReceived, kycVerified))
}

// AssignTechnicianTx records the assignment inside the caller's transaction.
// The technician_assigned guard makes the write a compare-and-set: a
// concurrent assignment that landed first leaves zero rows here and the whole
// transaction rolls back.
func (r *Repository) AssignTechnicianTx(ctx context.Context, tx pgx.Tx, organizationID, id, technicianID uuid.UUID) error {
	query := `UPDATE installation_orders
		SET technician_assigned = TRUE, assigned_technician_id = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		  AND NOT technician_assigned AND NOT installation_completed`

	result, err := tx.Exec(ctx, query, id, organizationID, technicianID)
	if err != nil {
		return fmt.Errorf("failed to assign technician to order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAlreadyAssigned()
	}

	return nil
}

// CompleteTx marks the installation done inside the caller's transaction.
func (r *Repository) CompleteTx(ctx context.Context, tx pgx.Tx, organizationID, id uuid.UUID) error {
	query := `UPDATE installation_orders
		SET installation_completed = TRUE, updated_at = now()
		WHERE id = $1 AND organization_id = $2
		  AND technician_assigned AND NOT installation_completed`

	result, err := tx.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to complete installation order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrOrderCompleted()
	}

	return nil
}
