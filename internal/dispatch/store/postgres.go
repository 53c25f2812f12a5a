// Package store provides the postgres-backed persistence for the dispatch
// coordinator. Each mutating method runs one transaction combining the
// technician work-status flip with the lifecycle write it belongs to.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	instdomain "aquaops_backend/internal/installations/domain"
	instrepo "aquaops_backend/internal/installations/repository"
	reqdomain "aquaops_backend/internal/servicerequests/domain"
	reqrepo "aquaops_backend/internal/servicerequests/repository"
	techdomain "aquaops_backend/internal/technicians/domain"
	techrepo "aquaops_backend/internal/technicians/repository"
)

// Postgres implements the dispatch store on top of the module repositories.
type Postgres struct {
	pool          *pgxpool.Pool
	technicians   *techrepo.Repository
	installations *instrepo.Repository
	requests      *reqrepo.Repository
}

// NewPostgres creates a new postgres dispatch store.
func NewPostgres(pool *pgxpool.Pool, technicians *techrepo.Repository, installations *instrepo.Repository, requests *reqrepo.Repository) *Postgres {
	return &Postgres{
		pool:          pool,
		technicians:   technicians,
		installations: installations,
		requests:      requests,
	}
}

func (s *Postgres) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin dispatch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Technician loads a technician for dispatch checks.
func (s *Postgres) Technician(ctx context.Context, organizationID, id uuid.UUID) (*techdomain.Technician, error) {
	return s.technicians.GetByID(ctx, organizationID, id)
}

// ListEligibleTechnicians lists dispatchable technicians for a work pool.
func (s *Postgres) ListEligibleTechnicians(ctx context.Context, organizationID uuid.UUID, kind techdomain.Kind) ([]techdomain.Technician, error) {
	return s.technicians.ListEligible(ctx, organizationID, kind)
}

// InstallationOrder loads an installation order for dispatch checks.
func (s *Postgres) InstallationOrder(ctx context.Context, organizationID, id uuid.UUID) (*instdomain.Order, error) {
	return s.installations.GetByID(ctx, organizationID, id)
}

// ServiceRequest loads a service request for dispatch checks.
func (s *Postgres) ServiceRequest(ctx context.Context, organizationID, id uuid.UUID) (*reqdomain.Request, error) {
	return s.requests.GetByID(ctx, organizationID, id)
}

// AssignInstallationTechnician books the technician and records the order
// assignment in one transaction.
func (s *Postgres) AssignInstallationTechnician(ctx context.Context, organizationID, orderID, technicianID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.technicians.MarkBusyTx(ctx, tx, organizationID, technicianID, techdomain.KindInstallation); err != nil {
			return err
		}
		return s.installations.AssignTechnicianTx(ctx, tx, organizationID, orderID, technicianID)
	})
}

// CompleteInstallation marks the order done and frees its technician in one
// transaction.
func (s *Postgres) CompleteInstallation(ctx context.Context, organizationID, orderID, technicianID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.installations.CompleteTx(ctx, tx, organizationID, orderID); err != nil {
			return err
		}
		return s.technicians.MarkFreeTx(ctx, tx, organizationID, technicianID)
	})
}

// AssignServiceTechnician books the technician, records the pending
// assignment conditional on the assignee the caller observed, and frees a
// still-working previous technician, all in one transaction.
func (s *Postgres) AssignServiceTechnician(ctx context.Context, organizationID, requestID, technicianID uuid.UUID, observedTechnicianID, releaseTechnicianID *uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.technicians.MarkBusyTx(ctx, tx, organizationID, technicianID, techdomain.KindService); err != nil {
			return err
		}
		if err := s.requests.AssignTechnicianTx(ctx, tx, organizationID, requestID, technicianID, observedTechnicianID); err != nil {
			return err
		}
		if releaseTechnicianID != nil && *releaseTechnicianID != technicianID {
			return s.technicians.MarkFreeTx(ctx, tx, organizationID, *releaseTechnicianID)
		}
		return nil
	})
}

// RecordServiceDecision stores the technician's decision; a reject frees the
// technician in the same transaction.
func (s *Postgres) RecordServiceDecision(ctx context.Context, organizationID, requestID, technicianID uuid.UUID, decision reqdomain.Decision) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.requests.SetDecisionTx(ctx, tx, organizationID, requestID, technicianID, decision); err != nil {
			return err
		}
		if decision == reqdomain.DecisionRejected {
			return s.technicians.MarkFreeTx(ctx, tx, organizationID, technicianID)
		}
		return nil
	})
}

// CloseServiceRequest closes the request and frees its technician in one
// transaction.
func (s *Postgres) CloseServiceRequest(ctx context.Context, organizationID, requestID, technicianID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.requests.CloseTx(ctx, tx, organizationID, requestID, technicianID); err != nil {
			return err
		}
		return s.technicians.MarkFreeTx(ctx, tx, organizationID, technicianID)
	})
}

// RemoveServiceTechnician detaches the technician from the request and frees
// them in one transaction.
func (s *Postgres) RemoveServiceTechnician(ctx context.Context, organizationID, requestID, technicianID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.requests.RemoveTechnicianTx(ctx, tx, organizationID, requestID, technicianID); err != nil {
			return err
		}
		return s.technicians.MarkFreeTx(ctx, tx, organizationID, technicianID)
	})
}
