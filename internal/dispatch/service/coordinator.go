// Package service implements the technician dispatch coordinator: the single
// place where technician work status and the lifecycles of installation
// orders and service requests change together.
package service

import (
	"context"

	"github.com/google/uuid"

	"aquaops_backend/internal/events"
	instdomain "aquaops_backend/internal/installations/domain"
	reqdomain "aquaops_backend/internal/servicerequests/domain"
	techdomain "aquaops_backend/internal/technicians/domain"
	"aquaops_backend/platform/apperr"
	"aquaops_backend/platform/logger"
	"aquaops_backend/platform/metrics"
)

// Operation names used in logs and metrics.
const (
	OpAssignInstallation   = "assign_installation"
	OpCompleteInstallation = "complete_installation"
	OpAssignService        = "assign_service"
	OpRecordDecision       = "record_decision"
	OpCloseService         = "close_service"
	OpRemoveTechnician     = "remove_technician"
)

// Coordinator orchestrates dispatch actions. It loads current state, applies
// the domain rules, delegates the combined write to the store and publishes
// the resulting events. All conflict detection lives in the store's atomic
// operations; the up-front domain checks only exist to produce precise
// error messages for the common non-racy failures.
type Coordinator struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

// NewCoordinator creates a new dispatch coordinator.
func NewCoordinator(store Store, bus events.Bus, log *logger.Logger) *Coordinator {
	return &Coordinator{store: store, bus: bus, log: log}
}

// EligibleTechnicians lists technicians currently assignable for the given
// work pool: active, free and KYC-approved.
func (c *Coordinator) EligibleTechnicians(ctx context.Context, organizationID uuid.UUID, kind techdomain.Kind) ([]techdomain.Technician, error) {
	if !techdomain.ValidKind(kind) {
		return nil, apperr.BadRequest("unknown technician kind")
	}
	return c.store.ListEligibleTechnicians(ctx, organizationID, kind)
}

// AssignInstallation dispatches a technician to an installation order. The
// order must still be awaiting assignment and the technician must be eligible
// for installation work.
func (c *Coordinator) AssignInstallation(ctx context.Context, organizationID, orderID, technicianID uuid.UUID) (*instdomain.Order, error) {
	order, err := c.store.InstallationOrder(ctx, organizationID, orderID)
	if err != nil {
		return nil, c.fail(OpAssignInstallation, organizationID, orderID, err)
	}
	if err := order.CheckAssignable(); err != nil {
		return nil, c.fail(OpAssignInstallation, organizationID, orderID, err)
	}

	tech, err := c.store.Technician(ctx, organizationID, technicianID)
	if err != nil {
		return nil, c.fail(OpAssignInstallation, organizationID, orderID, err)
	}
	if err := tech.CheckAssignable(techdomain.KindInstallation); err != nil {
		return nil, c.fail(OpAssignInstallation, organizationID, orderID, err)
	}

	if err := c.store.AssignInstallationTechnician(ctx, organizationID, orderID, technicianID); err != nil {
		return nil, c.fail(OpAssignInstallation, organizationID, orderID, err)
	}

	metrics.RecordDispatchOperation(OpAssignInstallation, nil)
	metrics.RecordAssignment(events.TargetInstallationOrder, false)
	c.log.DispatchEvent(OpAssignInstallation, organizationID.String(), orderID.String(), technicianID.String())
	c.bus.Publish(ctx, events.TechnicianAssigned{
		BaseEvent:       events.NewBaseEvent(),
		OrganizationID:  organizationID,
		TechnicianID:    technicianID,
		TechnicianName:  tech.Name,
		TechnicianEmail: tech.Email,
		Target:          events.TargetInstallationOrder,
		TargetID:        orderID,
	})

	return c.store.InstallationOrder(ctx, organizationID, orderID)
}

// CompleteInstallation confirms on-site completion of an installation order
// and returns its technician to the free pool.
func (c *Coordinator) CompleteInstallation(ctx context.Context, organizationID, orderID uuid.UUID) (*instdomain.Order, error) {
	order, err := c.store.InstallationOrder(ctx, organizationID, orderID)
	if err != nil {
		return nil, c.fail(OpCompleteInstallation, organizationID, orderID, err)
	}
	if err := order.CheckCompletable(); err != nil {
		return nil, c.fail(OpCompleteInstallation, organizationID, orderID, err)
	}

	technicianID := *order.AssignedTechnicianID
	if err := c.store.CompleteInstallation(ctx, organizationID, orderID, technicianID); err != nil {
		return nil, c.fail(OpCompleteInstallation, organizationID, orderID, err)
	}

	metrics.RecordDispatchOperation(OpCompleteInstallation, nil)
	metrics.RecordRelease(events.ReleaseReasonCompleted)
	c.log.DispatchEvent(OpCompleteInstallation, organizationID.String(), orderID.String(), technicianID.String())
	c.bus.Publish(ctx, events.InstallationCompleted{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: organizationID,
		OrderID:        orderID,
		TechnicianID:   technicianID,
	})
	c.publishReleased(ctx, organizationID, technicianID, events.TargetInstallationOrder, orderID, events.ReleaseReasonCompleted)

	return c.store.InstallationOrder(ctx, organizationID, orderID)
}

// AssignService dispatches a technician to a service request, setting the
// approval to pending. Works for first assignment and for any reassignment
// while the request is open; a previous technician still holding the request
// is freed in the same store operation.
func (c *Coordinator) AssignService(ctx context.Context, organizationID, requestID, technicianID uuid.UUID) (*reqdomain.Request, error) {
	request, err := c.store.ServiceRequest(ctx, organizationID, requestID)
	if err != nil {
		return nil, c.fail(OpAssignService, organizationID, requestID, err)
	}
	if err := request.CheckAssignable(); err != nil {
		return nil, c.fail(OpAssignService, organizationID, requestID, err)
	}

	tech, err := c.store.Technician(ctx, organizationID, technicianID)
	if err != nil {
		return nil, c.fail(OpAssignService, organizationID, requestID, err)
	}
	if err := tech.CheckAssignable(techdomain.KindService); err != nil {
		return nil, c.fail(OpAssignService, organizationID, requestID, err)
	}

	// The request row write keys on the assignee we read, so a concurrent
	// reassignment conflicts instead of being overwritten. A rejected
	// assignment already freed its technician at decision time; a pending or
	// accepted one is still holding its worker and is freed here.
	observed := request.AssignedTechnicianID
	var release *uuid.UUID
	if request.AssignedTechnicianID != nil && request.Approval != reqdomain.ApprovalRejected {
		release = request.AssignedTechnicianID
	}

	if err := c.store.AssignServiceTechnician(ctx, organizationID, requestID, technicianID, observed, release); err != nil {
		return nil, c.fail(OpAssignService, organizationID, requestID, err)
	}

	reassignment := request.AssignedTechnicianID != nil
	metrics.RecordDispatchOperation(OpAssignService, nil)
	metrics.RecordAssignment(events.TargetServiceRequest, reassignment)
	if release != nil {
		metrics.RecordRelease(events.ReleaseReasonRemoved)
		c.publishReleased(ctx, organizationID, *release, events.TargetServiceRequest, requestID, events.ReleaseReasonRemoved)
	}
	c.log.DispatchEvent(OpAssignService, organizationID.String(), requestID.String(), technicianID.String())
	c.bus.Publish(ctx, events.TechnicianAssigned{
		BaseEvent:       events.NewBaseEvent(),
		OrganizationID:  organizationID,
		TechnicianID:    technicianID,
		TechnicianName:  tech.Name,
		TechnicianEmail: tech.Email,
		Target:          events.TargetServiceRequest,
		TargetID:        requestID,
		Reassignment:    reassignment,
	})

	return c.store.ServiceRequest(ctx, organizationID, requestID)
}

// RecordDecision surfaces the technician's accept or reject of a pending
// service assignment. A reject frees the technician and leaves the request
// open for reassignment.
func (c *Coordinator) RecordDecision(ctx context.Context, organizationID, requestID uuid.UUID, decision reqdomain.Decision) (*reqdomain.Request, error) {
	request, err := c.store.ServiceRequest(ctx, organizationID, requestID)
	if err != nil {
		return nil, c.fail(OpRecordDecision, organizationID, requestID, err)
	}
	if err := request.CheckDecision(decision); err != nil {
		return nil, c.fail(OpRecordDecision, organizationID, requestID, err)
	}

	technicianID := *request.AssignedTechnicianID
	if err := c.store.RecordServiceDecision(ctx, organizationID, requestID, technicianID, decision); err != nil {
		return nil, c.fail(OpRecordDecision, organizationID, requestID, err)
	}

	metrics.RecordDispatchOperation(OpRecordDecision, nil)
	c.log.DispatchEvent(OpRecordDecision, organizationID.String(), requestID.String(), technicianID.String())
	c.bus.Publish(ctx, events.TechnicianDecisionRecorded{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: organizationID,
		RequestID:      requestID,
		TechnicianID:   technicianID,
		Decision:       string(decision),
	})
	if decision == reqdomain.DecisionRejected {
		metrics.RecordRelease(events.ReleaseReasonRejected)
		c.publishReleased(ctx, organizationID, technicianID, events.TargetServiceRequest, requestID, events.ReleaseReasonRejected)
	}

	return c.store.ServiceRequest(ctx, organizationID, requestID)
}

// CloseService moves an accepted service request to its terminal closed state
// and returns the technician to the free pool.
func (c *Coordinator) CloseService(ctx context.Context, organizationID, requestID uuid.UUID) (*reqdomain.Request, error) {
	request, err := c.store.ServiceRequest(ctx, organizationID, requestID)
	if err != nil {
		return nil, c.fail(OpCloseService, organizationID, requestID, err)
	}
	if err := request.CheckClosable(); err != nil {
		return nil, c.fail(OpCloseService, organizationID, requestID, err)
	}

	technicianID := *request.AssignedTechnicianID
	if err := c.store.CloseServiceRequest(ctx, organizationID, requestID, technicianID); err != nil {
		return nil, c.fail(OpCloseService, organizationID, requestID, err)
	}

	metrics.RecordDispatchOperation(OpCloseService, nil)
	metrics.RecordRelease(events.ReleaseReasonClosed)
	c.log.DispatchEvent(OpCloseService, organizationID.String(), requestID.String(), technicianID.String())
	c.bus.Publish(ctx, events.ServiceRequestClosed{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: organizationID,
		RequestID:      requestID,
		TechnicianID:   technicianID,
	})
	c.publishReleased(ctx, organizationID, technicianID, events.TargetServiceRequest, requestID, events.ReleaseReasonClosed)

	return c.store.ServiceRequest(ctx, organizationID, requestID)
}

// RemoveTechnician detaches the assigned technician from an open service
// request, freeing them and returning the request to its unassigned state.
func (c *Coordinator) RemoveTechnician(ctx context.Context, organizationID, requestID uuid.UUID) (*reqdomain.Request, error) {
	request, err := c.store.ServiceRequest(ctx, organizationID, requestID)
	if err != nil {
		return nil, c.fail(OpRemoveTechnician, organizationID, requestID, err)
	}
	if request.Status == reqdomain.StatusClosed {
		return nil, c.fail(OpRemoveTechnician, organizationID, requestID, reqdomain.ErrRequestClosed())
	}
	if request.AssignedTechnicianID == nil {
		return nil, c.fail(OpRemoveTechnician, organizationID, requestID, reqdomain.ErrNoTechnicianAssigned())
	}

	technicianID := *request.AssignedTechnicianID
	if err := c.store.RemoveServiceTechnician(ctx, organizationID, requestID, technicianID); err != nil {
		return nil, c.fail(OpRemoveTechnician, organizationID, requestID, err)
	}

	metrics.RecordDispatchOperation(OpRemoveTechnician, nil)
	metrics.RecordRelease(events.ReleaseReasonRemoved)
	c.log.DispatchEvent(OpRemoveTechnician, organizationID.String(), requestID.String(), technicianID.String())
	c.publishReleased(ctx, organizationID, technicianID, events.TargetServiceRequest, requestID, events.ReleaseReasonRemoved)

	return c.store.ServiceRequest(ctx, organizationID, requestID)
}

func (c *Coordinator) publishReleased(ctx context.Context, organizationID, technicianID uuid.UUID, target string, targetID uuid.UUID, reason string) {
	tech, err := c.store.Technician(ctx, organizationID, technicianID)
	if err != nil {
		c.log.Warn("failed to load released technician for event", "technicianId", technicianID, "error", err)
		return
	}
	c.bus.Publish(ctx, events.TechnicianReleased{
		BaseEvent:       events.NewBaseEvent(),
		OrganizationID:  organizationID,
		TechnicianID:    technicianID,
		TechnicianName:  tech.Name,
		TechnicianEmail: tech.Email,
		Target:          target,
		TargetID:        targetID,
		Reason:          reason,
	})
}

// fail records the outcome of a refused or errored dispatch operation.
func (c *Coordinator) fail(operation string, organizationID, targetID uuid.UUID, err error) error {
	metrics.RecordDispatchOperation(operation, err)
	c.log.DispatchRejected(operation, organizationID.String(), targetID.String(), err.Error())
	return err
}
