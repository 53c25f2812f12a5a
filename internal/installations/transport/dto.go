package transport

import "github.com/google/uuid"

// CreateOrderRequest contains data for creating a new installation order.
type CreateOrderRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	PlanID     uuid.UUID `json:"planId" validate:"required"`
}

// UpdateStagesRequest sets the upstream billing and verification flags on an
// order. The dispatch-owned flags have their own endpoints.
type UpdateStagesRequest struct {
	PaymentReceived *bool `json:"paymentReceived" validate:"required"`
	KycVerified     *bool `json:"kycVerified" validate:"required"`
}

// StagesResponse is the per-order progress record in API responses.
type StagesResponse struct {
	PaymentReceived       bool `json:"paymentReceived"`
	KycVerified           bool `json:"kycVerified"`
	TechnicianAssigned    bool `json:"technicianAssigned"`
	InstallationCompleted bool `json:"installationCompleted"`
}

// OrderResponse represents an installation order in API responses.
type OrderResponse struct {
	ID                   uuid.UUID      `json:"id"`
	CustomerID           uuid.UUID      `json:"customerId"`
	PlanID               uuid.UUID      `json:"planId"`
	State                string         `json:"state"`
	Stages               StagesResponse `json:"stages"`
	AssignedTechnicianID *uuid.UUID     `json:"assignedTechnicianId,omitempty"`
	CreatedAt            string         `json:"createdAt"`
	UpdatedAt            string         `json:"updatedAt"`
}

// OrderListResponse wraps a list of installation orders.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int             `json:"total"`
}
