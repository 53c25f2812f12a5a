package transport

import "github.com/google/uuid"

// MintConfirmationRequest asks for a one-time confirmation token for a
// dispatch action on a specific resource.
type MintConfirmationRequest struct {
	Action     string    `json:"action" validate:"required,oneof=assign_installation complete_installation assign_service record_decision close_service remove_technician"`
	ResourceID uuid.UUID `json:"resourceId" validate:"required"`
}

// ConfirmationResponse carries a freshly minted confirmation token.
type ConfirmationResponse struct {
	Token            string    `json:"token"`
	Action           string    `json:"action"`
	ResourceID       uuid.UUID `json:"resourceId"`
	ExpiresInSeconds int       `json:"expiresInSeconds"`
}

// AssignRequest names the technician to dispatch.
type AssignRequest struct {
	TechnicianID uuid.UUID `json:"technicianId" validate:"required"`
}

// DecisionRequest carries a technician's response to a pending assignment.
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected"`
}

// UpdateStatusRequest moves a service request to its terminal state. Closing
// is the only supported transition; a closed request never reopens.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=closed"`
}
