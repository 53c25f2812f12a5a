package transport

import "github.com/google/uuid"

// CreateRequestRequest contains data for filing a new service request.
type CreateRequestRequest struct {
	DeviceID    uuid.UUID `json:"deviceId" validate:"required"`
	UserID      uuid.UUID `json:"userId" validate:"required"`
	ServiceType string    `json:"serviceType" validate:"required,min=1,max=100"`
	Location    string    `json:"location" validate:"required,min=1,max=255"`
}

// ListRequestsRequest filters the request listing.
type ListRequestsRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=open closed"`
}

// RequestResponse represents a service request in API responses.
type RequestResponse struct {
	ID                   uuid.UUID  `json:"id"`
	DeviceID             uuid.UUID  `json:"deviceId"`
	UserID               uuid.UUID  `json:"userId"`
	ServiceType          string     `json:"serviceType"`
	Location             string     `json:"location"`
	Status               string     `json:"status"`
	TechnicianApproval   string     `json:"technicianApprovalStatus,omitempty"`
	AssignedTechnicianID *uuid.UUID `json:"assignedTechnicianId,omitempty"`
	RejectionCount       int        `json:"rejectionCount"`
	Reassignable         bool       `json:"reassignable"`
	CreatedAt            string     `json:"createdAt"`
	UpdatedAt            string     `json:"updatedAt"`
}

// RequestListResponse wraps a list of service requests.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Total int               `json:"total"`
}
