package transport

import "github.com/google/uuid"

// CreateTechnicianRequest contains data for registering a new technician.
type CreateTechnicianRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,min=5,max=20"`
	Kind  string `json:"kind" validate:"required,oneof=installation service any"`
}

// UpdateKycRequest sets the outcome of a KYC review.
type UpdateKycRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// UpdateActiveRequest enables or disables a technician account.
type UpdateActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// TechnicianResponse represents a technician in API responses.
type TechnicianResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Kind              string    `json:"kind"`
	IsActive          bool      `json:"isActive"`
	WorkStatus        string    `json:"workStatus"`
	KycApprovalStatus string    `json:"kycApprovalStatus"`
	Eligible          bool      `json:"eligible"`
	CreatedAt         string    `json:"createdAt"`
	UpdatedAt         string    `json:"updatedAt"`
}

// TechnicianListResponse wraps a list of technicians.
type TechnicianListResponse struct {
	Items []TechnicianResponse `json:"items"`
	Total int                  `json:"total"`
}
