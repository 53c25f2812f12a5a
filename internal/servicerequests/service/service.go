package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aquaops_backend/internal/servicerequests/domain"
	"aquaops_backend/internal/servicerequests/repository"
	"aquaops_backend/internal/servicerequests/transport"
	"aquaops_backend/platform/logger"
)

// Service provides business logic for service requests.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new service requests service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create files a new open service request with no technician assigned.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateRequestRequest) (transport.RequestResponse, error) {
	now := time.Now().UTC()
	request := &domain.Request{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		DeviceID:       req.DeviceID,
		UserID:         req.UserID,
		ServiceType:    req.ServiceType,
		Location:       req.Location,
		Status:         domain.StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("service request created", "id", request.ID, "organizationId", organizationID, "serviceType", req.ServiceType)
	return ToResponse(request), nil
}

// GetByID retrieves a service request by ID.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.RequestResponse, error) {
	request, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	return ToResponse(request), nil
}

// List retrieves service requests for the organization, optionally filtered
// by status.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, req transport.ListRequestsRequest) (transport.RequestListResponse, error) {
	items, err := s.repo.List(ctx, organizationID, domain.Status(req.Status))
	if err != nil {
		return transport.RequestListResponse{}, err
	}

	responses := make([]transport.RequestResponse, len(items))
	for i := range items {
		responses[i] = ToResponse(&items[i])
	}
	return transport.RequestListResponse{Items: responses, Total: len(responses)}, nil
}

// ToResponse converts a domain request to its transport response. Exported so
// the dispatch handlers can return the same shape after lifecycle actions.
func ToResponse(request *domain.Request) transport.RequestResponse {
	return transport.RequestResponse{
		ID:                   request.ID,
		DeviceID:             request.DeviceID,
		UserID:               request.UserID,
		ServiceType:          request.ServiceType,
		Location:             request.Location,
		Status:               string(request.Status),
		TechnicianApproval:   string(request.Approval),
		AssignedTechnicianID: request.AssignedTechnicianID,
		RejectionCount:       request.RejectionCount,
		Reassignable:         request.Reassignable(),
		CreatedAt:            request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            request.UpdatedAt.Format(time.RFC3339),
	}
}
