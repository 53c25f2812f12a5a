package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aquaops_backend/internal/technicians/domain"
	"aquaops_backend/internal/technicians/repository"
	"aquaops_backend/internal/technicians/transport"
	"aquaops_backend/platform/apperr"
	"aquaops_backend/platform/logger"
	"aquaops_backend/platform/phone"
)

// Service provides business logic for the technician registry.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new technicians service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create registers a new technician. New technicians start free, active and
// with KYC pending, so they become dispatchable only after a KYC approval.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateTechnicianRequest) (transport.TechnicianResponse, error) {
	kind := domain.Kind(req.Kind)
	if !domain.ValidKind(kind) {
		return transport.TechnicianResponse{}, apperr.BadRequest("unknown technician kind")
	}

	normalized, err := phone.NormalizeE164(req.Phone)
	if err != nil {
		return transport.TechnicianResponse{}, apperr.Validation("invalid phone number")
	}

	now := time.Now().UTC()
	tech := &domain.Technician{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          normalized,
		Kind:           kind,
		IsActive:       true,
		WorkStatus:     domain.WorkStatusFree,
		KycStatus:      domain.KycStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, tech); err != nil {
		return transport.TechnicianResponse{}, err
	}

	s.log.Info("technician registered", "id", tech.ID, "organizationId", organizationID, "kind", tech.Kind)
	return toResponse(tech), nil
}

// GetByID retrieves a technician by ID.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.TechnicianResponse{}, err
	}
	return toResponse(tech), nil
}

// List retrieves all technicians for the organization.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID) (transport.TechnicianListResponse, error) {
	items, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return transport.TechnicianListResponse{}, err
	}
	return toListResponse(items), nil
}

// SetKycStatus records the outcome of a KYC review. The update is refused
// while the technician is on duty.
func (s *Service) SetKycStatus(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateKycRequest) (transport.TechnicianResponse, error) {
	status := domain.KycStatus(req.Status)
	if !domain.ValidKycStatus(status) {
		return transport.TechnicianResponse{}, apperr.BadRequest("unknown kyc status")
	}

	if err := s.repo.SetKycStatus(ctx, organizationID, id, status); err != nil {
		return transport.TechnicianResponse{}, err
	}

	s.log.Info("technician kyc updated", "id", id, "status", status)
	return s.GetByID(ctx, organizationID, id)
}

// SetActive enables or disables a technician account, with the same on-duty
// freeze as SetKycStatus.
func (s *Service) SetActive(ctx context.Context, organizationID, id uuid.UUID, isActive bool) (transport.TechnicianResponse, error) {
	if err := s.repo.SetActive(ctx, organizationID, id, isActive); err != nil {
		return transport.TechnicianResponse{}, err
	}

	s.log.Info("technician active updated", "id", id, "isActive", isActive)
	return s.GetByID(ctx, organizationID, id)
}

// toResponse converts a domain technician to its transport response.
func toResponse(tech *domain.Technician) transport.TechnicianResponse {
	return transport.TechnicianResponse{
		ID:                tech.ID,
		Name:              tech.Name,
		Email:             tech.Email,
		Phone:             tech.Phone,
		Kind:              string(tech.Kind),
		IsActive:          tech.IsActive,
		WorkStatus:        string(tech.WorkStatus),
		KycApprovalStatus: string(tech.KycStatus),
		Eligible:          tech.Eligible(),
		CreatedAt:         tech.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         tech.UpdatedAt.Format(time.RFC3339),
	}
}

func toListResponse(items []domain.Technician) transport.TechnicianListResponse {
	responses := make([]transport.TechnicianResponse, len(items))
	for i := range items {
		responses[i] = toResponse(&items[i])
	}
	return transport.TechnicianListResponse{Items: responses, Total: len(responses)}
}
