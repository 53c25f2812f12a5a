package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aquaops_backend/internal/installations/domain"
	"aquaops_backend/internal/installations/repository"
	"aquaops_backend/internal/installations/transport"
	"aquaops_backend/platform/logger"
)

// Service provides business logic for installation orders.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new installation orders service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create opens a new installation order awaiting technician assignment.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	now := time.Now().UTC()
	order := &domain.Order{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		CustomerID:     req.CustomerID,
		PlanID:         req.PlanID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.Info("installation order created", "id", order.ID, "organizationId", organizationID)
	return ToResponse(order), nil
}

// GetByID retrieves an installation order by ID.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return ToResponse(order), nil
}

// List retrieves all installation orders for the organization.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID) (transport.OrderListResponse, error) {
	items, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return transport.OrderListResponse{}, err
	}

	responses := make([]transport.OrderResponse, len(items))
	for i := range items {
		responses[i] = ToResponse(&items[i])
	}
	return transport.OrderListResponse{Items: responses, Total: len(responses)}, nil
}

// UpdateStages records payment and KYC progress reported by the upstream
// billing and verification flows.
func (s *Service) UpdateStages(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateStagesRequest) (transport.OrderResponse, error) {
	order, err := s.repo.UpdateStages(ctx, organizationID, id, *req.PaymentReceived, *req.KycVerified)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	s.log.Info("installation order stages updated", "id", id,
		"paymentReceived", *req.PaymentReceived, "kycVerified", *req.KycVerified)
	return ToResponse(order), nil
}

// ToResponse converts a domain order to its transport response. Exported so
// the dispatch handlers can return the same shape after lifecycle actions.
func ToResponse(order *domain.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		PlanID:     order.PlanID,
		State:      string(order.State()),
		Stages: transport.StagesResponse{
			PaymentReceived:       order.Stages.PaymentReceived,
			KycVerified:           order.Stages.KycVerified,
			TechnicianAssigned:    order.Stages.TechnicianAssigned,
			InstallationCompleted: order.Stages.InstallationCompleted,
		},
		AssignedTechnicianID: order.AssignedTechnicianID,
		CreatedAt:            order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            order.UpdatedAt.Format(time.RFC3339),
	}
}
