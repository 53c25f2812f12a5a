// Package technicians provides the technician registry bounded context module.
// It owns the roster of field workers, their KYC review status and their
// activation flag; the dispatch module borrows its repository for the
// work-status transitions.
package technicians

import (
	apphttp "aquaops_backend/internal/http"
	"aquaops_backend/internal/technicians/handler"
	"aquaops_backend/internal/technicians/repository"
	"aquaops_backend/internal/technicians/service"
	"aquaops_backend/platform/logger"
	"aquaops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the technicians bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the technicians module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "technicians"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the dispatch store.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts technician registry routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/technicians")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id/kyc", m.handler.UpdateKyc)
	group.PATCH("/:id/active", m.handler.UpdateActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
