// Package servicerequests provides the service requests bounded context
// module. It owns request intake and listing; the assignment, decision and
// closure transitions belong to dispatch.
package servicerequests

import (
	apphttp "aquaops_backend/internal/http"
	"aquaops_backend/internal/servicerequests/handler"
	"aquaops_backend/internal/servicerequests/repository"
	"aquaops_backend/internal/servicerequests/service"
	"aquaops_backend/platform/logger"
	"aquaops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the service requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the service requests module with all its dependencies.
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
	return "servicerequests"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the dispatch store.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts service request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/service-requests")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
