// Package dispatch provides the technician dispatch bounded context module.
// It wires the coordinator over the technician, installation and service
// request repositories and exposes the lifecycle actions over HTTP, each
// gated by a one-time operator confirmation token.
package dispatch

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"aquaops_backend/internal/dispatch/confirm"
	"aquaops_backend/internal/dispatch/handler"
	"aquaops_backend/internal/dispatch/service"
	dispatchstore "aquaops_backend/internal/dispatch/store"
	"aquaops_backend/internal/events"
	apphttp "aquaops_backend/internal/http"
	instrepo "aquaops_backend/internal/installations/repository"
	reqrepo "aquaops_backend/internal/servicerequests/repository"
	techrepo "aquaops_backend/internal/technicians/repository"
	"aquaops_backend/platform/config"
	"aquaops_backend/platform/logger"
	"aquaops_backend/platform/validator"
)

// Module is the dispatch bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	coordinator *service.Coordinator
}

// NewModule creates and initializes the dispatch module. It borrows the
// repositories of the registry and lifecycle modules so the coordinator's
// transactions span all three tables.
func NewModule(
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	cfg config.RedisConfig,
	technicians *techrepo.Repository,
	installations *instrepo.Repository,
	requests *reqrepo.Repository,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	store := dispatchstore.NewPostgres(pool, technicians, installations, requests)
	coord := service.NewCoordinator(store, bus, log)
	confirmStore := confirm.New(redisClient, cfg.GetConfirmationTTL())
	h := handler.New(coord, confirmStore, val)

	return &Module{
		handler:     h,
		coordinator: coord,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dispatch"
}

// Coordinator returns the dispatch coordinator for external use.
func (m *Module) Coordinator() *service.Coordinator {
	return m.coordinator
}

// RegisterRoutes mounts dispatch routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/dispatch")
	group.POST("/confirmations", m.handler.MintConfirmation)
	group.GET("/technicians/eligible", m.handler.ListEligibleTechnicians)

	group.POST("/installations/:id/assign", m.handler.AssignInstallation)
	group.POST("/installations/:id/complete", m.handler.CompleteInstallation)

	group.POST("/service-requests/:id/assign", m.handler.AssignService)
	group.POST("/service-requests/:id/decision", m.handler.RecordDecision)
	group.PATCH("/service-requests/:id/status", m.handler.UpdateStatus)
	group.PATCH("/service-requests/:id/technician", m.handler.RemoveTechnician)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
