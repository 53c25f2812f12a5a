package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aquaops_backend/internal/dispatch/confirm"
	"aquaops_backend/internal/dispatch/service"
	"aquaops_backend/internal/dispatch/transport"
	instservice "aquaops_backend/internal/installations/service"
	reqdomain "aquaops_backend/internal/servicerequests/domain"
	reqservice "aquaops_backend/internal/servicerequests/service"
	techdomain "aquaops_backend/internal/technicians/domain"
	techtransport "aquaops_backend/internal/technicians/transport"
	"aquaops_backend/platform/httpkit"
	"aquaops_backend/platform/validator"
)

// confirmationHeader carries the one-time token redeemed before any
// state-changing dispatch action.
const confirmationHeader = "X-Confirmation-Token"

// Handler handles HTTP requests for dispatch actions.
type Handler struct {
	coord   *service.Coordinator
	confirm *confirm.Store
	val     *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid resource ID"
)

// New creates a new dispatch handler.
func New(coord *service.Coordinator, confirmStore *confirm.Store, val *validator.Validator) *Handler {
	return &Handler{coord: coord, confirm: confirmStore, val: val}
}

// MintConfirmation issues a one-time confirmation token for a dispatch action.
// POST /api/v1/dispatch/confirmations
func (h *Handler) MintConfirmation(c *gin.Context) {
	var req transport.MintConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	token, err := h.confirm.Mint(c.Request.Context(), tenantID, req.Action, req.ResourceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ConfirmationResponse{
		Token:            token,
		Action:           req.Action,
		ResourceID:       req.ResourceID,
		ExpiresInSeconds: int(h.confirm.TTL().Seconds()),
	})
}

// ListEligibleTechnicians lists technicians assignable for a work pool.
// GET /api/v1/dispatch/technicians/eligible?kind=installation
func (h *Handler) ListEligibleTechnicians(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	kind := techdomain.Kind(c.DefaultQuery("kind", string(techdomain.KindAny)))
	technicians, err := h.coord.EligibleTechnicians(c.Request.Context(), tenantID, kind)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]techtransport.TechnicianResponse, len(technicians))
	for i := range technicians {
		tech := &technicians[i]
		items[i] = techtransport.TechnicianResponse{
			ID:                tech.ID,
			Name:              tech.Name,
			Email:             tech.Email,
			Phone:             tech.Phone,
			Kind:              string(tech.Kind),
			IsActive:          tech.IsActive,
			WorkStatus:        string(tech.WorkStatus),
			KycApprovalStatus: string(tech.KycStatus),
			Eligible:          true,
		}
	}
	httpkit.OK(c, techtransport.TechnicianListResponse{Items: items, Total: len(items)})
}

// AssignInstallation dispatches a technician to an installation order.
// POST /api/v1/dispatch/installations/:id/assign
func (h *Handler) AssignInstallation(c *gin.Context) {
	tenantID, orderID, req, ok := h.bindAssign(c)
	if !ok {
		return
	}
	if !h.redeemConfirmation(c, tenantID, service.OpAssignInstallation, orderID) {
		return
	}

	order, err := h.coord.AssignInstallation(c.Request.Context(), tenantID, orderID, req.TechnicianID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, instservice.ToResponse(order))
}

// CompleteInstallation confirms on-site completion of an installation order.
// POST /api/v1/dispatch/installations/:id/complete
func (h *Handler) CompleteInstallation(c *gin.Context) {
	tenantID, orderID, ok := h.bindAction(c)
	if !ok {
		return
	}
	if !h.redeemConfirmation(c, tenantID, service.OpCompleteInstallation, orderID) {
		return
	}

	order, err := h.coord.CompleteInstallation(c.Request.Context(), tenantID, orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, instservice.ToResponse(order))
}

// AssignService dispatches a technician to a service request.
// POST /api/v1/dispatch/service-requests/:id/assign
func (h *Handler) AssignService(c *gin.Context) {
	tenantID, requestID, req, ok := h.bindAssign(c)
	if !ok {
		return
	}
	if !h.redeemConfirmation(c, tenantID, service.OpAssignService, requestID) {
		return
	}

	request, err := h.coord.AssignService(c.Request.Context(), tenantID, requestID, req.TechnicianID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reqservice.ToResponse(request))
}

// RecordDecision surfaces the technician's accept or reject of an assignment.
// POST /api/v1/dispatch/service-requests/:id/decision
func (h *Handler) RecordDecision(c *gin.Context) {
	tenantID, requestID, ok := h.bindAction(c)
	if !ok {
		return
	}

	var req transport.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if !h.redeemConfirmation(c, tenantID, service.OpRecordDecision, requestID) {
		return
	}

	request, err := h.coord.RecordDecision(c.Request.Context(), tenantID, requestID, reqdomain.Decision(req.Decision))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reqservice.ToResponse(request))
}

// UpdateStatus closes a service request.
// PATCH /api/v1/dispatch/service-requests/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	tenantID, requestID, ok := h.bindAction(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if !h.redeemConfirmation(c, tenantID, service.OpCloseService, requestID) {
		return
	}

	request, err := h.coord.CloseService(c.Request.Context(), tenantID, requestID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reqservice.ToResponse(request))
}

// RemoveTechnician detaches the assigned technician from a service request.
// PATCH /api/v1/dispatch/service-requests/:id/technician
func (h *Handler) RemoveTechnician(c *gin.Context) {
	tenantID, requestID, ok := h.bindAction(c)
	if !ok {
		return
	}
	if !h.redeemConfirmation(c, tenantID, service.OpRemoveTechnician, requestID) {
		return
	}

	request, err := h.coord.RemoveTechnician(c.Request.Context(), tenantID, requestID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reqservice.ToResponse(request))
}

// bindAction extracts the tenant and the resource id from the request.
func (h *Handler) bindAction(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return tenantID, id, true
}

// bindAssign extracts the tenant, the resource id and the assignment body.
func (h *Handler) bindAssign(c *gin.Context) (uuid.UUID, uuid.UUID, transport.AssignRequest, bool) {
	var req transport.AssignRequest
	tenantID, id, ok := h.bindAction(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, uuid.UUID{}, req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return uuid.UUID{}, uuid.UUID{}, req, false
	}
	return tenantID, id, req, true
}

// redeemConfirmation consumes the one-time token for the action. The check
// happens before the coordinator is invoked, so a missing token leaves all
// state untouched.
func (h *Handler) redeemConfirmation(c *gin.Context, tenantID uuid.UUID, action string, resourceID uuid.UUID) bool {
	token := c.GetHeader(confirmationHeader)
	if err := h.confirm.Consume(c.Request.Context(), token, tenantID, action, resourceID); err != nil {
		httpkit.HandleError(c, err)
		return false
	}
	return true
}

func mustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID := identity.TenantID()
	if tenantID == nil {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, false
	}
	return *tenantID, true
}
