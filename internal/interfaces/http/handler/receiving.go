package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appPurchasing "github.com/retailcore/backend/internal/application/purchasing"
)

// ReceivingHandler handles the receiving session workflow for purchase
// orders: begin, stage quantities, then confirm or cancel.
type ReceivingHandler struct {
	BaseHandler
	service *appPurchasing.ReceivingService
}

// NewReceivingHandler creates a new receiving handler
func NewReceivingHandler(service *appPurchasing.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{service: service}
}

// SetLineQuantityRequest is the body for staging a received quantity
type SetLineQuantityRequest struct {
	Quantity float64 `json:"quantity" binding:"gte=0"`
}

// SetAppliedCostsRequest selects which additional costs this receipt applies
type SetAppliedCostsRequest struct {
	CostIDs []string `json:"cost_ids" binding:"required"`
}

// receivingParams extracts and validates the order and session IDs from
// the route.
func (h *ReceivingHandler) receivingParams(c *gin.Context) (tenantID, orderID, sessionID uuid.UUID, ok bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	orderID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	sessionID, err = uuid.Parse(c.Param("session_id"))
	if err != nil {
		h.BadRequest(c, "Invalid receiving session ID format")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}

	return tenantID, orderID, sessionID, true
}

// Begin godoc
// @Summary Begin a receiving session
// @Description Start a new receiving session against a submitted purchase order
// @Tags receiving
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 201 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/receiving-sessions [post]
func (h *ReceivingHandler) Begin(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	session, err := h.service.Begin(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, session)
}

// Get godoc
// @Summary Get a receiving session
// @Tags receiving
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param session_id path string true "Receiving session ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/receiving-sessions/{session_id} [get]
func (h *ReceivingHandler) Get(c *gin.Context) {
	tenantID, orderID, sessionID, ok := h.receivingParams(c)
	if !ok {
		return
	}

	session, err := h.service.Get(c.Request.Context(), tenantID, orderID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// SetLineQuantity godoc
// @Summary Stage a received quantity for one line
// @Description Set the to-receive quantity for a line, clamped to the outstanding remainder
// @Tags receiving
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param session_id path string true "Receiving session ID"
// @Param line_id path string true "Line item ID"
// @Param request body SetLineQuantityRequest true "Quantity"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/receiving-sessions/{session_id}/lines/{line_id} [put]
func (h *ReceivingHandler) SetLineQuantity(c *gin.Context) {
	tenantID, orderID, sessionID, ok := h.receivingParams(c)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line item ID format")
		return
	}

	var req SetLineQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.service.SetLineQuantity(c.Request.Context(), tenantID, orderID, sessionID, lineID, decimal.NewFromFloat(req.Quantity))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// MarkAllReceived godoc
// @Summary Mark all lines fully received
// @Description Stage the outstanding remainder on every line of the session
// @Tags receiving
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param session_id path string true "Receiving session ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/receiving-sessions/{session_id}/mark-all [post]
func (h *ReceivingHandler) MarkAllReceived(c *gin.Context) {
	tenantID, orderID, sessionID, ok := h.receivingParams(c)
	if !ok {
		return
	}

	session, err := h.service.MarkAllReceived(c.Request.Context(), tenantID, orderID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// SetAppliedCosts godoc
// @Summary Select additional costs applied by this receipt
// @Tags receiving
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param session_id path string true "Receiving session ID"
// @Param request body SetAppliedCostsRequest true "Cost IDs"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/receiving-sessions/{session_id}/costs [put]
func (h *ReceivingHandler) SetAppliedCosts(c *gin.Context) {
	tenantID, orderID, sessionID, ok := h.receivingParams(c)
	if !ok {
		return
	}

	var req SetAppliedCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	costIDs := make([]uuid.UUID, 0, len(req.CostIDs))
	for _, idStr := range req.CostIDs {
		costID, err := uuid.Parse(idStr)
		if err != nil {
			h.BadRequest(c, "Invalid cost ID format: "+idStr)
			return
		}
		costIDs = append(costIDs, costID)
	}

	session, err := h.service.SetAppliedCosts(c.Request.Context(), tenantID, orderID, sessionID, costIDs)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, session)
}

// Confirm godoc
// @Summary Confirm a receiving session
// @Description Commit the staged quantities into the purchase order. A session can be confirmed once.
// @Tags receiving
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param session_id path string true "Receiving session ID"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/receiving-sessions/{session_id}/confirm [post]
func (h *ReceivingHandler) Confirm(c *gin.Context) {
	tenantID, orderID, sessionID, ok := h.receivingParams(c)
	if !ok {
		return
	}

	order, err := h.service.Confirm(c.Request.Context(), tenantID, orderID, sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary Cancel a receiving session
// @Description Discard the session without mutating the purchase order
// @Tags receiving
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param session_id path string true "Receiving session ID"
// @Success 204
// @Router /api/v1/purchase-orders/{id}/receiving-sessions/{session_id} [delete]
func (h *ReceivingHandler) Cancel(c *gin.Context) {
	tenantID, orderID, sessionID, ok := h.receivingParams(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), tenantID, orderID, sessionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
