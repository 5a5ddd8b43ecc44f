package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appPurchasing "github.com/retailcore/backend/internal/application/purchasing"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler handles purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	service *appPurchasing.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(service *appPurchasing.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// CreateLineItemRequest is one ordered line in a create request
type CreateLineItemRequest struct {
	ItemID       string  `json:"item_id" binding:"required,uuid"`
	ItemName     string  `json:"item_name" binding:"required,max=200"`
	ItemCode     string  `json:"item_code" binding:"omitempty,max=50"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	PurchaseCost float64 `json:"purchase_cost" binding:"gte=0"`
}

// CreateCostItemRequest is one additional cost in a create request
type CreateCostItemRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

// CreatePurchaseOrderRequest is the body for creating a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   string                  `json:"supplier_id" binding:"required,uuid"`
	StoreID      string                  `json:"store_id" binding:"required,uuid"`
	OrderDate    *time.Time              `json:"order_date"`
	ExpectedDate *time.Time              `json:"expected_date"`
	Notes        string                  `json:"notes" binding:"omitempty,max=500"`
	Submit       bool                    `json:"submit"`
	Items        []CreateLineItemRequest `json:"items" binding:"omitempty,dive"`
	Costs        []CreateCostItemRequest `json:"costs" binding:"omitempty,dive"`
}

// UpdatePurchaseOrderRequest is the body for updating order header fields
type UpdatePurchaseOrderRequest struct {
	Notes        *string    `json:"notes" binding:"omitempty,max=500"`
	OrderDate    *time.Time `json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date"`
}

// AddLineItemRequest is the body for adding a line to an existing order
type AddLineItemRequest struct {
	ItemID       string  `json:"item_id" binding:"required,uuid"`
	ItemName     string  `json:"item_name" binding:"required,max=200"`
	ItemCode     string  `json:"item_code" binding:"omitempty,max=50"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	PurchaseCost float64 `json:"purchase_cost" binding:"gte=0"`
}

// UpdateLineItemRequest is the body for patching an existing line
type UpdateLineItemRequest struct {
	Quantity     *float64 `json:"quantity" binding:"omitempty,gt=0"`
	PurchaseCost *float64 `json:"purchase_cost" binding:"omitempty,gte=0"`
}

// AddCostItemRequest is the body for adding an additional cost
type AddCostItemRequest struct {
	Name   string  `json:"name" binding:"required,max=100"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

// Create godoc
// @Summary Create a purchase order
// @Description Create a new purchase order, optionally submitting it immediately
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param request body CreatePurchaseOrderRequest true "Purchase order data"
// @Success 201 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Router /api/v1/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	appReq := appPurchasing.CreatePurchaseOrderRequest{
		SupplierID:   supplierID,
		StoreID:      storeID,
		OrderDate:    req.OrderDate,
		ExpectedDate: req.ExpectedDate,
		Notes:        req.Notes,
		Submit:       req.Submit,
	}
	if userID, err := getUserID(c); err == nil {
		appReq.CreatedBy = &userID
	}

	for _, item := range req.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			h.BadRequest(c, "Invalid item ID format")
			return
		}
		appReq.Items = append(appReq.Items, appPurchasing.CreateLineRequest{
			ItemID:       itemID,
			ItemName:     item.ItemName,
			ItemCode:     item.ItemCode,
			Quantity:     decimal.NewFromFloat(item.Quantity),
			PurchaseCost: decimal.NewFromFloat(item.PurchaseCost),
		})
	}

	for _, cost := range req.Costs {
		appReq.Costs = append(appReq.Costs, appPurchasing.CreateCostRequest{
			Name:   cost.Name,
			Amount: decimal.NewFromFloat(cost.Amount),
		})
	}

	order, err := h.service.Create(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID godoc
// @Summary Get a purchase order
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
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

	order, err := h.service.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @Summary List purchase orders
// @Description List purchase orders with pagination and filters
// @Tags purchase-orders
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param status query string false "Filter by status"
// @Param supplier_id query string false "Filter by supplier"
// @Param store_id query string false "Filter by store"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	listReq.ApplyDefaults()

	filter := appPurchasing.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := purchasing.PurchaseOrderStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status: "+statusStr)
			return
		}
		filter.Status = &status
	}

	if supplierIDStr := c.Query("supplier_id"); supplierIDStr != "" {
		supplierID, err := uuid.Parse(supplierIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &supplierID
	}

	if storeIDStr := c.Query("store_id"); storeIDStr != "" {
		storeID, err := uuid.Parse(storeIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid store ID format")
			return
		}
		filter.StoreID = &storeID
	}

	if startStr := c.Query("start_date"); startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			h.BadRequest(c, "Invalid start_date, expected RFC3339")
			return
		}
		filter.StartDate = &start
	}

	if endStr := c.Query("end_date"); endStr != "" {
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			h.BadRequest(c, "Invalid end_date, expected RFC3339")
			return
		}
		filter.EndDate = &end
	}

	result, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary Update a purchase order
// @Description Update header fields of a draft or pending purchase order
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param request body UpdatePurchaseOrderRequest true "Fields to update"
// @Success 200 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
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

	var req UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.service.Update(c.Request.Context(), tenantID, orderID, appPurchasing.UpdatePurchaseOrderRequest{
		Notes:        req.Notes,
		OrderDate:    req.OrderDate,
		ExpectedDate: req.ExpectedDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Submit godoc
// @Summary Submit a purchase order
// @Description Move a draft order with at least one line into pending
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
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

	order, err := h.service.Submit(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AddLine godoc
// @Summary Add a line item
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param request body AddLineItemRequest true "Line item data"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/items [post]
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
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

	var req AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	order, err := h.service.AddLine(c.Request.Context(), tenantID, orderID, appPurchasing.AddLineRequest{
		ItemID:       itemID,
		ItemName:     req.ItemName,
		ItemCode:     req.ItemCode,
		Quantity:     decimal.NewFromFloat(req.Quantity),
		PurchaseCost: decimal.NewFromFloat(req.PurchaseCost),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateLine godoc
// @Summary Update a line item
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param line_id path string true "Line item ID"
// @Param request body UpdateLineItemRequest true "Fields to update"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/items/{line_id} [put]
func (h *PurchaseOrderHandler) UpdateLine(c *gin.Context) {
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

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line item ID format")
		return
	}

	var req UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	appReq := appPurchasing.UpdateLineRequest{}
	if req.Quantity != nil {
		q := decimal.NewFromFloat(*req.Quantity)
		appReq.Quantity = &q
	}
	if req.PurchaseCost != nil {
		p := decimal.NewFromFloat(*req.PurchaseCost)
		appReq.PurchaseCost = &p
	}

	order, err := h.service.UpdateLine(c.Request.Context(), tenantID, orderID, lineID, appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveLine godoc
// @Summary Remove a line item
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param line_id path string true "Line item ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/items/{line_id} [delete]
func (h *PurchaseOrderHandler) RemoveLine(c *gin.Context) {
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

	lineID, err := uuid.Parse(c.Param("line_id"))
	if err != nil {
		h.BadRequest(c, "Invalid line item ID format")
		return
	}

	order, err := h.service.RemoveLine(c.Request.Context(), tenantID, orderID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AddCost godoc
// @Summary Add an additional cost
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param request body AddCostItemRequest true "Cost data"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/costs [post]
func (h *PurchaseOrderHandler) AddCost(c *gin.Context) {
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

	var req AddCostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.service.AddCost(c.Request.Context(), tenantID, orderID, appPurchasing.AddCostRequest{
		Name:   req.Name,
		Amount: decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveCost godoc
// @Summary Remove an additional cost
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param cost_id path string true "Cost ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/{id}/costs/{cost_id} [delete]
func (h *PurchaseOrderHandler) RemoveCost(c *gin.Context) {
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

	costID, err := uuid.Parse(c.Param("cost_id"))
	if err != nil {
		h.BadRequest(c, "Invalid cost ID format")
		return
	}

	order, err := h.service.RemoveCost(c.Request.Context(), tenantID, orderID, costID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete godoc
// @Summary Delete a purchase order
// @Description Delete a draft purchase order
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 204
// @Failure 422 {object} dto.Response
// @Router /api/v1/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetStatusSummary godoc
// @Summary Get purchase order status counts
// @Tags purchase-orders
// @Produce json
// @Success 200 {object} dto.Response
// @Router /api/v1/purchase-orders/summary [get]
func (h *PurchaseOrderHandler) GetStatusSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	summary, err := h.service.GetStatusSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Export godoc
// @Summary Export purchase orders as CSV
// @Tags purchase-orders
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV data"
// @Router /api/v1/purchase-orders/export [get]
func (h *PurchaseOrderHandler) Export(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := appPurchasing.ListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := purchasing.PurchaseOrderStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status: "+statusStr)
			return
		}
		filter.Status = &status
	}
	if supplierIDStr := c.Query("supplier_id"); supplierIDStr != "" {
		supplierID, err := uuid.Parse(supplierIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID format")
			return
		}
		filter.SupplierID = &supplierID
	}

	filename := fmt.Sprintf("purchase-orders-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := h.service.ExportCSV(c.Request.Context(), tenantID, filter, c.Writer); err != nil {
		// Headers are already out; all we can do is abort the stream.
		c.Abort()
	}
}
