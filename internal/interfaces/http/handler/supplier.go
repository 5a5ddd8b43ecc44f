package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appPartner "github.com/retailcore/backend/internal/application/partner"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// SupplierHandler handles supplier CRUD endpoints
type SupplierHandler struct {
	BaseHandler
	service *appPartner.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service *appPartner.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// Create godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param request body partner.CreateSupplierRequest true "Supplier data"
// @Success 201 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/v1/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appPartner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID godoc
// @Summary Get a supplier
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.service.GetByID(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search by name, code or contact"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.Response
// @Router /api/v1/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
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

	result, err := h.service.List(c.Request.Context(), tenantID, appPartner.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
		Status:   c.Query("status"),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "Supplier ID"
// @Param request body partner.UpdateSupplierRequest true "Fields to update"
// @Success 200 {object} dto.Response
// @Router /api/v1/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req appPartner.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.service.Update(c.Request.Context(), tenantID, supplierID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Activate godoc
// @Summary Activate a supplier
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.service.Activate(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Deactivate godoc
// @Summary Deactivate a supplier
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/suppliers/{id}/deactivate [post]
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.service.Deactivate(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Delete godoc
// @Summary Delete a supplier
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 204
// @Router /api/v1/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, supplierID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
