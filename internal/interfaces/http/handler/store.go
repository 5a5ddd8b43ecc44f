package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appPartner "github.com/retailcore/backend/internal/application/partner"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// StoreHandler handles store CRUD endpoints
type StoreHandler struct {
	BaseHandler
	service *appPartner.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(service *appPartner.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// Create godoc
// @Summary Create a store
// @Tags stores
// @Accept json
// @Produce json
// @Param request body partner.CreateStoreRequest true "Store data"
// @Success 201 {object} dto.Response
// @Failure 409 {object} dto.Response
// @Router /api/v1/stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appPartner.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, store)
}

// GetByID godoc
// @Summary Get a store
// @Tags stores
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /api/v1/stores/{id} [get]
func (h *StoreHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	store, err := h.service.GetByID(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// List godoc
// @Summary List stores
// @Tags stores
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search by name or code"
// @Success 200 {object} dto.Response
// @Router /api/v1/stores [get]
func (h *StoreHandler) List(c *gin.Context) {
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
// @Summary Update a store
// @Tags stores
// @Accept json
// @Produce json
// @Param id path string true "Store ID"
// @Param request body partner.UpdateStoreRequest true "Fields to update"
// @Success 200 {object} dto.Response
// @Router /api/v1/stores/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	var req appPartner.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.service.Update(c.Request.Context(), tenantID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// Open godoc
// @Summary Open a store
// @Tags stores
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/stores/{id}/open [post]
func (h *StoreHandler) Open(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	store, err := h.service.Open(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// Close godoc
// @Summary Close a store
// @Tags stores
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} dto.Response
// @Router /api/v1/stores/{id}/close [post]
func (h *StoreHandler) Close(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	store, err := h.service.Close(c.Request.Context(), tenantID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// Delete godoc
// @Summary Delete a store
// @Tags stores
// @Produce json
// @Param id path string true "Store ID"
// @Success 204
// @Router /api/v1/stores/{id} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenantID, storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
