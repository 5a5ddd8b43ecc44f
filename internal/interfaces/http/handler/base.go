package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getUserID extracts the user ID from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		// Fallback to header for development
		userIDStr = c.GetHeader("X-User-ID")
	}
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// getTenantID extracts the tenant ID from JWT claims
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantIDStr := middleware.GetJWTTenantID(c)
	if tenantIDStr == "" {
		// Fallback to header for development
		tenantIDStr = c.GetHeader("X-Tenant-ID")
	}
	if tenantIDStr == "" {
		// Default development tenant
		return uuid.MustParse("00000000-0000-0000-0000-000000000001"), nil
	}
	return uuid.Parse(tenantIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindingError sends a 400 response for a request binding failure,
// flattening validator errors into per-field messages.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	if messages := middleware.ValidationErrorMessages(err); len(messages) > 0 {
		fields := make([]string, 0, len(messages))
		for field := range messages {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+" "+messages[field])
		}
		h.BadRequest(c, "Invalid request: "+strings.Join(parts, "; "))
		return
	}
	h.BadRequest(c, "Invalid request: "+err.Error())
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, shared.CodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleDomainError converts domain errors to HTTP responses. Domain
// codes map onto statuses; anything else becomes an internal error.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		statusCode := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, getRequestID(c)))
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
