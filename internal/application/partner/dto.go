package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
)

// CreateSupplierRequest carries the fields to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=200"`
	ContactName string `json:"contact_name,omitempty" validate:"max=100"`
	Phone       string `json:"phone,omitempty" validate:"max=50"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address     string `json:"address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateSupplierRequest carries the fields to update a supplier
type UpdateSupplierRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	ContactName string `json:"contact_name,omitempty" validate:"max=100"`
	Phone       string `json:"phone,omitempty" validate:"max=50"`
	Email       string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Address     string `json:"address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// SupplierResponse is the read model of a supplier
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStoreRequest carries the fields to create a store
type CreateStoreRequest struct {
	Code      string `json:"code" validate:"required,max=50"`
	Name      string `json:"name" validate:"required,max=200"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// UpdateStoreRequest carries the fields to update a store
type UpdateStoreRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	IsDefault *bool  `json:"is_default,omitempty"`
}

// StoreResponse is the read model of a store
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter carries list query options shared by suppliers and stores
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Status   string
}

// ToSupplierResponse converts a domain supplier to its read model
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Status:      string(s.Status),
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of domain suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}

// ToStoreResponse converts a domain store to its read model
func ToStoreResponse(s *partner.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Status:    string(s.Status),
		Address:   s.Address,
		Phone:     s.Phone,
		IsDefault: s.IsDefault,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToStoreResponses converts a slice of domain stores
func ToStoreResponses(stores []partner.Store) []StoreResponse {
	responses := make([]StoreResponse, len(stores))
	for i := range stores {
		responses[i] = ToStoreResponse(&stores[i])
	}
	return responses
}
