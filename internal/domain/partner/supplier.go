package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier is the vendor a purchase order is placed with. Orders
// snapshot the supplier name at creation time, so renames here never
// rewrite history.
type Supplier struct {
	shared.TenantAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_tenant_code,priority:2"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Status      SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string         `gorm:"type:varchar(100)"`
	Phone       string         `gorm:"type:varchar(50);index"`
	Email       string         `gorm:"type:varchar(200);index"`
	Address     string         `gorm:"type:text"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              SupplierStatusActive,
	}, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, contactName, phone, email, address, notes string) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier inactive. Inactive suppliers cannot be
// used on new purchase orders.
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate marks the supplier active
func (s *Supplier) Activate() {
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive returns true if the supplier can receive new orders
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewValidationError("code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewValidationError("code cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewValidationError("name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name cannot exceed 200 characters")
	}
	return nil
}
