package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// StoreStatus represents the status of a store
type StoreStatus string

const (
	StoreStatusOpen   StoreStatus = "open"
	StoreStatusClosed StoreStatus = "closed"
)

// Store is a retail location that goods are purchased for. Purchase
// orders name one store as their receiving destination.
type Store struct {
	shared.TenantAggregateRoot
	Code      string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_store_tenant_code,priority:2"`
	Name      string      `gorm:"type:varchar(200);not null"`
	Status    StoreStatus `gorm:"type:varchar(20);not null;default:'open'"`
	Address   string      `gorm:"type:text"`
	Phone     string      `gorm:"type:varchar(50)"`
	IsDefault bool        `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new open store
func NewStore(tenantID uuid.UUID, code, name string) (*Store, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	return &Store{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              StoreStatusOpen,
	}, nil
}

// Update updates the store's basic information
func (s *Store) Update(name, address, phone string) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.Name = name
	s.Address = address
	s.Phone = phone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Close marks the store closed. Closed stores cannot be the
// destination of new purchase orders.
func (s *Store) Close() {
	s.Status = StoreStatusClosed
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Open marks the store open
func (s *Store) Open() {
	s.Status = StoreStatusOpen
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetDefault marks this store as the tenant default
func (s *Store) SetDefault(isDefault bool) {
	s.IsDefault = isDefault
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsOpen returns true if the store can receive goods
func (s *Store) IsOpen() bool {
	return s.Status == StoreStatusOpen
}
