package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// SupplierService handles supplier use cases
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create registers a new supplier. Codes are unique per tenant.
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	existing, err := s.supplierRepo.FindByCodeForTenant(ctx, tenantID, strings.ToUpper(req.Code))
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("supplier code %s already exists", strings.ToUpper(req.Code))
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.Notes = req.Notes

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID loads one supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List returns a filtered page of suppliers
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (shared.Paginated[SupplierResponse], error) {
	result, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	return shared.NewPaginated(
		ToSupplierResponses(result.Items),
		result.Total, result.Page, result.PageSize,
	), nil
}

// Update updates a supplier's basic information
func (s *SupplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := supplier.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address, req.Notes); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Activate marks a supplier active
func (s *SupplierService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	return s.setStatus(ctx, tenantID, id, func(supplier *partner.Supplier) { supplier.Activate() })
}

// Deactivate marks a supplier inactive
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	return s.setStatus(ctx, tenantID, id, func(supplier *partner.Supplier) { supplier.Deactivate() })
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.supplierRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *SupplierService) setStatus(ctx context.Context, tenantID, id uuid.UUID, change func(*partner.Supplier)) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	change(supplier)
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

func toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
