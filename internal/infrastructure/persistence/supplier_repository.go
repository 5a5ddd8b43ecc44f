package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByCodeForTenant finds a supplier by its code within a tenant
func (r *GormSupplierRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForTenant finds suppliers for a tenant with filtering and pagination
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[partner.Supplier], error) {
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&partner.Supplier{}).Where("tenant_id = ?", tenantID)
	countQuery = r.applyFilterWithoutPagination(countQuery, filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return shared.Paginated[partner.Supplier]{}, err
	}

	var suppliers []partner.Supplier
	query := r.db.WithContext(ctx).Model(&partner.Supplier{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	query = r.applyPaginationAndOrder(query, filter)
	if err := query.Find(&suppliers).Error; err != nil {
		return shared.Paginated[partner.Supplier]{}, err
	}

	return shared.NewPaginated(suppliers, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// DeleteForTenant deletes a supplier within a tenant
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyPaginationAndOrder applies pagination and ordering to the query
func (r *GormSupplierRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, SupplierSortFields, "name")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		return query.Order(sortField + " " + sortOrder)
	}
	return query.Order("name ASC")
}

// applyFilterWithoutPagination applies search and field filters
func (r *GormSupplierRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR contact_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
