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

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByIDForTenant finds a store by ID within a tenant
func (r *GormStoreRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Store, error) {
	var store partner.Store
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindByCodeForTenant finds a store by its code within a tenant
func (r *GormStoreRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Store, error) {
	var store partner.Store
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindAllForTenant finds stores for a tenant with filtering and pagination
func (r *GormStoreRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[partner.Store], error) {
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&partner.Store{}).Where("tenant_id = ?", tenantID)
	countQuery = r.applyFilterWithoutPagination(countQuery, filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return shared.Paginated[partner.Store]{}, err
	}

	var stores []partner.Store
	query := r.db.WithContext(ctx).Model(&partner.Store{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	query = r.applyPaginationAndOrder(query, filter)
	if err := query.Find(&stores).Error; err != nil {
		return shared.Paginated[partner.Store]{}, err
	}

	return shared.NewPaginated(stores, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *partner.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// DeleteForTenant deletes a store within a tenant
func (r *GormStoreRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Store{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyPaginationAndOrder applies pagination and ordering to the query
func (r *GormStoreRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, StoreSortFields, "name")
		sortOrder := ValidateSortOrder(filter.OrderDir)
		return query.Order(sortField + " " + sortOrder)
	}
	// Default store first, then alphabetical
	return query.Order("is_default DESC, name ASC")
}

// applyFilterWithoutPagination applies search and field filters
func (r *GormStoreRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_default":
			query = query.Where("is_default = ?", value)
		}
	}

	return query
}

// Ensure GormStoreRepository implements StoreRepository
var _ partner.StoreRepository = (*GormStoreRepository)(nil)
