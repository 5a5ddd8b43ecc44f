package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// SupplierRepository persists suppliers
type SupplierRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[Supplier], error)
	Save(ctx context.Context, supplier *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// StoreRepository persists stores
type StoreRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Store, error)
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Store, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[Store], error)
	Save(ctx context.Context, store *Store) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
