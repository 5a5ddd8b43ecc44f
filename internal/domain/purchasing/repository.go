package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// PurchaseOrderRepository persists purchase order aggregates.
// Implementations live in the infrastructure layer.
type PurchaseOrderRepository interface {
	// FindByIDForTenant loads an order with its lines and costs
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindAllForTenant returns a filtered, paginated list of orders
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[PurchaseOrder], error)

	// Save persists the aggregate and its children
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock persists the aggregate only if the stored version
	// matches expectedVersion, otherwise returns a concurrency error
	SaveWithLock(ctx context.Context, order *PurchaseOrder, expectedVersion int) error

	// DeleteForTenant removes an order and its children
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByStatus returns order counts per status for the tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[PurchaseOrderStatus]int64, error)

	// ExistsByOrderNumber checks order number uniqueness per tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber issues the next monotonic order number for
	// the tenant, formatted "PO-YYYY-NNNNN"
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
