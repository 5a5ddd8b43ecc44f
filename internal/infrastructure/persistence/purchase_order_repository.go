package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByIDForTenant finds a purchase order by ID within a tenant,
// loading its lines and additional costs
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Costs").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant finds purchase orders for a tenant with filtering
// and pagination
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[purchasing.PurchaseOrder], error) {
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	countQuery = r.applyFilterWithoutPagination(countQuery, filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return shared.Paginated[purchasing.PurchaseOrder]{}, err
	}

	var orders []purchasing.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	query = r.applyPaginationAndOrder(query, filter)
	if err := query.Preload("Items").Preload("Costs").Find(&orders).Error; err != nil {
		return shared.Paginated[purchasing.PurchaseOrder]{}, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a purchase order with its lines and costs
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Costs").Save(order).Error; err != nil {
			return err
		}
		return r.saveChildren(tx, order)
	})
}

// SaveWithLock persists the order only if the stored version still
// matches expectedVersion. The caller captures expectedVersion before
// mutating the aggregate; the aggregate itself increments its version
// on every mutation.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored purchasing.PurchaseOrder
		if err := tx.Select("id", "version").
			Where("id = ?", order.ID).
			Take(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if stored.Version != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		order.UpdatedAt = time.Now()

		result := tx.Model(&purchasing.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"supplier_id":   order.SupplierID,
				"supplier_name": order.SupplierName,
				"store_id":      order.StoreID,
				"store_name":    order.StoreName,
				"order_date":    order.OrderDate,
				"expected_date": order.ExpectedDate,
				"notes":         order.Notes,
				"items_total":   order.ItemsTotal,
				"total_amount":  order.TotalAmount,
				"status":        order.Status,
				"submitted_at":  order.SubmittedAt,
				"completed_at":  order.CompletedAt,
				"version":       order.Version,
				"updated_at":    order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return r.saveChildren(tx, order)
	})
}

// saveChildren reconciles line items and additional costs against the
// aggregate's current state: rows dropped from the aggregate are
// deleted, the rest are upserted.
func (r *GormPurchaseOrderRepository) saveChildren(tx *gorm.DB, order *purchasing.PurchaseOrder) error {
	itemIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		itemIDs[i] = item.ID
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, itemIDs).
			Delete(&purchasing.LineItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&purchasing.LineItem{}).Error; err != nil {
			return err
		}
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}

	costIDs := make([]uuid.UUID, len(order.Costs))
	for i, cost := range order.Costs {
		costIDs[i] = cost.ID
	}
	if len(costIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, costIDs).
			Delete(&purchasing.AdditionalCost{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&purchasing.AdditionalCost{}).Error; err != nil {
			return err
		}
	}
	for i := range order.Costs {
		order.Costs[i].OrderID = order.ID
		if err := tx.Save(&order.Costs[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// DeleteForTenant deletes a purchase order and its children
func (r *GormPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order purchasing.PurchaseOrder
		if err := tx.Select("id").
			Where("tenant_id = ? AND id = ?", tenantID, id).
			Take(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&purchasing.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&purchasing.AdditionalCost{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&purchasing.PurchaseOrder{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountByStatus returns order counts per status for a tenant
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[purchasing.PurchaseOrderStatus]int64, error) {
	type statusCount struct {
		Status purchasing.PurchaseOrderStatus
		Count  int64
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseOrder{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[purchasing.PurchaseOrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ExistsByOrderNumber checks if an order number exists for a tenant
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseOrder{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates a unique order number for a tenant.
// Format: PO-YYYY-NNNNN (e.g. PO-2026-00001)
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastOrder purchasing.PurchaseOrder
	err := r.db.WithContext(ctx).
		Select("order_number").
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return "", err
	}
	if exists {
		// Walk forward until a free number is found
		for i := 0; i < 100; i++ {
			nextNum++
			orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByOrderNumber(ctx, tenantID, orderNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return orderNumber, nil
}

// applyPaginationAndOrder applies pagination and ordering to the query
func (r *GormPurchaseOrderRepository) applyPaginationAndOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Whitelist validation to prevent SQL injection through sort params
	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies search and field filters
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
