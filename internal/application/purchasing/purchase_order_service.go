package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      purchasing.PurchaseOrderRepository
	supplierRepo   partner.SupplierRepository
	storeRepo      partner.StoreRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo purchasing.PurchaseOrderRepository, supplierRepo partner.SupplierRepository, storeRepo partner.StoreRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		storeRepo:    storeRepo,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order, as a draft or directly
// submitted. Supplier and store names are snapshotted onto the order.
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewValidationError("supplier %q is inactive", supplier.Name)
	}

	store, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !store.IsOpen() {
		return nil, shared.NewValidationError("store %q is closed", store.Name)
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var orderDate time.Time
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	order, err := purchasing.NewPurchaseOrder(tenantID, orderNumber, supplier.ID, supplier.Name, store.ID, store.Name, orderDate)
	if err != nil {
		return nil, err
	}

	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := order.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Items {
		cost := valueobject.NewMoneyUSD(line.PurchaseCost)
		if _, err := order.AddItem(line.ItemID, line.ItemName, line.ItemCode, line.Quantity, cost); err != nil {
			return nil, err
		}
	}
	for _, c := range req.Costs {
		if _, err := order.AddCost(c.Name, valueobject.NewMoneyUSD(c.Amount)); err != nil {
			return nil, err
		}
	}

	if req.Submit {
		if err := order.Submit(); err != nil {
			return nil, err
		}
	}

	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (shared.Paginated[PurchaseOrderListItemResponse], error) {
	result, err := s.orderRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return shared.Paginated[PurchaseOrderListItemResponse]{}, err
	}

	return shared.NewPaginated(
		ToPurchaseOrderListItemResponses(result.Items),
		result.Total, result.Page, result.PageSize,
	), nil
}

// Update applies a header patch to an order
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if req.Notes != nil {
		if err := order.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.OrderDate != nil {
		if err := order.SetOrderDate(*req.OrderDate); err != nil {
			return nil, err
		}
	}
	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(req.ExpectedDate); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	s.publish(order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Submit transitions a draft order to pending
func (s *PurchaseOrderService) Submit(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.Submit(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}
	s.publish(order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddLine adds a line item to an order
func (s *PurchaseOrderService) AddLine(ctx context.Context, tenantID, orderID uuid.UUID, req AddLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	cost := valueobject.NewMoneyUSD(req.PurchaseCost)
	if _, err := order.AddItem(req.ItemID, req.ItemName, req.ItemCode, req.Quantity, cost); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateLine applies a patch to one order line
func (s *PurchaseOrderService) UpdateLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID, req UpdateLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	patch := purchasing.LineItemPatch{Quantity: req.Quantity}
	if req.PurchaseCost != nil {
		cost := valueobject.NewMoneyUSD(*req.PurchaseCost)
		patch.PurchaseCost = &cost
	}
	if err := order.UpdateLineItem(lineID, patch); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveLine removes a line item from an order
func (s *PurchaseOrderService) RemoveLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.RemoveItem(lineID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddCost attaches an additional cost to an order
func (s *PurchaseOrderService) AddCost(ctx context.Context, tenantID, orderID uuid.UUID, req AddCostRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if _, err := order.AddCost(req.Name, valueobject.NewMoneyUSD(req.Amount)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveCost removes an additional cost from an order
func (s *PurchaseOrderService) RemoveCost(ctx context.Context, tenantID, orderID, costID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.RemoveCost(costID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if !order.IsDraft() {
		return shared.NewInvariantViolation("only draft orders can be deleted")
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

// GetStatusSummary returns per-status order counts
func (s *PurchaseOrderService) GetStatusSummary(ctx context.Context, tenantID uuid.UUID) (*StatusSummary, error) {
	counts, err := s.orderRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summary := &StatusSummary{
		Draft:           counts[purchasing.PurchaseOrderStatusDraft],
		Pending:         counts[purchasing.PurchaseOrderStatusPending],
		PartialReceived: counts[purchasing.PurchaseOrderStatusPartialReceived],
		Completed:       counts[purchasing.PurchaseOrderStatusCompleted],
	}
	summary.Total = summary.Draft + summary.Pending + summary.PartialReceived + summary.Completed
	return summary, nil
}

func (s *PurchaseOrderService) publish(order *purchasing.PurchaseOrder) {
	if s.eventPublisher == nil {
		order.ClearDomainEvents()
		return
	}
	events := order.GetDomainEvents()
	if len(events) > 0 {
		s.eventPublisher.Publish(events...)
	}
	order.ClearDomainEvents()
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

	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}
	return domainFilter
}
