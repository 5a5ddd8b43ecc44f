package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxNotesLength bounds the free-text notes on an order.
const MaxNotesLength = 500

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft           PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusPending         PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusPartialReceived PurchaseOrderStatus = "PARTIAL_RECEIVED"
	PurchaseOrderStatusCompleted       PurchaseOrderStatus = "COMPLETED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPending,
		PurchaseOrderStatusPartialReceived, PurchaseOrderStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusPending
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusCompleted
	case PurchaseOrderStatusPartialReceived:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusCompleted
	case PurchaseOrderStatusCompleted:
		return false // terminal
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusPending || s == PurchaseOrderStatusPartialReceived
}

// IsEditable returns true if the order contents may still be changed.
// Completed orders are immutable.
func (s PurchaseOrderStatus) IsEditable() bool {
	return s != PurchaseOrderStatusCompleted
}

// LineItem represents a single ordered item on a purchase order
type LineItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName         string          `gorm:"type:varchar(200);not null"`
	ItemCode         string          `gorm:"type:varchar(50)"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchaseCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * PurchaseCost
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "purchase_order_items"
}

// NewLineItem creates a new order line with zero received quantity
func NewLineItem(orderID, itemID uuid.UUID, itemName, itemCode string, quantity decimal.Decimal, purchaseCost valueobject.Money) (*LineItem, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("item id cannot be empty")
	}
	if itemName == "" {
		return nil, shared.NewValidationError("item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidQuantityError("quantity must be positive")
	}
	if purchaseCost.IsNegative() {
		return nil, shared.NewValidationError("purchase cost cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ItemID:           itemID,
		ItemName:         itemName,
		ItemCode:         itemCode,
		Quantity:         quantity,
		ReceivedQuantity: decimal.Zero,
		PurchaseCost:     purchaseCost.Amount(),
		Amount:           quantity.Mul(purchaseCost.Amount()),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UpdateQuantity changes the ordered quantity and recomputes the amount.
// The ordered quantity can never drop below what has been received.
func (i *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidQuantityError("quantity must be positive")
	}
	if quantity.LessThan(i.ReceivedQuantity) {
		return shared.NewInvalidQuantityError(
			"ordered quantity %s cannot be less than received quantity %s",
			quantity.String(), i.ReceivedQuantity.String())
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.PurchaseCost)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateCost changes the purchase cost and recomputes the amount
func (i *LineItem) UpdateCost(purchaseCost valueobject.Money) error {
	if purchaseCost.IsNegative() {
		return shared.NewValidationError("purchase cost cannot be negative")
	}

	i.PurchaseCost = purchaseCost.Amount()
	i.Amount = i.Quantity.Mul(i.PurchaseCost)
	i.UpdatedAt = time.Now()
	return nil
}

// RemainingQuantity returns the outstanding quantity still to be received
func (i *LineItem) RemainingQuantity() decimal.Decimal {
	remaining := i.Quantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if the full ordered quantity has arrived
func (i *LineItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// addReceived accumulates received quantity, capped at the ordered
// quantity. Returns the quantity actually applied.
func (i *LineItem) addReceived(quantity decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	applied := decimal.Min(quantity, i.RemainingQuantity())
	i.ReceivedQuantity = i.ReceivedQuantity.Add(applied)
	i.UpdatedAt = time.Now()
	return applied
}

// AdditionalCost is a named charge attached to the order (freight,
// customs, handling). Each cost is applied by at most one confirmed
// receipt.
type AdditionalCost struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Applied   bool            `gorm:"not null;default:false"`
	ReceiptID *uuid.UUID      `gorm:"type:uuid"` // receiving event that applied this cost
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdditionalCost) TableName() string {
	return "purchase_order_costs"
}

// NewAdditionalCost creates a new additional cost entry
func NewAdditionalCost(orderID uuid.UUID, name string, amount valueobject.Money) (*AdditionalCost, error) {
	if name == "" {
		return nil, shared.NewValidationError("cost name cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("cost amount cannot be negative")
	}

	now := time.Now()
	return &AdditionalCost{
		ID:        uuid.New(),
		OrderID:   orderID,
		Name:      name,
		Amount:    amount.Amount(),
		Applied:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PurchaseOrder is the aggregate root for a supplier order bound for a
// destination store. It owns its line items and additional costs and
// enforces the receiving invariants.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	StoreID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	StoreName    string              `gorm:"type:varchar(200);not null"`
	OrderDate    time.Time           `gorm:"not null"`
	ExpectedDate *time.Time          `gorm:""`
	Notes        string              `gorm:"type:varchar(500)"`
	Items        []LineItem          `gorm:"foreignKey:OrderID;references:ID"`
	Costs        []AdditionalCost    `gorm:"foreignKey:OrderID;references:ID"`
	ItemsTotal   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // sum of line amounts
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // ItemsTotal + costs
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedAt  *time.Time          `gorm:"index"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string, storeID uuid.UUID, storeName string, orderDate time.Time) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewValidationError("order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier id cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("supplier name cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewValidationError("destination store id cannot be empty")
	}
	if storeName == "" {
		return nil, shared.NewValidationError("destination store name cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		StoreID:             storeID,
		StoreName:           storeName,
		OrderDate:           orderDate,
		Items:               make([]LineItem, 0),
		Costs:               make([]AdditionalCost, 0),
		ItemsTotal:          decimal.Zero,
		TotalAmount:         decimal.Zero,
		Status:              PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// SetNotes replaces the order notes
func (o *PurchaseOrder) SetNotes(notes string) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if len(notes) > MaxNotesLength {
		return shared.NewValidationError("notes cannot exceed %d characters", MaxNotesLength)
	}
	o.Notes = notes
	o.touch()
	return nil
}

// SetExpectedDate replaces the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(expected *time.Time) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	o.ExpectedDate = expected
	o.touch()
	return nil
}

// SetOrderDate replaces the order date
func (o *PurchaseOrder) SetOrderDate(orderDate time.Time) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if orderDate.IsZero() {
		return shared.NewValidationError("order date cannot be empty")
	}
	o.OrderDate = orderDate
	o.touch()
	return nil
}

// AddItem appends a new line to the order
func (o *PurchaseOrder) AddItem(itemID uuid.UUID, itemName, itemCode string, quantity decimal.Decimal, purchaseCost valueobject.Money) (*LineItem, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}

	for _, item := range o.Items {
		if item.ItemID == itemID {
			return nil, shared.NewValidationError("item already exists on order, update the existing line instead")
		}
	}

	line, err := NewLineItem(o.ID, itemID, itemName, itemCode, quantity, purchaseCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *line)
	o.recalculateTotals()
	o.touch()

	return line, nil
}

// LineItemPatch carries the optional fields of a line item update.
// Nil fields are left unchanged.
type LineItemPatch struct {
	Quantity     *decimal.Decimal
	PurchaseCost *valueobject.Money
}

// UpdateLineItem applies a partial update to an existing line and
// recomputes the line amount and order totals.
func (o *PurchaseOrder) UpdateLineItem(lineID uuid.UUID, patch LineItemPatch) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}

	for idx := range o.Items {
		if o.Items[idx].ID != lineID {
			continue
		}
		if patch.Quantity != nil {
			if err := o.Items[idx].UpdateQuantity(*patch.Quantity); err != nil {
				return err
			}
		}
		if patch.PurchaseCost != nil {
			if err := o.Items[idx].UpdateCost(*patch.PurchaseCost); err != nil {
				return err
			}
		}
		o.recalculateTotals()
		o.touch()
		return nil
	}

	return shared.NewNotFoundError("order line %s not found", lineID)
}

// RemoveItem removes a line from the order. Lines with received goods
// cannot be removed.
func (o *PurchaseOrder) RemoveItem(lineID uuid.UUID) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}

	for idx, item := range o.Items {
		if item.ID != lineID {
			continue
		}
		if item.ReceivedQuantity.IsPositive() {
			return shared.NewInvariantViolation("cannot remove a line that has received goods")
		}
		o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
		o.recalculateTotals()
		o.touch()
		return nil
	}

	return shared.NewNotFoundError("order line %s not found", lineID)
}

// AddCost attaches an additional cost to the order
func (o *PurchaseOrder) AddCost(name string, amount valueobject.Money) (*AdditionalCost, error) {
	if err := o.ensureEditable(); err != nil {
		return nil, err
	}

	cost, err := NewAdditionalCost(o.ID, name, amount)
	if err != nil {
		return nil, err
	}

	o.Costs = append(o.Costs, *cost)
	o.recalculateTotals()
	o.touch()

	return cost, nil
}

// RemoveCost removes an additional cost. Applied costs cannot be
// removed.
func (o *PurchaseOrder) RemoveCost(costID uuid.UUID) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}

	for idx, cost := range o.Costs {
		if cost.ID != costID {
			continue
		}
		if cost.Applied {
			return shared.NewInvariantViolation("cannot remove a cost that was applied by a receipt")
		}
		o.Costs = append(o.Costs[:idx], o.Costs[idx+1:]...)
		o.recalculateTotals()
		o.touch()
		return nil
	}

	return shared.NewNotFoundError("additional cost %s not found", costID)
}

// Submit transitions the order from DRAFT to PENDING.
// Requires at least one line item.
func (o *PurchaseOrder) Submit() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusPending) {
		return shared.NewInvariantViolation("cannot submit order in %s status", o.Status)
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("cannot submit order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusPending
	o.SubmittedAt = &now
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderSubmittedEvent(o))

	return nil
}

// ComputeTotal returns the order total: line amounts plus all
// additional costs. Pure; does not mutate the order.
func (o *PurchaseOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	for _, cost := range o.Costs {
		total = total.Add(cost.Amount)
	}
	return total
}

// ApplyReceiving commits a receiving event against the order. The
// event is single-use: committing it a second time fails. Quantities
// are clamped to the outstanding remainder per line, selected costs
// are marked applied, then the status is rederived from the
// quantities.
func (o *PurchaseOrder) ApplyReceiving(event *ReceivingEvent) error {
	if event == nil {
		return shared.NewValidationError("receiving event cannot be nil")
	}
	if event.Committed {
		return shared.NewInvariantViolation("receiving event %s was already committed", event.ID)
	}
	if event.OrderID != o.ID {
		return shared.NewValidationError("receiving event belongs to a different order")
	}
	if !o.Status.CanReceive() {
		return shared.NewInvariantViolation("cannot receive goods for order in %s status", o.Status)
	}

	// Resolve every line and cost before touching state, so a bad id
	// leaves the order exactly as it was.
	type stagedLine struct {
		item     *LineItem
		quantity decimal.Decimal
	}
	stagedLines := make([]stagedLine, 0, len(event.Lines))
	for _, line := range event.Lines {
		if !line.ToReceive.IsPositive() {
			continue
		}
		item := o.lineByID(line.LineID)
		if item == nil {
			return shared.NewNotFoundError("order line %s not found", line.LineID)
		}
		if quantity := decimal.Min(line.ToReceive, item.RemainingQuantity()); quantity.IsPositive() {
			stagedLines = append(stagedLines, stagedLine{item: item, quantity: quantity})
		}
	}

	stagedCosts := make([]*AdditionalCost, 0, len(event.AppliedCostIDs))
	for _, costID := range event.AppliedCostIDs {
		cost := o.costByID(costID)
		if cost == nil {
			return shared.NewNotFoundError("additional cost %s not found", costID)
		}
		if cost.Applied {
			return shared.NewInvariantViolation("cost %q was already applied by an earlier receipt", cost.Name)
		}
		stagedCosts = append(stagedCosts, cost)
	}

	if len(stagedLines) == 0 && len(stagedCosts) == 0 {
		return shared.NewValidationError("nothing to receive")
	}

	received := make([]ReceivedLineInfo, 0, len(stagedLines))
	for _, s := range stagedLines {
		applied := s.item.addReceived(s.quantity)
		if applied.IsPositive() {
			received = append(received, ReceivedLineInfo{
				LineID:   s.item.ID,
				ItemID:   s.item.ItemID,
				ItemName: s.item.ItemName,
				Quantity: applied,
			})
		}
	}

	appliedCosts := make([]uuid.UUID, 0, len(stagedCosts))
	for _, cost := range stagedCosts {
		cost.Applied = true
		receiptID := event.ID
		cost.ReceiptID = &receiptID
		cost.UpdatedAt = time.Now()
		appliedCosts = append(appliedCosts, cost.ID)
	}

	// Status follows from quantities alone: completed when everything
	// ordered has arrived, partial otherwise.
	if o.isFullyReceived() {
		o.Status = PurchaseOrderStatusCompleted
		now := time.Now()
		o.CompletedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartialReceived
	}

	event.Committed = true
	o.touch()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, event.ID, received, appliedCosts))
	if o.Status == PurchaseOrderStatusCompleted {
		o.AddDomainEvent(NewPurchaseOrderCompletedEvent(o))
	}

	return nil
}

// ReceivedSummary returns the human-readable receiving progress,
// e.g. "3 of 10".
func (o *PurchaseOrder) ReceivedSummary() string {
	return fmt.Sprintf("%s of %s", o.TotalReceivedQuantity().String(), o.TotalOrderedQuantity().String())
}

// TotalReceivedQuantity returns the sum of received quantities
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

// TotalOrderedQuantity returns the sum of ordered quantities
func (o *PurchaseOrder) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// TotalRemainingQuantity returns the outstanding quantity across lines
func (o *PurchaseOrder) TotalRemainingQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.RemainingQuantity())
	}
	return total
}

// isFullyReceived reports whether everything ordered has arrived.
// Orders without lines are never considered fully received.
func (o *PurchaseOrder) isFullyReceived() bool {
	ordered := o.TotalOrderedQuantity()
	if !ordered.IsPositive() {
		return false
	}
	return o.TotalReceivedQuantity().GreaterThanOrEqual(ordered)
}

// recalculateTotals refreshes the cached totals after a mutation
func (o *PurchaseOrder) recalculateTotals() {
	itemsTotal := decimal.Zero
	for _, item := range o.Items {
		itemsTotal = itemsTotal.Add(item.Amount)
	}
	o.ItemsTotal = itemsTotal
	o.TotalAmount = o.ComputeTotal()
}

func (o *PurchaseOrder) ensureEditable() error {
	if !o.Status.IsEditable() {
		return shared.NewInvariantViolation("order %s is completed and can no longer be modified", o.OrderNumber)
	}
	return nil
}

func (o *PurchaseOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

func (o *PurchaseOrder) lineByID(lineID uuid.UUID) *LineItem {
	for idx := range o.Items {
		if o.Items[idx].ID == lineID {
			return &o.Items[idx]
		}
	}
	return nil
}

func (o *PurchaseOrder) costByID(costID uuid.UUID) *AdditionalCost {
	for idx := range o.Costs {
		if o.Costs[idx].ID == costID {
			return &o.Costs[idx]
		}
	}
	return nil
}

// GetItem returns a line by its ID, or nil
func (o *PurchaseOrder) GetItem(lineID uuid.UUID) *LineItem {
	return o.lineByID(lineID)
}

// GetCost returns an additional cost by its ID, or nil
func (o *PurchaseOrder) GetCost(costID uuid.UUID) *AdditionalCost {
	return o.costByID(costID)
}

// IsDraft returns true if the order is still a draft
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsCompleted returns true if the order is fully received and closed
func (o *PurchaseOrder) IsCompleted() bool {
	return o.Status == PurchaseOrderStatusCompleted
}

// ItemCount returns the number of lines on the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}
