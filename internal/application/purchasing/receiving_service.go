package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivingService drives the receive workflow: open a session
// against an order, adjust it, then confirm or cancel. Sessions live
// in the session store between requests; only a confirm mutates the
// order.
type ReceivingService struct {
	orderRepo      purchasing.PurchaseOrderRepository
	sessions       purchasing.ReceivingSessionStore
	eventPublisher shared.EventPublisher
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(orderRepo purchasing.PurchaseOrderRepository, sessions purchasing.ReceivingSessionStore) *ReceivingService {
	return &ReceivingService{
		orderRepo: orderRepo,
		sessions:  sessions,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Begin opens a receiving session for the order. Every line starts at
// zero; nothing on the order changes until the session is confirmed.
func (s *ReceivingService) Begin(ctx context.Context, tenantID, orderID uuid.UUID) (*ReceivingSessionResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	event, err := purchasing.NewReceivingEvent(order)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, event); err != nil {
		return nil, err
	}

	response := ToReceivingSessionResponse(event)
	return &response, nil
}

// Get returns the current state of a receiving session
func (s *ReceivingService) Get(ctx context.Context, tenantID, orderID, sessionID uuid.UUID) (*ReceivingSessionResponse, error) {
	event, err := s.loadSession(ctx, tenantID, orderID, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToReceivingSessionResponse(event)
	return &response, nil
}

// SetLineQuantity sets the to-receive quantity for one session line,
// clamped to the outstanding remainder.
func (s *ReceivingService) SetLineQuantity(ctx context.Context, tenantID, orderID, sessionID, lineID uuid.UUID, quantity decimal.Decimal) (*ReceivingSessionResponse, error) {
	event, err := s.loadSession(ctx, tenantID, orderID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := event.SetQuantity(lineID, quantity); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, event); err != nil {
		return nil, err
	}

	response := ToReceivingSessionResponse(event)
	return &response, nil
}

// MarkAllReceived sets every session line to its outstanding remainder
func (s *ReceivingService) MarkAllReceived(ctx context.Context, tenantID, orderID, sessionID uuid.UUID) (*ReceivingSessionResponse, error) {
	event, err := s.loadSession(ctx, tenantID, orderID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := event.MarkAllReceived(); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, event); err != nil {
		return nil, err
	}

	response := ToReceivingSessionResponse(event)
	return &response, nil
}

// SetAppliedCosts replaces the set of additional costs the receipt
// will apply on confirm.
func (s *ReceivingService) SetAppliedCosts(ctx context.Context, tenantID, orderID, sessionID uuid.UUID, costIDs []uuid.UUID) (*ReceivingSessionResponse, error) {
	event, err := s.loadSession(ctx, tenantID, orderID, sessionID)
	if err != nil {
		return nil, err
	}

	if err := event.SetAppliedCosts(costIDs); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, event); err != nil {
		return nil, err
	}

	response := ToReceivingSessionResponse(event)
	return &response, nil
}

// Confirm commits the session against the order. The session is
// single-use: it stays in the store marked committed so a repeated
// confirm fails instead of booking twice.
func (s *ReceivingService) Confirm(ctx context.Context, tenantID, orderID, sessionID uuid.UUID) (*PurchaseOrderResponse, error) {
	event, err := s.loadSession(ctx, tenantID, orderID, sessionID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	expected := order.Version

	if err := order.ApplyReceiving(event); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expected); err != nil {
		return nil, err
	}

	// Keep the spent session around so a duplicate confirm is
	// answered with a conflict rather than a retry.
	if err := s.sessions.Put(ctx, event); err != nil {
		return nil, err
	}

	s.publish(order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel discards an uncommitted session. The order is untouched.
func (s *ReceivingService) Cancel(ctx context.Context, tenantID, orderID, sessionID uuid.UUID) error {
	event, err := s.loadSession(ctx, tenantID, orderID, sessionID)
	if err != nil {
		return err
	}
	if event.Committed {
		return shared.NewInvariantViolation("receiving event %s was already committed", event.ID)
	}
	return s.sessions.Delete(ctx, tenantID, sessionID)
}

func (s *ReceivingService) loadSession(ctx context.Context, tenantID, orderID, sessionID uuid.UUID) (*purchasing.ReceivingEvent, error) {
	event, err := s.sessions.Get(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if event.OrderID != orderID {
		return nil, shared.NewNotFoundError("receiving session %s not found for order %s", sessionID, orderID)
	}
	return event, nil
}

func (s *ReceivingService) publish(order *purchasing.PurchaseOrder) {
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
