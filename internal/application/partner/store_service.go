package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
)

// StoreService handles store use cases
type StoreService struct {
	storeRepo partner.StoreRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo partner.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// Create registers a new store. Codes are unique per tenant.
func (s *StoreService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	existing, err := s.storeRepo.FindByCodeForTenant(ctx, tenantID, strings.ToUpper(req.Code))
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("store code %s already exists", strings.ToUpper(req.Code))
	}

	store, err := partner.NewStore(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	store.Address = req.Address
	store.Phone = req.Phone
	store.IsDefault = req.IsDefault

	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}

	response := ToStoreResponse(store)
	return &response, nil
}

// GetByID loads one store
func (s *StoreService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(store)
	return &response, nil
}

// List returns a filtered page of stores
func (s *StoreService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (shared.Paginated[StoreResponse], error) {
	result, err := s.storeRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	return shared.NewPaginated(
		ToStoreResponses(result.Items),
		result.Total, result.Page, result.PageSize,
	), nil
}

// Update updates a store's basic information
func (s *StoreService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := store.Update(req.Name, req.Address, req.Phone); err != nil {
		return nil, err
	}
	if req.IsDefault != nil {
		store.SetDefault(*req.IsDefault)
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}

	response := ToStoreResponse(store)
	return &response, nil
}

// Open marks a store open
func (s *StoreService) Open(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	return s.setStatus(ctx, tenantID, id, func(store *partner.Store) { store.Open() })
}

// Close marks a store closed
func (s *StoreService) Close(ctx context.Context, tenantID, id uuid.UUID) (*StoreResponse, error) {
	return s.setStatus(ctx, tenantID, id, func(store *partner.Store) { store.Close() })
}

// Delete removes a store
func (s *StoreService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.storeRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *StoreService) setStatus(ctx context.Context, tenantID, id uuid.UUID, change func(*partner.Store)) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	change(store)
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	response := ToStoreResponse(store)
	return &response, nil
}
