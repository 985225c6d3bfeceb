package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

// NewMemorySessionStore returns an in-process SessionStore. Used by tests and
// the preview CLI; the server runs on redis.
func NewMemorySessionStore() *SessionStore {
	return &SessionStore{
		Cart:           &memoryCartStore{carts: make(map[string]domain.Cart)},
		GuestFavorites: &memoryGuestFavoritesStore{lists: make(map[string][]uuid.UUID)},
		Guard:          &memoryCheckoutGuard{locks: make(map[string]struct{})},
	}
}

type memoryCartStore struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func (s *memoryCartStore) Get(_ context.Context, sessionKey string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart, ok := s.carts[sessionKey]; ok {
		cp := cart
		cp.Lines = append([]domain.CartLine(nil), cart.Lines...)
		return &cp, nil
	}
	return &domain.Cart{SessionKey: sessionKey}, nil
}

func (s *memoryCartStore) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart.UpdatedAt = time.Now()
	cp := *cart
	cp.Lines = append([]domain.CartLine(nil), cart.Lines...)
	s.carts[cart.SessionKey] = cp
	return nil
}

func (s *memoryCartStore) Clear(_ context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionKey)
	return nil
}

type memoryGuestFavoritesStore struct {
	mu    sync.Mutex
	lists map[string][]uuid.UUID
}

func (s *memoryGuestFavoritesStore) List(_ context.Context, sessionKey string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.lists[sessionKey]...), nil
}

func (s *memoryGuestFavoritesStore) Save(_ context.Context, sessionKey string, productIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[sessionKey] = append([]uuid.UUID(nil), productIDs...)
	return nil
}

func (s *memoryGuestFavoritesStore) Clear(_ context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, sessionKey)
	return nil
}

type memoryCheckoutGuard struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

func (g *memoryCheckoutGuard) Begin(_ context.Context, sessionKey string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.locks[sessionKey]; held {
		return false, nil
	}
	g.locks[sessionKey] = struct{}{}
	return true, nil
}

func (g *memoryCheckoutGuard) End(_ context.Context, sessionKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locks, sessionKey)
	return nil
}
