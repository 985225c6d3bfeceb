package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

// CartStore owns session cart state. Carts are read and written wholesale as
// one blob per session key; there is no per-line persistence.
type CartStore interface {
	// Get returns the session cart; a missing cart comes back empty, not as an error.
	Get(ctx context.Context, sessionKey string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, sessionKey string) error
}

// GuestFavoritesStore holds favorites for sessions without an account.
// On login the list is merged into the account and cleared.
type GuestFavoritesStore interface {
	List(ctx context.Context, sessionKey string) ([]uuid.UUID, error)
	Save(ctx context.Context, sessionKey string, productIDs []uuid.UUID) error
	Clear(ctx context.Context, sessionKey string) error
}

// CheckoutGuard is the in-progress flag disabling concurrent checkout for one
// session. Begin reports false when a checkout is already running.
type CheckoutGuard interface {
	Begin(ctx context.Context, sessionKey string) (bool, error)
	End(ctx context.Context, sessionKey string) error
}

// SessionStore aggregates all session-scoped state.
type SessionStore struct {
	Cart           CartStore
	GuestFavorites GuestFavoritesStore
	Guard          CheckoutGuard
}

// MergeGuestFavorites returns the guest product IDs not already present in the
// account list, deduplicated, in guest order. The caller persists only these.
func MergeGuestFavorites(account, guest []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(account)+len(guest))
	for _, id := range account {
		seen[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range guest {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}
