package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

const checkoutLockTTL = 2 * time.Minute

// NewRedisClient creates and pings a redis client.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisSessionStore wires all session stores onto one redis client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		Cart:           &redisCartStore{client: client, ttl: ttl, logger: logger},
		GuestFavorites: &redisGuestFavoritesStore{client: client, ttl: ttl, logger: logger},
		Guard:          &redisCheckoutGuard{client: client},
	}
}

type redisCartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func cartKey(sessionKey string) string { return "cart:" + sessionKey }

func (s *redisCartStore) Get(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionKey)).Bytes()
	if err == redis.Nil {
		return &domain.Cart{SessionKey: sessionKey}, nil
	}
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// A corrupt blob should not brick the session; start over.
		s.logger.Warn("Corrupt cart blob, resetting", zap.String("session_key", sessionKey), zap.Error(err))
		return &domain.Cart{SessionKey: sessionKey}, nil
	}
	cart.SessionKey = sessionKey
	return &cart, nil
}

func (s *redisCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(cart.SessionKey), raw, s.ttl).Err()
}

func (s *redisCartStore) Clear(ctx context.Context, sessionKey string) error {
	return s.client.Del(ctx, cartKey(sessionKey)).Err()
}

type redisGuestFavoritesStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func guestFavKey(sessionKey string) string { return "guestfav:" + sessionKey }

func (s *redisGuestFavoritesStore) List(ctx context.Context, sessionKey string) ([]uuid.UUID, error) {
	raw, err := s.client.Get(ctx, guestFavKey(sessionKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.logger.Warn("Corrupt guest favorites blob, resetting", zap.String("session_key", sessionKey), zap.Error(err))
		return nil, nil
	}
	return ids, nil
}

func (s *redisGuestFavoritesStore) Save(ctx context.Context, sessionKey string, productIDs []uuid.UUID) error {
	raw, err := json.Marshal(productIDs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, guestFavKey(sessionKey), raw, s.ttl).Err()
}

func (s *redisGuestFavoritesStore) Clear(ctx context.Context, sessionKey string) error {
	return s.client.Del(ctx, guestFavKey(sessionKey)).Err()
}

type redisCheckoutGuard struct {
	client *redis.Client
}

func lockKey(sessionKey string) string { return "checkout:lock:" + sessionKey }

func (g *redisCheckoutGuard) Begin(ctx context.Context, sessionKey string) (bool, error) {
	// TTL bounds the lock in case End is never reached.
	return g.client.SetNX(ctx, lockKey(sessionKey), "1", checkoutLockTTL).Result()
}

func (g *redisCheckoutGuard) End(ctx context.Context, sessionKey string) error {
	return g.client.Del(ctx, lockKey(sessionKey)).Err()
}
