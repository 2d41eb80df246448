package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

const userCacheKeyPrefix = "user:id:"

// cachedUserRepository is a redis read-through cache in front of the
// Postgres user repository. GetByID is the hot path: the streaming gateway
// resolves every new connection through it.
type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps the repository with a redis cache. Cache
// failures degrade to the underlying repository.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	return &cachedUserRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	key := userCacheKeyPrefix + id
	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
		r.logger.Warn("corrupt user cache entry", zap.String("key", key))
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.logger.Debug("user cache write failed", zap.Error(err))
		}
	}
	return user, nil
}

func (r *cachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.inner.GetByUsername(ctx, username)
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

func (r *cachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	if err := r.client.Del(ctx, userCacheKeyPrefix+user.ID).Err(); err != nil {
		r.logger.Debug("user cache invalidation failed", zap.Error(err))
	}
	return nil
}
