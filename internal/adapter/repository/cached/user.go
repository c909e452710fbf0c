package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-service/internal/adapter/cache"
	domain "user-service/internal/domain/user"
	"user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Only lookups by ID are served from cache; every write that changes a
// stored record evicts its entry.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ user.Repository = (*CachedUserRepository)(nil)

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache turns every call into a plain delegation.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// ListAll delegates to the DB repository.
func (r *CachedUserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.ListAll(ctx)
}

// List delegates to the DB repository.
func (r *CachedUserRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.User, int64, error) {
	return r.dbRepo.List(ctx, filter)
}

// FindByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do("user:"+id, func() (any, error) {
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.FindByID(ctx, id)
		if err != nil || u == nil {
			return u, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	return u, nil
}

// FindByEmail delegates to the DB repository.
func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.FindByEmail(ctx, email)
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	return r.dbRepo.Create(ctx, name, email, passwordHash)
}

// Update updates the user in DB and invalidates the cache.
func (r *CachedUserRepository) Update(ctx context.Context, id, name, email string) (*domain.User, error) {
	u, err := r.dbRepo.Update(ctx, id, name, email)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id, "update")
	return u, nil
}

// UpdatePassword replaces the hash in DB and invalidates the cache.
func (r *CachedUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (*domain.User, error) {
	u, err := r.dbRepo.UpdatePassword(ctx, id, passwordHash)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id, "password change")
	return u, nil
}

// Delete deletes the user from DB and invalidates the cache.
func (r *CachedUserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.dbRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id, "delete")
	return u, nil
}

func (r *CachedUserRepository) evict(ctx context.Context, id, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache after "+op, zap.String("id", id), zap.Error(err))
	}
}
