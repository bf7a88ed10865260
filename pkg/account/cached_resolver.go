package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-account/pkg/cache"
)

const (
	cacheKeyRoleKeys  = "account:rolekeys:%s"
	cacheKeyPerms     = "account:perms:%s"
	cacheKeyRoleGroup = "account:rolegroup:%s"
)

const (
	cacheExpireRoleKeys  = 1 * time.Hour
	cacheExpirePerms     = 1 * time.Hour
	cacheExpireRoleGroup = 1 * time.Hour
)

// CachedResolver wraps an AccountService with an explicit per-user cache
// over the resolve operations. Mutations that change a user's role links
// must go through this wrapper so the matching cache entries are dropped.
type CachedResolver struct {
	svc   *AccountService
	cache cache.Cache
}

// NewCachedResolver creates a caching wrapper around the given service
func NewCachedResolver(svc *AccountService, c cache.Cache) *CachedResolver {
	return &CachedResolver{
		svc:   svc,
		cache: c,
	}
}

// ResolveRoleKeys is the cached variant of AccountService.ResolveRoleKeys
func (r *CachedResolver) ResolveRoleKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	key := fmt.Sprintf(cacheKeyRoleKeys, userID)
	if keys, ok := r.getStrings(ctx, key); ok {
		return keys, nil
	}

	keys, err := r.svc.ResolveRoleKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.setStrings(ctx, key, keys, cacheExpireRoleKeys)
	return keys, nil
}

// ResolvePermissions is the cached variant of AccountService.ResolvePermissions
func (r *CachedResolver) ResolvePermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	key := fmt.Sprintf(cacheKeyPerms, userID)
	if perms, ok := r.getStrings(ctx, key); ok {
		return perms, nil
	}

	perms, err := r.svc.ResolvePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.setStrings(ctx, key, perms, cacheExpirePerms)
	return perms, nil
}

// ResolveRoleGroupLabel is the cached variant of
// AccountService.ResolveRoleGroupLabel
func (r *CachedResolver) ResolveRoleGroupLabel(ctx context.Context, userID uuid.UUID) (string, error) {
	key := fmt.Sprintf(cacheKeyRoleGroup, userID)
	if raw, err := r.cache.Get(ctx, key); err == nil {
		var label string
		if err := json.Unmarshal(raw, &label); err == nil {
			return label, nil
		}
		// Invalid cached payload, drop it
		r.cache.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrMiss) {
		slog.Error("Failed to query role group cache", "userId", userID, "err", err)
	}

	label, err := r.svc.ResolveRoleGroupLabel(ctx, userID)
	if err != nil {
		return "", err
	}
	if raw, err := json.Marshal(label); err == nil {
		r.cache.Set(ctx, key, raw, cacheExpireRoleGroup)
	}
	return label, nil
}

// ReplaceRoles delegates to the service and invalidates the user's entries
func (r *CachedResolver) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	if err := r.svc.ReplaceRoles(ctx, userID, roleIDs); err != nil {
		return err
	}
	return r.Invalidate(ctx, userID)
}

// ClearRoles delegates to the service and invalidates the user's entries
func (r *CachedResolver) ClearRoles(ctx context.Context, userID uuid.UUID) error {
	if err := r.svc.ClearRoles(ctx, userID); err != nil {
		return err
	}
	return r.Invalidate(ctx, userID)
}

// RelinkRolesFromCSV delegates to the service and invalidates the user's
// entries. The blank-csv no-op still invalidates; harmless and simpler.
func (r *CachedResolver) RelinkRolesFromCSV(ctx context.Context, userID uuid.UUID, csv string) error {
	if err := r.svc.RelinkRolesFromCSV(ctx, userID, csv); err != nil {
		return err
	}
	return r.Invalidate(ctx, userID)
}

// DeleteUser delegates to the service and invalidates the user's entries
func (r *CachedResolver) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.svc.DeleteUser(ctx, userID); err != nil {
		return err
	}
	return r.Invalidate(ctx, userID)
}

// Invalidate drops every cached entry of a user
func (r *CachedResolver) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return r.cache.Delete(ctx,
		fmt.Sprintf(cacheKeyRoleKeys, userID),
		fmt.Sprintf(cacheKeyPerms, userID),
		fmt.Sprintf(cacheKeyRoleGroup, userID),
	)
}

func (r *CachedResolver) getStrings(ctx context.Context, key string) ([]string, bool) {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Error("Failed to query resolver cache", "key", key, "err", err)
		}
		return nil, false
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		// Invalid cached payload, drop it
		r.cache.Delete(ctx, key)
		return nil, false
	}
	return values, true
}

func (r *CachedResolver) setStrings(ctx context.Context, key string, values []string, ttl time.Duration) {
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, raw, ttl); err != nil {
		slog.Error("Failed to store resolver cache entry", "key", key, "err", err)
	}
}
