package menu

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemPermissionLookup implements PermissionLookup with a static map,
// for tests and hosts without a menu table
type InMemPermissionLookup struct {
	mu    sync.RWMutex
	perms map[uuid.UUID][]string
}

// NewInMemPermissionLookup creates an empty in-memory lookup
func NewInMemPermissionLookup() *InMemPermissionLookup {
	return &InMemPermissionLookup{
		perms: make(map[uuid.UUID][]string),
	}
}

// GetPermsByUserID implements PermissionLookup
func (l *InMemPermissionLookup) GetPermsByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	perms := l.perms[userID]
	out := make([]string, len(perms))
	copy(out, perms)
	return out, nil
}

// SetPerms replaces the permission strings of a user
func (l *InMemPermissionLookup) SetPerms(userID uuid.UUID, perms []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.perms[userID] = append([]string(nil), perms...)
}
