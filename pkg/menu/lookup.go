// Package menu exposes the menu-derived permission lookup the account core
// depends on. Menu records themselves (navigation tree, ordering, icons)
// belong to the hosting admin application; this package only answers "which
// permission strings do this user's menus grant".
package menu

import (
	"context"

	"github.com/google/uuid"
)

// PermissionLookup resolves the menu permission strings of a user. Entries
// may be blank or duplicated; callers are expected to filter.
type PermissionLookup interface {
	GetPermsByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
}
