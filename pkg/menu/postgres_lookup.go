package menu

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPermissionLookup implements PermissionLookup by joining the user's
// roles to the menus those roles expose
type PostgresPermissionLookup struct {
	pool *pgxpool.Pool
}

// NewPostgresPermissionLookup creates a new PostgreSQL permission lookup
func NewPostgresPermissionLookup(pool *pgxpool.Pool) *PostgresPermissionLookup {
	return &PostgresPermissionLookup{
		pool: pool,
	}
}

// GetPermsByUserID implements PermissionLookup
func (l *PostgresPermissionLookup) GetPermsByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT m.perms
		FROM menus m
		JOIN role_menus rm ON rm.menu_id = m.id
		JOIN user_roles ur ON ur.role_id = rm.role_id
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		  AND r.disabled = FALSE
		  AND r.deleted = FALSE
	`

	rows, err := l.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu perms: %w", err)
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var perm string
		if err := rows.Scan(&perm); err != nil {
			return nil, fmt.Errorf("failed to scan menu perm: %w", err)
		}
		perms = append(perms, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu perms: %w", err)
	}
	return perms, nil
}
