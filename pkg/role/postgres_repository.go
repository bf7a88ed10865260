package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	accerrors "github.com/tendant/simple-account/pkg/errors"
)

// PostgresRoleRepository implements Repository using PostgreSQL
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{
		pool: pool,
	}
}

// CreateRole creates a new role
func (r *PostgresRoleRepository) CreateRole(ctx context.Context, params CreateRoleParams) (Role, error) {
	query := `
		INSERT INTO roles (name, role_key)
		VALUES ($1, $2)
		RETURNING id, name, role_key, disabled, deleted, created_at, updated_at
	`

	var role Role
	err := r.pool.QueryRow(ctx, query, params.Name, params.RoleKey).Scan(
		&role.ID,
		&role.Name,
		&role.RoleKey,
		&role.Disabled,
		&role.Deleted,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		return Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// GetRole gets a role by id
func (r *PostgresRoleRepository) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	query := `
		SELECT id, name, role_key, disabled, deleted, created_at, updated_at
		FROM roles
		WHERE id = $1 AND deleted = FALSE
	`

	var role Role
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&role.ID,
		&role.Name,
		&role.RoleKey,
		&role.Disabled,
		&role.Deleted,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, accerrors.New(accerrors.ErrCodeRoleNotFound, "role not found").WithDetail("role_id", id.String())
		}
		return Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// FindRoles returns all non-deleted roles
func (r *PostgresRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	query := `
		SELECT id, name, role_key, disabled, deleted, created_at, updated_at
		FROM roles
		WHERE deleted = FALSE
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

// QueryByIDs returns the roles matching the given ids
func (r *PostgresRoleRepository) QueryByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error) {
	if len(ids) == 0 {
		return []Role{}, nil
	}

	query := `
		SELECT id, name, role_key, disabled, deleted, created_at, updated_at
		FROM roles
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles by ids: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

// UpdateRole updates a role's name and key
func (r *PostgresRoleRepository) UpdateRole(ctx context.Context, params UpdateRoleParams) (Role, error) {
	query := `
		UPDATE roles
		SET name = $2, role_key = $3, updated_at = NOW()
		WHERE id = $1 AND deleted = FALSE
		RETURNING id, name, role_key, disabled, deleted, created_at, updated_at
	`

	var role Role
	err := r.pool.QueryRow(ctx, query, params.ID, params.Name, params.RoleKey).Scan(
		&role.ID,
		&role.Name,
		&role.RoleKey,
		&role.Disabled,
		&role.Deleted,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, accerrors.New(accerrors.ErrCodeRoleNotFound, "role not found").WithDetail("role_id", params.ID.String())
		}
		return Role{}, fmt.Errorf("failed to update role: %w", err)
	}
	return role, nil
}

// SetDisabled flips a role's disabled flag
func (r *PostgresRoleRepository) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	query := `
		UPDATE roles
		SET disabled = $2, updated_at = NOW()
		WHERE id = $1 AND deleted = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, id, disabled)
	if err != nil {
		return fmt.Errorf("failed to set role disabled flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accerrors.New(accerrors.ErrCodeRoleNotFound, "role not found").WithDetail("role_id", id.String())
	}
	return nil
}

// DeleteRole soft deletes a role
func (r *PostgresRoleRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE roles
		SET deleted = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func scanRoles(rows pgx.Rows) ([]Role, error) {
	var roles []Role
	for rows.Next() {
		var role Role
		err := rows.Scan(
			&role.ID,
			&role.Name,
			&role.RoleKey,
			&role.Disabled,
			&role.Deleted,
			&role.CreatedAt,
			&role.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roles: %w", err)
	}
	return roles, nil
}
