package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	accerrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/role"
)

const uniqueViolationCode = "23505"

// PostgresAccountRepository implements AccountRepository using PostgreSQL.
// Login-name uniqueness is enforced by the users.login_name unique
// constraint; role relinks run inside a transaction.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		pool: pool,
	}
}

const userColumns = `
	id, login_name, password_hash, salt, password_version,
	login_ip, login_at, created_at, updated_at, deleted_at
`

// CreateUser creates a new user
func (r *PostgresAccountRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	query := `
		INSERT INTO users (login_name, password_hash, salt, password_version)
		VALUES ($1, $2, $3, $4)
		RETURNING` + userColumns

	row := r.pool.QueryRow(ctx, query,
		params.LoginName,
		params.Credential.Hash,
		params.Credential.Salt,
		int(params.Credential.Version),
	)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, accerrors.New(accerrors.ErrCodeUserAlreadyExists, "login name already taken").
				WithDetail("login_name", params.LoginName)
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser gets a user by id
func (r *PostgresAccountRepository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, accerrors.New(accerrors.ErrCodeUserNotFound, "user not found").WithDetail("user_id", id.String())
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserWithRoles gets a user with their role links populated
func (r *PostgresAccountRepository) GetUserWithRoles(ctx context.Context, id uuid.UUID) (UserWithRoles, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return UserWithRoles{}, err
	}

	roles, err := r.userRoles(ctx, id)
	if err != nil {
		return UserWithRoles{}, err
	}

	return UserWithRoles{
		User:  user,
		Roles: roles,
	}, nil
}

// FindUsersWithRoles returns all non-deleted users with their roles
func (r *PostgresAccountRepository) FindUsersWithRoles(ctx context.Context) ([]UserWithRoles, error) {
	query := `SELECT` + userColumns + `FROM users WHERE deleted_at IS NULL ORDER BY login_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	result := make([]UserWithRoles, 0, len(users))
	for _, user := range users {
		roles, err := r.userRoles(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, UserWithRoles{User: user, Roles: roles})
	}
	return result, nil
}

// FindUserByLoginName finds a user by exact login name
func (r *PostgresAccountRepository) FindUserByLoginName(ctx context.Context, loginName string) (User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE login_name = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.pool.QueryRow(ctx, query, loginName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, accerrors.New(accerrors.ErrCodeUserNotFound, "user not found").WithDetail("login_name", loginName)
		}
		return User{}, fmt.Errorf("failed to find user by login name: %w", err)
	}
	return user, nil
}

// UpdateUserPartial applies only the non-nil fields of params
func (r *PostgresAccountRepository) UpdateUserPartial(ctx context.Context, params UpdateUserParams) (User, error) {
	query := `
		UPDATE users
		SET login_name = COALESCE($2, login_name),
		    login_ip = COALESCE($3, login_ip),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, params.ID, params.LoginName, params.LoginIP))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, accerrors.New(accerrors.ErrCodeUserNotFound, "user not found").WithDetail("user_id", params.ID.String())
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, accerrors.New(accerrors.ErrCodeUserAlreadyExists, "login name already taken")
		}
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateCredential overwrites the stored credential
func (r *PostgresAccountRepository) UpdateCredential(ctx context.Context, id uuid.UUID, cred password.Credential) error {
	query := `
		UPDATE users
		SET password_hash = $2, salt = $3, password_version = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, cred.Hash, cred.Salt, int(cred.Version))
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accerrors.New(accerrors.ErrCodeUserNotFound, "user not found").WithDetail("user_id", id.String())
	}
	return nil
}

// RecordLogin stamps the caller-supplied IP and time onto the user
func (r *PostgresAccountRepository) RecordLogin(ctx context.Context, id uuid.UUID, ip string, at time.Time) error {
	query := `
		UPDATE users
		SET login_ip = $2, login_at = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, ip, at)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accerrors.New(accerrors.ErrCodeUserNotFound, "user not found").WithDetail("user_id", id.String())
	}
	return nil
}

// ReplaceUserRoles replaces the user's role links inside one transaction,
// so a failure after the clear cannot leave the user with an empty link set
func (r *PostgresAccountRepository) ReplaceUserRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin relink transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear role links: %w", err)
	}

	for _, roleID := range roleIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, roleID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert role link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit relink transaction: %w", err)
	}
	return nil
}

// DeleteUserRoles removes all role links of a user
func (r *PostgresAccountRepository) DeleteUserRoles(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete role links: %w", err)
	}
	return nil
}

// DeleteUser soft deletes a user
func (r *PostgresAccountRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) userRoles(ctx context.Context, userID uuid.UUID) ([]role.Role, error) {
	query := `
		SELECT r.id, r.name, r.role_key, r.disabled, r.deleted, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY ur.created_at, r.name
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var roles []role.Role
	for rows.Next() {
		var rec role.Role
		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.RoleKey,
			&rec.Disabled,
			&rec.Deleted,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		roles = append(roles, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user roles: %w", err)
	}
	return roles, nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var version int
	var loginIP *string
	var loginAt *time.Time
	var deletedAt *time.Time

	err := row.Scan(
		&user.ID,
		&user.LoginName,
		&user.Credential.Hash,
		&user.Credential.Salt,
		&version,
		&loginIP,
		&loginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return User{}, err
	}

	user.Credential.Version = password.PasswordVersion(version)
	if loginIP != nil {
		user.LoginIP = *loginIP
	}
	user.LoginAt = loginAt
	user.DeletedAt = deletedAt
	return user, nil
}
