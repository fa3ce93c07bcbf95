package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkosarev/bookstore-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, normalized_username, email, normalized_email, password_hash,
			  is_active, is_deleted, is_email_confirmed, created_at, updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.NormalizedUsername, &user.Email, &user.NormalizedEmail,
		&user.PasswordHash, &user.IsActive, &user.IsDeleted, &user.IsEmailConfirmed,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// Create inserts the user and its role assignments in one transaction.
// The database assigns the id. A unique-index violation on a normalized
// identity field surfaces as a Conflict, backstopping the service-level
// uniqueness check against concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO users (username, normalized_username, email, normalized_email, password_hash,
			  is_active, is_deleted, is_email_confirmed, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + userColumns

	saved, err := scanUser(tx.QueryRow(ctx, query,
		user.Username, user.NormalizedUsername, user.Email, user.NormalizedEmail, user.PasswordHash,
		user.IsActive, user.IsDeleted, user.IsEmailConfirmed, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, model.NewConflict("username or email already exists")
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	for _, ra := range user.Roles {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			saved.ID, ra.RoleID,
		)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to assign role: %w", err)
		}
		saved.Roles = append(saved.Roles, model.RoleAssignment{UserID: saved.ID, RoleID: ra.RoleID})
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND NOT is_deleted`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByNormalizedUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE normalized_username = $1 AND NOT is_deleted`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by normalized username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByNormalizedEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE normalized_email = $1 AND NOT is_deleted`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by normalized email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users SET username = $2, normalized_username = $3, email = $4, normalized_email = $5,
			  password_hash = $6, is_active = $7, is_email_confirmed = $8, updated_at = $9
			  WHERE id = $1 AND NOT is_deleted
			  RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.NormalizedUsername, user.Email, user.NormalizedEmail,
		user.PasswordHash, user.IsActive, user.IsEmailConfirmed, user.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// SoftDelete flips the deletion flag and removes the user's refresh
// tokens in one transaction. The row is never physically removed.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE users SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
