package repository

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Confirmation codes
	SetConfirmationCode(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	ConsumeConfirmationCode(ctx context.Context, id uuid.UUID, hash string) (bool, error)
	ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, first_name, last_name, bio, role,
	confirmation_code_hash, confirmation_code_expires_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.ConfirmationCodeHash,
		&user.ConfirmationCodeExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, first_name, last_name, bio, role,
			confirmation_code_hash, confirmation_code_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.ConfirmationCodeHash,
		user.ConfirmationCodeExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		err = translateError(err)
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err))
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (ur *userRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY created_at, username
		LIMIT $2 OFFSET $3
	`

	rows, err := ur.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		ur.log.Error("Failed to find users",
			zap.Error(err),
			zap.String("search", search),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE ($1 = '' OR username ILIKE '%' || $1 || '%')`

	var count int64
	if err := ur.db.QueryRow(ctx, query, search).Scan(&count); err != nil {
		ur.log.Error("Failed to count users", zap.Error(err))
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, first_name = $4, last_name = $5,
		    bio = $6, role = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)
	if err != nil {
		err = translateError(err)
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID.String(), ErrNotFound)
	}

	return nil
}

func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id.String(), ErrNotFound)
	}

	ur.log.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

func (ur *userRepository) SetConfirmationCode(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET confirmation_code_hash = $2, confirmation_code_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, id, hash, expiresAt)
	if err != nil {
		ur.log.Error("Failed to set confirmation code",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("set confirmation code for user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// ConsumeConfirmationCode clears the code only if it is still the one that was checked,
// so a code can be exchanged at most once even under concurrent requests.
func (ur *userRepository) ConsumeConfirmationCode(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	query := `
		UPDATE users
		SET confirmation_code_hash = NULL, confirmation_code_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND confirmation_code_hash = $2
	`

	result, err := ur.db.Exec(ctx, query, id, hash)
	if err != nil {
		ur.log.Error("Failed to consume confirmation code",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("consume confirmation code for user %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (ur *userRepository) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET confirmation_code_hash = NULL, confirmation_code_expires_at = NULL
		WHERE confirmation_code_expires_at IS NOT NULL AND confirmation_code_expires_at <= $1
	`

	result, err := ur.db.Exec(ctx, query, now)
	if err != nil {
		ur.log.Error("Failed to clear expired confirmation codes", zap.Error(err))
		return 0, fmt.Errorf("clear expired confirmation codes: %w", err)
	}

	ur.log.Debug("Expired confirmation codes cleared", zap.Int64("count", result.RowsAffected()))
	return result.RowsAffected(), nil
}
