package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/dbx"
	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/server/models"
)

const userColumns = `id, username, email, fullname, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, fullname, password_hash, avatar_url, cover_image_url)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at
         `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Fullname, user.PasswordHash, user.AvatarURL, user.CoverImageURL).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// GetByLogin finds a user by username or email, whichever matches.
func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return r.queryOne(ctx, query, login)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.queryOne(ctx, query, username)
}

func (r *PostgresRepository) UpdateAccountDetails(ctx context.Context, id, fullname, email string) (*models.User, error) {
	query :=
		`UPDATE users SET fullname = $2, email = $3, updated_at = now()
         WHERE id = $1
         RETURNING ` + userColumns

	user, err := r.queryOne(ctx, query, id, fullname, email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (*models.User, error) {
	query :=
		`UPDATE users SET avatar_url = $2, updated_at = now()
         WHERE id = $1
         RETURNING ` + userColumns
	return r.queryOne(ctx, query, id, avatarURL)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, coverImageURL string) (*models.User, error) {
	query :=
		`UPDATE users SET cover_image_url = $2, updated_at = now()
         WHERE id = $1
         RETURNING ` + userColumns
	return r.queryOne(ctx, query, id, coverImageURL)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res, common.ErrorNotFound)
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res, common.ErrorNotFound)
}

// RotateRefreshToken atomically replaces the stored token only if it still
// equals the presented one. A zero-row update means the presented token was
// already rotated or revoked, which is a reuse event.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, id, presented, next string) error {
	query :=
		`UPDATE users SET refresh_token = $3, updated_at = now()
         WHERE id = $1 AND refresh_token = $2`

	res, err := r.db.ExecContext(ctx, query, id, presented, next)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res, common.ErrTokenReuse)
}

// ClearRefreshToken unsets the stored token. Clearing an already-absent
// token is not an error.
func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	var refreshToken sql.NullString

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname, &user.PasswordHash,
		&user.AvatarURL, &user.CoverImageURL, &refreshToken, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.RefreshToken = refreshToken.String
	return user, nil
}

func requireRowAffected(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
