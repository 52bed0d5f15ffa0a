package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	"github.com/oksasatya/protocol-blackout/internal/domain/repository"
)

const userColumns = `id::text, username, email, password_hash, is_email_verified,
	email_verification_token_hash, email_verification_token_expires,
	password_reset_token_hash, password_reset_token_expires,
	xp, level, completed_games, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsEmailVerified,
		&u.EmailVerificationTokenHash, &u.EmailVerificationTokenExpires,
		&u.PasswordResetTokenHash, &u.PasswordResetTokenExpires,
		&u.XP, &u.Level, &u.CompletedGames, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if u.CompletedGames == nil {
		u.CompletedGames = []string{}
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func games(u *entity.User) []string {
	if u.CompletedGames == nil {
		return []string{}
	}
	return u.CompletedGames
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, is_email_verified,
			email_verification_token_hash, email_verification_token_expires,
			xp, level, completed_games)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text, created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.IsEmailVerified,
		u.EmailVerificationTokenHash, u.EmailVerificationTokenExpires,
		u.XP, u.Level, games(u))

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return oops.Code("USER_CREATE_FAILED").With("email", u.Email).Wrap(err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code(op).Wrap(err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "USER_GET_BY_ID_FAILED", `id = $1::uuid`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "USER_GET_BY_EMAIL_FAILED", `lower(email) = lower($1)`, entity.NormalizeEmail(email))
}

func (r *UserRepository) GetByVerificationTokenHash(ctx context.Context, hash string) (*entity.User, error) {
	return r.getOne(ctx, "USER_GET_BY_VERIFY_TOKEN_FAILED",
		`email_verification_token_hash = $1 AND email_verification_token_expires > now()`, hash)
}

func (r *UserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*entity.User, error) {
	return r.getOne(ctx, "USER_GET_BY_RESET_TOKEN_FAILED",
		`password_reset_token_hash = $1 AND password_reset_token_expires > now()`, hash)
}

// Save writes account columns only; xp, level and completed_games belong to UpdateProgress.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET
			username = $2, email = $3, password_hash = $4, is_email_verified = $5,
			email_verification_token_hash = $6, email_verification_token_expires = $7,
			password_reset_token_hash = $8, password_reset_token_expires = $9,
			updated_at = now()
		WHERE id = $1::uuid
		RETURNING updated_at
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.IsEmailVerified,
		u.EmailVerificationTokenHash, u.EmailVerificationTokenExpires,
		u.PasswordResetTokenHash, u.PasswordResetTokenExpires)

	err := row.Scan(&u.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return repository.ErrNotFound
	case isUniqueViolation(err):
		return repository.ErrDuplicateEmail
	default:
		return oops.Code("USER_SAVE_FAILED").With("user_id", u.ID).Wrap(err)
	}
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, hash string, expires time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			password_reset_token_hash = $2,
			password_reset_token_expires = $3,
			updated_at = now()
		WHERE id = $1::uuid
	`, id, hash, expires)
	if err != nil {
		return oops.Code("USER_SET_RESET_TOKEN_FAILED").With("user_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, id, hash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			is_email_verified = TRUE,
			email_verification_token_hash = NULL,
			email_verification_token_expires = NULL,
			updated_at = now()
		WHERE id = $1::uuid
		  AND email_verification_token_hash = $2
		  AND email_verification_token_expires > now()
	`, id, hash)
	if err != nil {
		return oops.Code("USER_VERIFY_FAILED").With("user_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, id, hash, newPasswordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			password_hash = $3,
			password_reset_token_hash = NULL,
			password_reset_token_expires = NULL,
			updated_at = now()
		WHERE id = $1::uuid
		  AND password_reset_token_hash = $2
		  AND password_reset_token_expires > now()
	`, id, hash, newPasswordHash)
	if err != nil {
		return oops.Code("USER_RESET_PASSWORD_FAILED").With("user_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateProgress locks the row, applies fn and writes the progress columns in one transaction.
func (r *UserRepository) UpdateProgress(ctx context.Context, id string, fn func(u *entity.User) error) (*entity.User, error) {
	var out *entity.User
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1::uuid FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return oops.Code("USER_LOCK_FAILED").With("user_id", id).Wrap(err)
		}
		if err := fn(u); err != nil {
			return err
		}
		row := tx.QueryRow(ctx, `
			UPDATE users SET xp = $2, level = $3, completed_games = $4, updated_at = now()
			WHERE id = $1::uuid
			RETURNING updated_at
		`, id, u.XP, u.Level, games(u))
		if err := row.Scan(&u.UpdatedAt); err != nil {
			return oops.Code("USER_PROGRESS_WRITE_FAILED").With("user_id", id).Wrap(err)
		}
		out = u
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if _, ok := oops.AsOops(err); ok {
			return nil, err
		}
		return nil, oops.Code("USER_PROGRESS_TX_FAILED").With("user_id", id).Wrap(err)
	}
	return out, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
	if err != nil {
		return false, oops.Code("USER_DELETE_FAILED").With("user_id", id).Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
