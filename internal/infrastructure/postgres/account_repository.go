package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountCols = `id, username, email, password_hash, is_verified,
	COALESCE(otp_code, ''), otp_expiry, failed_attempts, locked_until, role, created_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsVerified,
		&a.OTPCode, &a.OTPExpiry, &a.FailedAttempts, &a.LockedUntil, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, a.Username, a.Email, a.PasswordHash, a.Role)

	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		if isUniqueViolation(err, "") {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE id = $1
	`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE lower(email) = lower($1)
	`, email))
}

func (r *AccountRepository) SetOTP(ctx context.Context, id, code string, expiry time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts SET otp_code = $1, otp_expiry = $2 WHERE id = $3
	`, code, expiry, id)
}

func (r *AccountRepository) ClearOTP(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE accounts SET otp_code = NULL, otp_expiry = NULL WHERE id = $1
	`, id)
}

func (r *AccountRepository) SetVerified(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE accounts SET is_verified = TRUE WHERE id = $1`, id)
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2`, passwordHash, id)
}

func (r *AccountRepository) IncrementFailedAttempts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		UPDATE accounts SET failed_attempts = failed_attempts + 1
		WHERE id = $1
		RETURNING failed_attempts
	`, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return n, err
}

func (r *AccountRepository) ResetFailedAttempts(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE accounts SET failed_attempts = 0 WHERE id = $1`, id)
}

func (r *AccountRepository) SetLock(ctx context.Context, id string, until time.Time) error {
	return r.exec(ctx, `UPDATE accounts SET locked_until = $1 WHERE id = $2`, until, id)
}

func (r *AccountRepository) ClearLock(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE accounts SET locked_until = NULL, failed_attempts = 0 WHERE id = $1
	`, id)
}

func (r *AccountRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
