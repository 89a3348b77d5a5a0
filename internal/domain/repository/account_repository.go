package repository

import (
	"context"
	"time"

	"github.com/taivex/taivex/internal/domain/entity"
)

// AccountRepository defines persistence for login accounts. Every mutation is
// a single-row update; lost updates between concurrent attempts on the same
// account are accepted (see the lockout/OTP design notes).
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// SetOTP stores a fresh one-time code with its expiry; last writer wins.
	SetOTP(ctx context.Context, id, code string, expiry time.Time) error
	// ClearOTP nulls the code and expiry after consumption.
	ClearOTP(ctx context.Context, id string) error
	SetVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// IncrementFailedAttempts bumps the counter and returns the new value.
	IncrementFailedAttempts(ctx context.Context, id string) (int, error)
	ResetFailedAttempts(ctx context.Context, id string) error
	SetLock(ctx context.Context, id string, until time.Time) error
	// ClearLock clears locked_until and resets failed_attempts.
	ClearLock(ctx context.Context, id string) error
}
