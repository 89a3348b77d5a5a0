package entity

import "time"

// Account is the aggregate root for one tenant: the shop owner who logs in.
// Passwords are stored as bcrypt hashes in PasswordHash.
//
// OTPCode/OTPExpiry are set only while a login or password-reset challenge is
// in flight. LockedUntil is set once FailedAttempts reaches the lockout
// threshold and is cleared lazily on the first attempt after it elapses.
type Account struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	IsVerified     bool
	OTPCode        string
	OTPExpiry      *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
	Role           string
	CreatedAt      time.Time
}

// Locked reports whether the account is still locked out at the given instant.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// LockExpired reports whether a past lockout has elapsed and should be cleared.
func (a *Account) LockExpired(now time.Time) bool {
	return a.LockedUntil != nil && !a.LockedUntil.After(now)
}

// OTPValid reports whether code matches the stored one-time code and the code
// has not expired.
func (a *Account) OTPValid(code string, now time.Time) bool {
	if a.OTPCode == "" || a.OTPExpiry == nil {
		return false
	}
	return a.OTPCode == code && now.Before(*a.OTPExpiry)
}
