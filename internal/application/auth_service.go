package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/pkg/helpers"
	"github.com/taivex/taivex/pkg/mailer"
	"github.com/taivex/taivex/pkg/mailer/templates"
)

// Challenge purposes.
const (
	PurposeLogin         = "login"
	PurposeReset         = "reset"
	PurposeResetVerified = "reset-verified"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrChallengeExpired   = errors.New("challenge expired or invalid")
	ErrOTPInvalid         = errors.New("invalid or expired code")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// LockedError reports a lockout in effect until Until.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.UTC().Format(time.RFC3339))
}

// Challenge is the pending-authentication record stored between a successful
// password check (or reset request) and OTP verification. It lives in the
// challenge store under an opaque token handed to the client.
type Challenge struct {
	AccountID string `json:"account_id"`
	Purpose   string `json:"purpose"`
	Remember  bool   `json:"remember"`
}

// ChallengeStore persists pending authentication challenges with a TTL.
type ChallengeStore interface {
	Put(ctx context.Context, token string, ch Challenge, ttl time.Duration) error
	Get(ctx context.Context, token string) (Challenge, bool, error)
	Del(ctx context.Context, token string) error
}

// RedisChallengeStore keeps challenges in Redis so they survive restarts and
// are shared across instances.
type RedisChallengeStore struct {
	Redis *redis.Client
}

func (s *RedisChallengeStore) Put(ctx context.Context, token string, ch Challenge, ttl time.Duration) error {
	return helpers.RedisSetJSON(ctx, s.Redis, helpers.KeyChallenge(token), ch, ttl)
}

func (s *RedisChallengeStore) Get(ctx context.Context, token string) (Challenge, bool, error) {
	var ch Challenge
	ok, err := helpers.RedisGetJSON(ctx, s.Redis, helpers.KeyChallenge(token), &ch)
	return ch, ok, err
}

func (s *RedisChallengeStore) Del(ctx context.Context, token string) error {
	return helpers.RedisDel(ctx, s.Redis, helpers.KeyChallenge(token))
}

// Publisher is the slice of RabbitPublisher the services need; nil means
// email delivery is skipped (logged in development).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Accounts   repo.AccountRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	Challenges ChallengeStore
	Pub        Publisher
	Logger     *logrus.Logger

	AppName          string
	LockoutThreshold int
	LockoutDuration  time.Duration
	OTPTTL           time.Duration
	ChallengeTTL     time.Duration
	SessionTTL       time.Duration

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ChallengeResult is handed back when a step requires OTP verification next.
// DevCode carries the generated code only when no mail transport is wired,
// for local development.
type ChallengeResult struct {
	Token   string
	DevCode string
}

// Register creates the account and immediately opens a login challenge so the
// first OTP doubles as email verification.
func (s *AuthService) Register(ctx context.Context, username, email, password, confirm string) (*entity.Account, *ChallengeResult, error) {
	if password != confirm {
		return nil, nil, ErrPasswordMismatch
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	a := &entity.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         "owner",
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}
	ch, err := s.openChallenge(ctx, a, PurposeLogin, false, "")
	if err != nil {
		return nil, nil, err
	}
	return a, ch, nil
}

// Login validates the password and, when correct, opens an OTP challenge. It
// never issues tokens directly. Lockout rules:
//   - a live lock rejects the attempt outright, correct password or not
//   - an expired lock is cleared before the password is checked
//   - the Nth consecutive failure (N = LockoutThreshold) starts a new lock
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*ChallengeResult, error) {
	now := s.now()
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if a.LockExpired(now) {
		if err := s.Accounts.ClearLock(ctx, a.ID); err != nil {
			return nil, err
		}
		a.LockedUntil = nil
		a.FailedAttempts = 0
	}
	if a.Locked(now) {
		return nil, &LockedError{Until: *a.LockedUntil}
	}

	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		n, err := s.Accounts.IncrementFailedAttempts(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if n >= s.LockoutThreshold {
			until := now.Add(s.LockoutDuration)
			if err := s.Accounts.SetLock(ctx, a.ID, until); err != nil {
				return nil, err
			}
			return nil, &LockedError{Until: until}
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.Accounts.ResetFailedAttempts(ctx, a.ID); err != nil {
		return nil, err
	}
	return s.openChallenge(ctx, a, PurposeLogin, remember, "")
}

// openChallenge generates a fresh OTP, stores the pending challenge and mails
// the code. A newer challenge overwrites the account's stored OTP, so only
// the latest code verifies. An empty token means a new challenge; a non-empty
// one reuses the caller's existing challenge entry (resend).
//
// Delivery is best effort: a publish failure is logged and the challenge
// stands, the owner can request a resend.
func (s *AuthService) openChallenge(ctx context.Context, a *entity.Account, purpose string, remember bool, token string) (*ChallengeResult, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return nil, err
	}
	expiry := s.now().Add(s.OTPTTL)
	if err := s.Accounts.SetOTP(ctx, a.ID, code, expiry); err != nil {
		return nil, err
	}
	if token == "" {
		if token, err = helpers.GenToken(32); err != nil {
			return nil, err
		}
	}
	if err := s.Challenges.Put(ctx, token, Challenge{
		AccountID: a.ID,
		Purpose:   purpose,
		Remember:  remember,
	}, s.ChallengeTTL); err != nil {
		return nil, err
	}

	res := &ChallengeResult{Token: token}
	data := templates.EmailData{
		Name:    a.Username,
		AppName: s.AppName,
		Code:    code,
		Purpose: purpose,
	}.WithExpiry(expiry)
	if s.Pub != nil {
		job := mailer.EmailJob{
			To:       a.Email,
			Template: templates.OTPCode,
			Data:     templates.ToMap(data),
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("publish otp email failed")
		}
	} else {
		res.DevCode = code
		s.Logger.WithFields(logrus.Fields{"account_id": a.ID, "purpose": purpose}).
			Warn("no mail transport configured, otp returned in response meta")
	}
	return res, nil
}

// VerifyOTP consumes the challenge and the stored code. Login challenges end
// in a full session; reset challenges end in a short-lived reset grant that
// ResetPassword consumes.
func (s *AuthService) VerifyOTP(ctx context.Context, token, code string) (*entity.Account, string, *TokenPair, error) {
	ch, ok, err := s.Challenges.Get(ctx, token)
	if err != nil {
		return nil, "", nil, err
	}
	if !ok {
		return nil, "", nil, ErrChallengeExpired
	}
	a, err := s.Accounts.GetByID(ctx, ch.AccountID)
	if err != nil {
		return nil, "", nil, ErrChallengeExpired
	}
	if !a.OTPValid(code, s.now()) {
		return nil, "", nil, ErrOTPInvalid
	}

	// single use
	if err := s.Accounts.ClearOTP(ctx, a.ID); err != nil {
		return nil, "", nil, err
	}
	_ = s.Challenges.Del(ctx, token)

	switch ch.Purpose {
	case PurposeLogin:
		if !a.IsVerified {
			if err := s.Accounts.SetVerified(ctx, a.ID); err != nil {
				return nil, "", nil, err
			}
			a.IsVerified = true
		}
		pair, err := s.IssueTokens(ctx, a, ch.Remember)
		if err != nil {
			return nil, "", nil, err
		}
		return a, PurposeLogin, &pair, nil
	case PurposeReset:
		grant, err := helpers.GenToken(32)
		if err != nil {
			return nil, "", nil, err
		}
		if err := s.Challenges.Put(ctx, grant, Challenge{
			AccountID: a.ID,
			Purpose:   PurposeResetVerified,
		}, s.ChallengeTTL); err != nil {
			return nil, "", nil, err
		}
		return a, grant, nil, nil
	default:
		return nil, "", nil, ErrChallengeExpired
	}
}

// ChallengeState reports whether a challenge token is still pending and what
// it is for, so the client can decide which screen to show.
func (s *AuthService) ChallengeState(ctx context.Context, token string) (string, bool, error) {
	ch, ok, err := s.Challenges.Get(ctx, token)
	if err != nil || !ok {
		return "", false, err
	}
	return ch.Purpose, true, nil
}

// ResendOTP issues a fresh code for an existing challenge without changing
// the challenge token.
func (s *AuthService) ResendOTP(ctx context.Context, token string) (*ChallengeResult, error) {
	ch, ok, err := s.Challenges.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok || ch.Purpose == PurposeResetVerified {
		return nil, ErrChallengeExpired
	}
	a, err := s.Accounts.GetByID(ctx, ch.AccountID)
	if err != nil {
		return nil, ErrChallengeExpired
	}
	return s.openChallenge(ctx, a, ch.Purpose, ch.Remember, token)
}

// RequestReset opens a reset challenge. Unknown emails return no error and no
// challenge, so the endpoint answers identically either way.
func (s *AuthService) RequestReset(ctx context.Context, email string) (*ChallengeResult, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.openChallenge(ctx, a, PurposeReset, false, "")
}

// ResetPassword consumes a verified reset grant and replaces the password.
// Any lockout state is cleared so the owner can log in immediately.
func (s *AuthService) ResetPassword(ctx context.Context, grant, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	ch, ok, err := s.Challenges.Get(ctx, grant)
	if err != nil {
		return err
	}
	if !ok || ch.Purpose != PurposeResetVerified {
		return ErrChallengeExpired
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.Accounts.UpdatePassword(ctx, ch.AccountID, hash); err != nil {
		return err
	}
	if err := s.Accounts.ClearLock(ctx, ch.AccountID); err != nil {
		return err
	}
	_ = s.Challenges.Del(ctx, grant)
	return nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, a *entity.Account, remember bool) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		ttl := s.SessionTTL
		if remember {
			ttl = s.JWT.RefreshTTL
		}
		key := helpers.KeySession(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"account_id": a.ID,
			"email":      a.Email,
			"username":   a.Username,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, ttl)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and both tokens after validating the refresh
// token against the stored session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	a, err := s.Accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		key := helpers.KeySession(a.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := helpers.KeySession(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.SessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, a.ID, nil
}

// Logout drops the server-side session; outstanding tokens die with it.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.KeySession(accountID))
}

// GetProfile returns the account for the settings screen.
func (s *AuthService) GetProfile(ctx context.Context, accountID string) (*entity.Account, error) {
	return s.Accounts.GetByID(ctx, accountID)
}
