package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/pkg/helpers"
)

// fakeAccounts is an in-memory AccountRepository keyed by id.
type fakeAccounts struct {
	byID map[string]*entity.Account
}

func newFakeAccounts(accounts ...*entity.Account) *fakeAccounts {
	f := &fakeAccounts{byID: map[string]*entity.Account{}}
	for _, a := range accounts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) Create(_ context.Context, a *entity.Account) error {
	for _, x := range f.byID {
		if strings.EqualFold(x.Email, a.Email) {
			return repo.ErrDuplicateEmail
		}
	}
	if a.ID == "" {
		a.ID = "acc-" + a.Email
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAccounts) SetOTP(_ context.Context, id, code string, expiry time.Time) error {
	a := f.byID[id]
	a.OTPCode = code
	a.OTPExpiry = &expiry
	return nil
}

func (f *fakeAccounts) ClearOTP(_ context.Context, id string) error {
	a := f.byID[id]
	a.OTPCode = ""
	a.OTPExpiry = nil
	return nil
}

func (f *fakeAccounts) SetVerified(_ context.Context, id string) error {
	f.byID[id].IsVerified = true
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	f.byID[id].PasswordHash = hash
	return nil
}

func (f *fakeAccounts) IncrementFailedAttempts(_ context.Context, id string) (int, error) {
	a := f.byID[id]
	a.FailedAttempts++
	return a.FailedAttempts, nil
}

func (f *fakeAccounts) ResetFailedAttempts(_ context.Context, id string) error {
	f.byID[id].FailedAttempts = 0
	return nil
}

func (f *fakeAccounts) SetLock(_ context.Context, id string, until time.Time) error {
	a := f.byID[id]
	a.LockedUntil = &until
	return nil
}

func (f *fakeAccounts) ClearLock(_ context.Context, id string) error {
	a := f.byID[id]
	a.LockedUntil = nil
	a.FailedAttempts = 0
	return nil
}

// mapChallenges keeps challenges in memory, ignoring TTLs.
type mapChallenges struct {
	data map[string]Challenge
}

func newMapChallenges() *mapChallenges {
	return &mapChallenges{data: map[string]Challenge{}}
}

func (m *mapChallenges) Put(_ context.Context, token string, ch Challenge, _ time.Duration) error {
	m.data[token] = ch
	return nil
}

func (m *mapChallenges) Get(_ context.Context, token string) (Challenge, bool, error) {
	ch, ok := m.data[token]
	return ch, ok, nil
}

func (m *mapChallenges) Del(_ context.Context, token string) error {
	delete(m.data, token)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

var testNow = time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)

func newAuthService(accounts *fakeAccounts) *AuthService {
	return &AuthService{
		Accounts:         accounts,
		JWT:              helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 168*time.Hour),
		Challenges:       newMapChallenges(),
		Logger:           quietLogger(),
		AppName:          "taivex",
		LockoutThreshold: 5,
		LockoutDuration:  4 * time.Hour,
		OTPTTL:           10 * time.Minute,
		ChallengeTTL:     15 * time.Minute,
		SessionTTL:       24 * time.Hour,
		Now:              func() time.Time { return testNow },
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := helpers.HashPassword(password)
	require.NoError(t, err)
	return h
}

func ownerAccount(t *testing.T) *entity.Account {
	t.Helper()
	return &entity.Account{
		ID:           "acc-1",
		Username:     "asha",
		Email:        "asha@example.com",
		PasswordHash: mustHash(t, "correct-horse"),
		Role:         "owner",
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts := newFakeAccounts(ownerAccount(t))
	svc := newAuthService(accounts)

	_, _, err := svc.Register(context.Background(), "other", "ASHA@example.com", "password123", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterOpensChallenge(t *testing.T) {
	accounts := newFakeAccounts()
	svc := newAuthService(accounts)

	a, ch, err := svc.Register(context.Background(), "asha", "asha@example.com", "password123", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, ch.Token)
	// no mail transport wired, code comes back for dev use
	assert.Len(t, ch.DevCode, 6)
	assert.Equal(t, ch.DevCode, accounts.byID[a.ID].OTPCode)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeAccounts())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPasswordCounts(t *testing.T) {
	accounts := newFakeAccounts(ownerAccount(t))
	svc := newAuthService(accounts)

	for i := 0; i < 4; i++ {
		_, err := svc.Login(context.Background(), "asha@example.com", "wrong", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, 4, accounts.byID["acc-1"].FailedAttempts)

	// fifth consecutive failure starts the lock
	_, err := svc.Login(context.Background(), "asha@example.com", "wrong", false)
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, testNow.Add(4*time.Hour), locked.Until)
}

func TestLoginLockedRejectsCorrectPassword(t *testing.T) {
	a := ownerAccount(t)
	until := testNow.Add(time.Hour)
	a.LockedUntil = &until
	svc := newAuthService(newFakeAccounts(a))

	_, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, until, locked.Until)
}

func TestLoginExpiredLockCleared(t *testing.T) {
	a := ownerAccount(t)
	past := testNow.Add(-time.Minute)
	a.LockedUntil = &past
	a.FailedAttempts = 5
	accounts := newFakeAccounts(a)
	svc := newAuthService(accounts)

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)
	assert.NotEmpty(t, ch.Token)
	assert.Nil(t, accounts.byID["acc-1"].LockedUntil)
	assert.Equal(t, 0, accounts.byID["acc-1"].FailedAttempts)
}

func TestVerifyOTPLogin(t *testing.T) {
	accounts := newFakeAccounts(ownerAccount(t))
	svc := newAuthService(accounts)

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	a, purpose, pair, err := svc.VerifyOTP(context.Background(), ch.Token, ch.DevCode)
	require.NoError(t, err)
	assert.Equal(t, PurposeLogin, purpose)
	assert.Equal(t, "acc-1", a.ID)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	// first successful login marks the account verified
	assert.True(t, accounts.byID["acc-1"].IsVerified)
	// code consumed
	assert.Empty(t, accounts.byID["acc-1"].OTPCode)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	_, _, _, err = svc.VerifyOTP(context.Background(), ch.Token, "000000")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	testNow = testNow.Add(11 * time.Minute)
	defer func() { testNow = testNow.Add(-11 * time.Minute) }()

	_, _, _, err = svc.VerifyOTP(context.Background(), ch.Token, ch.DevCode)
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	_, _, _, err = svc.VerifyOTP(context.Background(), ch.Token, ch.DevCode)
	require.NoError(t, err)

	_, _, _, err = svc.VerifyOTP(context.Background(), ch.Token, ch.DevCode)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestNewerChallengeInvalidatesOlderCode(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	first, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	// only the latest code is stored on the account
	_, _, _, err = svc.VerifyOTP(context.Background(), first.Token, first.DevCode)
	assert.ErrorIs(t, err, ErrOTPInvalid)

	_, _, _, err = svc.VerifyOTP(context.Background(), second.Token, second.DevCode)
	assert.NoError(t, err)
}

func TestResendOTPKeepsToken(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	res, err := svc.ResendOTP(context.Background(), ch.Token)
	require.NoError(t, err)
	assert.Equal(t, ch.Token, res.Token)
	assert.NotEmpty(t, res.DevCode)

	_, _, _, err = svc.VerifyOTP(context.Background(), ch.Token, res.DevCode)
	assert.NoError(t, err)
}

type failingPublisher struct{}

func (failingPublisher) PublishJSON(context.Context, any) error {
	return errors.New("amqp connection refused")
}

func TestLoginSurvivesPublishFailure(t *testing.T) {
	accounts := newFakeAccounts(ownerAccount(t))
	svc := newAuthService(accounts)
	svc.Pub = failingPublisher{}

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)
	require.NotEmpty(t, ch.Token)
	// transport is wired, just failing: the code must not leak into the response
	assert.Empty(t, ch.DevCode)

	// the challenge stands and the stored code still verifies
	_, _, pair, err := svc.VerifyOTP(context.Background(), ch.Token, accounts.byID["acc-1"].OTPCode)
	require.NoError(t, err)
	assert.NotNil(t, pair)
}

func TestResendOTPLeavesSingleChallenge(t *testing.T) {
	store := newMapChallenges()
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))
	svc.Challenges = store

	ch, err := svc.Login(context.Background(), "asha@example.com", "correct-horse", false)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := svc.ResendOTP(context.Background(), ch.Token)
		require.NoError(t, err)
		assert.Equal(t, ch.Token, res.Token)
	}
	assert.Len(t, store.data, 1)
}

func TestRequestResetUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeAccounts())

	ch, err := svc.RequestReset(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, ch)
}

func TestResetFlow(t *testing.T) {
	a := ownerAccount(t)
	until := testNow.Add(time.Hour)
	a.LockedUntil = &until
	accounts := newFakeAccounts(a)
	svc := newAuthService(accounts)

	ch, err := svc.RequestReset(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.NotNil(t, ch)

	_, grant, pair, err := svc.VerifyOTP(context.Background(), ch.Token, ch.DevCode)
	require.NoError(t, err)
	assert.Nil(t, pair)
	require.NotEmpty(t, grant)

	require.NoError(t, svc.ResetPassword(context.Background(), grant, "new-password1", "new-password1"))

	assert.True(t, helpers.CompareHashAndPassword(accounts.byID["acc-1"].PasswordHash, "new-password1"))
	// lock cleared so the owner can log in right away
	assert.Nil(t, accounts.byID["acc-1"].LockedUntil)

	// grant is single use
	err = svc.ResetPassword(context.Background(), grant, "another-pass1", "another-pass1")
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestResetPasswordMismatch(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	err := svc.ResetPassword(context.Background(), "any", "one", "two")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestResetGrantCannotResend(t *testing.T) {
	svc := newAuthService(newFakeAccounts(ownerAccount(t)))

	ch, err := svc.RequestReset(context.Background(), "asha@example.com")
	require.NoError(t, err)

	_, grant, _, err := svc.VerifyOTP(context.Background(), ch.Token, ch.DevCode)
	require.NoError(t, err)

	_, err = svc.ResendOTP(context.Background(), grant)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}
