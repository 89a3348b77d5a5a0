package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillSignerRoundTrip(t *testing.T) {
	s := NewBillSigner("secret", 30*24*time.Hour)
	issued := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

	token := s.Sign(42, issued)
	require.NoError(t, s.Verify(42, token, issued.Add(time.Hour)))
}

func TestBillSignerWrongOrder(t *testing.T) {
	s := NewBillSigner("secret", 30*24*time.Hour)
	issued := time.Now()

	token := s.Sign(42, issued)
	assert.ErrorIs(t, s.Verify(43, token, issued), ErrBillTokenInvalid)
}

func TestBillSignerWrongSecret(t *testing.T) {
	issued := time.Now()
	token := NewBillSigner("right", time.Hour).Sign(42, issued)
	assert.ErrorIs(t, NewBillSigner("wrong", time.Hour).Verify(42, token, issued), ErrBillTokenInvalid)
}

func TestBillSignerExpired(t *testing.T) {
	s := NewBillSigner("secret", time.Hour)
	issued := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

	token := s.Sign(42, issued)
	assert.NoError(t, s.Verify(42, token, issued.Add(59*time.Minute)))
	assert.ErrorIs(t, s.Verify(42, token, issued.Add(2*time.Hour)), ErrBillTokenExpired)
}

func TestBillSignerMalformed(t *testing.T) {
	s := NewBillSigner("secret", time.Hour)
	for _, tok := range []string{"", "noseparator", "a.b", "!!!.deadbeef"} {
		assert.ErrorIs(t, s.Verify(1, tok, time.Now()), ErrBillTokenInvalid, "token %q", tok)
	}
}
