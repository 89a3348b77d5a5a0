package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBillTokenInvalid = errors.New("bill token invalid")
	ErrBillTokenExpired = errors.New("bill token expired")
)

// BillSigner issues and verifies share tokens for the public bill view. A
// token binds an order id to its issue time; verification is constant time
// and enforces a maximum age.
type BillSigner struct {
	secret []byte
	maxAge time.Duration
}

func NewBillSigner(secret string, maxAge time.Duration) *BillSigner {
	return &BillSigner{secret: []byte(secret), maxAge: maxAge}
}

// Sign returns "<base64url ts>.<hex mac>" for the order id at the given time.
func (s *BillSigner) Sign(orderID int64, issuedAt time.Time) string {
	ts := strconv.FormatInt(issuedAt.Unix(), 10)
	mac := s.mac(orderID, ts)
	return base64.RawURLEncoding.EncodeToString([]byte(ts)) + "." + hex.EncodeToString(mac)
}

// Verify checks the token against the order id and returns ErrBillTokenExpired
// when the issue time is older than the configured max age.
func (s *BillSigner) Verify(orderID int64, token string, now time.Time) error {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return ErrBillTokenInvalid
	}
	tsRaw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrBillTokenInvalid
	}
	got, err := hex.DecodeString(parts[1])
	if err != nil {
		return ErrBillTokenInvalid
	}
	if !hmac.Equal(got, s.mac(orderID, string(tsRaw))) {
		return ErrBillTokenInvalid
	}
	sec, err := strconv.ParseInt(string(tsRaw), 10, 64)
	if err != nil {
		return ErrBillTokenInvalid
	}
	issued := time.Unix(sec, 0)
	if now.Sub(issued) > s.maxAge {
		return ErrBillTokenExpired
	}
	return nil
}

func (s *BillSigner) mac(orderID int64, ts string) []byte {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "bill-view:%d:%s", orderID, ts)
	return h.Sum(nil)
}
