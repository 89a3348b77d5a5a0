package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// KeyChallenge is the Redis key for a pending authentication challenge.
func KeyChallenge(token string) string {
	return "auth:challenge:" + token
}

// KeySession is the Redis key for a server-side login session.
func KeySession(uid string) string {
	return "auth:session:" + uid
}

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded
// string, uniform over 000000-999999.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenToken generates an opaque random token (hex, 2*n chars).
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
