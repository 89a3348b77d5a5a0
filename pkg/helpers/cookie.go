package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieAccess    = "access_token"
	CookieRefresh   = "refresh_token"
	CookieChallenge = "auth_challenge"
)

type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

func (m *CookieManager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieAccess, access, maxAgeFrom(aexp), "/", m.Domain, m.Secure, true)
	c.SetCookie(CookieRefresh, refresh, maxAgeFrom(rexp), "/", m.Domain, m.Secure, true)
}

// SetChallenge stores the pending authentication challenge token issued after a
// correct password but before OTP verification.
func (m *CookieManager) SetChallenge(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieChallenge, token, int(ttl.Seconds()), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) ClearChallenge(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieChallenge, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieAccess, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(CookieRefresh, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(CookieChallenge, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
