package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
)

// Manager writes and clears the HttpOnly auth cookie pair. Cookies are
// SameSite=Lax so top-level navigations keep the session while cross-site
// POSTs do not carry it.
type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) SetPair(c *gin.Context, access string, aexp time.Time, refresh string, rexp time.Time) {
	m.set(c, CookieAccessToken, access, secondsUntil(aexp))
	m.set(c, CookieRefreshToken, refresh, secondsUntil(rexp))
}

func (m *Manager) Clear(c *gin.Context) {
	m.set(c, CookieAccessToken, "", -1)
	m.set(c, CookieRefreshToken, "", -1)
}

func (m *Manager) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", m.Domain, m.Secure, true)
}

func secondsUntil(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
