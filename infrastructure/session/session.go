package session

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

const CookieName = "X-Session-Token"

// DefaultTTL is used when no session lifetime is configured.
const DefaultTTL = 12 * time.Hour

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// Expiry returns now plus ttl, or plus DefaultTTL when ttl is not positive.
func Expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return time.Now().Add(ttl)
}


// NewToken returns n random bytes encoded as unpadded URL-safe base64.
// It panics if the system random source fails.
func NewToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("session: random source failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
