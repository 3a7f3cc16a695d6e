package providers

import (
	"net/http"

	"e84consent/internal/structures"

	"github.com/google/uuid"
)

const SessionCookieName = "e84_session"

// SessionProvider identifies a browser across requests with a random id
// cookie. It stands in for the host's session system.
type SessionProvider struct {
	path   string
	domain string
}

func NewSessionProvider(conf *structures.Config) *SessionProvider {
	return &SessionProvider{
		path:   conf.Consent.CookiePath,
		domain: conf.Consent.CookieDomain,
	}
}

// ID returns the session id carried by r, or "" when there is none.
func (sp *SessionProvider) ID(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// Ensure returns the current session id, issuing a new one when missing.
func (sp *SessionProvider) Ensure(w http.ResponseWriter, r *http.Request, secure bool) string {
	if id := sp.ID(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     sp.path,
		Domain:   sp.domain,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// IsSecure reports whether the request arrived over TLS, consulting
// X-Forwarded-Proto only when the proxy is trusted.
func IsSecure(r *http.Request, trustForwarded bool) bool {
	if r.TLS != nil {
		return true
	}
	return trustForwarded && r.Header.Get("X-Forwarded-Proto") == "https"
}
