package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"e84consent/internal/models"
)

const secondsPerDay = 24 * 60 * 60

var ErrInvalidNonce = errors.New("invalid nonce")

// Dismiss verifies the anti-forgery token and returns the consent cookie to
// set. Nothing is produced when the token is missing or invalid.
func (cs *ConsentService) Dismiss(req models.DismissRequest) (*http.Cookie, error) {
	if req.Nonce == "" {
		return nil, ErrInvalidNonce
	}
	if err := cs.nonces.Verify(req.Nonce, NonceAction, req.SessionID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNonce, err)
	}

	cfg := cs.ResolveConfig()
	now := cs.now()
	record := models.ConsentRecord{
		Accepted:  true,
		Version:   cfg.CookieVersion,
		Timestamp: now.Unix(),
	}
	value, err := record.Encode()
	if err != nil {
		return nil, err
	}

	cookie := &http.Cookie{
		Name:     models.ConsentCookieName,
		Value:    value,
		Path:     cs.settings.CookiePath,
		Domain:   cs.settings.CookieDomain,
		Secure:   req.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// A non-positive duration leaves a session cookie.
	if cfg.CookieDurationDays > 0 {
		maxAge := cfg.CookieDurationDays * secondsPerDay
		cookie.MaxAge = maxAge
		cookie.Expires = now.Add(time.Duration(maxAge) * time.Second)
	}
	return cookie, nil
}

func (cs *ConsentService) HasConsent(r *http.Request, cfg models.ConsentConfig) bool {
	c, err := r.Cookie(models.ConsentCookieName)
	if err != nil {
		return false
	}
	return HasConsent(c.Value, cfg)
}

// HasConsent reports whether a raw consent cookie value records acceptance
// under the current cookie version. Records from another version count as
// no consent so that bumping the version re-prompts everyone.
func HasConsent(raw string, cfg models.ConsentConfig) bool {
	rec, ok := models.DecodeConsentRecord(raw)
	if !ok {
		return false
	}
	return rec.Accepted && rec.Version == cfg.CookieVersion
}
