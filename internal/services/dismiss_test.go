package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"e84consent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDismiss(session string) models.DismissRequest {
	return models.DismissRequest{Nonce: "nonce:" + NonceAction + ":" + session, SessionID: session}
}

func TestDismiss_MissingNonce(t *testing.T) {
	cs, _, _ := newTestService(nil)

	cookie, err := cs.Dismiss(models.DismissRequest{SessionID: "s"})
	assert.Nil(t, cookie)
	assert.ErrorIs(t, err, ErrInvalidNonce)
}

func TestDismiss_TamperedNonce(t *testing.T) {
	cs, _, _ := newTestService(nil)

	req := validDismiss("s")
	req.Nonce += "x"
	cookie, err := cs.Dismiss(req)
	assert.Nil(t, cookie)
	assert.ErrorIs(t, err, ErrInvalidNonce)
	assert.True(t, errors.Is(err, errBadToken))
}

func TestDismiss_NonceFromOtherSession(t *testing.T) {
	cs, _, _ := newTestService(nil)

	req := validDismiss("s1")
	req.SessionID = "s2"
	_, err := cs.Dismiss(req)
	assert.ErrorIs(t, err, ErrInvalidNonce)
}

func TestDismiss_Cookie(t *testing.T) {
	cs, _, _ := newTestService(nil)

	req := validDismiss("s")
	req.Secure = true
	cookie, err := cs.Dismiss(req)
	require.NoError(t, err)

	assert.Equal(t, models.ConsentCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, "example.com", cookie.Domain)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 15552000, cookie.MaxAge)
	assert.Equal(t, fixedNow.Add(180*24*time.Hour), cookie.Expires)

	rec, ok := models.DecodeConsentRecord(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, models.ConsentRecord{Accepted: true, Version: "2025-09-13", Timestamp: fixedNow.Unix()}, rec)
}

func TestDismiss_InsecureRequest(t *testing.T) {
	cs, _, _ := newTestService(nil)

	cookie, err := cs.Dismiss(validDismiss("s"))
	require.NoError(t, err)
	assert.False(t, cookie.Secure)
}

func TestDismiss_UsesConfiguredDuration(t *testing.T) {
	cs, _, _ := newTestService(staticOverrides{"cookie_duration": 30})

	cookie, err := cs.Dismiss(validDismiss("s"))
	require.NoError(t, err)
	assert.Equal(t, 30*86400, cookie.MaxAge)
	assert.Equal(t, fixedNow.Add(30*24*time.Hour), cookie.Expires)
}

func TestDismiss_NonPositiveDurationIsSessionCookie(t *testing.T) {
	for _, days := range []int{0, -5} {
		cs, _, _ := newTestService(staticOverrides{"cookie_duration": days})

		cookie, err := cs.Dismiss(validDismiss("s"))
		require.NoError(t, err)
		assert.Zero(t, cookie.MaxAge, "days=%d", days)
		assert.True(t, cookie.Expires.IsZero(), "days=%d", days)
	}
}

func TestDismiss_RoundTripsThroughHasConsent(t *testing.T) {
	cs, _, _ := newTestService(nil)
	cfg := cs.ResolveConfig()

	cookie, err := cs.Dismiss(validDismiss("s"))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	assert.True(t, cs.HasConsent(r, cfg))

	cfg.CookieVersion = "2026-01-01"
	assert.False(t, cs.HasConsent(r, cfg))
}

func TestHasConsent(t *testing.T) {
	cfg := models.ConsentConfig{CookieVersion: "v1"}
	current, err := models.ConsentRecord{Accepted: true, Version: "v1", Timestamp: 1}.Encode()
	require.NoError(t, err)
	declined, err := models.ConsentRecord{Accepted: false, Version: "v1", Timestamp: 1}.Encode()
	require.NoError(t, err)

	assert.True(t, HasConsent(current, cfg))
	assert.True(t, HasConsent(`{"accepted":true,"version":"v1","timestamp":1}`, cfg))
	assert.False(t, HasConsent(declined, cfg))
	assert.False(t, HasConsent(`{"accepted":true,"version":"v0"}`, cfg))
	assert.False(t, HasConsent("", cfg))
	assert.False(t, HasConsent("not-json", cfg))
	assert.False(t, HasConsent("%7Btruncated", cfg))
}

func TestHasConsent_NoCookie(t *testing.T) {
	cs, _, _ := newTestService(nil)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, cs.HasConsent(r, cs.ResolveConfig()))
}
