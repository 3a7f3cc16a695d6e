package providers

import (
	"errors"
	"fmt"
	"time"

	"e84consent/internal/structures"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNonceSubject = errors.New("nonce issued for another session")

// NonceProvider issues per-session anti-forgery tokens as HS256 JWTs.
// The audience pins a token to one action.
type NonceProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewNonceProvider(conf *structures.Config) *NonceProvider {
	ttl := conf.Consent.NonceTTL
	if ttl <= 0 {
		ttl = defaultNonceTTL
	}
	return &NonceProvider{
		secret: []byte(conf.Consent.NonceSecret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (np *NonceProvider) Create(action, sessionID string) (string, error) {
	now := np.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Audience:  jwt.ClaimStrings{action},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(np.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(np.secret)
	if err != nil {
		return "", fmt.Errorf("sign nonce: %w", err)
	}
	return token, nil
}

func (np *NonceProvider) Verify(token, action, sessionID string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return np.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(action),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(np.now),
	)
	if err != nil {
		return fmt.Errorf("verify nonce: %w", err)
	}
	if claims.Subject != sessionID {
		return ErrNonceSubject
	}
	return nil
}
