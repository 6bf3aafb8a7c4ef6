package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier validates RS256 tokens against an identity provider's published keys.
type JWKSVerifier struct {
	keys keyfunc.Keyfunc
	now  func() time.Time
}

// NewJWKSVerifier loads the key set at url. Keys refresh in the background
// until ctx ends, and a token with an unknown kid triggers a rate limited
// refetch.
func NewJWKSVerifier(ctx context.Context, url string) (*JWKSVerifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{url})
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", url, err)
	}
	return &JWKSVerifier{keys: k, now: time.Now}, nil
}

// Verify implements Verifier.
func (v *JWKSVerifier) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	return identityFrom(parsed, claims, err)
}
