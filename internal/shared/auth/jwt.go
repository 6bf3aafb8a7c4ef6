package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the verified caller extracted from a token.
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Picture string
}

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	errMissingSecret = errors.New("jwt secret not configured")
)

const sessionTTL = 24 * time.Hour

// SessionSigner issues and verifies HS256 session tokens for first-party sign-in.
type SessionSigner struct {
	secret []byte
	now    func() time.Time
}

// NewSessionSigner builds a signer. An empty secret is only allowed outside production.
func NewSessionSigner(secret, env string) (*SessionSigner, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if env == "production" {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
		}
		secret = "dev-secret"
	}
	return &SessionSigner{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues a token for the given identity.
func (s *SessionSigner) Sign(id Identity) (string, error) {
	if id.UserID == "" {
		return "", errors.New("sub is required")
	}
	now := s.now().UTC()
	claims := Claims{
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses an HS256 session token.
func (s *SessionSigner) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	return identityFrom(parsed, claims, err)
}

func identityFrom(parsed *jwt.Token, claims *Claims, err error) (Identity, error) {
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed == nil || !parsed.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// Verifier checks bearer tokens.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// ChainVerifier routes RS256 tokens to the identity provider's keys and
// HS256 tokens to the session signer.
type ChainVerifier struct {
	JWKS    *JWKSVerifier
	Session *SessionSigner
}

// Verify implements Verifier.
func (v ChainVerifier) Verify(token string) (Identity, error) {
	alg, err := peekAlg(token)
	if err != nil {
		return Identity{}, err
	}
	switch alg {
	case jwt.SigningMethodRS256.Alg():
		if v.JWKS == nil {
			return Identity{}, ErrInvalidToken
		}
		return v.JWKS.Verify(token)
	case jwt.SigningMethodHS256.Alg():
		if v.Session == nil {
			return Identity{}, ErrInvalidToken
		}
		return v.Session.Verify(token)
	default:
		return Identity{}, ErrInvalidToken
	}
}

func peekAlg(token string) (string, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &Claims{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return parsed.Method.Alg(), nil
}
