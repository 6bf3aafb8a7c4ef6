package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionSignerRoundTrip(t *testing.T) {
	signer, err := NewSessionSigner("secret", "dev")
	if err != nil {
		t.Fatalf("NewSessionSigner: %v", err)
	}
	token, err := signer.Sign(Identity{UserID: "google:1", Email: "a@b.c", Name: "Ada"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	id, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "google:1" || id.Email != "a@b.c" || id.Name != "Ada" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestSessionSignerExpired(t *testing.T) {
	signer, _ := NewSessionSigner("secret", "dev")
	past := time.Now().Add(-48 * time.Hour)
	signer.now = func() time.Time { return past }
	token, err := signer.Sign(Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	signer.now = time.Now
	if _, err := signer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSessionSignerRejectsOtherSecret(t *testing.T) {
	a, _ := NewSessionSigner("secret-a", "dev")
	b, _ := NewSessionSigner("secret-b", "dev")
	token, _ := a.Sign(Identity{UserID: "u1"})
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewSessionSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSessionSigner("", "production"); err == nil {
		t.Fatalf("expected error without secret in production")
	}
}

func TestChainVerifierUsesJWKSForRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kid": "k1",
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	defer server.Close()

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jwks, err := NewJWKSVerifier(ctx, server.URL)
	if err != nil {
		t.Fatalf("NewJWKSVerifier: %v", err)
	}
	session, _ := NewSessionSigner("secret", "dev")
	verifier := ChainVerifier{JWKS: jwks, Session: session}

	for i := 0; i < 2; i++ {
		id, err := verifier.Verify(signed)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if id.UserID != "user_2abc" {
			t.Fatalf("UserID = %q", id.UserID)
		}
	}
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Fatalf("expected keys to be cached, fetched %d times", got)
	}
}

func TestJWKSVerifierRejectsForeignKey(t *testing.T) {
	published, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kid": "k1",
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(published.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(published.E)).Bytes()),
			}},
		})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	verifier, err := NewJWKSVerifier(ctx, server.URL)
	if err != nil {
		t.Fatalf("NewJWKSVerifier: %v", err)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(other)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestChainVerifierRejectsGarbage(t *testing.T) {
	session, _ := NewSessionSigner("secret", "dev")
	verifier := ChainVerifier{Session: session}
	if _, err := verifier.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
