package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"yatube/internal/clock"
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens. The login flow that hands
// tokens out lives outside this service; Tokens only needs the shared
// secret.
type Tokens struct {
	secret []byte
	clock  clock.Clock
}

func NewTokens(secret string, c clock.Clock) *Tokens {
	if c == nil {
		c = clock.Real()
	}
	return &Tokens{secret: []byte(secret), clock: c}
}

// GenerateToken creates a token for username valid for 24 hours.
func (t *Tokens) GenerateToken(username string) (string, error) {
	return t.GenerateTokenWithExpiry(username, t.clock.Now().Add(24*time.Hour))
}

// GenerateTokenWithExpiry creates a token with a custom expiry.
func (t *Tokens) GenerateTokenWithExpiry(username string, expiry time.Time) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken checks signature and expiry and returns the claims.
func (t *Tokens) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.clock.Now))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Username != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
