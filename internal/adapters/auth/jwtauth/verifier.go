// Package jwtauth verifica bearer tokens HS256 firmados con un secreto compartido.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-care-manager/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrInvalidToken = errors.New("invalid token")
)

// tokenClaims: user_id, email, type, role + exp/iss registrados.
type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Type   string `json:"type"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewVerifier(secret, issuer string) (*Verifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must have at least 16 bytes")
	}
	return &Verifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer), now: time.Now}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if tc.UserID <= 0 {
		return auth.Claims{}, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	typ, ok := auth.ParseUserType(tc.Type)
	if !ok {
		return auth.Claims{}, fmt.Errorf("%w: unknown user type %q", ErrInvalidToken, tc.Type)
	}
	role := strings.TrimSpace(tc.Role)
	if role == "" {
		role = "user"
	}

	return auth.Claims{
		UserID: tc.UserID,
		Email:  strings.TrimSpace(tc.Email),
		Type:   typ,
		Role:   role,
	}, nil
}

// Sign emite un token para c con vencimiento ttl. Lo usan el comando
// `token` del CLI (desarrollo) y los tests.
func (v *Verifier) Sign(c auth.Claims, ttl time.Duration) (string, error) {
	now := v.now()
	tc := tokenClaims{
		UserID: c.UserID,
		Email:  c.Email,
		Type:   string(c.Type),
		Role:   c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.issuer != "" {
		tc.Issuer = v.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(v.secret)
}
