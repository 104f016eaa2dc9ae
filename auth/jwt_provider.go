// Package auth verifies the HS256 access tokens issued by the hosted auth
// service that owns user accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prize-trainer/ports"

	"github.com/form3tech-oss/jwt-go"
)

// JWTProvider is a SessionProvider for HS256-signed tokens carrying "sub",
// "exp" and optionally "email" and "role".
type JWTProvider struct {
	secret []byte
}

var _ ports.SessionProvider = (*JWTProvider)(nil)

func NewJWTProvider(secret string) (*JWTProvider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTProvider{secret: []byte(secret)}, nil
}

func (p *JWTProvider) Authenticate(_ context.Context, tokenString string) (*ports.Session, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", ports.ErrUnauthenticated)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ports.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims", ports.ErrUnauthenticated)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: token has no subject", ports.ErrUnauthenticated)
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: token has no expiry", ports.ErrUnauthenticated)
	}

	session := &ports.Session{
		UserID:    sub,
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
	}
	session.Email, _ = claims["email"].(string)
	session.Role, _ = claims["role"].(string)
	return session, nil
}
