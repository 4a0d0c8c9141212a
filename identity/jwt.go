package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"userid,omitempty"`
	jwt.RegisteredClaims
}

// JWTSource reads the user identifier out of an HS256 session token. The userid
// claim wins over the subject.
type JWTSource struct {
	token  string
	secret []byte
}

func NewJWTSource(token string, secret []byte) *JWTSource {
	return &JWTSource{token: token, secret: secret}
}

func (s *JWTSource) FetchUserID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.token == "" {
		return "", ErrNoIdentifier
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(s.token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("identity: session expired: %w", err)
		}
		return "", fmt.Errorf("identity: invalid token: %w", err)
	}

	if claims.UserID != "" {
		return claims.UserID, nil
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	return "", ErrNoIdentifier
}
