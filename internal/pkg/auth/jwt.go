package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a stateless access token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTTokenResolver validates HMAC-signed access tokens.
type JWTTokenResolver struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTTokenResolver(secret string) *JWTTokenResolver {
	return &JWTTokenResolver{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

var _ TokenResolver = (*JWTTokenResolver)(nil)

func (r *JWTTokenResolver) Resolve(_ context.Context, token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrTokenNotFound
	}
	var claims Claims
	_, err := r.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil || claims.UserID <= 0 {
		return 0, ErrTokenNotFound
	}
	return claims.UserID, nil
}

// Issue signs a token for userID valid for ttl. The login flow and tests use it.
func (r *JWTTokenResolver) Issue(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}
