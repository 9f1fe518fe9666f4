// Package auth resolves bearer access tokens to user ids.
package auth

import (
	"context"
	"errors"
)

// ErrTokenNotFound reports a missing, expired or malformed access token.
var ErrTokenNotFound = errors.New("auth: access token not found")

// TokenResolver maps an access token to the id of the user it was issued to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}
