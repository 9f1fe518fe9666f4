package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	cacheport "github.com/apusetone/chat-service/internal/infrastructure/cache/port"
)

// accessToken is the value the login flow stores under "<prefix><token>".
type accessToken struct {
	UserID int64 `json:"user_id"`
}

// CacheTokenResolver looks tokens up in the access-token cache database.
// Keys carry a prefix the caller does not know, so lookups match by suffix.
type CacheTokenResolver struct {
	cache cacheport.Cache
}

func NewCacheTokenResolver(cache cacheport.Cache) *CacheTokenResolver {
	return &CacheTokenResolver{cache: cache}
}

var _ TokenResolver = (*CacheTokenResolver)(nil)

func (r *CacheTokenResolver) Resolve(ctx context.Context, token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrTokenNotFound
	}
	raw, err := r.cache.GetBySuffix(ctx, token)
	if errors.Is(err, cacheport.ErrMiss) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("auth: lookup token: %w", err)
	}
	var v accessToken
	if err := json.Unmarshal([]byte(raw), &v); err != nil || v.UserID <= 0 {
		return 0, ErrTokenNotFound
	}
	return v.UserID, nil
}
