package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	cacheadapter "github.com/apusetone/chat-service/internal/infrastructure/cache/adapter"
)

func newCacheResolver(t *testing.T) (*CacheTokenResolver, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheTokenResolver(cacheadapter.NewRedisCache(client)), mr
}

func TestCacheTokenResolver(t *testing.T) {
	r, mr := newCacheResolver(t)
	mr.Set("1:zT4ypB0BuzQRDJKkvPh1U2wQFStaH8tv", `{"user_id": 1}`)
	mr.Set("2:broken", `not json`)

	got, err := r.Resolve(context.Background(), "zT4ypB0BuzQRDJKkvPh1U2wQFStaH8tv")
	if err != nil || got != 1 {
		t.Fatalf("Resolve = %d, %v, want 1", got, err)
	}

	for _, token := range []string{"missing", "", "broken"} {
		if _, err := r.Resolve(context.Background(), token); !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("Resolve(%q) err = %v, want ErrTokenNotFound", token, err)
		}
	}
}

func TestJWTTokenResolver(t *testing.T) {
	r := NewJWTTokenResolver("secret")
	token, err := r.Issue(42, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := r.Resolve(context.Background(), token)
	if err != nil || got != 42 {
		t.Fatalf("Resolve = %d, %v, want 42", got, err)
	}

	expired, _ := r.Issue(42, -time.Minute)
	forged, _ := NewJWTTokenResolver("other").Issue(42, time.Minute)
	for name, tok := range map[string]string{"expired": expired, "forged": forged, "garbage": "a.b.c"} {
		if _, err := r.Resolve(context.Background(), tok); !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("%s token: err = %v, want ErrTokenNotFound", name, err)
		}
	}
}

type staticResolver map[string]int64

func (s staticResolver) Resolve(_ context.Context, token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, ErrTokenNotFound
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireUser(staticResolver{"good": 7}), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer good", "", http.StatusOK},
		{"lowercase scheme", "bearer good", "", http.StatusOK},
		{"query fallback", "", "?token=good", http.StatusOK},
		{"unknown token", "Bearer bad", "", http.StatusUnauthorized},
		{"no credentials", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d", tt.name, w.Code, tt.status)
		}
		if tt.status == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("%s: missing WWW-Authenticate header", tt.name)
		}
	}
}
