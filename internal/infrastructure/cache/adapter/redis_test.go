package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/apusetone/chat-service/internal/infrastructure/cache/port"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr(), -1)
	if err != nil {
		t.Fatalf("new redis client: %v", err)
	}
	c := NewRedisCache(client)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheGetSetDel(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, port.ErrMiss) {
		t.Fatalf("Get missing err = %v, want ErrMiss", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("Get = %q, %v; want v", got, err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}
	n, err := c.Del(ctx, "k", "other")
	if err != nil || n != 1 {
		t.Fatalf("Del = %d, %v; want 1", n, err)
	}
	if n, _ := c.Del(ctx); n != 0 {
		t.Fatalf("Del() = %d, want 0", n)
	}
}

func TestRedisCacheGetBySuffix(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set("42:tok-abc", `{"user_id": 42}`)
	mr.Set("7:tok-other", `{"user_id": 7}`)

	got, err := c.GetBySuffix(ctx, "tok-abc")
	if err != nil {
		t.Fatalf("GetBySuffix: %v", err)
	}
	if got != `{"user_id": 42}` {
		t.Fatalf("GetBySuffix = %q", got)
	}
	if _, err := c.GetBySuffix(ctx, "nope"); !errors.Is(err, port.ErrMiss) {
		t.Fatalf("GetBySuffix(nope) err = %v, want ErrMiss", err)
	}
	if _, err := c.GetBySuffix(ctx, ""); !errors.Is(err, port.ErrMiss) {
		t.Fatalf("GetBySuffix(\"\") err = %v, want ErrMiss", err)
	}
}

func TestNewRedisClientSelectsDB(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr(), 2)
	if err != nil {
		t.Fatalf("new redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.DB(2).Exists("k") {
		t.Fatal("expected key in db 2")
	}
}

func TestNewRedisClientErrors(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "", 0); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewRedisClient(context.Background(), "http://nope", 0); err == nil {
		t.Fatal("expected error for bad scheme")
	}
}

func TestEscapeGlob(t *testing.T) {
	if got := escapeGlob("a*b?[c]"); got != `a\*b\?\[c\]` {
		t.Fatalf("escapeGlob = %q", got)
	}
}
