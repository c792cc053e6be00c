package cache

import (
	"context"
	"testing"
	"time"
)

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewAvailabilityCache(nil, time.Minute)
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	gen := c.Generation(ctx, 1)
	c.Set(ctx, 1, gen, from, nil)
	if _, ok := c.Get(ctx, 1, gen, from); ok {
		t.Fatal("disabled cache reported a hit")
	}
	c.Invalidate(ctx, 1)
}

func TestNewRedisClientEmptyURL(t *testing.T) {
	client, err := NewRedisClient("")
	if err != nil || client != nil {
		t.Fatalf("got %v, %v", client, err)
	}

	if _, err := NewRedisClient("://bad"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestKey(t *testing.T) {
	if got := key(12, 3); got != "availability:tour:12:3" {
		t.Fatalf("key = %s", got)
	}
	if got := genKey(12); got != "availability:tour:12:gen" {
		t.Fatalf("gen key = %s", got)
	}
}
