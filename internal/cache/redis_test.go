package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	if _, err := NewRedisCache("http://not-redis"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRedisCachePrefixesKeys(t *testing.T) {
	c, err := NewRedisCache("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	defer c.Close()
	if got := c.key("ranked:7:"); got != "nba-recommender:ranked:7:" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestRedisCacheSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheWithClient(client)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Fatal("expected connection error")
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err == nil {
		t.Fatal("expected connection error on set")
	}
}
