package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/debtfree/debtfree-go/internal/infra/cache"
	"github.com/debtfree/debtfree-go/internal/port"
)

var _ port.Cache[string] = (*cache.InMemory[string])(nil)
var _ port.Cache[string] = (*cache.Redis[string])(nil)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "key1", "value1")
	val, ok := c.Get(ctx, "key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	if _, ok := c.Get(context.Background(), "nonexistent"); ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "key1", "value1")
	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_SweeperRemovesExpired(t *testing.T) {
	c := cache.New[int](20 * time.Millisecond)
	defer c.Close()

	c.Set(context.Background(), "a", 1)
	time.Sleep(100 * time.Millisecond)

	if n := c.Len(); n != 0 {
		t.Errorf("expected sweeper to drop expired entries, %d left", n)
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "key1", "value1")
	c.Delete(ctx, "key1")

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestKey_StableAndDistinct(t *testing.T) {
	type plan struct {
		Balance float64
		APR     float64
	}

	a1, err := cache.Key("sim", plan{1000, 19.9})
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := cache.Key("sim", plan{1000, 19.9})
	b, _ := cache.Key("sim", plan{1000, 20})

	if a1 != a2 {
		t.Errorf("expected equal keys, got %s and %s", a1, a2)
	}
	if a1 == b {
		t.Error("expected different plans to hash differently")
	}
	if a1[:4] != "sim:" {
		t.Errorf("expected namespace prefix, got %s", a1)
	}
}
