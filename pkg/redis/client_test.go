package redis

import (
	"testing"

	"github.com/dhruvpatel3d/printquote-backend/pkg/config"
)

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.AccessSessionKey("abc"); got != "pq:session:access:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := c.RateLimitKey("login:ip:1.2.3.4"); got != "pq:rate_limit:login:ip:1.2.3.4" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	c := &Client{}
	if got := c.buildKey("a", " ", "b"); got != "pq:a:b" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error for missing url/address")
	}
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 || opts.PoolSize != 5 {
		t.Fatalf("config not applied: db=%d pool=%d", opts.DB, opts.PoolSize)
	}
}
