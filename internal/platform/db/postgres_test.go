package db

import (
	"testing"
	"time"
)

func TestPoolDefaultsFillZeroValues(t *testing.T) {
	got := Pool{}.withDefaults()
	if got.MaxOpenConns != 20 || got.MaxIdleConns != 5 {
		t.Fatalf("unexpected connection defaults: %+v", got)
	}
	if got.ConnMaxLifetime != 30*time.Minute || got.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected duration defaults: %+v", got)
	}
}

func TestPoolDefaultsKeepExplicitValues(t *testing.T) {
	configured := Pool{
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		PingTimeout:     time.Second,
	}
	if got := configured.withDefaults(); got != configured {
		t.Fatalf("explicit values overridden: %+v", got)
	}
}

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := Connect("", Pool{}); err == nil {
		t.Fatal("empty dsn should be rejected")
	}
}
