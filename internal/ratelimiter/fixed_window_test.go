package ratelimiter

import (
	"testing"
	"time"
)

func TestFixedWindowAllowsUpToLimit(t *testing.T) {
	rl := NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, retry := rl.Allow("1.2.3.4"); ok {
		t.Fatalf("fourth request should be limited")
	} else if retry != time.Minute {
		t.Fatalf("expected retry-after of the window, got %s", retry)
	}
}

func TestFixedWindowIsolatesClients(t *testing.T) {
	rl := NewFixedWindowLimiter(1, time.Minute)

	if ok, _ := rl.Allow("1.1.1.1"); !ok {
		t.Fatalf("first client should be allowed")
	}
	if ok, _ := rl.Allow("2.2.2.2"); !ok {
		t.Fatalf("second client must not share the first client's window")
	}
}
