package ws

import (
	"testing"
	"time"
)

func TestConnRateLimiter_Window(t *testing.T) {
	rl := NewConnRateLimiter(2, 50*time.Millisecond)

	if !rl.Allow("c1") || !rl.Allow("c1") {
		t.Fatal("first two sends should be allowed")
	}
	if rl.Allow("c1") {
		t.Fatal("third send inside the window should be blocked")
	}
	// Another connection has its own window.
	if !rl.Allow("c2") {
		t.Fatal("independent connection should be allowed")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("c1") {
		t.Fatal("send after the window expired should be allowed")
	}
}

func TestConnRateLimiter_ZeroLimitDisables(t *testing.T) {
	rl := NewConnRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		if !rl.Allow("c1") {
			t.Fatal("zero limit must never block")
		}
	}
}

func TestConnRateLimiter_Forget(t *testing.T) {
	rl := NewConnRateLimiter(1, time.Minute)
	rl.Allow("c1")
	if rl.Allow("c1") {
		t.Fatal("second send should be blocked")
	}
	rl.Forget("c1")
	if !rl.Allow("c1") {
		t.Fatal("window should reset after Forget")
	}
}
