package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth attempt should be blocked")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second key should have its own window")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("10.0.0.1")
	if l.Allow("10.0.0.1") {
		t.Fatal("second attempt should be blocked")
	}

	l.Reset("10.0.0.1")
	if !l.Allow("10.0.0.1") {
		t.Error("attempt after reset should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"remote addr with port", "", "", "192.0.2.10:4433", "192.0.2.10"},
		{"x-forwarded-for single", "203.0.113.5", "", "10.0.0.1:80", "203.0.113.5"},
		{"x-forwarded-for list uses first", "203.0.113.5, 10.0.0.2", "", "10.0.0.1:80", "203.0.113.5"},
		{"x-real-ip fallback", "", "203.0.113.9", "10.0.0.1:80", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/login", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_BlocksEmailAcrossIPs(t *testing.T) {
	ll := &LoginLimiter{
		ipLimiter:    New(100, time.Minute),
		emailLimiter: New(2, time.Minute),
	}

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest("POST", "/login", nil)
		r.RemoteAddr = "10.0.0.1:1000"
		if ok, _ := ll.Check(r, "target@example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	// Different IP, same account: still blocked.
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "10.0.0.99:1000"
	ok, msg := ll.Check(r, "Target@Example.com")
	if ok {
		t.Fatal("third attempt for the email should be blocked")
	}
	if msg == "" {
		t.Error("blocked attempt should carry a user-facing message")
	}
}

func TestLoginLimiter_ResetEmail(t *testing.T) {
	ll := &LoginLimiter{
		ipLimiter:    New(100, time.Minute),
		emailLimiter: New(1, time.Minute),
	}

	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "10.0.0.1:1000"

	ll.Check(r, "user@example.com")
	if ok, _ := ll.Check(r, "user@example.com"); ok {
		t.Fatal("second attempt should be blocked")
	}

	ll.ResetEmail("user@example.com")
	if ok, _ := ll.Check(r, "user@example.com"); !ok {
		t.Error("attempt after ResetEmail should be allowed")
	}
}
