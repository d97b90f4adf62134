package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_Burst(t *testing.T) {
	l := New(0.001, 3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("attempt %d: expected allow", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("expected the fourth attempt to be limited")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other keys must have their own bucket")
	}
}

func TestReset(t *testing.T) {
	l := New(0.001, 1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected limit")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allow after reset")
	}
}

func TestSweep(t *testing.T) {
	l := New(1, 1, -time.Second)
	l.Allow("a")
	l.Allow("b")
	if n := l.Sweep(); n != 2 {
		t.Errorf("Sweep: got %d, want 2", n)
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := New(0.001, 1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("POST", "/auth/signin", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first: got %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second: got %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		want   string
	}{
		{"forwarded by trusted proxy", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:80", "203.0.113.5"},
		{"spoofed left hop ignored", "6.6.6.6, 203.0.113.5", "", "10.0.0.2:80", "203.0.113.5"},
		{"untrusted peer header ignored", "203.0.113.5", "", "192.0.2.1:1234", "192.0.2.1"},
		{"untrusted peer real ip ignored", "", "198.51.100.7", "192.0.2.1:1234", "192.0.2.1"},
		{"all hops trusted", "10.0.0.9, 10.0.0.1", "", "127.0.0.1:80", "10.0.0.9"},
		{"real ip from trusted proxy", "", "198.51.100.7", "10.0.0.2:80", "198.51.100.7"},
		{"remote", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrustProxies(t *testing.T) {
	t.Cleanup(func() {
		p, _ := ParseProxies(DefaultTrustedProxies)
		TrustProxies(p)
	})

	none, err := ParseProxies("")
	if err != nil {
		t.Fatalf("ParseProxies empty: %v", err)
	}
	TrustProxies(none)
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.2:80"
	r.Header.Set("X-Forwarded-For", "203.0.113.5")
	if got := ClientIP(r); got != "10.0.0.2" {
		t.Errorf("no trusted proxies: ClientIP = %q, want 10.0.0.2", got)
	}

	one, err := ParseProxies("192.0.2.1, 2001:db8::/32")
	if err != nil {
		t.Fatalf("ParseProxies: %v", err)
	}
	TrustProxies(one)
	r.RemoteAddr = "192.0.2.1:1234"
	if got := ClientIP(r); got != "203.0.113.5" {
		t.Errorf("single trusted host: ClientIP = %q, want 203.0.113.5", got)
	}

	if _, err := ParseProxies("10.0.0.0/99"); err == nil {
		t.Error("invalid CIDR accepted")
	}
	if _, err := ParseProxies("not-an-ip"); err == nil {
		t.Error("invalid address accepted")
	}
}
