package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "10.0.0.5:51234",
			want:       "10.0.0.5",
		},
		{
			name:       "proxy headers ignored without trust",
			remoteAddr: "10.0.0.5:51234",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:       "10.0.0.5",
		},
		{
			name:       "cloudflare header wins",
			remoteAddr: "127.0.0.1:1",
			headers: map[string]string{
				"CF-Connecting-IP": "9.9.9.9",
				"X-Forwarded-For":  "1.2.3.4",
			},
			trustProxy: true,
			want:       "9.9.9.9",
		},
		{
			name:       "first forwarded for",
			remoteAddr: "127.0.0.1:1",
			headers:    map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8"},
			trustProxy: true,
			want:       "1.2.3.4",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[::1]:8080",
			want:       "::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsLoopback(t *testing.T) {
	for addr, want := range map[string]bool{
		"127.0.0.1:8080":   true,
		"[::1]:1":          true,
		"::ffff:127.0.0.1": true,
		"10.0.0.1:80":      false,
		"not an address":   false,
		"":                 false,
	} {
		if got := IsLoopback(addr); got != want {
			t.Errorf("IsLoopback(%q) = %v, want %v", addr, got, want)
		}
	}
}

func TestIPMatcher(t *testing.T) {
	m, invalid := NewIPMatcher([]string{"192.168.1.0/24", "10.0.0.7", "fd00::/8", "nope"})

	if len(invalid) != 1 || invalid[0] != "nope" {
		t.Fatalf("NewIPMatcher() invalid = %v, want [nope]", invalid)
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.42", true},
		{"192.168.2.1", false},
		{"10.0.0.7", true},
		{"10.0.0.8", false},
		{"::ffff:192.168.1.9", true},
		{"fd12::1", true},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := m.Allow(tt.ip); got != tt.want {
				t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestIPMatcher_Empty(t *testing.T) {
	m, _ := NewIPMatcher(nil)
	if !m.IsEmpty() {
		t.Errorf("IsEmpty() = false, want true")
	}
}
