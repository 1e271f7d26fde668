package discovery

import "testing"

func TestRouter_String(t *testing.T) {
	tests := []struct {
		name   string
		router *Router
		want   string
	}{
		{
			name:   "known model",
			router: &Router{Model: "Archer C6", Hostname: "archer-c6.local.", IP: "192.168.0.1", Port: 80},
			want:   "Archer C6 (archer-c6.local.) at 192.168.0.1:80",
		},
		{
			name:   "unknown model",
			router: &Router{Hostname: "tplink.local.", IP: "192.168.0.1", Port: 80},
			want:   "TP-Link router (tplink.local.) at 192.168.0.1:80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.router.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouter_Endpoint(t *testing.T) {
	tests := []struct {
		name   string
		router *Router
		want   string
	}{
		{"standard HTTP port", &Router{IP: "192.168.0.1", Port: 80}, "http://192.168.0.1"},
		{"no port", &Router{IP: "192.168.0.1"}, "http://192.168.0.1"},
		{"HTTPS port", &Router{IP: "192.168.0.1", Port: 443}, "https://192.168.0.1"},
		{"custom port", &Router{IP: "10.0.0.1", Port: 8080}, "http://10.0.0.1:8080"},
		{"IPv6", &Router{IP: "fe80::1", Port: 80}, "http://[fe80::1]"},
		{"IPv6 custom port", &Router{IP: "fe80::1", Port: 8080}, "http://[fe80::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.router.Endpoint(); got != tt.want {
				t.Errorf("Endpoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRouter_GetMetadata(t *testing.T) {
	router := &Router{
		Metadata: map[string]string{
			"model": "Archer AX55",
			"path":  "/",
		},
	}

	tests := []struct {
		key  string
		want string
	}{
		{"model", "Archer AX55"},
		{"path", "/"},
		{"nonexistent", ""},
	}

	for _, tt := range tests {
		if got := router.GetMetadata(tt.key); got != tt.want {
			t.Errorf("GetMetadata(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRouter_GetMetadata_NilMap(t *testing.T) {
	router := &Router{}
	if got := router.GetMetadata("any"); got != "" {
		t.Errorf("GetMetadata() with nil map = %v, want empty string", got)
	}
}
