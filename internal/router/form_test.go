package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFormClient_Submit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s, want application/x-www-form-urlencoded", ct)
		}
		if cookie := r.Header.Get("Cookie"); cookie != "sysauth=abc" {
			t.Errorf("Cookie = %q, want sysauth=abc", cookie)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.PostForm.Get("password"); got != "a b&c=d" {
			t.Errorf("password = %q, want %q", got, "a b&c=d")
		}

		w.Header().Set("X-Test", "1")
		w.Write([]byte(`{"success":true,"data":{"stok":"x"}}`))
	}))
	defer server.Close()

	form := NewFormClient(server.URL+"/", server.Client())
	resp, err := form.Submit(context.Background(), "/cgi-bin/luci/;stok=/login?form=login",
		url.Values{"password": {"a b&c=d"}}, "sysauth=abc")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Test") != "1" {
		t.Error("response headers should be kept")
	}
	if !resp.Body.HasData() {
		t.Error("HasData() = false, want true")
	}
	if resp.Body.ErrorCode != "" {
		t.Errorf("ErrorCode = %q, want empty", resp.Body.ErrorCode)
	}
}

func TestFormClient_NoCookieHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Cookie"]; ok {
			t.Error("Cookie header should be absent")
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	form := NewFormClient(server.URL, server.Client())
	if _, err := form.Submit(context.Background(), "/", url.Values{}, ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestFormClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		statusCode int
	}{
		{"server error", http.StatusInternalServerError, `{"errorcode":"timeout"}`, 500},
		{"forbidden", http.StatusForbidden, ``, 403},
		{"html body", http.StatusOK, `<html>login</html>`, 200},
		{"truncated json", http.StatusOK, `{"data":`, 200},
		{"bad errorcode type", http.StatusOK, `{"errorcode":{"a":1}}`, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			form := NewFormClient(server.URL, server.Client())
			_, err := form.Submit(context.Background(), "/", url.Values{}, "")
			if !IsUnknownDeviceError(err) {
				t.Fatalf("Submit() error = %v, want unknown device error", err)
			}

			devErr := err.(*DeviceError)
			if devErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", devErr.StatusCode, tt.statusCode)
			}
			if devErr.Endpoint != server.URL {
				t.Errorf("Endpoint = %s, want %s", devErr.Endpoint, server.URL)
			}
		})
	}
}

func TestFormClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	form := NewFormClient(base, nil)
	_, err := form.Submit(context.Background(), "/", url.Values{}, "")
	if !IsTransportError(err) {
		t.Fatalf("Submit() error = %v, want transport error", err)
	}
	if err.(*DeviceError).Endpoint != base {
		t.Errorf("Endpoint = %s, want %s", err.(*DeviceError).Endpoint, base)
	}
}

func TestFormClient_RateLimit(t *testing.T) {
	form := NewFormClient("http://192.168.0.1", nil)

	form.SetRateLimit(5)
	if form.Limiter == nil {
		t.Fatal("Limiter should be set")
	}
	if form.Limiter.Limit() != 5 {
		t.Errorf("Limit() = %v, want 5", form.Limiter.Limit())
	}

	form.SetRateLimit(0)
	if form.Limiter != nil {
		t.Error("SetRateLimit(0) should remove the limiter")
	}
}

func TestFormClient_RateLimitCancelled(t *testing.T) {
	form := NewFormClient("http://192.168.0.1", nil)
	form.SetRateLimit(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := form.Submit(ctx, "/", url.Values{}, "")
	if !IsTransportError(err) {
		t.Errorf("Submit() error = %v, want transport error", err)
	}
}

func TestErrorCode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body string
		want ErrorCode
	}{
		{`{"errorcode":"timeout"}`, "timeout"},
		{`{"errorcode":""}`, ""},
		{`{"errorcode":null}`, ""},
		{`{}`, ""},
		{`{"errorcode":-40401}`, "-40401"},
		{`{"errorcode":0}`, ""},
		{`{"errorcode":-0.0}`, ""},
		{`{"errorcode":false}`, ""},
		{`{"errorcode":true}`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var body ResponseBody
			if err := json.Unmarshal([]byte(tt.body), &body); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if body.ErrorCode != tt.want {
				t.Errorf("ErrorCode = %q, want %q", body.ErrorCode, tt.want)
			}
		})
	}
}

func TestResponseBody_HasData(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"data":{"a":1}}`, true},
		{`{"data":[]}`, true},
		{`{"data":""}`, true},
		{`{"data":null}`, false},
		{`{"errorcode":"timeout"}`, false},
	}

	for _, tt := range tests {
		var body ResponseBody
		if err := json.Unmarshal([]byte(tt.body), &body); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.body, err)
		}
		if got := body.HasData(); got != tt.want {
			t.Errorf("HasData(%s) = %v, want %v", tt.body, got, tt.want)
		}
	}
}
