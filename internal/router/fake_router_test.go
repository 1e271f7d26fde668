package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Canned status document with both host lists populated
const mockStatusData = `{
	"wan_ipv4_ipaddr": "203.0.113.7",
	"wan_ipv4_gateway": "203.0.113.1",
	"wan_ipv4_conntype": "dhcp",
	"lan_ipv4_ipaddr": "192.168.0.1",
	"lan_macaddr": "50-C7-BF-00-00-01",
	"wireless_2g_ssid": "Home",
	"wireless_5g_ssid": "Home-5G",
	"cpu_usage": 0.12,
	"mem_usage": 0.5,
	"access_devices_wired": [
		{"hostname": "nas", "ipaddr": "192.168.0.10", "macaddr": "AA-BB-CC-00-00-10", "wire_type": "wired"},
		{"hostname": "desktop", "ipaddr": "192.168.0.11", "macaddr": "AA-BB-CC-00-00-11", "wire_type": "wired"}
	],
	"access_devices_wireless_host": [
		{"hostname": "phone", "ipaddr": "192.168.0.20", "macaddr": "AA-BB-CC-00-00-20", "wire_type": "5G"},
		{"hostname": "laptop", "ipaddr": "192.168.0.21", "macaddr": "AA-BB-CC-00-00-21", "wire_type": "2.4G"}
	]
}`

const mockKeyResponse = `{"success":true,"data":{"password":["D1E79FF135D14E342D76185C23024E6DEAD4D6EC2C317A526C811E83538EA4E5ED8E1B0EEE5CE26E3C1B6A5F1FE11FA804F28B7E8821CA90AFA5B2F300DF99FDA27C9D2131E031EA11463C47944C05005EF4C1CE932D7F4A87C7563581D9F27F0C305023FCE94997EC7D790696E784357ED803A610EBB71B12A8BE5936429BFD","010001"]}}`

// recordedRequest is one request seen by fakeRouter
type recordedRequest struct {
	URI    string
	Form   map[string]string
	Cookie string
}

func (r recordedRequest) isKeyFetch() bool { return r.URI == LoginKeyPath }
func (r recordedRequest) isLogin() bool    { return r.URI == LoginPath }
func (r recordedRequest) isStatus() bool   { return strings.HasSuffix(r.URI, StatusPath) }

// fakeRouter is a scripted LuCI endpoint. Scripted login and status results are
// consumed in order; once a script runs out every later call succeeds.
type fakeRouter struct {
	t *testing.T

	mu       sync.Mutex
	requests []recordedRequest
	logins   int

	// keyResponse overrides the login-key response body
	keyResponse string

	// loginCodes holds errorcodes for successive logins; "" means success
	loginCodes []string

	// statusCodes holds errorcodes for successive status reads; "" means success
	statusCodes []string

	// statusData is the data payload of a successful status read
	statusData string

	// writeCode is the errorcode returned by reboot/logout
	writeCode string

	// okCode is the raw JSON errorcode sent with successful responses; empty means ""
	okCode string
}

func newFakeRouter(t *testing.T) *fakeRouter {
	return &fakeRouter{t: t, statusData: mockStatusData}
}

func (f *fakeRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		f.t.Errorf("ParseForm() error = %v", err)
	}
	if r.Method != http.MethodPost {
		f.t.Errorf("Method = %s, want POST", r.Method)
	}

	req := recordedRequest{
		URI:    r.URL.RequestURI(),
		Form:   map[string]string{},
		Cookie: r.Header.Get("Cookie"),
	}
	for k := range r.PostForm {
		req.Form[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case req.isKeyFetch():
		f.mu.Lock()
		body := f.keyResponse
		f.mu.Unlock()
		if body == "" {
			body = mockKeyResponse
		}
		fmt.Fprint(w, body)

	case req.isLogin():
		f.mu.Lock()
		f.logins++
		n := f.logins
		code := pop(&f.loginCodes)
		ok := f.successCode()
		f.mu.Unlock()

		if code != "" {
			fmt.Fprintf(w, `{"success":false,"errorcode":%q}`, code)
			return
		}
		w.Header().Add("Set-Cookie", fmt.Sprintf("sysauth=cookie%d; path=/cgi-bin/luci; HttpOnly", n))
		fmt.Fprintf(w, `{"success":true,"errorcode":%s,"data":{"stok":"stok%d"}}`, ok, n)

	case req.isStatus():
		f.mu.Lock()
		code := pop(&f.statusCodes)
		data := f.statusData
		ok := f.successCode()
		f.mu.Unlock()

		if code != "" {
			fmt.Fprintf(w, `{"success":false,"errorcode":%q}`, code)
			return
		}
		fmt.Fprintf(w, `{"success":true,"errorcode":%s,"data":%s}`, ok, data)

	case strings.Contains(req.URI, "/admin/system"):
		f.mu.Lock()
		code := f.writeCode
		f.mu.Unlock()
		fmt.Fprintf(w, `{"success":true,"errorcode":%q}`, code)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// successCode must be called with f.mu held
func (f *fakeRouter) successCode() string {
	if f.okCode == "" {
		return `""`
	}
	return f.okCode
}

func pop(script *[]string) string {
	if len(*script) == 0 {
		return ""
	}
	code := (*script)[0]
	*script = (*script)[1:]
	return code
}

// script replaces the pending status errorcodes
func (f *fakeRouter) script(statusCodes ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCodes = statusCodes
}

// setWriteCode sets the errorcode returned by reboot/logout
func (f *fakeRouter) setWriteCode(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCode = code
}

// Requests returns a copy of the requests seen so far
func (f *fakeRouter) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// count returns how many recorded requests match
func (f *fakeRouter) count(match func(recordedRequest) bool) int {
	n := 0
	for _, r := range f.Requests() {
		if match(r) {
			n++
		}
	}
	return n
}

// stubEncryptor records the key material it was given and returns a marker string
type stubEncryptor struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (s *stubEncryptor) Encrypt(secret string, key KeyMaterial) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, string(key))
	if s.err != nil {
		return "", s.err
	}
	return "enc(" + secret + ")", nil
}

// newTestClient starts fr on an httptest server and returns a client for it
func newTestClient(t *testing.T, fr *fakeRouter, polite bool) (*Client, *stubEncryptor) {
	t.Helper()

	server := httptest.NewServer(fr)
	t.Cleanup(server.Close)

	enc := &stubEncryptor{}
	client, err := NewClient(server.URL, "secret", Options{
		Polite:     polite,
		HTTPClient: server.Client(),
		Encryptor:  enc,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, enc
}
