package router

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/archerctl/internal/logging"
	"github.com/muurk/archerctl/internal/loginkey"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// StatusPath returns the full status document
	StatusPath = "/admin/status?form=all"

	// RebootPath restarts the router
	RebootPath = "/admin/system?form=reboot"

	// LogoutPath ends the management session
	LogoutPath = "/admin/system?form=logout"
)

// authenticatedPath embeds the session token into a LuCI admin path
func authenticatedPath(token, path string) string {
	return "/cgi-bin/luci/;stok=" + token + path
}

// Options configures a Client
type Options struct {
	// Polite prevents the client from evicting another logged-in user.
	// When false, a session conflict escalates to one forced login.
	Polite bool

	// Timeout is the HTTP request timeout (ignored when HTTPClient is set)
	Timeout time.Duration

	// InsecureSkipVerify accepts the router's self-signed certificate
	// (ignored when HTTPClient is set)
	InsecureSkipVerify bool

	// RequestsPerSecond paces requests to the router; 0 means unlimited
	RequestsPerSecond float64

	// HTTPClient overrides the HTTP client built from Timeout/InsecureSkipVerify
	HTTPClient *http.Client

	// Encryptor overrides the password encryptor (loginkey by default)
	Encryptor Encryptor
}

// DefaultOptions returns polite options with the default timeout
func DefaultOptions() Options {
	return Options{
		Polite:  true,
		Timeout: DefaultTimeout,
	}
}

// Client manages one authenticated session with one router.
// It is safe for concurrent use; operations are serialized per client.
type Client struct {
	// Endpoint is the router base URL (e.g., "https://192.168.0.1")
	Endpoint string

	form    *FormClient
	session *session
}

// NewClient creates a client for the router at endpoint using password
func NewClient(endpoint, password string, opts Options) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid router endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid router endpoint %q: want http(s)://host", endpoint)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeout, opts.InsecureSkipVerify)
	}

	encryptor := opts.Encryptor
	if encryptor == nil {
		enc := loginkey.New()
		encryptor = EncryptorFunc(func(secret string, key KeyMaterial) (string, error) {
			return enc.Encrypt(secret, key)
		})
	}

	form := NewFormClient(endpoint, httpClient)
	form.SetRateLimit(opts.RequestsPerSecond)

	return &Client{
		Endpoint: endpoint,
		form:     form,
		session:  newSession(password, opts.Polite, NewAuthenticator(form, encryptor)),
	}, nil
}

func newHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		// Routers ship self-signed certificates
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Session returns a snapshot of the session flags
func (c *Client) Session() SessionSnapshot {
	return c.session.snapshot()
}

// FetchStatus returns the router status document, logging in when needed
func (c *Client) FetchStatus(ctx context.Context) (*Status, error) {
	var status *Status

	err := c.session.withAuthenticatedCall(ctx, func(ctx context.Context, cred Credential) error {
		resp, err := c.form.Submit(ctx, authenticatedPath(cred.Token, StatusPath), url.Values{"operation": {"read"}}, cred.Cookie)
		if err != nil {
			return err
		}

		if !resp.Body.HasData() {
			if devErr := ClassifyDeviceCode(string(resp.Body.ErrorCode)); devErr != nil {
				return devErr
			}
			return NewUnknownDeviceError("status response carried no data", nil)
		}

		status, err = ParseStatus(resp.Body.Data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return status, nil
}

// FetchDevices returns connected hosts: wired first, then wireless
func (c *Client) FetchDevices(ctx context.Context) ([]ConnectedDevice, error) {
	status, err := c.FetchStatus(ctx)
	if err != nil {
		return nil, err
	}
	return status.Devices()
}

// FetchWanIPAddress returns the router's WAN IPv4 address
func (c *Client) FetchWanIPAddress(ctx context.Context) (string, error) {
	status, err := c.FetchStatus(ctx)
	if err != nil {
		return "", err
	}

	ip := status.WANIPv4()
	if ip == "" {
		return "", NewUnknownDeviceError("status document has no "+KeyWANIPv4, nil)
	}
	return ip, nil
}

// Reboot restarts the router. It does nothing when no session is held and is
// never retried. On success the local session is discarded, since the router
// drops all sessions when it restarts.
func (c *Client) Reboot(ctx context.Context) error {
	return c.session.withCurrentSession(func(state *sessionState) error {
		if !state.cred.Valid() {
			return nil
		}

		logging.Info("Sending reboot command", zap.String("endpoint", c.Endpoint))
		if err := c.write(ctx, state.cred, RebootPath); err != nil {
			return err
		}

		state.reset()
		return nil
	})
}

// Logout ends the management session. It does nothing when no session is held.
// On success the local session is discarded.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.withCurrentSession(func(state *sessionState) error {
		if !state.cred.Valid() {
			return nil
		}

		logging.Info("Logging out", zap.String("endpoint", c.Endpoint))
		if err := c.write(ctx, state.cred, LogoutPath); err != nil {
			return err
		}

		state.reset()
		return nil
	})
}

// write submits operation=write to an admin path and reports any device error
func (c *Client) write(ctx context.Context, cred Credential, path string) error {
	resp, err := c.form.Submit(ctx, authenticatedPath(cred.Token, path), url.Values{"operation": {"write"}}, cred.Cookie)
	if err != nil {
		return err
	}
	if devErr := ClassifyDeviceCode(string(resp.Body.ErrorCode)); devErr != nil {
		return devErr
	}
	return nil
}
