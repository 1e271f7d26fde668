package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/archerctl/internal/logging"
)

// LuCI endpoints used by the login exchange
const (
	// LoginKeyPath returns the one-time key material for password encryption
	LoginKeyPath = "/cgi-bin/luci/;stok=/login?form=cloud_login"

	// LoginPath exchanges the encrypted password for a stok and sysauth cookie
	LoginPath = "/cgi-bin/luci/;stok=/login?form=login"

	// sessionCookieName is the cookie the router issues alongside the stok
	sessionCookieName = "sysauth"
)

// KeyMaterial is the device-issued challenge found at data.password of the
// login-key response. Its structure is only meaningful to an Encryptor.
type KeyMaterial json.RawMessage

// Encryptor turns the plaintext secret and device key material into the
// encrypted credential the login endpoint accepts.
type Encryptor interface {
	Encrypt(secret string, key KeyMaterial) (string, error)
}

// EncryptorFunc adapts an ordinary function to the Encryptor interface
type EncryptorFunc func(secret string, key KeyMaterial) (string, error)

// Encrypt calls f(secret, key)
func (f EncryptorFunc) Encrypt(secret string, key KeyMaterial) (string, error) {
	return f(secret, key)
}

// Credential is the stok/sysauth pair issued by one successful login
type Credential struct {
	// Token is the stok embedded in authenticated request paths
	Token string

	// Cookie is the "sysauth=<value>" segment sent as the Cookie header
	Cookie string
}

// Valid reports whether both halves of the credential are present
func (c Credential) Valid() bool {
	return c.Token != "" && c.Cookie != ""
}

// Authenticator performs the key-fetch / encrypt / login exchange
type Authenticator struct {
	form      *FormClient
	encryptor Encryptor
}

// NewAuthenticator creates an Authenticator that submits through form
func NewAuthenticator(form *FormClient, encryptor Encryptor) *Authenticator {
	return &Authenticator{form: form, encryptor: encryptor}
}

// Authenticate logs in with secret. When force is set the login asks the router to
// evict any other logged-in user. Errors are classified *DeviceError values.
func (a *Authenticator) Authenticate(ctx context.Context, secret string, force bool) (Credential, error) {
	logging.Info("Fetching a new session token", zap.Bool("force", force))

	key, err := a.fetchKeyMaterial(ctx)
	if err != nil {
		return Credential{}, err
	}

	encrypted, err := a.encryptor.Encrypt(secret, key)
	if err != nil {
		return Credential{}, NewUnknownDeviceError("failed to encrypt password with router key material", err)
	}

	logging.Debug("Password encrypted with router key",
		logging.Secret("password", encrypted),
		zap.Int("ciphertext_len", len(encrypted)),
	)

	fields := url.Values{
		"operation": {"login"},
		"password":  {encrypted},
	}
	if force {
		logging.Info("Attempting forceful login")
		fields.Set("confirm", "true")
	}

	resp, err := a.form.Submit(ctx, LoginPath, fields, "")
	if err != nil {
		return Credential{}, err
	}

	if devErr := ClassifyDeviceCode(string(resp.Body.ErrorCode)); devErr != nil {
		return Credential{}, devErr
	}

	var data struct {
		Stok string `json:"stok"`
	}
	if resp.Body.HasData() {
		if err := json.Unmarshal(resp.Body.Data, &data); err != nil {
			return Credential{}, NewUnknownDeviceError("failed to parse login response", err)
		}
	}
	if data.Stok == "" {
		return Credential{}, NewUnknownDeviceError("login response carried no stok", nil)
	}

	cookie, ok := parseSessionCookie(resp.Header.Values("Set-Cookie"))
	if !ok {
		return Credential{}, NewUnknownDeviceError("login response carried no sysauth cookie", nil)
	}

	logging.Debug("Session established",
		zap.String("stok", logging.RedactToken(data.Stok)),
		zap.String("cookie", logging.RedactToken(cookie)),
	)

	return Credential{Token: data.Stok, Cookie: cookie}, nil
}

// fetchKeyMaterial reads data.password from the login-key endpoint
func (a *Authenticator) fetchKeyMaterial(ctx context.Context) (KeyMaterial, error) {
	resp, err := a.form.Submit(ctx, LoginKeyPath, url.Values{"operation": {"read"}}, "")
	if err != nil {
		return nil, err
	}

	if !resp.Body.HasData() {
		return nil, NewUnknownDeviceError("login key response carried no data", nil)
	}

	var data struct {
		Password json.RawMessage `json:"password"`
	}
	if err := json.Unmarshal(resp.Body.Data, &data); err != nil {
		return nil, NewUnknownDeviceError("failed to parse login key response", err)
	}

	trimmed := bytes.TrimSpace(data.Password)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewUnknownDeviceError("login key response carried no key material", nil)
	}

	return KeyMaterial(trimmed), nil
}

// parseSessionCookie reduces the first Set-Cookie header to its sysauth=... segment,
// dropping attributes such as path and expiry.
func parseSessionCookie(setCookies []string) (string, bool) {
	if len(setCookies) == 0 {
		return "", false
	}
	for _, segment := range strings.Split(setCookies[0], ";") {
		segment = strings.TrimSpace(segment)
		name, _, _ := strings.Cut(segment, "=")
		if name == sessionCookieName {
			return segment, true
		}
	}
	return "", false
}
