package router

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorKind is the semantic category of a router error. Device error strings are
// translated into an ErrorKind once, at the response boundary.
type ErrorKind int

const (
	// KindNone means the device reported no error
	KindNone ErrorKind = iota
	// KindTransport indicates a network-level failure (connection refused, DNS, timeout)
	KindTransport
	// KindCredentialsRejected indicates the router rejected the password
	KindCredentialsRejected
	// KindSessionConflict indicates another user holds the management session
	KindSessionConflict
	// KindSessionExpired indicates the stok/sysauth pair is no longer valid
	KindSessionExpired
	// KindUnknownDevice indicates a malformed or unrecognized device response
	KindUnknownDevice
)

// Device-native error tokens returned in the "errorcode" field of response bodies.
const (
	codeTimeout      = "timeout"
	codeLoginFailed  = "login failed"
	codeUserConflict = "user conflict"
)

// NetworkErrorSubtype provides more specific transport error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "No Error"
	case KindTransport:
		return "Transport Error"
	case KindCredentialsRejected:
		return "Credentials Rejected"
	case KindSessionConflict:
		return "Session Conflict"
	case KindSessionExpired:
		return "Session Expired"
	case KindUnknownDevice:
		return "Unknown Device Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Classify maps a device error token to its ErrorKind. It is total: an absent code
// yields KindNone and any unrecognized token yields KindUnknownDevice.
func Classify(code string) ErrorKind {
	switch code {
	case "":
		return KindNone
	case codeLoginFailed:
		return KindCredentialsRejected
	case codeUserConflict:
		return KindSessionConflict
	case codeTimeout:
		return KindSessionExpired
	default:
		return KindUnknownDevice
	}
}

// DeviceError represents an error that occurred while talking to the router
type DeviceError struct {
	Kind           ErrorKind           // Semantic category
	Message        string              // Human-readable error message
	Code           string              // Raw device error token (if any)
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific transport error type
	Endpoint       string              // Router endpoint (for context)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyDeviceCode converts a device error token into a DeviceError.
// Returns nil when the code is absent.
func ClassifyDeviceCode(code string) *DeviceError {
	kind := Classify(code)
	switch kind {
	case KindNone:
		return nil
	case KindCredentialsRejected:
		return &DeviceError{Kind: kind, Code: code, Message: "login failed, check the endpoint and password"}
	case KindSessionConflict:
		return &DeviceError{Kind: kind, Code: code, Message: "another user is logged in to this router"}
	case KindSessionExpired:
		return &DeviceError{Kind: kind, Code: code, Message: "authentication expired"}
	default:
		return &DeviceError{Kind: KindUnknownDevice, Code: code, Message: fmt.Sprintf("router reported error %q", code)}
	}
}

// ClassifyNetworkError analyzes a transport error and returns a more specific DeviceError
func ClassifyNetworkError(err error, endpoint string) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{
			Kind:           KindTransport,
			Message:        "request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Endpoint:       endpoint,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Kind:           KindTransport,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Endpoint:       endpoint,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &DeviceError{
				Kind:           KindTransport,
				Message:        "router refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Endpoint:       endpoint,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &DeviceError{
				Kind:           KindTransport,
				Message:        "host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Endpoint:       endpoint,
			}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &DeviceError{
				Kind:           KindTransport,
				Message:        "network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Endpoint:       endpoint,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err, endpoint)
	}

	return &DeviceError{
		Kind:           KindTransport,
		Message:        "network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Endpoint:       endpoint,
	}
}

// NewTransportError creates a transport error with automatic network classification.
// message is prefixed to the classified description, e.g. "POST request failed: host unreachable".
func NewTransportError(message string, err error) *DeviceError {
	classified := ClassifyNetworkError(err, "")
	if classified != nil {
		classified.Message = message + ": " + classified.Message
		return classified
	}
	return &DeviceError{
		Kind:    KindTransport,
		Message: message,
		Err:     err,
	}
}

// NewUnknownDeviceError creates an error for a malformed or unexpected response
func NewUnknownDeviceError(message string, err error) *DeviceError {
	return &DeviceError{
		Kind:    KindUnknownDevice,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the ErrorKind carried by err, KindNone for nil and
// KindUnknownDevice for errors that did not originate in this package.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Kind
	}
	return KindUnknownDevice
}

func isKind(err error, kind ErrorKind) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Kind == kind
}

// IsTransportError checks if an error is a network-level failure
func IsTransportError(err error) bool {
	return isKind(err, KindTransport)
}

// IsCredentialsRejected checks if the router rejected the password
func IsCredentialsRejected(err error) bool {
	return isKind(err, KindCredentialsRejected)
}

// IsSessionConflict checks if another user holds the router session
func IsSessionConflict(err error) bool {
	return isKind(err, KindSessionConflict)
}

// IsSessionExpired checks if the session token was rejected as stale
func IsSessionExpired(err error) bool {
	return isKind(err, KindSessionExpired)
}

// IsUnknownDeviceError checks if the router sent a malformed or unrecognized response
func IsUnknownDeviceError(err error) bool {
	return isKind(err, KindUnknownDevice)
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return []string{"An unexpected error occurred. Please try again."}
	}

	switch devErr.Kind {
	case KindTransport:
		switch devErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return []string{
				"The router did not respond in time",
				"Check that the router is powered on",
				"Try increasing --timeout",
			}
		case NetworkErrorConnectionRefused:
			return []string{
				"The router refused the connection",
				"Check the endpoint scheme (http vs https) and port",
				"The web management service may be disabled on this interface",
			}
		case NetworkErrorDNS:
			return []string{
				"Could not resolve the router hostname",
				"Use the router IP address instead (e.g. https://192.168.0.1)",
			}
		default:
			return []string{
				"Check your network connection",
				"Verify you are on the router's LAN",
				"If the router uses a self-signed certificate, pass --insecure",
			}
		}

	case KindCredentialsRejected:
		return []string{
			"The router rejected the password",
			"Set ARCHER_PASSWORD or enter the web management password when prompted",
			"Repeated failures may temporarily lock the login page",
		}

	case KindSessionConflict:
		return []string{
			"Another user is logged in to the router's web interface",
			"Log out from the other browser session, or",
			"Re-run with --polite=false to take over the session",
		}

	case KindSessionExpired:
		return []string{
			"The router rejected a freshly issued session",
			"Check that the router clock and firmware are sane, then retry",
		}

	case KindUnknownDevice:
		hint := []string{"The router sent a response this tool does not understand"}
		if devErr.StatusCode != 0 {
			hint = append(hint, fmt.Sprintf("HTTP status was %d", devErr.StatusCode))
		}
		return append(hint, "This firmware may use a different login protocol", "Run with --log-level debug for details")

	default:
		return []string{"An error occurred. Please check the error message for details."}
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Kind {
	case KindTransport:
		switch devErr.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Router not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Router refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve router hostname"
		case NetworkErrorHostUnreachable:
			return "Router unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		default:
			return "Network error - check connection"
		}
	case KindCredentialsRejected:
		return "Login failed - check password"
	case KindSessionConflict:
		return "Another user is logged in"
	case KindSessionExpired:
		return "Session expired"
	case KindUnknownDevice:
		if devErr.StatusCode != 0 {
			return fmt.Sprintf("Unexpected router response (HTTP %d)", devErr.StatusCode)
		}
		return "Unexpected router response"
	default:
		return strings.TrimSpace(devErr.Message)
	}
}
