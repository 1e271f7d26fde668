package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/muurk/archerctl/internal/logging"
)

// maxResponseSize bounds how much of a response body is read
const maxResponseSize = 4 << 20

// FormResponse is a decoded router response
type FormResponse struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Header holds the raw response headers (Set-Cookie is read from here)
	Header http.Header

	// Body is the decoded JSON envelope
	Body ResponseBody
}

// ResponseBody is the JSON envelope every LuCI form endpoint returns
type ResponseBody struct {
	// Data is the endpoint-specific payload; nil when absent or JSON null
	Data json.RawMessage `json:"data"`

	// ErrorCode is the device error token; empty when absent
	ErrorCode ErrorCode `json:"errorcode"`
}

// HasData reports whether the response carried a non-null data payload
func (b ResponseBody) HasData() bool {
	trimmed := bytes.TrimSpace(b.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ErrorCode is a device error token. Some firmware sends it as a number or
// boolean; falsy values (null, false, 0, "") mean no error.
type ErrorCode string

// UnmarshalJSON implements json.Unmarshaler
func (c *ErrorCode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "", "null", "false":
		*c = ""
		return nil
	case "true":
		*c = "true"
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = ErrorCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("errorcode must be a string, number or boolean: %w", err)
	}
	if f, err := n.Float64(); err == nil && f == 0 {
		*c = ""
		return nil
	}
	*c = ErrorCode(n.String())
	return nil
}

// FormClient submits form-encoded POST requests to router endpoints
type FormClient struct {
	// BaseURL is the router base URL (e.g., "https://192.168.0.1")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Limiter paces requests to the router; nil means unlimited
	Limiter *rate.Limiter
}

// NewFormClient creates a form client for the given router base URL
func NewFormClient(baseURL string, httpClient *http.Client) *FormClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &FormClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
	}
}

// SetRateLimit limits requests to perSecond requests per second.
// A value of 0 or less removes the limit.
func (f *FormClient) SetRateLimit(perSecond float64) {
	if perSecond <= 0 {
		f.Limiter = nil
		return
	}
	f.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Submit POSTs fields to path as application/x-www-form-urlencoded.
// cookie is sent as the Cookie header when non-empty.
func (f *FormClient) Submit(ctx context.Context, path string, fields url.Values, cookie string) (*FormResponse, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, NewTransportError("request cancelled while waiting for rate limiter", err)
		}
	}

	logging.LogDeviceRequest(http.MethodPost, path, fields, cookie != "")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+path, strings.NewReader(fields.Encode()))
	if err != nil {
		return nil, NewTransportError("failed to create POST request", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		devErr := NewTransportError("POST request failed", err)
		devErr.Endpoint = f.BaseURL
		return nil, devErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransportError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.LogDeviceResponse(path, resp.StatusCode, len(body), "")
		return nil, &DeviceError{
			Kind:       KindUnknownDevice,
			Message:    "unexpected status code: " + strconv.Itoa(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Endpoint:   f.BaseURL,
		}
	}

	var decoded ResponseBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		logging.LogDeviceResponse(path, resp.StatusCode, len(body), "")
		return nil, &DeviceError{
			Kind:       KindUnknownDevice,
			Message:    "failed to parse JSON response",
			StatusCode: resp.StatusCode,
			Err:        err,
			Endpoint:   f.BaseURL,
		}
	}

	logging.LogDeviceResponse(path, resp.StatusCode, len(body), string(decoded.ErrorCode))

	return &FormResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decoded,
	}, nil
}
