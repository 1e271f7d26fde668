package logging

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// Sensitive key patterns that should never be logged verbatim.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"stok",
	"cookie",
	"sysauth",
}

var stokPattern = regexp.MustCompile(`;stok=([^/?]+)`)

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// RedactToken masks a session token or cookie, keeping a short hint.
// Format: first 3 chars + "..." + last 3 chars
func RedactToken(value string) string {
	if name, v, ok := strings.Cut(value, "="); ok {
		return name + "=" + RedactToken(v)
	}
	if len(value) <= 8 {
		if value == "" {
			return ""
		}
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// RedactPath masks the stok segment of a LuCI request path.
func RedactPath(path string) string {
	return stokPattern.ReplaceAllStringFunc(path, func(seg string) string {
		tok := strings.TrimPrefix(seg, ";stok=")
		if tok == "" {
			return seg
		}
		return ";stok=" + RedactToken(tok)
	})
}

// Secret returns a zap field that records only whether a value is present.
func Secret(key, value string) zap.Field {
	if value == "" {
		return zap.String(key, "")
	}
	return zap.String(key, redactedValue)
}
