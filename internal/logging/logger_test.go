package logging

import (
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.level); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	t.Cleanup(func() { SetLogger(nil) })

	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is set")
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	t.Cleanup(func() { SetLogger(nil) })

	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	core := GetLogger().Core()
	if core.Enabled(zapcore.InfoLevel) || !core.Enabled(zapcore.WarnLevel) {
		t.Error("logger level should follow ARCHER_LOG_LEVEL")
	}
}

func TestLogDeviceRequest_Redacts(t *testing.T) {
	logs := observe(t)

	fields := url.Values{
		"operation": {"login"},
		"password":  {"cafebabe0123456789"},
		"confirm":   {"true"},
	}
	LogDeviceRequest("POST", "/cgi-bin/luci/;stok=0123456789abcdef/admin/status?form=all", fields, true)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()

	if path := ctx["path"].(string); strings.Contains(path, "0123456789abcdef") {
		t.Errorf("path = %s, stok should be masked", path)
	}

	logged, ok := ctx["fields"].([]interface{})
	if !ok {
		t.Fatalf("fields = %T, want array", ctx["fields"])
	}
	want := []string{"confirm=true", "operation=login", "password"}
	if len(logged) != len(want) {
		t.Fatalf("fields = %v, want %v", logged, want)
	}
	for i, w := range want {
		if logged[i] != w {
			t.Errorf("fields[%d] = %v, want %s", i, logged[i], w)
		}
	}
	if ctx["cookie"] != true {
		t.Errorf("cookie = %v, want true", ctx["cookie"])
	}
}

func TestLogDeviceResponse(t *testing.T) {
	logs := observe(t)

	LogDeviceResponse("/cgi-bin/luci/;stok=/login?form=login", 200, 42, "login failed")

	entries := logs.FilterMessage("Router response").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["errorcode"] != "login failed" {
		t.Errorf("errorcode = %v, want login failed", ctx["errorcode"])
	}
	if ctx["status_code"] != int64(200) {
		t.Errorf("status_code = %v, want 200", ctx["status_code"])
	}
}

func TestLevelHelpers(t *testing.T) {
	logs := observe(t)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	if logs.Len() != 4 {
		t.Fatalf("entries = %d, want 4", logs.Len())
	}
	want := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range logs.All() {
		if entry.Level != want[i] {
			t.Errorf("entry %d level = %v, want %v", i, entry.Level, want[i])
		}
	}
}
