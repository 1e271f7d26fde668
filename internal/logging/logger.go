package logging

import (
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvVar selects the log level when no explicit level is given.
// Unset means silent.
const LogLevelEnvVar = "ARCHER_LOG_LEVEL"

var logger = zap.NewNop()

// Initialize installs a console logger on stderr at level, falling back to
// $ARCHER_LOG_LEVEL. With neither set the logger is a no-op.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		parseLevel(level),
	)
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	return nil
}

// InitializeFromEnv is Initialize with the level taken from the environment.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger swaps the package logger; nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// parseLevel maps unknown names to info: asking for logs at all means info.
func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil || lvl < zapcore.DebugLevel || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return lvl
}

func GetLogger() *zap.Logger {
	return logger
}

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }

// LogDeviceRequest records a form submission to the router. The stok in
// path is masked and sensitive form values are dropped.
func LogDeviceRequest(method, path string, fields map[string][]string, hasCookie bool) {
	logger.Debug("Router request",
		zap.String("method", method),
		zap.String("path", RedactPath(path)),
		zap.Strings("fields", fieldNames(fields)),
		zap.Bool("cookie", hasCookie),
	)
}

func LogDeviceResponse(path string, statusCode int, length int, errorCode string) {
	logger.Debug("Router response",
		zap.String("path", RedactPath(path)),
		zap.Int("status_code", statusCode),
		zap.Int("length", length),
		zap.String("errorcode", errorCode),
	)
}

// fieldNames renders fields as sorted key=value pairs, with sensitive keys
// reduced to the bare name.
func fieldNames(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for key, values := range fields {
		if IsSensitiveKey(key) || len(values) == 0 {
			names = append(names, key)
		} else {
			names = append(names, key+"="+values[0])
		}
	}
	sort.Strings(names)
	return names
}

// Sync flushes buffered entries
func Sync() {
	_ = logger.Sync()
}
