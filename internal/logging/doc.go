// Package logging provides structured logging for archerctl.
//
// This package wraps a global zap logger with convenience functions. It is silent
// until initialized, so importing packages never print on their own.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Request and response traces (paths, form field names, errorcodes)
//   - Info: Session events (login, forced login, logout, reboot)
//   - Warn: Recoverable issues (session conflict being taken over)
//   - Error: Failures reported to the user
//
// # Configuration
//
// Initialize logging at startup, either explicitly or from ARCHER_LOG_LEVEL:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Output goes to stderr so command output on stdout stays pipeable.
//
// # Redaction
//
// Session tokens, cookies and passwords never reach the log verbatim. Request
// paths are passed through RedactPath, which masks the ;stok= segment:
//
//	/cgi-bin/luci/;stok=0123456789abcdef/admin/status  ->  ;stok=012...def
//
// Form values of sensitive keys are dropped, leaving only the key name.
package logging
