// Package logging provides structured logging for the iosxe-cfg tools.
//
// This package wraps a global zap logger with convenience functions for the
// RESTCONF request/response cycle. Logging is silent by default so that the
// curated CLI output stays clean; set IOSXE_LOG_LEVEL (or pass --log-level)
// to "debug", "info", "warn" or "error" to enable it. Log output goes to
// stderr.
//
// # Log Levels
//
//   - Debug: request bodies, hex/ascii previews of response bodies
//   - Info: response status codes, simulator state changes
//   - Warn: transport failures (timeouts, refused connections)
//   - Error: startup failures
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Hostname updated", zap.String("hostname", "switch-01"))
package logging
