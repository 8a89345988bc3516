package restconf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"

	"github.com/netauto/iosxecfg/internal/urls"
)

// ErrorKind represents the category of a RESTCONF operation failure
type ErrorKind int

const (
	// KindTimeout indicates the device did not answer before the client timeout
	KindTimeout ErrorKind = iota
	// KindConnectionFailed indicates the connection could not be established
	// (refused, unreachable, DNS failure, TLS handshake failure)
	KindConnectionFailed
	// KindProtocol indicates the device answered with an unexpected status code
	KindProtocol
	// KindParse indicates the response document lacked an expected field or was not JSON
	KindParse
	// KindValidation indicates local input was rejected before any request was sent
	KindValidation
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindConnectionFailed:
		return "Connection Failed"
	case KindProtocol:
		return "Protocol Error"
	case KindParse:
		return "Parse Error"
	case KindValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is the error type returned by every Transport and Client operation
type Error struct {
	Kind       ErrorKind // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (KindProtocol only)
	Err        error     // Underlying error (if any)
	Address    string    // Device address (for context)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a low-level client error to a transport error.
// Timeouts become KindTimeout; everything else becomes KindConnectionFailed.
func ClassifyNetworkError(err error, address string) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Kind:    KindTimeout,
			Message: "request timed out",
			Err:     err,
			Address: address,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Kind:    KindConnectionFailed,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Address: address,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &Error{Kind: KindConnectionFailed, Message: "device refused connection", Err: err, Address: address}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &Error{Kind: KindConnectionFailed, Message: "host unreachable", Err: err, Address: address}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &Error{Kind: KindConnectionFailed, Message: "network unreachable", Err: err, Address: address}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, address)
	}

	return &Error{
		Kind:    KindConnectionFailed,
		Message: "connection failed",
		Err:     err,
		Address: address,
	}
}

// NewProtocolError creates an error for an unexpected HTTP status
func NewProtocolError(statusCode int, message string) *Error {
	return &Error{
		Kind:       KindProtocol,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{
		Kind:    KindParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
	}
}

func kindOf(err error) (ErrorKind, bool) {
	var rcErr *Error
	if errors.As(err, &rcErr) {
		return rcErr.Kind, true
	}
	return 0, false
}

// IsTransportError reports whether err means no response was received
// (KindTimeout or KindConnectionFailed).
func IsTransportError(err error) bool {
	kind, ok := kindOf(err)
	return ok && (kind == KindTimeout || kind == KindConnectionFailed)
}

// IsTimeout reports whether err is a KindTimeout error
func IsTimeout(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindTimeout
}

// IsProtocolError reports whether err is a KindProtocol error
func IsProtocolError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindProtocol
}

// IsParseError reports whether err is a KindParse error
func IsParseError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindParse
}

// IsValidationError reports whether err is a KindValidation error
func IsValidationError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindValidation
}

// StatusCode returns the HTTP status carried by a protocol error, or 0
func StatusCode(err error) int {
	var rcErr *Error
	if errors.As(err, &rcErr) {
		return rcErr.StatusCode
	}
	return 0
}

// TroubleshootingHint returns user-facing troubleshooting advice for an error
func TroubleshootingHint(err error) []string {
	var rcErr *Error
	if !errors.As(err, &rcErr) {
		return nil
	}

	switch rcErr.Kind {
	case KindTimeout:
		return []string{
			"The switch did not respond in time",
			"Check that the management interface is reachable",
			"Try a longer --timeout",
		}
	case KindConnectionFailed:
		return []string{
			"Verify the switch address",
			"Enable the HTTPS server on the switch: ip http secure-server",
			"Enable RESTCONF on the switch: restconf",
			"Setup guide: " + urls.EnableRESTCONF,
		}
	case KindProtocol:
		hints := []string{fmt.Sprintf("The switch answered HTTP %d", rcErr.StatusCode)}
		if rcErr.StatusCode == 401 || rcErr.StatusCode == 403 {
			hints = append(hints, "Check the username and password (privilege 15 is required)")
		} else {
			hints = append(hints,
				"Check the interface name, VLAN id or value you entered",
				"Inspect the container with the probe command",
			)
		}
		return hints
	case KindParse:
		return []string{
			"The response did not have the expected YANG document shape",
			"Inspect the raw container with the probe command",
			"YANG models: " + urls.IOSXEYangModels,
		}
	case KindValidation:
		return []string{rcErr.Message}
	default:
		return nil
	}
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var rcErr *Error
	if !errors.As(err, &rcErr) {
		return err.Error()
	}

	switch rcErr.Kind {
	case KindTimeout:
		return "Switch not responding (timeout)"
	case KindConnectionFailed:
		return "Cannot reach switch: " + rcErr.Message
	case KindProtocol:
		return fmt.Sprintf("Switch rejected the request (HTTP %d)", rcErr.StatusCode)
	case KindParse:
		return "Unexpected response document: " + rcErr.Message
	default:
		return rcErr.Message
	}
}
