package restconf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: &osSyscallError{err: syscall.ECONNREFUSED}}

	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
		wantMsg  string
	}{
		{name: "timeout", err: timeoutError{}, wantKind: KindTimeout},
		{name: "deadline", err: context.DeadlineExceeded, wantKind: KindTimeout},
		{name: "wrapped deadline", err: &url.Error{Op: "Get", URL: "https://x", Err: context.DeadlineExceeded}, wantKind: KindTimeout},
		{name: "refused", err: &url.Error{Op: "Get", URL: "https://x", Err: refused}, wantKind: KindConnectionFailed, wantMsg: "refused"},
		{name: "dns", err: &net.DNSError{Name: "switch.invalid", Err: "no such host"}, wantKind: KindConnectionFailed, wantMsg: "DNS"},
		{name: "other", err: errors.New("tls: handshake failure"), wantKind: KindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err, "10.0.0.1")
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Address != "10.0.0.1" {
				t.Errorf("Address = %q, want 10.0.0.1", got.Address)
			}
			if tt.wantMsg != "" && !strings.Contains(got.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", got.Message, tt.wantMsg)
			}
			if !IsTransportError(got) {
				t.Error("IsTransportError() = false, want true")
			}
		})
	}

	if ClassifyNetworkError(nil, "x") != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

// osSyscallError stands in for *os.SyscallError so errors.Is reaches the errno
type osSyscallError struct{ err error }

func (e *osSyscallError) Error() string { return "connect: " + e.err.Error() }
func (e *osSyscallError) Unwrap() error { return e.err }

func TestErrorPredicates(t *testing.T) {
	protocol := fmt.Errorf("set hostname: %w", NewProtocolError(409, "conflict"))

	if !IsProtocolError(protocol) {
		t.Error("IsProtocolError() = false for wrapped protocol error")
	}
	if IsTransportError(protocol) {
		t.Error("IsTransportError() = true for protocol error")
	}
	if StatusCode(protocol) != 409 {
		t.Errorf("StatusCode() = %d, want 409", StatusCode(protocol))
	}
	if !IsParseError(NewParseError("bad", nil)) {
		t.Error("IsParseError() = false")
	}
	if !IsValidationError(NewValidationError("bad")) {
		t.Error("IsValidationError() = false")
	}
	if IsTimeout(errors.New("plain")) {
		t.Error("IsTimeout() = true for plain error")
	}
	if StatusCode(errors.New("plain")) != 0 {
		t.Error("StatusCode() of plain error should be 0")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: KindParse, Message: "bad document", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if !strings.Contains(err.Error(), "caused by: boom") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: &Error{Kind: KindTimeout}, want: "Switch not responding (timeout)"},
		{err: &Error{Kind: KindConnectionFailed, Message: "device refused connection"}, want: "Cannot reach switch: device refused connection"},
		{err: NewProtocolError(400, "x"), want: "Switch rejected the request (HTTP 400)"},
		{err: NewValidationError("VLAN id must be a number"), want: "VLAN id must be a number"},
		{err: errors.New("plain"), want: "plain"},
	}

	for _, tt := range tests {
		if got := ShortMessage(tt.err); got != tt.want {
			t.Errorf("ShortMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestTroubleshootingHint(t *testing.T) {
	hints := TroubleshootingHint(NewProtocolError(401, "unauthorized"))
	if len(hints) < 2 || !strings.Contains(hints[1], "username and password") {
		t.Errorf("401 hints = %v, want credentials hint", hints)
	}

	if TroubleshootingHint(errors.New("plain")) != nil {
		t.Error("plain errors should have no hints")
	}
}
