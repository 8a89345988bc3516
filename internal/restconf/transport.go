package restconf

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/netauto/iosxecfg/internal/logging"
)

const (
	// DefaultUsername is offered by the CLI when no username is configured
	DefaultUsername = "admin"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second
)

// Connection identifies one device and the credentials used for every call.
// It is immutable once handed to NewTransport or NewClient.
type Connection struct {
	// Address is the device host, host:port or https URL (e.g. "10.0.0.1")
	Address string `validate:"required"`

	// Username for HTTP Basic Auth
	Username string `validate:"required"`

	// Password for HTTP Basic Auth
	Password string `validate:"required"`

	// APIRoot is the RESTCONF root path (default "/restconf")
	APIRoot string `validate:"omitempty,startswith=/"`
}

// Response is a completed HTTP exchange. Any status code, including 4xx and
// 5xx, produces a Response; interpreting it is up to the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// NoContent reports whether the status is 204, the success signal of every mutation
func (r *Response) NoContent() bool {
	return r != nil && r.StatusCode == http.StatusNoContent
}

// Transport issues authenticated RESTCONF requests against one device
type Transport struct {
	// BaseURL is the datastore URL, e.g. "https://10.0.0.1/restconf/data/"
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	host     string
	username string
	password string
}

// NewTransport validates the connection and builds a transport for it
func NewTransport(conn Connection) (*Transport, error) {
	if err := ValidateConnection(conn); err != nil {
		return nil, err
	}

	baseURL, err := DataURL(conn.Address, conn.APIRoot)
	if err != nil {
		return nil, err
	}

	u, _ := url.Parse(baseURL)

	return &Transport{
		BaseURL:    baseURL,
		HTTPClient: NewHTTPClient(DefaultTimeout),
		host:       u.Host,
		username:   conn.Username,
		password:   conn.Password,
	}, nil
}

// NewHTTPClient returns an HTTP client that does not verify server certificates.
// Switches ship with self-signed certificates; skipping verification is the
// documented trust policy of this tool.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Host returns the device host:port this transport talks to
func (t *Transport) Host() string {
	return t.host
}

// Call performs one request against BaseURL + container + leaf.
//
// payload may be nil, a json.RawMessage, a []byte or any value encodable by
// encoding/json. There is no retry: a timeout or connection failure is logged
// at warning level and returned as a *Error with a nil Response.
func (t *Transport) Call(ctx context.Context, method, container, leaf string, payload any) (*Response, error) {
	target := t.BaseURL + container + leaf

	body, err := encodePayload(payload)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: "failed to encode request payload", Err: err, Address: t.host}
	}

	return t.do(ctx, method, target, MediaType, body)
}

// Fetch performs one GET against an absolute URL on the same device, asking
// for the given media type. Failures are handled as in Call.
func (t *Transport) Fetch(ctx context.Context, target, accept string) (*Response, error) {
	return t.do(ctx, http.MethodGet, target, accept, nil)
}

func (t *Transport) do(ctx context.Context, method, target, accept string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("invalid request target %q", target), Err: err, Address: t.host}
	}

	req.SetBasicAuth(t.username, t.password)
	req.Header.Set("Accept", accept)
	req.Header.Set("Content-Type", MediaType)

	logging.LogRequest(method, target, body)

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		rcErr := ClassifyNetworkError(err, t.host)
		logging.LogTransportFailure(method, target, rcErr.Kind.String(), err)
		return nil, rcErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		rcErr := ClassifyNetworkError(err, t.host)
		logging.LogTransportFailure(method, target, rcErr.Kind.String(), err)
		return nil, rcErr
	}

	logging.LogResponse(method, target, resp.StatusCode, data)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return p, nil
	case []byte:
		return p, nil
	default:
		return json.Marshal(p)
	}
}
