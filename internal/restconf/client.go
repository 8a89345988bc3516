package restconf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/netauto/iosxecfg/internal/logging"
	"go.uber.org/zap"
)

// Client performs typed RESTCONF operations against one switch.
// It holds only the immutable connection and an HTTP client.
type Client struct {
	transport *Transport
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.transport.HTTPClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.transport.HTTPClient = hc
		}
	}
}

// NewClient creates a client for the given connection
func NewClient(conn Connection, opts ...Option) (*Client, error) {
	t, err := NewTransport(conn)
	if err != nil {
		return nil, err
	}

	c := &Client{transport: t}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Transport returns the underlying transport
func (c *Client) Transport() *Transport {
	return c.transport
}

// BaseURL returns the datastore URL requests are issued against
func (c *Client) BaseURL() string {
	return c.transport.BaseURL
}

// get issues a GET and requires a 2xx status
func (c *Client) get(ctx context.Context, container, leaf string) ([]byte, error) {
	resp, err := c.transport.Call(ctx, http.MethodGet, container, leaf, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, c.protocolError(resp, http.MethodGet, container+leaf)
	}
	return resp.Body, nil
}

// mutate issues a PUT or PATCH; only 204 counts as success
func (c *Client) mutate(ctx context.Context, method, container, leaf string, payload any) (bool, error) {
	resp, err := c.transport.Call(ctx, method, container, leaf, payload)
	if err != nil {
		return false, err
	}
	if !resp.NoContent() {
		return false, c.protocolError(resp, method, container+leaf)
	}
	return true, nil
}

func (c *Client) protocolError(resp *Response, method, path string) *Error {
	rcErr := NewProtocolError(resp.StatusCode, fmt.Sprintf("%s %s returned HTTP %d", method, path, resp.StatusCode))
	rcErr.Address = c.transport.Host()
	return rcErr
}

// decode leaves v untouched for an empty body; RESTCONF answers an empty
// container with 204 or a 200 without content.
func (c *Client) decode(data []byte, v any, what string) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		rcErr := NewParseError(what+" is not a valid JSON document", err)
		rcErr.Address = c.transport.Host()
		return rcErr
	}
	return nil
}

// Probe returns the raw JSON document of an arbitrary container
func (c *Client) Probe(ctx context.Context, container string) (json.RawMessage, error) {
	container = strings.TrimPrefix(strings.TrimSpace(container), "/")
	if container == "" {
		return nil, NewValidationError("container is required")
	}

	data, err := c.get(ctx, container, "")
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(`{}`)
	if err := c.decode(data, &raw, container); err != nil {
		return nil, err
	}
	return raw, nil
}

// Hostname returns the configured hostname of the switch
func (c *Client) Hostname(ctx context.Context) (string, error) {
	data, err := c.get(ctx, NativeContainer, HostnameLeaf)
	if err != nil {
		return "", err
	}

	var doc hostnameDocument
	if err := c.decode(data, &doc, "hostname document"); err != nil {
		return "", err
	}
	if doc.Hostname == nil {
		return "", NewParseError(fmt.Sprintf("response lacks %q", HostnameMember), nil)
	}
	return *doc.Hostname, nil
}

// SetHostname replaces the hostname of the switch.
// The device does not validate the value; an empty hostname is sent as-is.
func (c *Client) SetHostname(ctx context.Context, hostname string) (bool, error) {
	ok, err := c.mutate(ctx, http.MethodPut, NativeContainer, HostnameLeaf, HostnamePayload(hostname))
	if ok {
		logging.Info("Hostname changed", zap.String("hostname", hostname))
	}
	return ok, err
}

// Interfaces returns every interface of the switch in device order
func (c *Client) Interfaces(ctx context.Context) ([]Interface, error) {
	data, err := c.get(ctx, InterfacesContainer, "")
	if err != nil {
		return nil, err
	}

	var doc interfacesDocument
	if err := c.decode(data, &doc, "interfaces document"); err != nil {
		return nil, err
	}
	if doc.Interfaces.Interface == nil {
		return []Interface{}, nil
	}
	return doc.Interfaces.Interface, nil
}

// AddressedInterfaces returns the interfaces that carry an IPv4 or IPv6
// address, preserving device order.
func (c *Client) AddressedInterfaces(ctx context.Context) ([]Interface, error) {
	all, err := c.Interfaces(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAddressed(all), nil
}

// FilterAddressed keeps the interfaces with a non-empty address block
func FilterAddressed(interfaces []Interface) []Interface {
	addressed := make([]Interface, 0, len(interfaces))
	for _, iface := range interfaces {
		if iface.HasAddress() {
			addressed = append(addressed, iface)
		}
	}
	return addressed
}

// AvailableInterfaceNames returns the interface names known to the switch
func (c *Client) AvailableInterfaceNames(ctx context.Context) ([]string, error) {
	all, err := c.Interfaces(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for _, iface := range all {
		names = append(names, iface.Name)
	}
	return names, nil
}

// InterfacesState returns the raw ietf-interfaces:interfaces-state document
func (c *Client) InterfacesState(ctx context.Context) (json.RawMessage, error) {
	return c.Probe(ctx, InterfacesStateContainer)
}

// InterfaceStatistics returns the raw ietf-interfaces:statistics document
func (c *Client) InterfaceStatistics(ctx context.Context) (json.RawMessage, error) {
	return c.Probe(ctx, StatisticsContainer)
}

// ConfigureInterfaceAddress sets the primary IPv4 address of an interface
func (c *Client) ConfigureInterfaceAddress(ctx context.Context, name, address, mask string) (bool, error) {
	key, err := InterfaceKey(name)
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, http.MethodPatch, InterfaceAddressPath(key), "", PrimaryAddressPayload(address, mask))
}

// ConfigureInterfaceDescription sets the description of an interface
func (c *Client) ConfigureInterfaceDescription(ctx context.Context, name, description string) (bool, error) {
	key, err := InterfaceKey(name)
	if err != nil {
		return false, err
	}
	return c.mutate(ctx, http.MethodPatch, InterfaceDescriptionPath(key), "", DescriptionPayload(description))
}

// ConfigureInterface applies the address and then the description of change.
//
// The two requests are independent. When only one is accepted the outcome
// says so and nothing is rolled back. Empty parts are skipped and reported
// as skipped. The returned error is non-nil only when the change is invalid,
// including a change with neither an address nor a description.
func (c *Client) ConfigureInterface(ctx context.Context, change InterfaceChange) (InterfaceOutcome, error) {
	outcome := InterfaceOutcome{Name: change.Name}

	if err := ValidateInterfaceChange(change); err != nil {
		return outcome, err
	}

	if change.Address != "" {
		outcome.AddressApplied, outcome.AddressErr = c.ConfigureInterfaceAddress(ctx, change.Name, change.Address, change.Mask)
	} else {
		outcome.AddressSkipped = true
	}

	if change.Description != "" {
		outcome.DescriptionApplied, outcome.DescriptionErr = c.ConfigureInterfaceDescription(ctx, change.Name, change.Description)
	} else {
		outcome.DescriptionSkipped = true
	}

	if outcome.Partial() {
		logging.Warn("Interface partially configured",
			zap.String("interface", change.Name),
			zap.Bool("address_applied", outcome.AddressApplied),
			zap.Bool("description_applied", outcome.DescriptionApplied))
	}

	return outcome, nil
}

// VLANs returns the configured VLANs in device order. Entries without a
// name are returned with an empty Name.
func (c *Client) VLANs(ctx context.Context) ([]VLAN, error) {
	data, err := c.get(ctx, VLANListContainer, "")
	if err != nil {
		return nil, err
	}

	var doc vlanListDocument
	if err := c.decode(data, &doc, "vlan-list document"); err != nil {
		return nil, err
	}
	if doc.VLANs == nil {
		return []VLAN{}, nil
	}
	return doc.VLANs, nil
}

// ConfigureVLAN creates or updates a VLAN. The id is not checked locally.
func (c *Client) ConfigureVLAN(ctx context.Context, id, name string) (bool, error) {
	return c.mutate(ctx, http.MethodPatch, VLANListContainer, "", VLANPayload(id, name))
}
