package restconf_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/netauto/iosxecfg/internal/logging"
	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/simulator"
)

func newSimulator(t *testing.T, hostname string) (*simulator.Handler, *restconf.Client) {
	t.Helper()

	h := simulator.NewHandler(simulator.NewDevice(hostname), simulator.HandlerOptions{})
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{
		Address:  srv.URL,
		Username: simulator.DefaultUsername,
		Password: simulator.DefaultPassword,
	}, restconf.WithTimeout(5*time.Second))
	require.NoError(t, err)

	return h, client
}

// recordedRequest captures what a stub device received
type recordedRequest struct {
	Method      string
	Path        string
	Body        string
	Accept      string
	ContentType string
	User        string
	Pass        string
}

func newStub(t *testing.T, status int, body string) (*restconf.Client, func() recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var last recordedRequest

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		user, pass, _ := r.BasicAuth()

		mu.Lock()
		last = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			Body:        string(data),
			Accept:      r.Header.Get("Accept"),
			ContentType: r.Header.Get("Content-Type"),
			User:        user,
			Pass:        pass,
		}
		mu.Unlock()

		if body != "" {
			w.Header().Set("Content-Type", restconf.MediaType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{
		Address:  srv.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)

	return client, func() recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestNewClientRejectsIncompleteConnection(t *testing.T) {
	tests := []struct {
		name string
		conn restconf.Connection
	}{
		{name: "no address", conn: restconf.Connection{Username: "admin", Password: "x"}},
		{name: "no username", conn: restconf.Connection{Address: "10.0.0.1", Password: "x"}},
		{name: "no password", conn: restconf.Connection{Address: "10.0.0.1", Username: "admin"}},
		{name: "relative api root", conn: restconf.Connection{Address: "10.0.0.1", Username: "admin", Password: "x", APIRoot: "restconf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := restconf.NewClient(tt.conn)
			assert.Nil(t, client)
			assert.True(t, restconf.IsValidationError(err), "got %v", err)
		})
	}
}

func TestNewClientOptions(t *testing.T) {
	client, err := restconf.NewClient(restconf.Connection{Address: "10.0.0.1", Username: "admin", Password: "x"},
		restconf.WithTimeout(3*time.Second))
	require.NoError(t, err)

	assert.Equal(t, "https://10.0.0.1/restconf/data/", client.BaseURL())
	assert.Equal(t, 3*time.Second, client.Transport().HTTPClient.Timeout)
}

func TestTransportSendsHeadersAndAuth(t *testing.T) {
	client, last := newStub(t, http.StatusNoContent, "")

	ok, err := client.ConfigureVLAN(context.Background(), "100", "eng")
	require.NoError(t, err)
	assert.True(t, ok)

	req := last()
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/restconf/data/Cisco-IOS-XE-native:native/vlan/Cisco-IOS-XE-vlan:vlan-list", req.Path)
	assert.Equal(t, restconf.MediaType, req.Accept)
	assert.Equal(t, restconf.MediaType, req.ContentType)
	assert.Equal(t, "admin", req.User)
	assert.Equal(t, "secret", req.Pass)
	assert.Equal(t, `{"Cisco-IOS-XE-vlan:vlan-list":{"id":"100","name":"eng"}}`, req.Body)
}

func TestMutationStatusHandling(t *testing.T) {
	statuses := []int{
		http.StatusOK,
		http.StatusCreated,
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusInternalServerError,
	}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			client, _ := newStub(t, status, "")

			ok, err := client.SetHostname(context.Background(), "switch-01")
			assert.False(t, ok)
			require.Error(t, err)
			assert.True(t, restconf.IsProtocolError(err))
			assert.Equal(t, status, restconf.StatusCode(err))
		})
	}

	t.Run("No Content", func(t *testing.T) {
		client, last := newStub(t, http.StatusNoContent, "")

		ok, err := client.SetHostname(context.Background(), "switch-01")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, http.MethodPut, last().Method)
		assert.Equal(t, `{"Cisco-IOS-XE-native:hostname":"switch-01"}`, last().Body)
	})
}

func TestInterfaceKeyOnTheWire(t *testing.T) {
	client, last := newStub(t, http.StatusNoContent, "")
	ctx := context.Background()

	ok, err := client.ConfigureInterfaceDescription(ctx, "GigabitEthernet1/0/1", "uplink")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/restconf/data/Cisco-IOS-XE-native:native/interface/GigabitEthernet=1%2F0%2F1/description", last().Path)
	assert.Equal(t, `{"description":"uplink"}`, last().Body)

	ok, err = client.ConfigureInterfaceAddress(ctx, "GigabitEthernet1/0/1", "10.1.1.1", "255.255.255.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/restconf/data/Cisco-IOS-XE-native:native/interface/GigabitEthernet=1%2F0%2F1/ip/address/primary", last().Path)
	assert.Equal(t, `{"primary":{"address":"10.1.1.1","mask":"255.255.255.0"}}`, last().Body)
}

func TestInvalidInterfaceNameSendsNothing(t *testing.T) {
	client, last := newStub(t, http.StatusNoContent, "")

	ok, err := client.ConfigureInterfaceDescription(context.Background(), "uplink", "x")
	assert.False(t, ok)
	assert.True(t, restconf.IsValidationError(err))
	assert.Empty(t, last().Method)
}

func TestTimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{Address: srv.URL, Username: "admin", Password: "x"},
		restconf.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	hostname, err := client.Hostname(context.Background())
	assert.Empty(t, hostname)
	assert.True(t, restconf.IsTransportError(err), "got %v", err)
	assert.True(t, restconf.IsTimeout(err), "got %v", err)

	ok, err := client.ConfigureVLAN(context.Background(), "10", "x")
	assert.False(t, ok)
	assert.True(t, restconf.IsTransportError(err))
}

func TestConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	address := srv.URL
	srv.Close()

	client, err := restconf.NewClient(restconf.Connection{Address: address, Username: "admin", Password: "x"})
	require.NoError(t, err)

	vlans, err := client.VLANs(context.Background())
	assert.Nil(t, vlans)
	require.Error(t, err)
	assert.True(t, restconf.IsTransportError(err))
	assert.False(t, restconf.IsTimeout(err))

	var rcErr *restconf.Error
	require.ErrorAs(t, err, &rcErr)
	assert.Equal(t, restconf.KindConnectionFailed, rcErr.Kind)
}

func TestHostnameMissingField(t *testing.T) {
	client, _ := newStub(t, http.StatusOK, `{"Cisco-IOS-XE-native:domain":{}}`)

	hostname, err := client.Hostname(context.Background())
	assert.Empty(t, hostname)
	assert.True(t, restconf.IsParseError(err), "got %v", err)
}

func TestReadNotJSON(t *testing.T) {
	client, _ := newStub(t, http.StatusOK, `<html>login</html>`)

	interfaces, err := client.Interfaces(context.Background())
	assert.Nil(t, interfaces)
	assert.True(t, restconf.IsParseError(err), "got %v", err)
}

func TestReadProtocolError(t *testing.T) {
	client, _ := newStub(t, http.StatusNotFound, "")

	raw, err := client.Probe(context.Background(), "Cisco-IOS-XE-native:native/banner")
	assert.Nil(t, raw)
	assert.True(t, restconf.IsProtocolError(err))
	assert.Equal(t, http.StatusNotFound, restconf.StatusCode(err))
}

func TestHostnameRoundTrip(t *testing.T) {
	_, client := newSimulator(t, "Switch")
	ctx := context.Background()

	ok, err := client.SetHostname(ctx, "switch-01")
	require.NoError(t, err)
	require.True(t, ok)

	hostname, err := client.Hostname(ctx)
	require.NoError(t, err)
	assert.Equal(t, "switch-01", hostname)
}

func TestAddressedInterfaces(t *testing.T) {
	_, client := newSimulator(t, "Switch")
	ctx := context.Background()

	all, err := client.Interfaces(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	addressed, err := client.AddressedInterfaces(ctx)
	require.NoError(t, err)
	require.Len(t, addressed, 2)
	assert.Equal(t, "GigabitEthernet0/0", addressed[0].Name)
	assert.Equal(t, "Loopback0", addressed[1].Name)

	addr, ok := addressed[0].PrimaryIPv4()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", addr.IP)
	assert.Equal(t, "255.255.255.0", addr.Netmask)
}

func TestConfigureInterfaceAgainstSimulator(t *testing.T) {
	h, client := newSimulator(t, "Switch")
	ctx := context.Background()

	outcome, err := client.ConfigureInterface(ctx, restconf.InterfaceChange{
		Name:        "GigabitEthernet1/0/1",
		Address:     "10.1.1.1",
		Mask:        "255.255.255.0",
		Description: "uplink",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Complete())
	assert.NoError(t, outcome.AddressErr)
	assert.NoError(t, outcome.DescriptionErr)

	for _, iface := range h.Device().Interfaces() {
		if iface.Name != "GigabitEthernet1/0/1" {
			continue
		}
		assert.Equal(t, "uplink", iface.Description)
		addr, ok := iface.PrimaryIPv4()
		require.True(t, ok)
		assert.Equal(t, "10.1.1.1", addr.IP)
	}

	addressed, err := client.AddressedInterfaces(ctx)
	require.NoError(t, err)
	assert.Len(t, addressed, 3)
}

func TestConfigureInterfaceUnknownName(t *testing.T) {
	_, client := newSimulator(t, "Switch")

	outcome, err := client.ConfigureInterface(context.Background(), restconf.InterfaceChange{
		Name:        "GigabitEthernet9/0/9",
		Description: "nowhere",
	})
	require.NoError(t, err)
	assert.False(t, outcome.DescriptionApplied)
	assert.True(t, outcome.AddressSkipped)
	assert.False(t, outcome.Complete())
	assert.False(t, outcome.Partial())
	assert.Equal(t, http.StatusNotFound, restconf.StatusCode(outcome.DescriptionErr))
}

func TestConfigureInterfacePartial(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.EscapedPath(), "/description") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{Address: srv.URL, Username: "admin", Password: "x"})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })

	outcome, err := client.ConfigureInterface(context.Background(), restconf.InterfaceChange{
		Name:        "GigabitEthernet1/0/2",
		Address:     "10.2.2.2",
		Mask:        "255.255.255.0",
		Description: "server",
	})
	require.NoError(t, err)
	assert.True(t, outcome.AddressApplied)
	assert.False(t, outcome.DescriptionApplied)
	assert.True(t, outcome.Partial())
	assert.True(t, restconf.IsProtocolError(outcome.DescriptionErr))
	assert.Equal(t, "interface GigabitEthernet1/0/2: address applied, description rejected", restconf.FormatOutcome(outcome))
	assert.Equal(t, 1, logs.FilterMessage("Interface partially configured").Len())
}

func TestConfigureInterfaceAddressOnlyRejected(t *testing.T) {
	client, last := newStub(t, http.StatusBadRequest, "")

	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })

	outcome, err := client.ConfigureInterface(context.Background(), restconf.InterfaceChange{
		Name:    "GigabitEthernet1/0/1",
		Address: "10.1.1.1",
		Mask:    "255.255.255.0",
	})
	require.NoError(t, err)
	assert.False(t, outcome.AddressApplied)
	assert.False(t, outcome.DescriptionApplied)
	assert.True(t, outcome.DescriptionSkipped)
	assert.False(t, outcome.Complete())
	assert.False(t, outcome.Partial())
	assert.True(t, restconf.IsProtocolError(outcome.AddressErr))
	assert.NoError(t, outcome.DescriptionErr)
	assert.Equal(t, "interface GigabitEthernet1/0/1: address rejected, description skipped", restconf.FormatOutcome(outcome))
	assert.True(t, strings.HasSuffix(last().Path, "/ip/address/primary"))
	assert.Zero(t, logs.FilterMessage("Interface partially configured").Len())
}

func TestConfigureInterfaceDescriptionOnly(t *testing.T) {
	client, last := newStub(t, http.StatusNoContent, "")

	outcome, err := client.ConfigureInterface(context.Background(), restconf.InterfaceChange{
		Name:        "GigabitEthernet1/0/1",
		Description: "uplink",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Complete())
	assert.True(t, outcome.AddressSkipped)
	assert.Equal(t, "interface GigabitEthernet1/0/1: address skipped, description applied", restconf.FormatOutcome(outcome))
	assert.True(t, strings.HasSuffix(last().Path, "/description"))
}

func TestConfigureInterfaceEmptyChange(t *testing.T) {
	client, last := newStub(t, http.StatusNoContent, "")

	outcome, err := client.ConfigureInterface(context.Background(), restconf.InterfaceChange{Name: "GigabitEthernet1/0/1"})
	assert.True(t, restconf.IsValidationError(err))
	assert.False(t, outcome.Complete())
	assert.Empty(t, last().Method)
}

func TestConfigureInterfaceValidation(t *testing.T) {
	client, last := newStub(t, http.StatusNoContent, "")

	tests := []restconf.InterfaceChange{
		{Name: "GigabitEthernet1/0/1", Address: "10.1.1.1"},
		{Name: "GigabitEthernet1/0/1", Address: "10.1.1.300", Mask: "255.255.255.0"},
		{Name: "GigabitEthernet1/0/1", Address: "10.1.1.1", Mask: "255.0.255.0"},
		{Name: "", Description: "x"},
	}

	for _, change := range tests {
		_, err := client.ConfigureInterface(context.Background(), change)
		assert.True(t, restconf.IsValidationError(err), "change %+v: got %v", change, err)
	}
	assert.Empty(t, last().Method)
}

func TestVLANs(t *testing.T) {
	h, client := newSimulator(t, "Switch")
	ctx := context.Background()

	h.Device().SetVLANs([]restconf.VLAN{{ID: "1", Name: "default"}, {ID: "20"}})

	ok, err := client.ConfigureVLAN(ctx, "100", "eng")
	require.NoError(t, err)
	require.True(t, ok)

	vlans, err := client.VLANs(ctx)
	require.NoError(t, err)
	require.Len(t, vlans, 3)

	assert.Equal(t, "vlan: 1 with name : default", restconf.FormatVLAN(vlans[0]))
	assert.Equal(t, "vlan: 20", restconf.FormatVLAN(vlans[1]))
	assert.Equal(t, "vlan: 100 with name : eng", restconf.FormatVLAN(vlans[2]))
}

func TestVLANsEmpty(t *testing.T) {
	h, client := newSimulator(t, "Switch")
	h.Device().SetVLANs(nil)

	vlans, err := client.VLANs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vlans)
	assert.NotNil(t, vlans)
}

func TestConfigureVLANRejected(t *testing.T) {
	_, client := newSimulator(t, "Switch")

	ok, err := client.ConfigureVLAN(context.Background(), "5000", "too-high")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, restconf.StatusCode(err))
}

func TestWrongCredentials(t *testing.T) {
	h := simulator.NewHandler(simulator.NewDevice("Switch"), simulator.HandlerOptions{})
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{Address: srv.URL, Username: "admin", Password: "wrong"})
	require.NoError(t, err)

	_, err = client.Hostname(context.Background())
	assert.Equal(t, http.StatusUnauthorized, restconf.StatusCode(err))
	assert.Contains(t, restconf.TroubleshootingHint(err)[1], "username and password")
}

func TestAvailableInterfaceNames(t *testing.T) {
	_, client := newSimulator(t, "Switch")
	ctx := context.Background()

	names, err := client.AvailableInterfaceNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GigabitEthernet0/0", "GigabitEthernet1/0/1", "GigabitEthernet1/0/2", "Loopback0", "Vlan1"}, names)
}

func TestStateAndStatistics(t *testing.T) {
	_, client := newSimulator(t, "Switch")
	ctx := context.Background()

	state, err := client.InterfacesState(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(state), `"ietf-interfaces:interfaces-state"`)
	assert.Contains(t, string(state), `"oper-status":"up"`)

	stats, err := client.InterfaceStatistics(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(stats), `"in-octets"`)
}

func TestProbe(t *testing.T) {
	_, client := newSimulator(t, "switch-01")

	raw, err := client.Probe(context.Background(), "/Cisco-IOS-XE-native:native/hostname")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Cisco-IOS-XE-native:hostname":"switch-01"}`, string(raw))

	_, err = client.Probe(context.Background(), " ")
	assert.True(t, restconf.IsValidationError(err))
}

func TestDiscoverRoot(t *testing.T) {
	h := simulator.NewHandler(simulator.NewDevice("Switch"), simulator.HandlerOptions{APIRoot: "/api/restconf"})
	srv := httptest.NewTLSServer(h)
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{Address: srv.URL, Username: "admin", Password: "admin"})
	require.NoError(t, err)

	root, err := client.DiscoverRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/restconf", root)
}

func TestDiscoverRootUsesTransport(t *testing.T) {
	client, last := newStub(t, http.StatusNotFound, "")

	root, err := client.DiscoverRoot(context.Background())
	assert.Empty(t, root)
	assert.True(t, restconf.IsProtocolError(err))
	assert.Equal(t, http.StatusNotFound, restconf.StatusCode(err))

	req := last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, restconf.HostMetaPath, req.Path)
	assert.Equal(t, restconf.XRDMediaType, req.Accept)
	assert.Equal(t, "admin", req.User)
	assert.Equal(t, "secret", req.Pass)
}

func TestDiscoverRootUnreachable(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	address := srv.URL
	srv.Close()

	client, err := restconf.NewClient(restconf.Connection{Address: address, Username: "admin", Password: "x"})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })

	_, err = client.DiscoverRoot(context.Background())
	assert.True(t, restconf.IsTransportError(err))
	assert.Equal(t, 1, logs.FilterMessage("RESTCONF request failed").Len())
}

func TestParseHostMeta(t *testing.T) {
	root, err := restconf.ParseHostMeta([]byte(`<XRD xmlns="http://docs.oasis-open.org/ns/xri/xrd-1.0"><Link rel="restconf" href="https://10.0.0.1/restconf/"/></XRD>`))
	require.NoError(t, err)
	assert.Equal(t, "/restconf", root)

	_, err = restconf.ParseHostMeta([]byte(`<XRD><Link rel="lrdd" href="/x"/></XRD>`))
	assert.True(t, restconf.IsParseError(err))

	_, err = restconf.ParseHostMeta([]byte(`not xml`))
	assert.True(t, restconf.IsParseError(err))
}

type stubReply struct {
	status int
	body   string
}

// newStubRouter answers by HTTP method and counts requests per method
func newStubRouter(t *testing.T, replies map[string]stubReply) (*restconf.Client, func(method string) int) {
	t.Helper()

	var mu sync.Mutex
	counts := make(map[string]int)

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		counts[r.Method]++
		mu.Unlock()

		reply, ok := replies[r.Method]
		if !ok {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(reply.status)
		_, _ = io.WriteString(w, reply.body)
	}))
	t.Cleanup(srv.Close)

	client, err := restconf.NewClient(restconf.Connection{Address: srv.URL, Username: "admin", Password: "x"})
	require.NoError(t, err)

	return client, func(method string) int {
		mu.Lock()
		defer mu.Unlock()
		return counts[method]
	}
}
