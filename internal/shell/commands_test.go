package shell

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/simulator"
	"github.com/netauto/iosxecfg/internal/ui"
)

func newSimulatedDevice(t *testing.T) (*simulator.Handler, *restconf.Client) {
	t.Helper()

	h := simulator.NewHandler(simulator.NewDevice("lab-sw1"), simulator.HandlerOptions{})
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

// deviceDown fails every call the way an unreachable switch does
type deviceDown struct{}

func (deviceDown) err() error {
	return &restconf.Error{Kind: restconf.KindConnectionFailed, Message: "connection refused"}
}

func (d deviceDown) Hostname(context.Context) (string, error) { return "", d.err() }
func (d deviceDown) SetHostname(context.Context, string) (bool, error) {
	return false, d.err()
}
func (d deviceDown) AddressedInterfaces(context.Context) ([]restconf.Interface, error) {
	return nil, d.err()
}
func (d deviceDown) AvailableInterfaceNames(context.Context) ([]string, error) {
	return nil, d.err()
}
func (d deviceDown) ConfigureInterface(_ context.Context, c restconf.InterfaceChange) (restconf.InterfaceOutcome, error) {
	o := restconf.InterfaceOutcome{Name: c.Name, AddressSkipped: c.Address == "", DescriptionSkipped: c.Description == ""}
	if !o.AddressSkipped {
		o.AddressErr = d.err()
	}
	if !o.DescriptionSkipped {
		o.DescriptionErr = d.err()
	}
	return o, nil
}
func (d deviceDown) VLANs(context.Context) ([]restconf.VLAN, error) { return nil, d.err() }
func (d deviceDown) ConfigureVLAN(context.Context, string, string) (bool, error) {
	return false, d.err()
}
func (d deviceDown) Probe(context.Context, string) (json.RawMessage, error) { return nil, d.err() }

func TestParseChoice(t *testing.T) {
	for _, c := range Choices() {
		got, err := ParseChoice(" " + string(rune('0'+int(c))) + "\n")
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	for _, bad := range []string{"", "0", "8", "abc", "-1"} {
		_, err := ParseChoice(bad)
		assert.Error(t, err, "ParseChoice(%q)", bad)
		assert.True(t, restconf.IsValidationError(err))
	}
}

func TestCommandsTableIsComplete(t *testing.T) {
	require.Len(t, Commands, len(Choices()))
	for _, c := range Choices() {
		cmd, ok := Commands[c]
		require.True(t, ok, "missing command for %d", c)
		assert.Equal(t, c, cmd.Choice)
		assert.NotEmpty(t, cmd.Title)
		assert.NotNil(t, cmd.Run)
	}
	assert.Equal(t, "Show configured VLANs", ListVLANs.String())
	assert.Equal(t, "Choice(42)", Choice(42).String())
}

func TestFieldCheck(t *testing.T) {
	f := Commands[ConfigureInterface].Fields[0]

	assert.NoError(t, f.Check("GigabitEthernet1/0/1", nil))
	assert.NoError(t, f.Check("GigabitEthernet1/0/1", []string{"GigabitEthernet1/0/1"}))
	assert.Error(t, f.Check("GigabitEthernet1/0/9", []string{"GigabitEthernet1/0/1"}))
	assert.Error(t, f.Check("", nil))
	assert.Error(t, f.Check("not an interface", nil))

	optional := Field{Key: FieldDescription, Optional: true}
	assert.NoError(t, optional.Check("  ", nil))
}

func TestDispatchAgainstSimulator(t *testing.T) {
	h, client := newSimulatedDevice(t)
	ctx := context.Background()

	o := Dispatch(ctx, client, ShowHostname, nil)
	require.Equal(t, StatusOK, o.Status, o.Err)
	assert.Equal(t, "lab-sw1", o.Details[0].Value)

	o = Dispatch(ctx, client, ChangeHostname, Input{FieldHostname: "switch-01"})
	require.Equal(t, StatusOK, o.Status, o.Err)
	assert.Equal(t, "switch-01", h.Device().Hostname())

	o = Dispatch(ctx, client, ListAddressedInterfaces, nil)
	require.Equal(t, StatusOK, o.Status, o.Err)
	assert.Equal(t, "2", o.Details[0].Value)
	assert.Contains(t, o.Body, "interface GigabitEthernet0/0:")

	o = Dispatch(ctx, client, ConfigureVLAN, Input{FieldVLANID: "100", FieldVLANName: "eng"})
	require.Equal(t, StatusOK, o.Status, o.Err)

	o = Dispatch(ctx, client, ListVLANs, nil)
	require.Equal(t, StatusOK, o.Status, o.Err)
	assert.Contains(t, o.Body, "vlan: 100 with name : eng")

	o = Dispatch(ctx, client, ConfigureInterface, Input{
		FieldInterface:   "GigabitEthernet1/0/1",
		FieldAddress:     "10.1.1.1",
		FieldMask:        "255.255.255.0",
		FieldDescription: "uplink",
	})
	require.Equal(t, StatusOK, o.Status, o.Err)
	require.NotNil(t, o.Interface)
	assert.True(t, o.Interface.Complete())
	assert.Equal(t, ui.ResultSuccess, o.Result().Type)

	o = Dispatch(ctx, client, ProbeContainer, Input{FieldContainer: "Cisco-IOS-XE-native:native/hostname"})
	require.Equal(t, StatusOK, o.Status, o.Err)
	assert.Contains(t, o.Body, "switch-01")
}

func TestDispatchUnknownInterface(t *testing.T) {
	_, client := newSimulatedDevice(t)

	o := Dispatch(context.Background(), client, ConfigureInterface, Input{
		FieldInterface:   "GigabitEthernet9/0/9",
		FieldAddress:     "10.1.1.1",
		FieldMask:        "255.255.255.0",
		FieldDescription: "nowhere",
	})
	assert.Equal(t, StatusFailed, o.Status)
	require.NotNil(t, o.Interface)
	assert.False(t, o.Interface.AddressApplied)
	assert.False(t, o.Interface.DescriptionApplied)
	assert.Equal(t, ui.ResultFailure, o.Result().Type)
}

func TestDispatchAddressOnlyRejected(t *testing.T) {
	h, client := newSimulatedDevice(t)
	h.FailMutations(400)

	o := Dispatch(context.Background(), client, ConfigureInterface, Input{
		FieldInterface: "GigabitEthernet1/0/1",
		FieldAddress:   "10.1.1.1",
		FieldMask:      "255.255.255.0",
	})
	assert.Equal(t, StatusFailed, o.Status)
	assert.Equal(t, "interface GigabitEthernet1/0/1: address rejected, description skipped", o.Title)
	assert.True(t, restconf.IsProtocolError(o.Err))
	require.NotNil(t, o.Interface)
	assert.True(t, o.Interface.DescriptionSkipped)

	r := o.Result()
	assert.Equal(t, ui.ResultFailure, r.Type)
	require.Len(t, r.Details, 2)
	assert.Equal(t, "skipped", r.Details[1].Value)
}

func TestDispatchEmptyInterfaceChange(t *testing.T) {
	h, client := newSimulatedDevice(t)

	o := Dispatch(context.Background(), client, ConfigureInterface, Input{FieldInterface: "GigabitEthernet1/0/1"})
	assert.Equal(t, StatusFailed, o.Status)
	assert.True(t, restconf.IsValidationError(o.Err))
	assert.Nil(t, o.Interface)
	assert.Zero(t, h.Requests())
}

func TestDispatchValidation(t *testing.T) {
	_, client := newSimulatedDevice(t)
	ctx := context.Background()

	o := Dispatch(ctx, client, ChangeHostname, Input{FieldHostname: ""})
	assert.Equal(t, StatusFailed, o.Status)
	assert.True(t, restconf.IsValidationError(o.Err))

	o = Dispatch(ctx, client, ConfigureVLAN, Input{FieldVLANID: "abc"})
	assert.Equal(t, StatusFailed, o.Status)

	o = Dispatch(ctx, client, ConfigureInterface, Input{
		FieldInterface: "GigabitEthernet1/0/1",
		FieldAddress:   "10.1.1.1",
	})
	assert.Equal(t, StatusFailed, o.Status, "address without mask")

	o = Dispatch(ctx, client, Choice(99), nil)
	assert.Equal(t, StatusFailed, o.Status)
}

func TestDispatchUnreachableDevice(t *testing.T) {
	ctx := context.Background()
	in := map[Choice]Input{
		ChangeHostname:     {FieldHostname: "sw"},
		ConfigureInterface: {FieldInterface: "GigabitEthernet1/0/1", FieldAddress: "10.0.0.1", FieldMask: "255.0.0.0"},
		ConfigureVLAN:      {FieldVLANID: "10"},
		ProbeContainer:     {FieldContainer: "x"},
	}

	for _, c := range Choices() {
		o := Dispatch(ctx, deviceDown{}, c, in[c])
		assert.Equal(t, StatusFailed, o.Status, c.String())
		assert.True(t, restconf.IsTransportError(o.Err), c.String())
		assert.Equal(t, ui.ResultFailure, o.Result().Type, c.String())
	}
}

func TestPrepareConfigureInterface(t *testing.T) {
	_, client := newSimulatedDevice(t)

	prep, err := Commands[ConfigureInterface].Prepare(context.Background(), client)
	require.NoError(t, err)
	assert.Len(t, prep.Allowed[FieldInterface], 5)
	assert.Contains(t, prep.Notice, "GigabitEthernet1/0/1")
}
