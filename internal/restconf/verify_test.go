package restconf_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netauto/iosxecfg/internal/restconf"
)

func fastVerification() *restconf.VerificationOptions {
	return &restconf.VerificationOptions{
		MaxRetries:    2,
		InitialDelay:  0,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 5 * time.Millisecond,
	}
}

func TestDefaultVerificationOptions(t *testing.T) {
	opts := restconf.DefaultVerificationOptions()

	assert.Equal(t, 3, opts.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, opts.InitialDelay)
	assert.True(t, opts.UseExponentialBackoff)
}

func TestSetHostnameAndVerify(t *testing.T) {
	_, client := newSimulator(t, "Switch")

	result := client.SetHostnameAndVerify(context.Background(), "core-sw1", fastVerification())
	require.NoError(t, result.Error)
	assert.True(t, result.Applied)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Mismatches)
}

func TestSetHostnameAndVerifyRejected(t *testing.T) {
	h, client := newSimulator(t, "Switch")
	h.FailMutations(http.StatusBadRequest)

	result := client.SetHostnameAndVerify(context.Background(), "core-sw1", fastVerification())
	assert.False(t, result.Applied)
	assert.False(t, result.Success)
	assert.Zero(t, result.Attempts)
	assert.True(t, restconf.IsProtocolError(result.Error))
}

func TestConfigureVLANAndVerify(t *testing.T) {
	_, client := newSimulator(t, "Switch")

	result := client.ConfigureVLANAndVerify(context.Background(), "30", "voice", fastVerification())
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
}

func TestVerifyReportsMismatch(t *testing.T) {
	// the stub accepts every change but always reports the old hostname
	client, _ := newStubRouter(t, map[string]stubReply{
		http.MethodPut: {status: http.StatusNoContent},
		http.MethodGet: {status: http.StatusOK, body: `{"Cisco-IOS-XE-native:hostname":"Switch"}`},
	})

	result := client.SetHostnameAndVerify(context.Background(), "core-sw1", fastVerification())
	assert.True(t, result.Applied)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	require.Len(t, result.Mismatches, 1)
	assert.Contains(t, result.Mismatches[0], `expected "core-sw1", got "Switch"`)
	assert.ErrorContains(t, result.Error, "verification failed after 3 attempts")
}

func TestVerifyStopsOnCancel(t *testing.T) {
	_, client := newSimulator(t, "Switch")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastVerification()
	opts.InitialDelay = time.Second

	result := client.ConfigureVLANAndVerify(ctx, "40", "x", opts)
	assert.False(t, result.Success)
	assert.False(t, result.Applied)
	assert.True(t, restconf.IsTransportError(result.Error))
}
