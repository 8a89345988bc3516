package restconf

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// VerificationOptions configures how a change is read back after the device accepted it
type VerificationOptions struct {
	// MaxRetries is the maximum number of additional read-back attempts
	// Default: 3
	MaxRetries int

	// InitialDelay is the delay before the first read-back
	// Default: 500ms
	InitialDelay time.Duration

	// RetryDelay is the delay between attempts
	// Default: 1s
	RetryDelay time.Duration

	// UseExponentialBackoff doubles RetryDelay after each attempt, up to MaxRetryDelay
	// Default: true
	UseExponentialBackoff bool

	// MaxRetryDelay caps the delay when using exponential backoff
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns sensible defaults for verification
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:            3,
		InitialDelay:          500 * time.Millisecond,
		RetryDelay:            1 * time.Second,
		UseExponentialBackoff: true,
		MaxRetryDelay:         5 * time.Second,
	}
}

// VerificationResult contains the outcome of a read-back
type VerificationResult struct {
	// Applied reports whether the device accepted the change (HTTP 204)
	Applied bool

	// Success reports whether the read-back matched the requested values
	Success bool

	// Attempts is the number of read-backs made
	Attempts int

	// Mismatches lists differences between the requested and the observed values
	Mismatches []string

	// Error is the last error encountered
	Error error
}

// SetHostnameAndVerify sets the hostname and reads it back until it matches
func (c *Client) SetHostnameAndVerify(ctx context.Context, hostname string, opts *VerificationOptions) *VerificationResult {
	result := &VerificationResult{Mismatches: []string{}}

	applied, err := c.SetHostname(ctx, hostname)
	result.Applied = applied
	if !applied {
		result.Error = fmt.Errorf("hostname change not applied: %w", err)
		return result
	}

	c.verifyWithRetry(ctx, opts, result, func() ([]string, error) {
		current, err := c.Hostname(ctx)
		if err != nil {
			return nil, err
		}
		if current != hostname {
			return []string{fmt.Sprintf("hostname: expected %q, got %q", hostname, current)}, nil
		}
		return nil, nil
	})
	return result
}

// ConfigureVLANAndVerify configures a VLAN and reads the VLAN list back
// until the entry is present with the requested name.
func (c *Client) ConfigureVLANAndVerify(ctx context.Context, id, name string, opts *VerificationOptions) *VerificationResult {
	result := &VerificationResult{Mismatches: []string{}}

	applied, err := c.ConfigureVLAN(ctx, id, name)
	result.Applied = applied
	if !applied {
		result.Error = fmt.Errorf("VLAN change not applied: %w", err)
		return result
	}

	c.verifyWithRetry(ctx, opts, result, func() ([]string, error) {
		vlans, err := c.VLANs(ctx)
		if err != nil {
			return nil, err
		}
		return vlanMismatches(vlans, id, name), nil
	})
	return result
}

func vlanMismatches(vlans []VLAN, id, name string) []string {
	for _, v := range vlans {
		if string(v.ID) != id {
			continue
		}
		if name != "" && v.Name != name {
			return []string{fmt.Sprintf("vlan %s name: expected %q, got %q", id, name, v.Name)}
		}
		return nil
	}
	return []string{fmt.Sprintf("vlan %s: not present on device", id)}
}

// verifyWithRetry runs check until it reports no mismatches, the attempts
// are exhausted or ctx is done.
func (c *Client) verifyWithRetry(ctx context.Context, opts *VerificationOptions, result *VerificationResult, check func() ([]string, error)) {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}

	if !sleepContext(ctx, opts.InitialDelay) {
		result.Error = ctx.Err()
		return
	}

	currentDelay := opts.RetryDelay

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result.Attempts++

		if attempt > 0 {
			if !sleepContext(ctx, currentDelay) {
				result.Error = ctx.Err()
				return
			}
			if opts.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > opts.MaxRetryDelay {
					currentDelay = opts.MaxRetryDelay
				}
			}
		}

		mismatches, err := check()
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: read-back failed: %w", attempt+1, err)
			continue
		}

		result.Mismatches = mismatches
		if len(mismatches) == 0 {
			result.Success = true
			result.Error = nil
			return
		}

		if attempt < opts.MaxRetries {
			result.Error = fmt.Errorf("attempt %d: mismatch (will retry)", attempt+1)
		} else {
			result.Error = fmt.Errorf("verification failed after %d attempts: %s", result.Attempts, formatMismatches(mismatches))
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// formatMismatches formats a list of mismatches into a readable string
func formatMismatches(mismatches []string) string {
	if len(mismatches) == 0 {
		return "no mismatches"
	}
	if len(mismatches) == 1 {
		return mismatches[0]
	}
	return fmt.Sprintf("%d mismatches: %s", len(mismatches), strings.Join(mismatches, "; "))
}
