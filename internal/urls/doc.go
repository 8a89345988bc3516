// Package urls provides centralized constants for the documentation URLs used
// throughout the application.
//
// Usage:
//
//	import "github.com/netauto/iosxecfg/internal/urls"
//
//	fmt.Printf("See %s for the protocol reference\n", urls.RESTCONF)
package urls
