// Package restconf talks to Cisco IOS-XE switches over RESTCONF (RFC 8040).
//
// A Client wraps one Connection (address plus Basic Auth credentials) and
// exposes typed operations on a fixed set of YANG resources:
//
//   - Cisco-IOS-XE-native:native/hostname
//   - ietf-interfaces:interfaces (and interfaces-state, statistics)
//   - Cisco-IOS-XE-native:native/interface/{type}={number}/...
//   - Cisco-IOS-XE-native:native/vlan/Cisco-IOS-XE-vlan:vlan-list
//
// Every request is a single attempt. Reads return the decoded document or
// an *Error; mutations return true only when the device answers 204 No
// Content. Errors carry a Kind so callers can tell a switch that never
// answered (KindTimeout, KindConnectionFailed) from one that refused the
// request (KindProtocol).
//
// Basic usage:
//
//	client, err := restconf.NewClient(restconf.Connection{
//		Address:  "10.0.0.1",
//		Username: "admin",
//		Password: "secret",
//	}, restconf.WithTimeout(5*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hostname, err := client.Hostname(ctx)
//	ok, err := client.ConfigureVLAN(ctx, "100", "eng")
package restconf
