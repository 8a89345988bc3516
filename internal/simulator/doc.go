// Package simulator emulates the RESTCONF datastore of an IOS-XE switch.
//
// It serves the hostname, interface and VLAN resources from memory over
// HTTPS with a generated self-signed certificate. Mutations answer 204 No
// Content like the real device, reads answer 200 with
// application/yang-data+json documents, and an empty VLAN list answers 204.
//
// The Handler can be mounted on an httptest server:
//
//	h := simulator.NewHandler(simulator.NewDevice("switch-01"), simulator.HandlerOptions{})
//	srv := httptest.NewTLSServer(h)
//	defer srv.Close()
package simulator
