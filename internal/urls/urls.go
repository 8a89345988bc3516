package urls

// Reference documentation for the protocols and device features the tool
// depends on. Printed in troubleshooting hints and command help.

// RESTCONF is RFC 8040, the protocol spoken to the switch
const RESTCONF = "https://www.rfc-editor.org/rfc/rfc8040"

// RootDiscovery is the RFC 8040 section describing host-meta root discovery
const RootDiscovery = "https://www.rfc-editor.org/rfc/rfc8040#section-3.1"

// IETFInterfaces is RFC 8343, the ietf-interfaces YANG module
const IETFInterfaces = "https://www.rfc-editor.org/rfc/rfc8343"

// IETFIP is RFC 8344, the ietf-ip YANG module (ipv4/ipv6 address blocks)
const IETFIP = "https://www.rfc-editor.org/rfc/rfc8344"

// IOSXEYangModels is the repository of Cisco-IOS-XE-native and related YANG models
const IOSXEYangModels = "https://github.com/YangModels/yang/tree/main/vendor/cisco/xe"

// EnableRESTCONF is the IOS-XE guide for enabling RESTCONF and the HTTPS server
const EnableRESTCONF = "https://www.cisco.com/c/en/us/td/docs/ios-xml/ios/prog/configuration/1712/b_1712_programmability_cg/m_1712_prog_restconf.html"
