package restconf

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; building a validator caches struct metadata.
var validate = validator.New()

// ValidateConnection checks that the connection has an address and credentials
// before the first call is made.
func ValidateConnection(conn Connection) error {
	if err := validate.Struct(conn); err != nil {
		return NewValidationError("invalid connection: " + describeValidationErrors(err))
	}
	if _, err := DataURL(conn.Address, conn.APIRoot); err != nil {
		return err
	}
	return nil
}

// ValidateInterfaceChange checks an interface change before any request is sent.
// Only syntax is checked; the device decides whether the values are acceptable.
func ValidateInterfaceChange(change InterfaceChange) error {
	if err := validate.Struct(change); err != nil {
		return NewValidationError("invalid interface change: " + describeValidationErrors(err))
	}
	if _, _, err := SplitInterfaceName(change.Name); err != nil {
		return err
	}
	if change.Address == "" && change.Description == "" {
		return NewValidationError("interface change needs an address or a description")
	}
	if change.Mask != "" {
		if err := ValidateNetmask(change.Mask); err != nil {
			return err
		}
	}
	return nil
}

// ValidateNetmask checks for a dotted-quad IPv4 mask with contiguous ones
func ValidateNetmask(mask string) error {
	ip := net.ParseIP(mask).To4()
	if ip == nil {
		return NewValidationError(fmt.Sprintf("netmask %q is not a dotted-quad IPv4 mask", mask))
	}
	if _, bits := net.IPMask(ip).Size(); bits == 0 {
		return NewValidationError(fmt.Sprintf("netmask %q has non-contiguous bits", mask))
	}
	return nil
}

// ValidateHostname checks a hostname against RFC 1123 label rules
func ValidateHostname(hostname string) error {
	if err := validate.Var(hostname, "required,hostname_rfc1123,max=63"); err != nil {
		return NewValidationError(fmt.Sprintf("hostname %q is not a valid RFC 1123 name", hostname))
	}
	return nil
}

// ValidateVLANID checks that a VLAN id is numeric. Range checks are left to the device.
func ValidateVLANID(id string) error {
	if err := validate.Var(id, "required,number"); err != nil {
		return NewValidationError(fmt.Sprintf("VLAN id %q must be a number", id))
	}
	return nil
}

func describeValidationErrors(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "required_with":
			parts = append(parts, fmt.Sprintf("%s is required with %s", strings.ToLower(fe.Field()), strings.ToLower(fe.Param())))
		default:
			parts = append(parts, fmt.Sprintf("%s fails %q", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
