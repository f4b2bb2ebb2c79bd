package enums

import "fmt"

// AddressType labels the shipping address supplied at checkout.
type AddressType string

const (
	AddressTypeDefault AddressType = "default"
	AddressTypeOther   AddressType = "other"
)

var validAddressTypes = []AddressType{
	AddressTypeDefault,
	AddressTypeOther,
}

// String implements fmt.Stringer.
func (a AddressType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddressType.
func (a AddressType) IsValid() bool {
	for _, candidate := range validAddressTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddressType converts raw input into an AddressType.
func ParseAddressType(value string) (AddressType, error) {
	for _, candidate := range validAddressTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid address type %q", value)
}
