package types

import (
	"fmt"
	"strings"

	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// ShippingAddress is the address captured on an order at checkout. Stored as
// jsonb on the orders table.
type ShippingAddress struct {
	Street      string            `json:"street"`
	City        string            `json:"city"`
	State       *string           `json:"state,omitempty"`
	Country     string            `json:"country"`
	ZipCode     *string           `json:"zip_code,omitempty"`
	AddressType enums.AddressType `json:"address_type"`
}

// Validate checks the required fields and the address type enum.
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return fmt.Errorf("shipping address: missing street")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("shipping address: missing city")
	}
	if strings.TrimSpace(a.Country) == "" {
		return fmt.Errorf("shipping address: missing country")
	}
	if a.AddressType == "" {
		return nil
	}
	if !a.AddressType.IsValid() {
		return fmt.Errorf("shipping address: invalid address type %q", a.AddressType)
	}
	return nil
}
