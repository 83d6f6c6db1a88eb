package domain

import (
	"strings"

	geocoding "delivery-geo-engine/internal/features/geocoding/domain"
)

// Destination is one delivery stop to be placed in a route. Identity is the
// ID; Status is informational only and never mutated by the engine.
type Destination struct {
	// ID is the order identifier this stop belongs to.
	ID string `json:"id"`
	// Address is the stop's location, either a known coordinate or address text.
	Address geocoding.Address `json:"-"`
	// DisplayName is a human-readable label for the stop.
	DisplayName string `json:"display_name,omitempty"`
	// Status is the order's delivery status, carried through untouched.
	Status string `json:"status,omitempty"`
}

// HasAddress reports whether the destination carries anything resolvable.
// Destinations without an address are excluded before optimization begins
// and are not reported as failures.
func (d Destination) HasAddress() bool {
	return !d.Address.IsZero()
}

// Order is the inbound order shape the engine receives from the order
// store. Only the address fields and status are meaningful here.
type Order struct {
	// ID is the order identifier.
	ID string `json:"id"`
	// DropAddress is the primary destination address.
	DropAddress string `json:"drop_address"`
	// DeliveryAddress is the fallback destination address.
	DeliveryAddress string `json:"delivery_address"`
	// PickupAddress is the last-resort destination address.
	PickupAddress string `json:"pickup_address"`
	// Status is the order's delivery status.
	Status string `json:"status"`
}

// DestinationAddress picks the order's destination address text using the
// documented precedence: drop, then delivery, then pickup. The precedence
// is applied once here, at construction time, not re-derived at call sites.
func (o Order) DestinationAddress() string {
	for _, a := range []string{o.DropAddress, o.DeliveryAddress, o.PickupAddress} {
		if strings.TrimSpace(a) != "" {
			return a
		}
	}
	return ""
}

// DestinationFromOrder builds the Destination for an order.
func DestinationFromOrder(o Order) Destination {
	return Destination{
		ID:          o.ID,
		Address:     geocoding.AddressFromText(o.DestinationAddress()),
		DisplayName: o.DestinationAddress(),
		Status:      o.Status,
	}
}
