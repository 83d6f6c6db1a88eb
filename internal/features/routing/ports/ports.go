package ports

import (
	"context"

	"delivery-geo-engine/internal/core/geo"
	geocoding "delivery-geo-engine/internal/features/geocoding/domain"
)

// AddressResolver defines the interface the optimizer uses to turn
// destination addresses into coordinates. Implemented by the geocoding
// feature's resolver service.
type AddressResolver interface {
	// Resolve returns a validated coordinate for the address, or a typed
	// failure. It must never substitute a default coordinate.
	Resolve(ctx context.Context, addr geocoding.Address) (geo.Coordinate, error)
}
