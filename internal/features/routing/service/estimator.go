package service

import (
	"delivery-geo-engine/internal/core/geo"
)

// durationFactorMinutesPerKm approximates urban average driving speed
// (~40 km/h, i.e. 1.5 min per km). The resulting duration is a deliberately
// coarse estimate, not a routing-engine-grade ETA.
const durationFactorMinutesPerKm = 1.5

// EstimateTotals sums consecutive-pair haversine distances over the
// waypoint sequence and derives the duration estimate from the total.
// Legs with malformed coordinates contribute zero distance.
func EstimateTotals(waypoints []geo.Coordinate) (totalMeters float64, totalMinutes float64) {
	for i := 0; i < len(waypoints)-1; i++ {
		d, err := geo.DistanceBetween(waypoints[i], waypoints[i+1])
		if err != nil {
			continue
		}
		totalMeters += d.Meters
	}

	totalMinutes = (totalMeters / 1000.0) * durationFactorMinutesPerKm
	return totalMeters, totalMinutes
}
