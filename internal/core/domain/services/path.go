package services

import (
	"math"
	"math/rand"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	// spawnFraction places the agent's starting point this far along the
	// pickup route, so the agent appears to be already heading to the vendor.
	spawnFraction = 0.15

	// spawnJitterDegrees bounds the random offset used when no usable route
	// exists to derive a spawn point from.
	spawnJitterDegrees = 0.005
)

// Movement planning errors.
var (
	// ErrRouteTooShort is returned when a polyline has fewer than two points.
	ErrRouteTooShort = errs.NewValueIsRequiredError("route must contain at least two points")
	// ErrStepsOutOfRange is returned when the requested step count is not positive.
	ErrStepsOutOfRange = errs.NewValueIsRequiredError("steps must be positive")
)

// PathPlanner turns road-network polylines into fixed-length sequences of
// waypoints, one per movement tick. Routing services return polylines whose
// vertex count depends on road geometry, while the simulation needs exactly
// as many waypoints as it has ticks in the leg's time budget, so every route
// is resampled before an agent walks it.
type PathPlanner struct{}

// NewPathPlanner creates a PathPlanner.
func NewPathPlanner() *PathPlanner {
	return &PathPlanner{}
}

// Resample converts a polyline into exactly steps waypoints, ending at the
// polyline's final point.
//
// The waypoint at tick i sits at fractional vertex index i*(n-1)/steps and is
// linearly interpolated between the two surrounding vertices. Interpolation is
// by vertex index, not by arc length: dense vertex clusters (city blocks,
// roundabouts) are traversed slower than long straight segments. For a
// simulation that only needs plausible movement this is acceptable and avoids
// computing cumulative segment distances.
func (p *PathPlanner) Resample(points []kernel.GeoPoint, steps int) ([]kernel.GeoPoint, error) {
	if len(points) < 2 {
		return nil, ErrRouteTooShort
	}
	if steps < 1 {
		return nil, ErrStepsOutOfRange
	}

	lastIndex := float64(len(points) - 1)
	waypoints := make([]kernel.GeoPoint, 0, steps)

	for i := 1; i <= steps; i++ {
		position := float64(i) / float64(steps) * lastIndex

		index := int(math.Floor(position))
		if index >= len(points)-1 {
			waypoints = append(waypoints, points[len(points)-1])
			continue
		}

		fraction := position - float64(index)
		waypoints = append(waypoints, points[index].Lerp(points[index+1], fraction))
	}

	return waypoints, nil
}

// StraightLine produces steps waypoints evenly spaced on the segment from
// origin to destination, ending exactly at the destination. It is the
// fallback path when the routing service yields no usable polyline.
func (p *PathPlanner) StraightLine(origin, destination kernel.GeoPoint, steps int) ([]kernel.GeoPoint, error) {
	if steps < 1 {
		return nil, ErrStepsOutOfRange
	}

	waypoints := make([]kernel.GeoPoint, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		waypoints = append(waypoints, origin.Lerp(destination, t))
	}

	return waypoints, nil
}

// SpawnPoint picks where a delivery agent first appears for a pickup leg.
//
// When the route has at least three points the agent spawns a short way
// along it, at the vertex spawnFraction of the way in, so the first published
// positions already track the road. Shorter or missing routes fall back to a
// small random offset from the vendor, and if even that offset lands outside
// valid coordinates the vendor's own location is used.
func (p *PathPlanner) SpawnPoint(route []kernel.GeoPoint, vendorLocation kernel.GeoPoint) kernel.GeoPoint {
	if len(route) >= 3 {
		return route[int(math.Floor(float64(len(route))*spawnFraction))]
	}

	spawn, err := kernel.NewGeoPoint(
		vendorLocation.Lat()+(rand.Float64()*2-1)*spawnJitterDegrees,
		vendorLocation.Lng()+(rand.Float64()*2-1)*spawnJitterDegrees,
	)
	if err != nil {
		return vendorLocation
	}

	return spawn
}
