package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func TestPathPlanner_Resample(t *testing.T) {
	planner := services.NewPathPlanner()

	t.Run("splits a single segment evenly", func(t *testing.T) {
		route := []kernel.GeoPoint{point(t, 0, 0), point(t, 0, 8)}

		waypoints, err := planner.Resample(route, 4)

		require.NoError(t, err)
		require.Len(t, waypoints, 4)
		for i, wantLng := range []float64{2, 4, 6, 8} {
			assert.InDelta(t, 0, waypoints[i].Lat(), 1e-9)
			assert.InDelta(t, wantLng, waypoints[i].Lng(), 1e-9)
		}
	})

	t.Run("always produces the requested number of waypoints", func(t *testing.T) {
		route := []kernel.GeoPoint{
			point(t, 0, 0), point(t, 0, 1), point(t, 0, 2), point(t, 1, 2),
		}

		for _, steps := range []int{1, 2, 3, 7, 50} {
			waypoints, err := planner.Resample(route, steps)
			require.NoError(t, err)
			assert.Len(t, waypoints, steps)
		}
	})

	t.Run("last waypoint is the route's final point", func(t *testing.T) {
		route := []kernel.GeoPoint{point(t, 10, 10), point(t, 10.5, 10.2), point(t, 11, 11)}

		waypoints, err := planner.Resample(route, 13)

		require.NoError(t, err)
		last := waypoints[len(waypoints)-1]
		assert.InDelta(t, 11, last.Lat(), 1e-9)
		assert.InDelta(t, 11, last.Lng(), 1e-9)
	})

	t.Run("more steps than vertices interpolates between them", func(t *testing.T) {
		route := []kernel.GeoPoint{point(t, 0, 0), point(t, 0, 1)}

		waypoints, err := planner.Resample(route, 10)

		require.NoError(t, err)
		require.Len(t, waypoints, 10)
		for i, wp := range waypoints {
			assert.InDelta(t, float64(i+1)/10, wp.Lng(), 1e-9)
		}
	})

	t.Run("rejects short routes and bad step counts", func(t *testing.T) {
		_, err := planner.Resample([]kernel.GeoPoint{point(t, 0, 0)}, 4)
		require.ErrorIs(t, err, services.ErrRouteTooShort)

		_, err = planner.Resample(nil, 4)
		require.ErrorIs(t, err, services.ErrRouteTooShort)

		_, err = planner.Resample([]kernel.GeoPoint{point(t, 0, 0), point(t, 0, 1)}, 0)
		require.ErrorIs(t, err, services.ErrStepsOutOfRange)
	})
}

func TestPathPlanner_StraightLine(t *testing.T) {
	planner := services.NewPathPlanner()

	t.Run("interpolates between endpoints", func(t *testing.T) {
		waypoints, err := planner.StraightLine(point(t, 0, 0), point(t, 4, 8), 4)

		require.NoError(t, err)
		require.Len(t, waypoints, 4)
		for i, wp := range waypoints {
			frac := float64(i+1) / 4
			assert.InDelta(t, 4*frac, wp.Lat(), 1e-9)
			assert.InDelta(t, 8*frac, wp.Lng(), 1e-9)
		}
	})

	t.Run("single step jumps straight to the destination", func(t *testing.T) {
		waypoints, err := planner.StraightLine(point(t, 0, 0), point(t, 1, 1), 1)

		require.NoError(t, err)
		require.Len(t, waypoints, 1)
		assert.InDelta(t, 1, waypoints[0].Lat(), 1e-9)
		assert.InDelta(t, 1, waypoints[0].Lng(), 1e-9)
	})

	t.Run("rejects non-positive steps", func(t *testing.T) {
		_, err := planner.StraightLine(point(t, 0, 0), point(t, 1, 1), 0)
		require.ErrorIs(t, err, services.ErrStepsOutOfRange)
	})
}

func TestPathPlanner_SpawnPoint(t *testing.T) {
	planner := services.NewPathPlanner()

	t.Run("spawns a short way along a real route", func(t *testing.T) {
		route := make([]kernel.GeoPoint, 0, 10)
		for i := 0; i < 10; i++ {
			route = append(route, point(t, 0, float64(i)))
		}

		spawn := planner.SpawnPoint(route, point(t, 50, 50))

		// floor(10 * 0.15) = 1
		equal, err := spawn.IsEqual(route[1])
		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("short route falls back to an offset near the vendor", func(t *testing.T) {
		vendor := point(t, 40.7128, -74.0060)

		spawn := planner.SpawnPoint([]kernel.GeoPoint{vendor, point(t, 40.72, -74.0)}, vendor)

		require.NoError(t, spawn.Validate())
		assert.InDelta(t, vendor.Lat(), spawn.Lat(), 0.01)
		assert.InDelta(t, vendor.Lng(), spawn.Lng(), 0.01)
	})

	t.Run("missing route falls back to an offset near the vendor", func(t *testing.T) {
		vendor := point(t, 40.7128, -74.0060)

		spawn := planner.SpawnPoint(nil, vendor)

		require.NoError(t, spawn.Validate())
		assert.InDelta(t, vendor.Lat(), spawn.Lat(), 0.01)
		assert.InDelta(t, vendor.Lng(), spawn.Lng(), 0.01)
	})
}
