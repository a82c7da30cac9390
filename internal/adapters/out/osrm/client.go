// Package osrm resolves driving routes through an OSRM-compatible routing
// service. The movement simulation treats routing as advisory: callers fall
// back to straight-line interpolation when a route cannot be resolved, so this
// client reports errors instead of guessing.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

const defaultTimeout = 5 * time.Second

// Client implements the route provider port against the OSRM HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the OSRM instance at baseURL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// routeResponse mirrors the subset of the OSRM /route answer we consume.
// Coordinates come back GeoJSON style, longitude first.
type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// GetRoute resolves a driving route from origin to destination as an ordered
// polyline. A response with fewer than two points is an error.
func (c *Client) GetRoute(
	ctx context.Context,
	origin kernel.GeoPoint,
	destination kernel.GeoPoint,
) ([]kernel.GeoPoint, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL,
		origin.Lng(), origin.Lat(),
		destination.Lng(), destination.Lat())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("routing service returned %s", resp.Status)
	}

	var parsed routeResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("routing service returned no route (code %q)", parsed.Code)
	}

	coordinates := parsed.Routes[0].Geometry.Coordinates
	if len(coordinates) < 2 {
		return nil, fmt.Errorf("routing service returned %d points, need at least 2", len(coordinates))
	}

	route := make([]kernel.GeoPoint, 0, len(coordinates))
	for _, pair := range coordinates {
		if len(pair) < 2 {
			return nil, fmt.Errorf("routing service returned malformed coordinate pair")
		}

		point, pointErr := kernel.NewGeoPoint(pair[1], pair[0])
		if pointErr != nil {
			return nil, pointErr
		}
		route = append(route, point)
	}

	return route, nil
}
