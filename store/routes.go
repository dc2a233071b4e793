package store

import (
	"encoding/json"
	"fmt"
	"slices"

	"cruxlog/models"

	pebble "github.com/cockroachdb/pebble"
)

// InsertRoute stores a new route and assigns its id. Characteristics named
// on the route are upserted into the characteristic set first, matching the
// create-route flow of the API.
func InsertRoute(route *models.Route) error {
	if db == nil {
		return errNotInitialized()
	}

	if err := UpsertCharacteristics(route.Characteristics); err != nil {
		return err
	}

	id, err := nextID("routes")
	if err != nil {
		return err
	}
	route.ID = id

	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route record: %w", err)
	}
	return db.Set(recordKey("route", id), data, pebble.Sync)
}

// GetRoute retrieves a route by id. Not found is not an error.
func GetRoute(id int64) (*models.Route, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	data, closer, err := db.Get(recordKey("route", id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	defer closer.Close()

	var route models.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route record: %w", err)
	}
	return &route, nil
}

// UpdateRoute rewrites an existing route record
func UpdateRoute(route *models.Route) error {
	if db == nil {
		return errNotInitialized()
	}
	if route.ID == 0 {
		return fmt.Errorf("cannot update route without id")
	}

	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("failed to marshal route record: %w", err)
	}
	return db.Set(recordKey("route", route.ID), data, pebble.Sync)
}

// ListRoutesByUser returns all routes logged by one user
func ListRoutesByUser(userID int64) ([]models.Route, error) {
	return listRoutes(func(r *models.Route) bool {
		return r.UserID == userID
	})
}

// ListRoutesByCharacteristic returns all routes carrying the named
// characteristic
func ListRoutesByCharacteristic(name string) ([]models.Route, error) {
	return listRoutes(func(r *models.Route) bool {
		return slices.Contains(r.Characteristics, name)
	})
}

func listRoutes(match func(*models.Route) bool) ([]models.Route, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	iter, err := db.NewIter(kindBounds("route"))
	if err != nil {
		return nil, fmt.Errorf("failed to create route iterator: %w", err)
	}
	defer iter.Close()

	var routes []models.Route
	for iter.First(); iter.Valid(); iter.Next() {
		var route models.Route
		if err := json.Unmarshal(iter.Value(), &route); err != nil {
			continue // Skip invalid records
		}
		if match(&route) {
			routes = append(routes, route)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("route iteration error: %w", err)
	}
	return routes, nil
}
