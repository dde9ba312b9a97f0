// Package geofence decides whether a device location falls inside a
// registered venue's access radius.
package geofence

import (
	"math"

	"example.com/gymtag/internal/domain"
)

// earthRadiusMeters is the mean Earth radius used for haversine distance.
// Flat-plane approximation is not good enough at the 1-10000 m radius
// scales once latitude moves away from the equator.
const earthRadiusMeters = 6371000.0

// Location is an ephemeral device position in WGS84 degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// DenyReason distinguishes why access was denied. Denial is not the same
// as a location failure: denied means the position is known and outside
// every venue.
type DenyReason string

const (
	ReasonNoVenues   DenyReason = "no_venues_registered"
	ReasonOutOfRange DenyReason = "out_of_range"
)

// Decision is the outcome of one authorization check.
type Decision struct {
	Authorized bool
	Venue      *domain.Venue
	Reason     DenyReason
}

// Distance returns the great-circle surface distance in meters between two
// locations, using the haversine formula.
func Distance(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Authorize decides whether loc is inside at least one venue. Venues are
// checked in input order and the first match wins, so callers should pass
// the active venue list sorted by name ascending for reproducible results.
// Pure function of its inputs.
func Authorize(loc Location, venues []domain.Venue) Decision {
	if len(venues) == 0 {
		return Decision{Reason: ReasonNoVenues}
	}
	for i := range venues {
		center := Location{Latitude: venues[i].Latitude, Longitude: venues[i].Longitude}
		if Distance(loc, center) <= float64(venues[i].RadiusMeters) {
			return Decision{Authorized: true, Venue: &venues[i]}
		}
	}
	return Decision{Reason: ReasonOutOfRange}
}
