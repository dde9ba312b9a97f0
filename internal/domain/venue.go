package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxRadiusMeters caps how wide a venue geofence may be.
const MaxRadiusMeters = 10000

// Venue is a registered gym ("academia") with a circular geofence around
// its location. Inactive venues are excluded from authorization and from
// public listings.
type Venue struct {
	ID           string
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Active       bool
	LogoURL      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrVenueNotFound is returned when a venue cannot be located.
var ErrVenueNotFound = errors.New("venue not found")

// Validate enforces the invariants required before venue data may cross
// into the core.
func (v Venue) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return errors.New("name is required")
	}
	if v.Latitude < -90 || v.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %f", v.Latitude)
	}
	if v.Longitude < -180 || v.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %f", v.Longitude)
	}
	if v.RadiusMeters <= 0 || v.RadiusMeters > MaxRadiusMeters {
		return fmt.Errorf("radius must be between 1 and %d meters, got %d", MaxRadiusMeters, v.RadiusMeters)
	}
	return nil
}
