package geofence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/gymtag/internal/domain"
)

func venue(name string, lat, lon float64, radius int) domain.Venue {
	return domain.Venue{
		ID:           name,
		Name:         name,
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		Active:       true,
	}
}

func TestDistanceOneDegreeOfLatitude(t *testing.T) {
	// One degree of latitude on the mean sphere is pi*R/180 meters.
	d := Distance(Location{Latitude: 0, Longitude: 0}, Location{Latitude: 1, Longitude: 0})
	require.InDelta(t, 111194.9, d, 1.0)
}

func TestDistanceZeroForSamePoint(t *testing.T) {
	p := Location{Latitude: -23.5505, Longitude: -46.6333}
	require.Zero(t, Distance(p, p))
}

func TestDistanceShrinksWithLatitude(t *testing.T) {
	// A longitude offset spans less ground far from the equator; a flat
	// approximation would get this wrong.
	atEquator := Distance(Location{0, 0}, Location{0, 0.01})
	atSixty := Distance(Location{60, 0}, Location{60, 0.01})
	require.Less(t, atSixty, atEquator*0.6)
}

func TestAuthorizeInsideRadius(t *testing.T) {
	venues := []domain.Venue{venue("central", -23.5505, -46.6333, 100)}

	// ~55 m north of the center.
	loc := Location{Latitude: -23.5500, Longitude: -46.6333}
	decision := Authorize(loc, venues)

	require.True(t, decision.Authorized)
	require.NotNil(t, decision.Venue)
	require.Equal(t, "central", decision.Venue.Name)
}

func TestAuthorizeOutsideRadius(t *testing.T) {
	venues := []domain.Venue{venue("central", -23.5505, -46.6333, 100)}

	// ~1.1 km away.
	loc := Location{Latitude: -23.5605, Longitude: -46.6333}
	decision := Authorize(loc, venues)

	require.False(t, decision.Authorized)
	require.Nil(t, decision.Venue)
	require.Equal(t, ReasonOutOfRange, decision.Reason)
}

func TestAuthorizeEmptyVenueList(t *testing.T) {
	decision := Authorize(Location{Latitude: 10, Longitude: 10}, nil)

	require.False(t, decision.Authorized)
	require.Equal(t, ReasonNoVenues, decision.Reason)
}

func TestAuthorizeFirstMatchWinsOnOverlap(t *testing.T) {
	// Two overlapping venues; input order (name ascending) breaks the tie,
	// not proximity: "bravo" is closer but "alpha" comes first.
	venues := []domain.Venue{
		venue("alpha", 0.0010, 0, 500),
		venue("bravo", 0.0001, 0, 500),
	}
	decision := Authorize(Location{Latitude: 0, Longitude: 0}, venues)

	require.True(t, decision.Authorized)
	require.Equal(t, "alpha", decision.Venue.Name)
}

func TestAuthorizeIsPure(t *testing.T) {
	venues := []domain.Venue{venue("central", 0, 0, 200)}
	loc := Location{Latitude: 0.001, Longitude: 0}

	first := Authorize(loc, venues)
	second := Authorize(loc, venues)

	require.Equal(t, first.Authorized, second.Authorized)
	require.Equal(t, first.Reason, second.Reason)
}

func TestAuthorizeBoundaryIsInclusive(t *testing.T) {
	// 0.001 degrees of latitude is ~111.19 m; a 112 m radius admits it,
	// a 110 m radius does not.
	loc := Location{Latitude: 0.001, Longitude: 0}

	require.True(t, Authorize(loc, []domain.Venue{venue("wide", 0, 0, 112)}).Authorized)
	require.False(t, Authorize(loc, []domain.Venue{venue("narrow", 0, 0, 110)}).Authorized)
}

func TestClassifyFailure(t *testing.T) {
	require.Equal(t, FailurePermissionDenied, ClassifyFailure(1))
	require.Equal(t, FailurePositionUnavailable, ClassifyFailure(2))
	require.Equal(t, FailureTimeout, ClassifyFailure(3))
	require.Equal(t, FailureUnknown, ClassifyFailure(0))
	require.Equal(t, FailureUnknown, ClassifyFailure(99))
}

func TestParseFailure(t *testing.T) {
	require.Equal(t, FailureTimeout, ParseFailure("timeout"))
	require.Equal(t, FailureUnknown, ParseFailure("gps exploded"))
	require.Equal(t, FailureUnknown, ParseFailure(""))
}
