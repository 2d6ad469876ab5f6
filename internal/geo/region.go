// Package geo resolves raw listing coordinates to city/state labels using a
// static table of bounding boxes. It is a best-effort offline lookup, not a
// geocoding service: boxes are coarse, may overlap, and the first match in
// declaration order wins.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/realagent/homegraph/internal/listing"
)

// Region is one named area in the lookup table.
type Region struct {
	Bound orb.Bound
	City  string
	State string
	Metro string // optional metro-area name
}

// Contains reports whether the point lies inside the region's box,
// boundaries included.
func (r Region) Contains(lat, lng float64) bool {
	return r.Bound.Contains(orb.Point{lng, lat})
}

// StateBoundary is a coarse per-state box used when no region matches.
type StateBoundary struct {
	Bound orb.Bound
	State string
}

// Location is a resolved label for a coordinate pair.
type Location struct {
	City  string
	State string
	Metro string
}

// InvalidCoordinateError reports a latitude/longitude outside its domain or
// a non-finite value.
type InvalidCoordinateError struct {
	Lat float64
	Lng float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%v lng=%v", e.Lat, e.Lng)
}

// ValidCoordinate reports whether lat/lng are finite and within
// [-90,90] and [-180,180] respectively.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Resolver maps coordinates to locations. It is a pure function over its
// tables and safe for concurrent use.
type Resolver struct {
	regions []Region
	states  []StateBoundary
}

// NewResolver builds a resolver over explicit tables. Order of both slices
// is significant: the first containing box wins.
func NewResolver(regions []Region, states []StateBoundary) *Resolver {
	return &Resolver{regions: regions, states: states}
}

// NewDefaultResolver builds a resolver over the canonical tables.
func NewDefaultResolver() *Resolver {
	return NewResolver(Regions(), StateBoundaries())
}

// Resolve returns the location label for a coordinate pair.
//
// Invalid input yields an InvalidCoordinateError. For valid input Resolve
// always succeeds: if no region box contains the point, the state fallback
// table supplies a generic "City in <ST>" label, and if that misses too the
// Unknown/XX sentinels are returned.
func (r *Resolver) Resolve(lat, lng float64) (Location, error) {
	if !ValidCoordinate(lat, lng) {
		return Location{}, &InvalidCoordinateError{Lat: lat, Lng: lng}
	}

	for _, region := range r.regions {
		if region.Contains(lat, lng) {
			return Location{City: region.City, State: region.State, Metro: region.Metro}, nil
		}
	}

	p := orb.Point{lng, lat}
	for _, sb := range r.states {
		if sb.Bound.Contains(p) {
			return Location{City: "City in " + sb.State, State: sb.State}, nil
		}
	}

	return Location{City: listing.UnknownCity, State: listing.UnknownState}, nil
}
