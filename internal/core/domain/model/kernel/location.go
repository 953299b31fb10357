package kernel

import (
	"errors"
	"fmt"

	"catering/internal/pkg/errs"
	"catering/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation")

// Location is a geographic point reported by a hailing provider for a courier.
// It is an immutable value object; the zero value is invalid.
//
// Example:
//
//	loc, err := kernel.NewLocation(50.4501, 30.5234)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(loc) // Location(50.450100,30.523400)
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a Location, validating latitude in [-90, 90] and
// longitude in [-180, 180].
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate reports whether the Location was built by NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 {
	return l.lng
}

// IsEqual compares two locations by coordinates.
func (l Location) IsEqual(other Location) bool {
	return l.lat == other.lat && l.lng == other.lng
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.lat, l.lng)
}

func (l *Location) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}
	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}
	l.lng = lng
	return nil
}
