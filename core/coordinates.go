package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spherical represents a position in spherical coordinates around the planet
// center. Polar is measured from the +Y pole, Azimuth around the Y axis
// starting at +Z.
type Spherical struct {
	Radius  float64
	Polar   float64 // [0, π], 0 = north pole
	Azimuth float64 // radians, 0 = +Z
}

// Geographic represents a position in geographic coordinates
type Geographic struct {
	Lat float64 // Latitude in radians [-π/2, π/2], positive = north
	Lon float64 // Longitude in radians [-π, π], positive = east
	Alt float64 // Altitude above reference radius
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// SphericalToCartesian converts spherical coordinates to a Y-up Cartesian
// position.
func SphericalToCartesian(s Spherical) mgl64.Vec3 {
	sinPolar := math.Sin(s.Polar)

	return mgl64.Vec3{
		s.Radius * sinPolar * math.Sin(s.Azimuth),
		s.Radius * math.Cos(s.Polar),
		s.Radius * sinPolar * math.Cos(s.Azimuth),
	}
}

// CartesianToSpherical converts a Y-up Cartesian position back to spherical
// coordinates. Azimuth is returned in (-π, π].
func CartesianToSpherical(v mgl64.Vec3) Spherical {
	r := v.Len()

	// Handle special case of origin
	if r < 1e-12 {
		return Spherical{}
	}

	return Spherical{
		Radius:  r,
		Polar:   math.Acos(mgl64.Clamp(v.Y()/r, -1, 1)),
		Azimuth: math.Atan2(v.X(), v.Z()),
	}
}

// GeographicToCartesian converts geographic coordinates to Cartesian.
// X points to 0° longitude at the equator, Y to the north pole.
func GeographicToCartesian(g Geographic, radius float64) mgl64.Vec3 {
	r := radius + g.Alt
	cosLat := math.Cos(g.Lat)

	return mgl64.Vec3{
		r * cosLat * math.Cos(g.Lon),
		r * math.Sin(g.Lat),
		r * cosLat * math.Sin(g.Lon),
	}
}

// CartesianToGeographic converts Cartesian coordinates to geographic
func CartesianToGeographic(c mgl64.Vec3, radius float64) Geographic {
	r := c.Len()

	// Handle special case of origin
	if r < 1e-10 {
		return Geographic{Lat: 0, Lon: 0, Alt: -radius}
	}

	return Geographic{
		Lat: math.Asin(c.Y() / r),
		Lon: math.Atan2(c.Z(), c.X()),
		Alt: r - radius,
	}
}

// LatitudeToPolar converts a geographic latitude to a polar angle
func LatitudeToPolar(lat float64) float64 {
	return math.Pi/2 - lat
}

// PolarToLatitude converts a polar angle to a geographic latitude
func PolarToLatitude(polar float64) float64 {
	return math.Pi/2 - polar
}

// NormalizeAzimuth wraps an angle into (-π, π]
func NormalizeAzimuth(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// RotateY rotates v by angle radians around the Y axis, in the direction of
// increasing azimuth.
func RotateY(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(angle).Mul3x1(v)
}
