// Package camera implements the orbit controls used by the native viewer
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"windplanet/core"
)

const (
	maxPitch        = 1.5 // radians, keeps the camera off the poles
	baseSensitivity = 0.008
	zoomStep        = 0.1
)

// Orbit keeps a camera on a sphere around Target, always looking at it.
// Yaw is the longitude and pitch the latitude of the camera position.
type Orbit struct {
	Target      mgl64.Vec3
	Yaw         float64
	Pitch       float64
	Distance    float64
	MinDistance float64
	MaxDistance float64

	defaultDistance float64
}

// NewOrbit places the orbit so that the camera sits at position
func NewOrbit(position, target mgl64.Vec3, minDistance, maxDistance float64) *Orbit {
	g := core.CartesianToGeographic(position.Sub(target), 0)
	dist := position.Sub(target).Len()

	o := &Orbit{
		Target:          target,
		Yaw:             g.Lon,
		Pitch:           g.Lat,
		Distance:        dist,
		MinDistance:     minDistance,
		MaxDistance:     maxDistance,
		defaultDistance: dist,
	}
	o.clamp()
	return o
}

// Position returns the camera position in world space
func (o *Orbit) Position() mgl64.Vec3 {
	return core.GeographicToCartesian(core.Geographic{Lat: o.Pitch, Lon: o.Yaw}, o.Distance).Add(o.Target)
}

// Drag rotates the camera by a mouse delta in pixels
func (o *Orbit) Drag(dx, dy float64) {
	sensitivity := baseSensitivity * o.zoomScale()

	o.Yaw += dx * sensitivity
	o.Pitch += dy * sensitivity
	o.clamp()
}

// Zoom moves the camera toward the target for positive wheel values
func (o *Orbit) Zoom(wheel float64) {
	o.Distance *= 1.0 - wheel*zoomStep
	o.clamp()
}

// zoomScale slows rotation slightly when zoomed in
func (o *Orbit) zoomScale() float64 {
	if o.Distance <= 0 || o.defaultDistance <= 0 {
		return 1
	}
	ratio := o.defaultDistance / o.Distance
	scale := 1.0 - 0.07*math.Log(ratio)
	return mgl64.Clamp(scale, 0.9, 1.1)
}

func (o *Orbit) clamp() {
	o.Pitch = mgl64.Clamp(o.Pitch, -maxPitch, maxPitch)
	o.Yaw = core.NormalizeAzimuth(o.Yaw)
	if o.MinDistance > 0 && o.Distance < o.MinDistance {
		o.Distance = o.MinDistance
	}
	if o.MaxDistance > 0 && o.Distance > o.MaxDistance {
		o.Distance = o.MaxDistance
	}
}
