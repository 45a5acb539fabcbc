package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CurveType selects the knot parameterization of a Catmull-Rom spline
type CurveType int

const (
	Centripetal CurveType = iota // alpha = 0.5, no cusps or self-intersections
	Chordal                      // alpha = 1
	Uniform                      // alpha = 0, uses Tension
)

func (t CurveType) String() string {
	switch t {
	case Centripetal:
		return "centripetal"
	case Chordal:
		return "chordal"
	case Uniform:
		return "catmullrom"
	default:
		return fmt.Sprintf("CurveType(%d)", int(t))
	}
}

// ParseCurveType maps a configuration name to a CurveType
func ParseCurveType(name string) (CurveType, error) {
	switch name {
	case "", "centripetal":
		return Centripetal, nil
	case "chordal":
		return Chordal, nil
	case "catmullrom", "uniform":
		return Uniform, nil
	}
	return Centripetal, fmt.Errorf("unknown curve type %q", name)
}

// ErrTooFewPoints is returned when a spline has fewer than two control points
var ErrTooFewPoints = errors.New("spline needs at least two control points")

// knot distances below this collapse to the neighbouring span
const minKnotSpan = 1e-4

// CatmullRom is an interpolating spline through a control polygon.
// It is immutable after construction.
type CatmullRom struct {
	points  []mgl64.Vec3
	closed  bool
	kind    CurveType
	tension float64
}

// NewCatmullRom builds a spline over points. A closed spline joins the last
// control point back to the first.
func NewCatmullRom(points []mgl64.Vec3, closed bool, kind CurveType) (*CatmullRom, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	cp := make([]mgl64.Vec3, len(points))
	copy(cp, points)
	return &CatmullRom{
		points:  cp,
		closed:  closed,
		kind:    kind,
		tension: 0.5,
	}, nil
}

// WithTension returns a copy using tension for the Uniform curve type
func (c *CatmullRom) WithTension(tension float64) *CatmullRom {
	out := *c
	out.tension = tension
	return &out
}

// Closed reports whether the spline is a loop
func (c *CatmullRom) Closed() bool {
	return c.closed
}

// Segments returns the number of cubic segments
func (c *CatmullRom) Segments() int {
	if c.closed {
		return len(c.points)
	}
	return len(c.points) - 1
}

// Point evaluates the spline at t in [0, 1]. For a closed spline Point(0)
// and Point(1) are the same position.
func (c *CatmullRom) Point(t float64) mgl64.Vec3 {
	l := len(c.points)
	p := float64(c.Segments()) * mgl64.Clamp(t, 0, 1)
	seg := int(math.Floor(p))
	weight := p - float64(seg)

	if c.closed {
		seg %= l
	} else if seg >= l-1 {
		seg = l - 2
		weight = 1
	}

	p1 := c.points[seg]
	p2 := c.points[c.wrap(seg+1)]

	var p0, p3 mgl64.Vec3
	if c.closed || seg > 0 {
		p0 = c.points[c.wrap(seg-1)]
	} else {
		// extrapolate a phantom point before the first
		p0 = p1.Sub(p2).Add(p1)
	}
	if c.closed || seg+2 < l {
		p3 = c.points[c.wrap(seg+2)]
	} else {
		p3 = p2.Sub(p1).Add(p2)
	}

	b0, b1, b2, b3 := c.bezier(p0, p1, p2, p3)
	return mgl64.CubicBezierCurve3D(weight, b0, b1, b2, b3)
}

// Points resamples the spline into n evenly parameterized points. The first
// and last sample sit at t=0 and t=1.
func (c *CatmullRom) Points(n int) []mgl64.Vec3 {
	if n <= 0 {
		return nil
	}
	out := make([]mgl64.Vec3, n)
	if n == 1 {
		out[0] = c.Point(0)
		return out
	}
	last := float64(n - 1)
	for i := range out {
		out[i] = c.Point(float64(i) / last)
	}
	return out
}

func (c *CatmullRom) wrap(i int) int {
	l := len(c.points)
	return ((i % l) + l) % l
}

// bezier converts the Hermite form of the p1..p2 span into Bézier control
// points.
func (c *CatmullRom) bezier(p0, p1, p2, p3 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	var t1, t2 mgl64.Vec3

	switch c.kind {
	case Uniform:
		t1 = p2.Sub(p0).Mul(c.tension)
		t2 = p3.Sub(p1).Mul(c.tension)
	default:
		alpha := 0.5
		if c.kind == Chordal {
			alpha = 1
		}
		dt0 := math.Pow(distSq(p0, p1), alpha/2)
		dt1 := math.Pow(distSq(p1, p2), alpha/2)
		dt2 := math.Pow(distSq(p2, p3), alpha/2)

		// safety check for repeated points
		if dt1 < minKnotSpan {
			dt1 = 1
		}
		if dt0 < minKnotSpan {
			dt0 = dt1
		}
		if dt2 < minKnotSpan {
			dt2 = dt1
		}

		t1 = p1.Sub(p0).Mul(1 / dt0).
			Sub(p2.Sub(p0).Mul(1 / (dt0 + dt1))).
			Add(p2.Sub(p1).Mul(1 / dt1)).
			Mul(dt1)
		t2 = p2.Sub(p1).Mul(1 / dt1).
			Sub(p3.Sub(p1).Mul(1 / (dt1 + dt2))).
			Add(p3.Sub(p2).Mul(1 / dt2)).
			Mul(dt1)
	}

	return p1, p1.Add(t1.Mul(1.0 / 3)), p2.Sub(t2.Mul(1.0 / 3)), p2
}

func distSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
