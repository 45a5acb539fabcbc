// Package wind generates the stylized wind bands drawn over the planet.
//
// The sphere is cut into latitude zones and longitude cuts. For every
// (cut, zone) pair a control polygon runs along the inner altitude from the
// start to the end of the zone and back along the outer altitude. A closed
// Catmull-Rom spline through that polygon, resampled to a fixed point count,
// is the wind curve.
package wind

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"windplanet/core"
)

// ErrInvalidParameter is returned for any parameter outside its domain
var ErrInvalidParameter = errors.New("invalid parameter")

// Reference values of the stock planet
const (
	DefaultLongitudeDivisions  = 12
	DefaultLatitudeZones       = 6
	DefaultSampleCountPerEdge  = 8
	DefaultResamplePointCount  = 800
	DefaultInnerAltitudeFactor = 1.05
	DefaultOuterAltitudeFactor = 1.20
	DefaultEdgeInsetFraction   = 0.05
)

// Params controls curve generation
type Params struct {
	PlanetRadius       float64
	LongitudeDivisions int
	LatitudeZones      int
	SampleCountPerEdge int
	ResamplePointCount int

	InnerAltitudeFactor float64 // inner radius = PlanetRadius * factor
	OuterAltitudeFactor float64 // outer radius = PlanetRadius * factor
	EdgeInsetFraction   float64 // fraction of zone width trimmed at each end

	CurveType core.CurveType
}

// DefaultParams returns the reference partition for a planet of the given
// radius.
func DefaultParams(planetRadius float64) Params {
	return Params{
		PlanetRadius:        planetRadius,
		LongitudeDivisions:  DefaultLongitudeDivisions,
		LatitudeZones:       DefaultLatitudeZones,
		SampleCountPerEdge:  DefaultSampleCountPerEdge,
		ResamplePointCount:  DefaultResamplePointCount,
		InnerAltitudeFactor: DefaultInnerAltitudeFactor,
		OuterAltitudeFactor: DefaultOuterAltitudeFactor,
		EdgeInsetFraction:   DefaultEdgeInsetFraction,
		CurveType:           core.Centripetal,
	}
}

// Validate checks every parameter. The returned error wraps
// ErrInvalidParameter.
func Validate(p Params) error {
	switch {
	case !(p.PlanetRadius > 0) || math.IsInf(p.PlanetRadius, 0):
		return fmt.Errorf("%w: planet radius must be positive, got %v", ErrInvalidParameter, p.PlanetRadius)
	case p.LongitudeDivisions <= 0:
		return fmt.Errorf("%w: longitude divisions must be positive, got %d", ErrInvalidParameter, p.LongitudeDivisions)
	case p.LatitudeZones <= 0:
		return fmt.Errorf("%w: latitude zones must be positive, got %d", ErrInvalidParameter, p.LatitudeZones)
	case p.SampleCountPerEdge <= 0:
		return fmt.Errorf("%w: sample count per edge must be positive, got %d", ErrInvalidParameter, p.SampleCountPerEdge)
	case p.ResamplePointCount <= 0:
		return fmt.Errorf("%w: resample point count must be positive, got %d", ErrInvalidParameter, p.ResamplePointCount)
	case !(p.InnerAltitudeFactor > 0):
		return fmt.Errorf("%w: inner altitude factor must be positive, got %v", ErrInvalidParameter, p.InnerAltitudeFactor)
	case !(p.OuterAltitudeFactor > p.InnerAltitudeFactor):
		return fmt.Errorf("%w: outer altitude factor %v must exceed inner %v", ErrInvalidParameter, p.OuterAltitudeFactor, p.InnerAltitudeFactor)
	case !(p.EdgeInsetFraction >= 0 && p.EdgeInsetFraction < 0.5):
		return fmt.Errorf("%w: edge inset fraction must be in [0, 0.5), got %v", ErrInvalidParameter, p.EdgeInsetFraction)
	}
	return nil
}

// InnerAltitude is the radius of the outbound leg
func (p Params) InnerAltitude() float64 {
	return p.PlanetRadius * p.InnerAltitudeFactor
}

// OuterAltitude is the radius of the inbound leg
func (p Params) OuterAltitude() float64 {
	return p.PlanetRadius * p.OuterAltitudeFactor
}

// ZoneWidth is the polar span of one latitude zone
func (p Params) ZoneWidth() float64 {
	return math.Pi / float64(p.LatitudeZones)
}

// LongitudeStep is the azimuth between neighbouring longitude cuts
func (p Params) LongitudeStep() float64 {
	return 2 * math.Pi / float64(p.LongitudeDivisions)
}

// EdgeInset is the polar margin kept free at both ends of a zone
func (p Params) EdgeInset() float64 {
	return p.ZoneWidth() * p.EdgeInsetFraction
}

// CurveCount is the number of curves Generate returns
func (p Params) CurveCount() int {
	return p.LongitudeDivisions * p.LatitudeZones
}

// Zone is one latitude band at one longitude cut
type Zone struct {
	LonIndex  int
	ZoneIndex int
	Longitude float64 // azimuth of the cut
	LatStart  float64 // polar angle, inset applied
	LatEnd    float64 // polar angle, inset applied
}

// Index is the position of the zone's curve in the generated set
func (z Zone) Index(p Params) int {
	return z.LonIndex*p.LatitudeZones + z.ZoneIndex
}

// ZoneAt returns the geometry of a single zone
func ZoneAt(p Params, lonIndex, zoneIndex int) Zone {
	width := p.ZoneWidth()
	inset := p.EdgeInset()
	start := float64(zoneIndex) * width

	return Zone{
		LonIndex:  lonIndex,
		ZoneIndex: zoneIndex,
		Longitude: float64(lonIndex) * p.LongitudeStep(),
		LatStart:  start + inset,
		LatEnd:    start + width - inset,
	}
}

// Zones lists every zone in generation order, longitude major
func Zones(p Params) []Zone {
	zones := make([]Zone, 0, p.CurveCount())
	for lon := 0; lon < p.LongitudeDivisions; lon++ {
		for z := 0; z < p.LatitudeZones; z++ {
			zones = append(zones, ZoneAt(p, lon, z))
		}
	}
	return zones
}

// ControlPolygon returns the raw samples of a zone: outbound along the inner
// altitude from LatStart to LatEnd, then inbound along the outer altitude
// back to LatStart.
func ControlPolygon(p Params, z Zone) []mgl64.Vec3 {
	n := p.SampleCountPerEdge
	points := make([]mgl64.Vec3, 0, 2*(n+1))

	for i := 0; i <= n; i++ {
		lat := lerp(z.LatStart, z.LatEnd, float64(i)/float64(n))
		points = append(points, core.SphericalToCartesian(core.Spherical{
			Radius:  p.InnerAltitude(),
			Polar:   lat,
			Azimuth: z.Longitude,
		}))
	}
	for i := 0; i <= n; i++ {
		lat := lerp(z.LatEnd, z.LatStart, float64(i)/float64(n))
		points = append(points, core.SphericalToCartesian(core.Spherical{
			Radius:  p.OuterAltitude(),
			Polar:   lat,
			Azimuth: z.Longitude,
		}))
	}

	return points
}

// Curve is one closed wind loop ready for line rendering
type Curve struct {
	Zone   Zone
	Points []mgl64.Vec3
}

// Closed reports whether the first and last point coincide within eps
func (c Curve) Closed(eps float64) bool {
	if len(c.Points) == 0 {
		return false
	}
	return c.Points[0].Sub(c.Points[len(c.Points)-1]).Len() <= eps
}

// Generate computes every curve sequentially. It fails before producing any
// output if the parameters are invalid.
func Generate(p Params) ([]Curve, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	zones := Zones(p)
	curves := make([]Curve, len(zones))
	for i, z := range zones {
		c, err := buildCurve(p, z)
		if err != nil {
			return nil, err
		}
		curves[i] = c
	}
	return curves, nil
}

// GenerateContext computes the same curves as Generate with up to workers
// zones in flight. workers <= 0 uses GOMAXPROCS.
func GenerateContext(ctx context.Context, p Params, workers int) ([]Curve, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	zones := Zones(p)
	curves := make([]Curve, len(zones))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, z := range zones {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := buildCurve(p, z)
			if err != nil {
				return err
			}
			curves[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// zones skipped after cancellation leave no error in the group
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return curves, nil
}

func buildCurve(p Params, z Zone) (Curve, error) {
	spline, err := core.NewCatmullRom(ControlPolygon(p, z), true, p.CurveType)
	if err != nil {
		return Curve{}, fmt.Errorf("zone %d/%d: %w", z.LonIndex, z.ZoneIndex, err)
	}
	return Curve{Zone: z, Points: spline.Points(p.ResamplePointCount)}, nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
