package wind

import (
	"context"
	"errors"
	"math"
	"testing"

	"windplanet/core"
)

const closeEps = 1e-9

func TestGenerateReferenceScenario(t *testing.T) {
	p := DefaultParams(0.5)

	curves, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(curves) != 72 {
		t.Fatalf("curve count: got %d, want 72", len(curves))
	}
	for i, c := range curves {
		if len(c.Points) != 800 {
			t.Fatalf("curve %d: got %d points, want 800", i, len(c.Points))
		}
		if !c.Closed(closeEps) {
			t.Errorf("curve %d is not closed: %v vs %v", i, c.Points[0], c.Points[len(c.Points)-1])
		}
	}

	// longitude 0, zone 0 starts at the inset edge of the northern band
	first := curves[0]
	if first.Zone.LonIndex != 0 || first.Zone.ZoneIndex != 0 {
		t.Fatalf("first curve zone: got %+v", first.Zone)
	}
	want := core.SphericalToCartesian(core.Spherical{
		Radius:  0.525,
		Polar:   0.05 * math.Pi / 6,
		Azimuth: 0,
	})
	if d := first.Points[0].Sub(want).Len(); d > 1e-12 {
		t.Errorf("first point: got %v, want %v (distance %g)", first.Points[0], want, d)
	}
}

func TestGenerateCounts(t *testing.T) {
	tests := []struct {
		name             string
		lon, zones       int
		samples, resample int
	}{
		{"single zone", 1, 1, 1, 10},
		{"odd partition", 5, 3, 4, 64},
		{"dense", 24, 12, 8, 100},
		{"single output point", 2, 2, 3, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams(1)
			p.LongitudeDivisions = tc.lon
			p.LatitudeZones = tc.zones
			p.SampleCountPerEdge = tc.samples
			p.ResamplePointCount = tc.resample

			curves, err := Generate(p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(curves) != tc.lon*tc.zones {
				t.Fatalf("curve count: got %d, want %d", len(curves), tc.lon*tc.zones)
			}
			for i, c := range curves {
				if len(c.Points) != tc.resample {
					t.Errorf("curve %d: got %d points, want %d", i, len(c.Points), tc.resample)
				}
				if c.Zone.Index(p) != i {
					t.Errorf("curve %d: zone index %d out of order", i, c.Zone.Index(p))
				}
			}
		})
	}
}

func TestGenerateSingleZoneSpansHemispheres(t *testing.T) {
	p := DefaultParams(2)
	p.LongitudeDivisions = 1
	p.LatitudeZones = 1

	curves, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(curves) != 1 {
		t.Fatalf("curve count: got %d, want 1", len(curves))
	}
	z := curves[0].Zone
	if math.Abs(z.LatStart-0.05*math.Pi) > 1e-12 || math.Abs(z.LatEnd-0.95*math.Pi) > 1e-12 {
		t.Errorf("zone span: got [%f, %f], want [%f, %f]", z.LatStart, z.LatEnd, 0.05*math.Pi, 0.95*math.Pi)
	}
}

func TestControlPolygonRadiiAndLatitudes(t *testing.T) {
	p := DefaultParams(0.5)
	n := p.SampleCountPerEdge + 1

	for _, z := range Zones(p) {
		poly := ControlPolygon(p, z)
		if len(poly) != 2*n {
			t.Fatalf("zone %+v: got %d samples, want %d", z, len(poly), 2*n)
		}
		for i, pt := range poly {
			s := core.CartesianToSpherical(pt)

			wantR := p.InnerAltitude()
			if i >= n {
				wantR = p.OuterAltitude()
			}
			if math.Abs(s.Radius-wantR) > 1e-12 {
				t.Errorf("zone %d/%d sample %d: radius %f, want %f", z.LonIndex, z.ZoneIndex, i, s.Radius, wantR)
			}
			if s.Polar < z.LatStart-1e-9 || s.Polar > z.LatEnd+1e-9 {
				t.Errorf("zone %d/%d sample %d: latitude %f outside [%f, %f]", z.LonIndex, z.ZoneIndex, i, s.Polar, z.LatStart, z.LatEnd)
			}
		}

		// outbound starts at LatStart, inbound returns to it
		if s := core.CartesianToSpherical(poly[0]); math.Abs(s.Polar-z.LatStart) > 1e-9 {
			t.Errorf("outbound start: got %f, want %f", s.Polar, z.LatStart)
		}
		if s := core.CartesianToSpherical(poly[n-1]); math.Abs(s.Polar-z.LatEnd) > 1e-9 {
			t.Errorf("outbound end: got %f, want %f", s.Polar, z.LatEnd)
		}
		if s := core.CartesianToSpherical(poly[2*n-1]); math.Abs(s.Polar-z.LatStart) > 1e-9 {
			t.Errorf("inbound end: got %f, want %f", s.Polar, z.LatStart)
		}
	}
}

func TestAdjacentZonesDoNotShareSamples(t *testing.T) {
	p := DefaultParams(0.5)
	for zi := 0; zi+1 < p.LatitudeZones; zi++ {
		upper := ZoneAt(p, 0, zi)
		lower := ZoneAt(p, 0, zi+1)
		if !(upper.LatEnd < lower.LatStart) {
			t.Errorf("zones %d and %d overlap: %f >= %f", zi, zi+1, upper.LatEnd, lower.LatStart)
		}
	}
}

func TestAdjacentLongitudesAreRotations(t *testing.T) {
	p := DefaultParams(0.5)
	p.ResamplePointCount = 50

	curves, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	step := p.LongitudeStep()
	for lon := 0; lon+1 < p.LongitudeDivisions; lon++ {
		for z := 0; z < p.LatitudeZones; z++ {
			a := curves[lon*p.LatitudeZones+z]
			b := curves[(lon+1)*p.LatitudeZones+z]
			for i := range a.Points {
				got := core.RotateY(a.Points[i], step)
				if d := got.Sub(b.Points[i]).Len(); d > 1e-9 {
					t.Fatalf("lon %d zone %d point %d: rotated %v, want %v", lon, z, i, got, b.Points[i])
				}
			}
		}
	}
}

func TestCurvesStayNearZone(t *testing.T) {
	p := DefaultParams(0.5)
	curves, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// the spline may overshoot the control polygon slightly at the turns,
	// but never reaches the planet surface or a neighbouring band's center
	for _, c := range curves {
		for _, pt := range c.Points {
			s := core.CartesianToSpherical(pt)
			if s.Radius <= p.PlanetRadius {
				t.Fatalf("zone %+v dips below the surface: r=%f", c.Zone, s.Radius)
			}
			if s.Radius > p.OuterAltitude()*1.1 {
				t.Fatalf("zone %+v overshoots: r=%f", c.Zone, s.Radius)
			}
			if s.Polar < c.Zone.LatStart-p.ZoneWidth()/2 || s.Polar > c.Zone.LatEnd+p.ZoneWidth()/2 {
				t.Fatalf("zone %+v leaves band: polar=%f", c.Zone, s.Polar)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	p := DefaultParams(0.5)
	a, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertSameCurves(t, a, b)
}

func TestGenerateContextMatchesSequential(t *testing.T) {
	p := DefaultParams(0.5)
	want, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, workers := range []int{0, 1, 3, 16} {
		got, err := GenerateContext(context.Background(), p, workers)
		if err != nil {
			t.Fatalf("GenerateContext(workers=%d): %v", workers, err)
		}
		assertSameCurves(t, want, got)
	}
}

func TestGenerateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	curves, err := GenerateContext(ctx, DefaultParams(0.5), 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if curves != nil {
		t.Errorf("expected no partial result, got %d curves", len(curves))
	}
}

func TestGenerateInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero radius", func(p *Params) { p.PlanetRadius = 0 }},
		{"negative radius", func(p *Params) { p.PlanetRadius = -1 }},
		{"NaN radius", func(p *Params) { p.PlanetRadius = math.NaN() }},
		{"infinite radius", func(p *Params) { p.PlanetRadius = math.Inf(1) }},
		{"zero longitude divisions", func(p *Params) { p.LongitudeDivisions = 0 }},
		{"negative latitude zones", func(p *Params) { p.LatitudeZones = -6 }},
		{"zero samples per edge", func(p *Params) { p.SampleCountPerEdge = 0 }},
		{"zero resample count", func(p *Params) { p.ResamplePointCount = 0 }},
		{"inner factor zero", func(p *Params) { p.InnerAltitudeFactor = 0 }},
		{"outer below inner", func(p *Params) { p.OuterAltitudeFactor = 1.0 }},
		{"inset too wide", func(p *Params) { p.EdgeInsetFraction = 0.5 }},
		{"negative inset", func(p *Params) { p.EdgeInsetFraction = -0.1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams(0.5)
			tc.mutate(&p)

			curves, err := Generate(p)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Generate: expected ErrInvalidParameter, got %v", err)
			}
			if curves != nil {
				t.Errorf("expected no output, got %d curves", len(curves))
			}

			if _, err := GenerateContext(context.Background(), p, 4); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("GenerateContext: expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestCurveClosedEmpty(t *testing.T) {
	if (Curve{}).Closed(1) {
		t.Error("empty curve reported closed")
	}
}

func assertSameCurves(t *testing.T, a, b []Curve) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("curve count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Zone != b[i].Zone {
			t.Fatalf("curve %d zone differs: %+v vs %+v", i, a[i].Zone, b[i].Zone)
		}
		if len(a[i].Points) != len(b[i].Points) {
			t.Fatalf("curve %d length differs", i)
		}
		for j := range a[i].Points {
			if a[i].Points[j] != b[i].Points[j] {
				t.Fatalf("curve %d point %d differs: %v vs %v", i, j, a[i].Points[j], b[i].Points[j])
			}
		}
	}
}

