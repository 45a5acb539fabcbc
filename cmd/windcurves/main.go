package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/dustin/go-humanize"

	"windplanet/config"
	"windplanet/core"
	"windplanet/wind"
)

func main() {
	var (
		configPath = flag.String("config", "", "Settings file (.json or .yaml), defaults when empty")
		lonIndex   = flag.Int("lon", 0, "Longitude cut to inspect")
		zoneIndex  = flag.Int("zone", 0, "Latitude zone to inspect")
		points     = flag.Int("points", 5, "Resampled points to print")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	params, err := settings.WindParams()
	if err != nil {
		log.Fatalf("Invalid wind settings: %v", err)
	}

	fmt.Println("=== Wind Curve Report ===")

	// Zone layout
	fmt.Printf("\nZones (radius %.3f, inner %.4f, outer %.4f):\n",
		params.PlanetRadius, params.InnerAltitude(), params.OuterAltitude())
	for z := 0; z < params.LatitudeZones; z++ {
		zone := wind.ZoneAt(params, 0, z)
		fmt.Printf("  Zone %d: polar %.4f..%.4f rad (lat %+.2f°..%+.2f°)\n", z,
			zone.LatStart, zone.LatEnd,
			core.RadiansToDegrees(core.PolarToLatitude(zone.LatStart)),
			core.RadiansToDegrees(core.PolarToLatitude(zone.LatEnd)))
	}

	curves, err := wind.Generate(params)
	if err != nil {
		log.Fatalf("Failed to generate wind curves: %v", err)
	}
	fmt.Printf("\n%s curves, %s points total\n",
		humanize.Comma(int64(len(curves))),
		humanize.Comma(int64(len(curves)*params.ResamplePointCount)))

	if *lonIndex < 0 || *lonIndex >= params.LongitudeDivisions || *zoneIndex < 0 || *zoneIndex >= params.LatitudeZones {
		log.Fatalf("No curve at lon %d zone %d", *lonIndex, *zoneIndex)
	}
	zone := wind.ZoneAt(params, *lonIndex, *zoneIndex)
	curve := curves[zone.Index(params)]

	// Control polygon
	fmt.Printf("\nCurve lon %d zone %d (azimuth %.2f°):\n", *lonIndex, *zoneIndex,
		core.RadiansToDegrees(core.NormalizeAzimuth(zone.Longitude)))
	poly := wind.ControlPolygon(params, zone)
	fmt.Printf("  Control polygon: %d samples\n", len(poly))

	// Resampled curve stats
	minR, maxR := math.Inf(1), math.Inf(-1)
	length := 0.0
	for i, p := range curve.Points {
		r := p.Len()
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
		if i > 0 {
			length += p.Sub(curve.Points[i-1]).Len()
		}
	}
	closure := 0.0
	if n := len(curve.Points); n > 0 {
		closure = curve.Points[0].Sub(curve.Points[n-1]).Len()
	}
	fmt.Printf("  Radius range: %.5f..%.5f\n", minR, maxR)
	fmt.Printf("  Length: %.5f\n", length)
	fmt.Printf("  Closure error: %.3g\n", closure)

	for i := 0; i < *points && i < len(curve.Points); i++ {
		p := curve.Points[i]
		s := core.CartesianToSpherical(p)
		fmt.Printf("  [%d] X=%.5f Y=%.5f Z=%.5f  (r=%.5f, polar=%.5f, azimuth=%.5f)\n",
			i, p.X(), p.Y(), p.Z(), s.Radius, s.Polar, s.Azimuth)
	}
}
