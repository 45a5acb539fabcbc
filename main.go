package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"windplanet/config"
	"windplanet/rendering/viewer"
	"windplanet/scene"
	"windplanet/server"
	"windplanet/wind"
)

func main() {
	// raylib needs the main thread
	runtime.LockOSThread()

	// Parse command line flags
	var (
		configPath = flag.String("config", config.DefaultPath, "Settings file (.json or .yaml)")
		mode       = flag.String("mode", "serve", "Viewport: serve (browser) or view (native window)")
		addr       = flag.String("addr", "", "HTTP listen address, overrides settings")
		workers    = flag.Int("workers", -1, "Wind generation workers (0 = all CPUs, -1 = from settings)")
	)
	flag.Parse()

	fmt.Println("=== Wind Planet ===")

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *addr != "" {
		settings.Server.Addr = *addr
	}
	if *workers >= 0 {
		settings.Wind.Workers = *workers
	}
	settings.Print()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	curves, err := generateCurves(ctx, settings)
	if err != nil {
		log.Fatalf("Failed to generate wind curves: %v", err)
	}

	sc, err := scene.Build(settings, curves)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	switch *mode {
	case "serve":
		if err := serve(ctx, settings, sc); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case "view":
		v, err := viewer.New(sc, settings.Viewer)
		if err != nil {
			log.Fatalf("Failed to create viewer: %v", err)
		}
		defer v.Close()

		fmt.Println("\nControls:")
		fmt.Println("  Mouse: Click and drag to rotate")
		fmt.Println("  Scroll: Zoom in/out")
		fmt.Println("  F1: Toggle stats")
		fmt.Println("  ESC: Exit")
		v.Run()
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}

	fmt.Println("\nShutting down...")
}

// generateCurves runs once at startup; the result is never regenerated
func generateCurves(ctx context.Context, settings *config.Settings) ([]wind.Curve, error) {
	params, err := settings.WindParams()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var curves []wind.Curve
	if settings.Wind.Workers == 1 {
		curves, err = wind.Generate(params)
	} else {
		curves, err = wind.GenerateContext(ctx, params, settings.Wind.Workers)
	}
	if err != nil {
		return nil, err
	}

	points := int64(len(curves) * params.ResamplePointCount)
	fmt.Printf("Generated %s wind curves (%s points) in %v\n",
		humanize.Comma(int64(len(curves))), humanize.Comma(points), time.Since(start).Round(time.Microsecond))
	return curves, nil
}

func serve(ctx context.Context, settings *config.Settings, sc *scene.Scene) error {
	payload, err := scene.Encode(sc)
	if err != nil {
		return err
	}
	fmt.Printf("Scene payload: %s\n", humanize.Bytes(uint64(len(payload))))

	srv := server.New(settings.Server.Addr, settings.Server.WebRoot, payload)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("Server starting on http://%s\n", displayAddr(settings.Server.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
