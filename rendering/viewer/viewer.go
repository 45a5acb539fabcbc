// Package viewer draws the scene in a native raylib window
package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"windplanet/config"
	"windplanet/rendering/camera"
	"windplanet/scene"
)

// Viewer handles native rendering of the planet and its wind lines
type Viewer struct {
	camera rl.Camera3D
	orbit  *camera.Orbit

	planet     rl.Model
	texture    rl.Texture2D
	hasTexture bool
	planetPos  rl.Vector3
	planetTint rl.Color

	lines     [][]rl.Vector3
	lineColor rl.Color

	showStats bool
}

// New opens the window and uploads the scene geometry. Must be called from
// the main thread.
func New(sc *scene.Scene, vs config.ViewerSettings) (*Viewer, error) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(vs.Width), int32(vs.Height), "Wind Planet")
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("failed to create window")
	}
	rl.SetTargetFPS(int32(vs.TargetFPS))

	lineColor, err := config.ParseColor(sc.Winds.Color)
	if err != nil {
		rl.CloseWindow()
		return nil, err
	}

	v := &Viewer{
		planetPos:  vec(sc.Planet.Position),
		planetTint: rl.NewColor(0x2a, 0x5c, 0x9a, 0xff),
		lineColor:  rl.NewColor(lineColor.R, lineColor.G, lineColor.B, uint8(sc.Winds.Opacity*255)),
		showStats:  true,
	}

	target := mgl64.Vec3(sc.Camera.Target)
	v.orbit = camera.NewOrbit(mgl64.Vec3(sc.Camera.Position), target,
		sc.Planet.Radius*1.5, sc.Camera.Far/2)
	v.camera = rl.Camera3D{
		Target:     vec(sc.Camera.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(sc.Camera.FOV),
		Projection: rl.CameraPerspective,
	}
	v.updateCamera()

	mesh := rl.GenMeshSphere(float32(sc.Planet.Radius), sc.Planet.HeightSegments, sc.Planet.WidthSegments)
	v.planet = rl.LoadModelFromMesh(mesh)

	if sc.Planet.Texture != "" {
		if err := v.loadTexture(sc.Planet.Texture, sc.Planet.FlipTextureY); err != nil {
			fmt.Printf("Warning: %v, drawing untextured planet\n", err)
		}
	}

	v.lines = make([][]rl.Vector3, len(sc.Winds.Lines))
	for i, l := range sc.Winds.Lines {
		pts := make([]rl.Vector3, len(l.Vertices))
		for j, p := range l.Vertices {
			pts[j] = rl.Vector3Add(vec(p), v.planetPos)
		}
		v.lines[i] = pts
	}

	return v, nil
}

func (v *Viewer) loadTexture(path string, flipY bool) error {
	img := rl.LoadImage(path)
	if img == nil || img.Width == 0 {
		return fmt.Errorf("failed to load texture %s", path)
	}
	defer rl.UnloadImage(img)

	if flipY {
		rl.ImageFlipVertical(img)
	}
	v.texture = rl.LoadTextureFromImage(img)
	rl.SetMaterialTexture(v.planet.Materials, rl.MapDiffuse, v.texture)
	v.hasTexture = true
	v.planetTint = rl.White
	return nil
}

// Run renders until the window is closed
func (v *Viewer) Run() {
	for !rl.WindowShouldClose() {
		v.handleInput()
		v.Render()
	}
}

// Render draws one frame
func (v *Viewer) Render() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	rl.BeginMode3D(v.camera)
	rl.DrawModel(v.planet, v.planetPos, 1.0, v.planetTint)
	for _, pts := range v.lines {
		for i := 1; i < len(pts); i++ {
			rl.DrawLine3D(pts[i-1], pts[i], v.lineColor)
		}
	}
	rl.EndMode3D()

	if v.showStats {
		rl.DrawFPS(10, 10)
		rl.DrawText(fmt.Sprintf("%d wind curves", len(v.lines)), 10, 34, 20, rl.RayWhite)
	}

	rl.EndDrawing()
}

func (v *Viewer) handleInput() {
	changed := false

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			// the planet follows the cursor, like OrbitControls
			v.orbit.Drag(float64(-d.X), float64(d.Y))
			changed = true
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.orbit.Zoom(float64(wheel))
		changed = true
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		v.showStats = !v.showStats
	}

	if changed {
		v.updateCamera()
	}
}

func (v *Viewer) updateCamera() {
	v.camera.Position = vec(v.orbit.Position())
}

// Close releases GPU resources and the window
func (v *Viewer) Close() {
	if v.hasTexture {
		rl.UnloadTexture(v.texture)
	}
	rl.UnloadModel(v.planet)
	rl.CloseWindow()
}

func vec(p [3]float64) rl.Vector3 {
	return rl.NewVector3(float32(p[0]), float32(p[1]), float32(p[2]))
}
