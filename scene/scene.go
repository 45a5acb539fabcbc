// Package scene assembles the immutable description handed to a renderer:
// camera, spotlight, planet material and the wind line geometry.
package scene

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"windplanet/config"
	"windplanet/wind"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MessageType tags the payload sent to browser clients
const MessageType = "scene"

// Scene is sent to the frontend for rendering
type Scene struct {
	Type   string    `json:"type"`
	Camera Camera    `json:"camera"`
	Light  SpotLight `json:"light"`
	Planet Planet    `json:"planet"`
	Winds  WindLines `json:"winds"`
}

// Camera is a perspective camera looking at the planet
type Camera struct {
	FOV      float64    `json:"fov"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
}

type SpotLight struct {
	Color     string     `json:"color"`
	Intensity float64    `json:"intensity"`
	Distance  float64    `json:"distance"`
	Angle     float64    `json:"angle"`
	Penumbra  float64    `json:"penumbra"`
	Position  [3]float64 `json:"position"`
}

// Planet is a UV sphere with a Phong material
type Planet struct {
	Radius         float64    `json:"radius"`
	WidthSegments  int        `json:"widthSegments"`
	HeightSegments int        `json:"heightSegments"`
	Position       [3]float64 `json:"position"`
	Texture        string     `json:"texture,omitempty"`
	BumpMap        string     `json:"bumpMap,omitempty"`
	BumpScale      float64    `json:"bumpScale"`
	Specular       string     `json:"specular"`
	Shininess      float64    `json:"shininess"`
	FlipTextureY   bool       `json:"flipTextureY"`
}

// WindLines holds every wind curve as a closed polyline
type WindLines struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Lines   []Line  `json:"lines"`
}

type Line struct {
	LonIndex  int          `json:"lon"`
	ZoneIndex int          `json:"zone"`
	Vertices  [][3]float64 `json:"vertices"`
}

// Build assembles the scene from settings and generated curves. Colors are
// normalized to "#rrggbb".
func Build(s *config.Settings, curves []wind.Curve) (*Scene, error) {
	windColor, err := config.ParseColor(s.Wind.Color)
	if err != nil {
		return nil, fmt.Errorf("wind: %w", err)
	}
	lightColor, err := config.ParseColor(s.Light.Color)
	if err != nil {
		return nil, fmt.Errorf("light: %w", err)
	}
	specular, err := config.ParseColor(s.Planet.Specular)
	if err != nil {
		return nil, fmt.Errorf("planet: %w", err)
	}

	lines := make([]Line, len(curves))
	for i, c := range curves {
		vertices := make([][3]float64, len(c.Points))
		for j, p := range c.Points {
			vertices[j] = [3]float64(p)
		}
		lines[i] = Line{
			LonIndex:  c.Zone.LonIndex,
			ZoneIndex: c.Zone.ZoneIndex,
			Vertices:  vertices,
		}
	}

	return &Scene{
		Type: MessageType,
		Camera: Camera{
			FOV:      s.Camera.FOV,
			Near:     s.Camera.Near,
			Far:      s.Camera.Far,
			Position: s.Camera.Position,
		},
		Light: SpotLight{
			Color:     lightColor.Hex(),
			Intensity: s.Light.Intensity,
			Distance:  s.Light.Distance,
			Angle:     s.Light.Angle,
			Penumbra:  s.Light.Penumbra,
			Position:  s.Light.Position,
		},
		Planet: Planet{
			Radius:         s.Planet.Radius,
			WidthSegments:  s.Planet.Resolution,
			HeightSegments: s.Planet.Resolution,
			Texture:        s.Planet.Texture,
			BumpMap:        s.Planet.BumpMap,
			BumpScale:      s.Planet.BumpScale,
			Specular:       specular.Hex(),
			Shininess:      s.Planet.Shininess,
			FlipTextureY:   s.Planet.FlipTextureY,
		},
		Winds: WindLines{
			Color:   windColor.Hex(),
			Opacity: s.Wind.Opacity,
			Lines:   lines,
		},
	}, nil
}

// PointCount is the total number of wind vertices in the scene
func (sc *Scene) PointCount() int {
	n := 0
	for _, l := range sc.Winds.Lines {
		n += len(l.Vertices)
	}
	return n
}

// Encode serializes the scene for the wire
func Encode(sc *Scene) ([]byte, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}

// Decode parses a payload produced by Encode
func Decode(data []byte) (*Scene, error) {
	var sc Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if sc.Type != MessageType {
		return nil, fmt.Errorf("decode scene: unexpected message type %q", sc.Type)
	}
	return &sc, nil
}
