package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"windplanet/core"
	"windplanet/wind"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPath is the settings file read when no -config flag is given
const DefaultPath = "settings.json"

type Settings struct {
	Planet PlanetSettings `json:"planet" yaml:"planet"`
	Wind   WindSettings   `json:"wind" yaml:"wind"`
	Camera CameraSettings `json:"camera" yaml:"camera"`
	Light  LightSettings  `json:"light" yaml:"light"`
	Server ServerSettings `json:"server" yaml:"server"`
	Viewer ViewerSettings `json:"viewer" yaml:"viewer"`

	// LoadedFrom is the file the settings came from, empty for defaults
	LoadedFrom string `json:"-" yaml:"-"`
}

type PlanetSettings struct {
	Radius       float64 `json:"radius" yaml:"radius"`
	Resolution   int     `json:"resolution" yaml:"resolution"`
	Texture      string  `json:"texture" yaml:"texture"`
	BumpMap      string  `json:"bumpMap" yaml:"bump_map"`
	BumpScale    float64 `json:"bumpScale" yaml:"bump_scale"`
	Specular     string  `json:"specular" yaml:"specular"`
	Shininess    float64 `json:"shininess" yaml:"shininess"`
	FlipTextureY bool    `json:"flipTextureY" yaml:"flip_texture_y"`
}

type WindSettings struct {
	LongitudeDivisions  int     `json:"longitudeDivisions" yaml:"longitude_divisions"`
	LatitudeZones       int     `json:"latitudeZones" yaml:"latitude_zones"`
	SampleCountPerEdge  int     `json:"sampleCountPerEdge" yaml:"sample_count_per_edge"`
	ResamplePointCount  int     `json:"resamplePointCount" yaml:"resample_point_count"`
	InnerAltitudeFactor float64 `json:"innerAltitudeFactor" yaml:"inner_altitude_factor"`
	OuterAltitudeFactor float64 `json:"outerAltitudeFactor" yaml:"outer_altitude_factor"`
	EdgeInsetFraction   float64 `json:"edgeInsetFraction" yaml:"edge_inset_fraction"`
	CurveType           string  `json:"curveType" yaml:"curve_type"`
	Color               string  `json:"color" yaml:"color"`
	Opacity             float64 `json:"opacity" yaml:"opacity"`
	Workers             int     `json:"workers" yaml:"workers"` // 0 = GOMAXPROCS
}

type CameraSettings struct {
	FOV      float64    `json:"fov" yaml:"fov"` // degrees, vertical
	Near     float64    `json:"near" yaml:"near"`
	Far      float64    `json:"far" yaml:"far"`
	Position [3]float64 `json:"position" yaml:"position"`
}

type LightSettings struct {
	Color     string     `json:"color" yaml:"color"`
	Intensity float64    `json:"intensity" yaml:"intensity"`
	Distance  float64    `json:"distance" yaml:"distance"` // 0 = no falloff
	Angle     float64    `json:"angle" yaml:"angle"`
	Penumbra  float64    `json:"penumbra" yaml:"penumbra"`
	Position  [3]float64 `json:"position" yaml:"position"`
}

type ServerSettings struct {
	Addr    string `json:"addr" yaml:"addr"`
	WebRoot string `json:"webRoot" yaml:"web_root"`
}

type ViewerSettings struct {
	Width     int `json:"width" yaml:"width"`
	Height    int `json:"height" yaml:"height"`
	TargetFPS int `json:"targetFps" yaml:"target_fps"`
}

// Default returns the stock scene: a half-unit planet with 72 wind loops
func Default() *Settings {
	return &Settings{
		Planet: PlanetSettings{
			Radius:     0.5,
			Resolution: 64,
			BumpScale:  0.05,
			Specular:   "#000000",
			Shininess:  0,
		},
		Wind: WindSettings{
			LongitudeDivisions:  wind.DefaultLongitudeDivisions,
			LatitudeZones:       wind.DefaultLatitudeZones,
			SampleCountPerEdge:  wind.DefaultSampleCountPerEdge,
			ResamplePointCount:  wind.DefaultResamplePointCount,
			InnerAltitudeFactor: wind.DefaultInnerAltitudeFactor,
			OuterAltitudeFactor: wind.DefaultOuterAltitudeFactor,
			EdgeInsetFraction:   wind.DefaultEdgeInsetFraction,
			CurveType:           core.Centripetal.String(),
			Color:               "#ffffff",
			Opacity:             0.6,
		},
		Camera: CameraSettings{
			FOV:      45,
			Near:     0.1,
			Far:      1500,
			Position: [3]float64{0, 0, 2.5},
		},
		Light: LightSettings{
			Color:     "#888888",
			Intensity: 1,
			Distance:  0,
			Angle:     10,
			Penumbra:  2,
			Position:  [3]float64{2, 0, 2},
		},
		Server: ServerSettings{
			Addr:    ":8080",
			WebRoot: "web",
		},
		Viewer: ViewerSettings{
			Width:     1280,
			Height:    720,
			TargetFPS: 60,
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is
// not an error; the defaults are returned.
func Load(path string) (*Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("No %s found, using defaults\n", path)
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, settings)
	default:
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	settings.LoadedFrom = path

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// Validate checks the settings that are not covered by the wind generator
// itself, then the wind parameters.
func (s *Settings) Validate() error {
	if s.Planet.Resolution < 3 {
		return fmt.Errorf("planet resolution must be at least 3, got %d", s.Planet.Resolution)
	}
	if s.Wind.Opacity < 0 || s.Wind.Opacity > 1 {
		return fmt.Errorf("wind opacity must be in [0, 1], got %v", s.Wind.Opacity)
	}
	if !(s.Camera.Near > 0 && s.Camera.Far > s.Camera.Near) {
		return fmt.Errorf("camera clip planes must satisfy 0 < near < far, got %v/%v", s.Camera.Near, s.Camera.Far)
	}
	if !(s.Camera.FOV > 0 && s.Camera.FOV < 180) {
		return fmt.Errorf("camera fov must be in (0, 180), got %v", s.Camera.FOV)
	}
	for _, c := range []string{s.Wind.Color, s.Light.Color, s.Planet.Specular} {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	_, err := s.WindParams()
	return err
}

// WindParams converts the wind section into generator parameters
func (s *Settings) WindParams() (wind.Params, error) {
	kind, err := core.ParseCurveType(s.Wind.CurveType)
	if err != nil {
		return wind.Params{}, fmt.Errorf("%w: %v", wind.ErrInvalidParameter, err)
	}
	p := wind.Params{
		PlanetRadius:        s.Planet.Radius,
		LongitudeDivisions:  s.Wind.LongitudeDivisions,
		LatitudeZones:       s.Wind.LatitudeZones,
		SampleCountPerEdge:  s.Wind.SampleCountPerEdge,
		ResamplePointCount:  s.Wind.ResamplePointCount,
		InnerAltitudeFactor: s.Wind.InnerAltitudeFactor,
		OuterAltitudeFactor: s.Wind.OuterAltitudeFactor,
		EdgeInsetFraction:   s.Wind.EdgeInsetFraction,
		CurveType:           kind,
	}
	if err := wind.Validate(p); err != nil {
		return wind.Params{}, err
	}
	return p, nil
}

// Print displays the configuration
func (s *Settings) Print() {
	source := s.LoadedFrom
	if source == "" {
		source = "defaults"
	}
	fmt.Printf("Settings: %s\n", source)
	fmt.Printf("Planet: radius %.3f, resolution %d\n", s.Planet.Radius, s.Planet.Resolution)
	if s.Planet.Texture != "" {
		fmt.Printf("Texture: %s (flipY=%v)\n", s.Planet.Texture, s.Planet.FlipTextureY)
	}
	fmt.Printf("Wind: %d x %d zones, %d samples/edge, %d points/curve (%s)\n",
		s.Wind.LongitudeDivisions, s.Wind.LatitudeZones,
		s.Wind.SampleCountPerEdge, s.Wind.ResamplePointCount, s.Wind.CurveType)
}
