package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"voxstream/internal/terrain"
	"voxstream/internal/world"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed settings.schema.json
var schemaJSON string

// ErrInvalid wraps every settings validation failure.
var ErrInvalid = errors.New("invalid settings")

// Settings is the on-disk configuration of a streaming session.
type Settings struct {
	Chunk          ChunkSettings     `yaml:"chunk"`
	Window         WindowSettings    `yaml:"window"`
	Streaming      StreamingSettings `yaml:"streaming"`
	Generator      GeneratorSettings `yaml:"generator"`
	ProtectBedrock bool              `yaml:"protect_bedrock"`
}

type ChunkSettings struct {
	SizeX int `yaml:"size_x"`
	SizeY int `yaml:"size_y"`
	SizeZ int `yaml:"size_z"`
}

type WindowSettings struct {
	Radius float64 `yaml:"radius"` // in chunks
	Bias   float64 `yaml:"bias"`
	Shape  string  `yaml:"shape"`
}

type StreamingSettings struct {
	TickBudgetMs  float64 `yaml:"tick_budget_ms"`
	CacheCapacity int     `yaml:"cache_capacity"`
	CompressCache bool    `yaml:"compress_cache"`
}

type GeneratorSettings struct {
	Kind        string          `yaml:"kind"`
	Seed        int64           `yaml:"seed"`
	Frequency   float64         `yaml:"frequency"`
	HeightScale float64         `yaml:"height_scale"`
	Octaves     int             `yaml:"octaves"`
	Persistence float64         `yaml:"persistence"`
	Lacunarity  float64         `yaml:"lacunarity"`
	Layers      []LayerSettings `yaml:"layers"`
}

type LayerSettings struct {
	Type       string  `yaml:"type"`
	Height     int     `yaml:"height"`
	Percentage float64 `yaml:"percentage"`
}

const (
	minRadius = 1
	maxRadius = 32
	minBias   = -0.25
)

// Default returns settings that stream 16x64x16 noise terrain.
func Default() Settings {
	return Settings{
		Chunk:  ChunkSettings{SizeX: 16, SizeY: 64, SizeZ: 16},
		Window: WindowSettings{Radius: 6, Bias: -0.05, Shape: "disk"},
		Streaming: StreamingSettings{
			TickBudgetMs:  4,
			CacheCapacity: 256,
			CompressCache: true,
		},
		Generator:      GeneratorSettings{Kind: "noise", Seed: 1},
		ProtectBedrock: true,
	}
}

var compiled *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if compiled != nil {
		return compiled, nil
	}
	s, err := jsonschema.CompileString("settings.schema.json", schemaJSON)
	if err != nil {
		return nil, err
	}
	compiled = s
	return s, nil
}

// Load reads a YAML settings file. Missing keys keep their defaults.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	s, err := Parse(raw)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML settings, validates them against the embedded schema
// and clamps the window radius.
func Parse(raw []byte) (Settings, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Settings{}, fmt.Errorf("settings yaml: %w", err)
	}
	if doc != nil {
		if err := validate(doc); err != nil {
			return Settings{}, err
		}
	}

	s := Default()
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("settings yaml: %w", err)
	}
	s.clamp()
	if _, err := s.Supplier(); err != nil {
		return Settings{}, err
	}
	if _, err := terrain.ParseShape(s.Window.Shape); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s, nil
}

// validate runs the schema over a YAML document. The document goes through
// JSON first so numbers and maps have the types the validator expects.
func validate(doc any) error {
	sch, err := schema()
	if err != nil {
		return fmt.Errorf("settings schema: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (s *Settings) clamp() {
	s.Window.Radius = min(max(s.Window.Radius, minRadius), maxRadius)
	s.Window.Bias = min(max(s.Window.Bias, minBias), 0)
	s.Streaming.TickBudgetMs = max(s.Streaming.TickBudgetMs, 0)
	s.Streaming.CacheCapacity = max(s.Streaming.CacheCapacity, 0)
}

// TickBudget returns the per-tick streaming allowance.
func (s Settings) TickBudget() time.Duration {
	return time.Duration(s.Streaming.TickBudgetMs * float64(time.Millisecond))
}

// Layers converts the configured layers; nil means the generator default.
func (s Settings) Layers() ([]world.Layer, error) {
	if len(s.Generator.Layers) == 0 {
		return nil, nil
	}
	out := make([]world.Layer, 0, len(s.Generator.Layers))
	for i, l := range s.Generator.Layers {
		v, err := world.ParseVoxel(l.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %v", ErrInvalid, i, err)
		}
		out = append(out, world.Layer{Type: v, Height: l.Height, Percentage: l.Percentage})
	}
	return out, nil
}

// Supplier builds the configured terrain generator.
func (s Settings) Supplier() (world.Supplier, error) {
	layers, err := s.Layers()
	if err != nil {
		return nil, err
	}
	g := s.Generator
	switch g.Kind {
	case "", "noise":
		return world.NewNoiseGenerator(g.Seed, world.NoiseOptions{
			Frequency:   g.Frequency,
			HeightScale: g.HeightScale,
			Octaves:     g.Octaves,
			Persistence: g.Persistence,
			Lacunarity:  g.Lacunarity,
			Layers:      layers,
		}), nil
	case "flat":
		if layers == nil {
			layers = world.DefaultLayers
		}
		return world.NewFlatGenerator(layers...), nil
	}
	return nil, fmt.Errorf("%w: unknown generator %q", ErrInvalid, g.Kind)
}

// Shared builds the chunk context around supplier.
func (s Settings) Shared(supplier world.Supplier) *terrain.Shared {
	sh := terrain.NewShared(s.Chunk.SizeX, s.Chunk.SizeY, s.Chunk.SizeZ, supplier)
	if !s.ProtectBedrock {
		sh.Protected = nil
	}
	return sh
}

// StreamerOptions builds the streamer options.
func (s Settings) StreamerOptions() terrain.Options {
	shape, _ := terrain.ParseShape(s.Window.Shape)
	return terrain.Options{
		Window: terrain.Window{
			Radius: s.Window.Radius,
			Bias:   s.Window.Bias,
			Shape:  shape,
		},
		TickBudget:    s.TickBudget(),
		CacheCapacity: s.Streaming.CacheCapacity,
		CompressCache: s.Streaming.CompressCache,
	}
}

// NewStreamer wires a ChunkStreamer from the settings.
func (s Settings) NewStreamer() (*terrain.ChunkStreamer, error) {
	supplier, err := s.Supplier()
	if err != nil {
		return nil, err
	}
	return terrain.NewChunkStreamer(s.Shared(supplier), s.StreamerOptions())
}
