package world

import (
	"math"
	"sync/atomic"
)

// Supplier fills a chunk grid with terrain content.
// Implementations must be a pure function of the coordinate and the grid
// dimensions: cached grids and regenerated ones have to agree.
type Supplier interface {
	FillVoxels(g *Grid, c GridCoord)
}

// SupplierFunc adapts a plain function to the Supplier interface.
type SupplierFunc func(g *Grid, c GridCoord)

func (f SupplierFunc) FillVoxels(g *Grid, c GridCoord) {
	f(g, c)
}

// Layer is one band of a column, listed bottom-up.
// A positive Height stacks that many voxels; a zero Height fills up to
// Percentage of the column's surface height.
type Layer struct {
	Type       Voxel
	Height     int
	Percentage float64
}

// DefaultLayers is bedrock, stone, dirt and a grass cap.
var DefaultLayers = []Layer{
	{Type: VoxelBedrock, Height: 1},
	{Type: VoxelStone, Percentage: 0.66},
	{Type: VoxelDirt, Percentage: 1},
	{Type: VoxelGrass, Height: 1},
}

// FlatGenerator stacks full-footprint layers from y=0 upward.
// Percentage layers are ignored; cells above the last layer stay Air.
type FlatGenerator struct {
	Layers []Layer
}

// NewFlatGenerator creates a flat generator with the given layers.
func NewFlatGenerator(layers ...Layer) *FlatGenerator {
	return &FlatGenerator{Layers: layers}
}

// FillVoxels implements Supplier. The coordinate does not influence flat terrain.
func (g *FlatGenerator) FillVoxels(grid *Grid, _ GridCoord) {
	_, sy, _ := grid.Size()
	y := 0
	for _, lay := range g.Layers {
		for k := 0; k < lay.Height && y < sy; k++ {
			grid.FillLayer(y, lay.Type)
			y++
		}
	}
}

// NoiseGenerator builds a heightmap from fractal value noise and fills each
// column with its layer list.
type NoiseGenerator struct {
	seed        int64
	frequency   float64
	heightScale float64
	octaves     int
	persistence float64
	lacunarity  float64
	layers      []Layer
}

// NoiseOptions tunes NoiseGenerator. Zero fields take defaults.
type NoiseOptions struct {
	Frequency   float64 // noise cycles per voxel
	HeightScale float64 // fraction of the chunk height covered by the noise swing
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Layers      []Layer
}

// NewNoiseGenerator creates a seeded noise generator.
func NewNoiseGenerator(seed int64, opts NoiseOptions) *NoiseGenerator {
	g := &NoiseGenerator{
		seed:        seed,
		frequency:   1.0 / 64.0,
		heightScale: 0.5,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
		layers:      DefaultLayers,
	}
	if opts.Frequency > 0 {
		g.frequency = opts.Frequency
	}
	if opts.HeightScale > 0 {
		g.heightScale = opts.HeightScale
	}
	if opts.Octaves > 0 {
		g.octaves = opts.Octaves
	}
	if opts.Persistence > 0 {
		g.persistence = opts.Persistence
	}
	if opts.Lacunarity > 0 {
		g.lacunarity = opts.Lacunarity
	}
	if len(opts.Layers) > 0 {
		g.layers = opts.Layers
	}
	return g
}

// SurfaceHeight returns the local surface height of world column (wx, wz)
// for chunks sy voxels tall, clamped to [0, sy-1].
func (g *NoiseGenerator) SurfaceHeight(wx, wz, sy int) int {
	n := octaveNoise2D(float64(wx)*g.frequency, float64(wz)*g.frequency, g.seed, g.octaves, g.persistence, g.lacunarity)
	span := float64(sy) * g.heightScale
	base := (float64(sy)-span)/2 - 1
	h := int(math.Round(n*span + base))
	return min(max(h, 0), sy-1)
}

// FillVoxels implements Supplier.
func (g *NoiseGenerator) FillVoxels(grid *Grid, c GridCoord) {
	sx, sy, sz := grid.Size()
	for z := 0; z < sz; z++ {
		for x := 0; x < sx; x++ {
			h := g.SurfaceHeight(c.X*sx+x, c.Z*sz+z, sy)
			y := 0
			for _, lay := range g.layers {
				limit := float64(y + lay.Height)
				if lay.Height == 0 {
					limit = float64(h) * lay.Percentage
				}
				for ; float64(y) < limit && y < sy; y++ {
					grid.Set(x, y, z, lay.Type)
				}
			}
		}
	}
}

// CountingSupplier wraps a Supplier and counts how often it was invoked.
type CountingSupplier struct {
	Supplier
	calls atomic.Int64
}

// NewCountingSupplier wraps s.
func NewCountingSupplier(s Supplier) *CountingSupplier {
	return &CountingSupplier{Supplier: s}
}

func (c *CountingSupplier) FillVoxels(g *Grid, coord GridCoord) {
	c.calls.Add(1)
	c.Supplier.FillVoxels(g, coord)
}

// Calls returns the number of FillVoxels invocations so far.
func (c *CountingSupplier) Calls() int64 {
	return c.calls.Load()
}
