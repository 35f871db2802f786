package main

import (
	"flag"
	"log"
	"time"

	"voxstream/internal/config"
	"voxstream/internal/physics"
	"voxstream/internal/profiling"
	"voxstream/internal/terrain"
	"voxstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "", "settings file (YAML); empty uses defaults")
	ticks := flag.Int("ticks", 600, "number of ticks to simulate")
	speed := flag.Float64("speed", 0.5, "viewpoint speed in voxels per tick along +X")
	budget := flag.Duration("budget", -1, "per-tick streaming budget; negative keeps the configured value")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	supplier, err := settings.Supplier()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	counting := world.NewCountingSupplier(supplier)

	opts := settings.StreamerOptions()
	if *budget >= 0 {
		opts.TickBudget = *budget
	}
	streamer, err := terrain.NewChunkStreamer(settings.Shared(counting), opts)
	if err != nil {
		log.Fatalf("streamer: %v", err)
	}
	defer streamer.Close()

	log.Printf("streaming %dx%dx%d chunks, %v window radius %.1f (%d chunks), budget %v",
		settings.Chunk.SizeX, settings.Chunk.SizeY, settings.Chunk.SizeZ,
		opts.Window.Shape, opts.Window.Radius, streamer.Capacity(), opts.TickBudget)

	pos := mgl32.Vec3{0, float32(settings.Chunk.SizeY), 0}
	var worst time.Duration
	start := time.Now()
	for i := 0; i < *ticks; i++ {
		profiling.ResetFrame()
		t0 := time.Now()
		streamer.Tick(pos)
		d := time.Since(t0)
		worst = max(worst, d)
		if opts.TickBudget > 0 && d > 2*opts.TickBudget {
			log.Printf("slow tick %d (%v): %s", i, d, profiling.TopN(3))
		}
		if ground, ok := physics.GroundLevel(pos.X(), pos.Z(), float32(settings.Chunk.SizeY), streamer.Pools()); ok {
			pos[1] = ground + 1.6
		}
		pos[0] += float32(*speed)
	}
	if err := streamer.Validate(); err != nil {
		log.Fatalf("validate: %v", err)
	}

	st := streamer.Stats()
	hits, misses, evictions := streamer.Cache().Stats()
	log.Printf("done in %v: %d ticks, worst %v, view %v, busy %v", time.Since(start), st.Ticks, worst, streamer.View(), streamer.Busy())
	log.Printf("chunks: allocated %d relocated %d generated %d restored %d cancelled %d",
		st.Allocated, st.Relocated, st.Generated, st.Restored, st.Cancelled)
	log.Printf("cache: %d grids, %d bytes, hits %d misses %d evictions %d",
		streamer.Cache().Len(), streamer.Cache().Bytes(), hits, misses, evictions)
	log.Printf("supplier invoked %d times", counting.Calls())
}
