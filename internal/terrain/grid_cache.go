package terrain

import (
	"container/list"
	"fmt"

	"voxstream/internal/world"

	"github.com/klauspost/compress/zstd"
)

// GridCache keeps snapshots of vacated chunk grids keyed by coordinate so a
// chunk moving back onto a coordinate skips regeneration. It is bounded and
// evicts the least recently stored snapshot. Snapshots can be stored zstd
// compressed; restoring always yields the exact stored voxels.
type GridCache struct {
	capacity int
	entries  map[world.GridCoord]*list.Element
	order    *list.List // front is most recently stored

	enc     *zstd.Encoder
	dec     *zstd.Decoder
	scratch []byte

	hits, misses, evictions uint64
}

type cacheEntry struct {
	coord world.GridCoord
	data  []byte
}

// NewGridCache creates a cache holding up to capacity snapshots.
// A capacity of zero disables caching.
func NewGridCache(capacity int, compress bool) (*GridCache, error) {
	c := &GridCache{
		capacity: max(capacity, 0),
		entries:  make(map[world.GridCoord]*list.Element),
		order:    list.New(),
	}
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("grid cache encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			enc.Close()
			return nil, fmt.Errorf("grid cache decoder: %w", err)
		}
		c.enc, c.dec = enc, dec
	}
	return c, nil
}

// Close releases the codec resources.
func (c *GridCache) Close() {
	if c.enc != nil {
		c.enc.Close()
	}
	if c.dec != nil {
		c.dec.Close()
	}
}

// Store snapshots g under coord, replacing any older snapshot.
func (c *GridCache) Store(coord world.GridCoord, g *world.Grid) {
	if c.capacity == 0 {
		return
	}
	var buf []byte
	if el, ok := c.entries[coord]; ok {
		buf = el.Value.(*cacheEntry).data[:0]
	}
	data := c.encode(buf, g)

	if el, ok := c.entries[coord]; ok {
		el.Value.(*cacheEntry).data = data
		c.order.MoveToFront(el)
		return
	}
	c.entries[coord] = c.order.PushFront(&cacheEntry{coord: coord, data: data})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).coord)
		c.evictions++
	}
}

// Restore copies the snapshot for coord into dst, removes it from the cache
// and reports whether one existed. The coordinate is live again once
// restored, and a fresh snapshot is stored when it is vacated. A snapshot
// whose size does not match dst is discarded.
func (c *GridCache) Restore(coord world.GridCoord, dst *world.Grid) bool {
	el, ok := c.entries[coord]
	if !ok {
		c.misses++
		return false
	}
	e := el.Value.(*cacheEntry)
	raw := e.data
	if c.dec != nil {
		out, err := c.dec.DecodeAll(e.data, c.scratch[:0])
		if err != nil {
			c.Drop(coord)
			c.misses++
			return false
		}
		c.scratch = out
		raw = out
	}
	vox := dst.Voxels()
	if len(raw) != len(vox) {
		c.Drop(coord)
		c.misses++
		return false
	}
	for i, b := range raw {
		vox[i] = world.Voxel(b)
	}
	c.Drop(coord)
	c.hits++
	return true
}

// Has reports whether a snapshot for coord is cached.
func (c *GridCache) Has(coord world.GridCoord) bool {
	_, ok := c.entries[coord]
	return ok
}

// Drop removes the snapshot for coord.
func (c *GridCache) Drop(coord world.GridCoord) {
	if el, ok := c.entries[coord]; ok {
		c.order.Remove(el)
		delete(c.entries, coord)
	}
}

// Len returns the number of cached snapshots.
func (c *GridCache) Len() int {
	return c.order.Len()
}

// Bytes returns the memory held by snapshot payloads.
func (c *GridCache) Bytes() int {
	n := 0
	for el := c.order.Front(); el != nil; el = el.Next() {
		n += len(el.Value.(*cacheEntry).data)
	}
	return n
}

// Stats returns restore hits, misses and evictions so far.
func (c *GridCache) Stats() (hits, misses, evictions uint64) {
	return c.hits, c.misses, c.evictions
}

func (c *GridCache) encode(buf []byte, g *world.Grid) []byte {
	vox := g.Voxels()
	if c.enc == nil {
		if cap(buf) < len(vox) {
			buf = make([]byte, len(vox))
		}
		buf = buf[:len(vox)]
		for i, v := range vox {
			buf[i] = byte(v)
		}
		return buf
	}
	if cap(c.scratch) < len(vox) {
		c.scratch = make([]byte, len(vox))
	}
	raw := c.scratch[:len(vox)]
	for i, v := range vox {
		raw[i] = byte(v)
	}
	return c.enc.EncodeAll(raw, buf)
}
