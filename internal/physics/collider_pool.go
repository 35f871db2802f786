package physics

import (
	"voxstream/internal/meshing"

	"github.com/go-gl/mathgl/mgl32"
)

// Collider is a world-space box collision volume.
type Collider struct {
	Center  mgl32.Vec3
	Size    mgl32.Vec3
	Enabled bool
}

// Min returns the lower corner of the volume.
func (c Collider) Min() mgl32.Vec3 {
	return c.Center.Sub(c.Size.Mul(0.5))
}

// Max returns the upper corner of the volume.
func (c Collider) Max() mgl32.Vec3 {
	return c.Center.Add(c.Size.Mul(0.5))
}

// ColliderPool keeps one chunk's collision volumes. Entries are reused by
// position and disabled rather than removed, so the pool only ever grows.
type ColliderPool struct {
	entries []Collider
	active  int
}

// NewColliderPool creates a pool with room for n volumes.
func NewColliderPool(n int) *ColliderPool {
	return &ColliderPool{entries: make([]Collider, 0, n)}
}

// Update fits the pool to boxes placed at origin (the chunk's world
// position) and returns the number of active volumes. Entry i takes box i;
// entries past the box count are disabled.
func (p *ColliderPool) Update(boxes []meshing.Box, origin mgl32.Vec3) int {
	for i, b := range boxes {
		c := Collider{
			Center:  origin.Add(b.Center()),
			Size:    b.Size(),
			Enabled: true,
		}
		if i < len(p.entries) {
			p.entries[i] = c
		} else {
			p.entries = append(p.entries, c)
		}
	}
	for i := len(boxes); i < len(p.entries); i++ {
		p.entries[i].Enabled = false
	}
	p.active = len(boxes)
	return p.active
}

// Active returns the enabled volumes. The slice aliases the pool.
func (p *ColliderPool) Active() []Collider {
	return p.entries[:p.active]
}

// ActiveCount returns the number of enabled volumes.
func (p *ColliderPool) ActiveCount() int {
	return p.active
}

// Len returns the pool size, enabled or not.
func (p *ColliderPool) Len() int {
	return len(p.entries)
}

// Entry returns pool entry i, including disabled ones.
func (p *ColliderPool) Entry(i int) Collider {
	return p.entries[i]
}
