package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Collides reports whether an upright body standing at pos (feet centre,
// halfWidth on X/Z, height on Y) overlaps any active collider.
func Collides(pos mgl32.Vec3, halfWidth, height float32, pools []*ColliderPool) bool {
	lo := mgl32.Vec3{pos.X() - halfWidth, pos.Y(), pos.Z() - halfWidth}
	hi := mgl32.Vec3{pos.X() + halfWidth, pos.Y() + height, pos.Z() + halfWidth}
	for _, p := range pools {
		for _, c := range p.Active() {
			cmin, cmax := c.Min(), c.Max()
			if lo.X() < cmax.X() && hi.X() > cmin.X() &&
				lo.Y() < cmax.Y() && hi.Y() > cmin.Y() &&
				lo.Z() < cmax.Z() && hi.Z() > cmin.Z() {
				return true
			}
		}
	}
	return false
}

// GroundLevel returns the top of the highest active collider under the
// column (x, z) at or below fromY.
func GroundLevel(x, z, fromY float32, pools []*ColliderPool) (float32, bool) {
	found := false
	var ground float32
	for _, p := range pools {
		for _, c := range p.Active() {
			cmin, cmax := c.Min(), c.Max()
			if x < cmin.X() || x >= cmax.X() || z < cmin.Z() || z >= cmax.Z() {
				continue
			}
			top := cmax.Y()
			if top > fromY {
				continue
			}
			if !found || top > ground {
				ground = top
				found = true
			}
		}
	}
	return ground, found
}
