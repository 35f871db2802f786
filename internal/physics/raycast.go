package physics

import (
	"math"

	"voxstream/internal/profiling"
	"voxstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0
)

// RaycastResult stores the result of a raycast operation.
type RaycastResult struct {
	HitPosition      [3]int // voxel behind the hit face
	AdjacentPosition [3]int // empty voxel in front of the hit face
	Point            mgl32.Vec3
	Normal           mgl32.Vec3
	Distance         float32
	Hit              bool
}

// Raycast finds the nearest active collider along a ray within
// [minDist, maxDist]. Colliders containing the start point are skipped.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, pools []*ColliderPool) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	result := RaycastResult{}
	if direction.Len() == 0 {
		return result
	}
	dir := direction.Normalize()

	best := maxDist
	for _, p := range pools {
		for _, c := range p.Active() {
			t, axis, ok := slab(start, dir, c.Min(), c.Max())
			if !ok || t < minDist || t > best {
				continue
			}
			best = t
			var n mgl32.Vec3
			if dir[axis] > 0 {
				n[axis] = -1
			} else {
				n[axis] = 1
			}
			result = RaycastResult{Hit: true, Distance: t, Normal: n, Point: start.Add(dir.Mul(t))}
		}
	}
	if result.Hit {
		hx, hy, hz := world.VoxelAt(result.Point.Sub(result.Normal.Mul(0.5)))
		ax, ay, az := world.VoxelAt(result.Point.Add(result.Normal.Mul(0.5)))
		result.HitPosition = [3]int{hx, hy, hz}
		result.AdjacentPosition = [3]int{ax, ay, az}
	}
	return result
}

// slab returns the entry distance of a ray into an AABB and the axis of the
// entered face. Rays starting inside the box report ok=false.
func slab(o, d, lo, hi mgl32.Vec3) (t float32, axis int, ok bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))
	for k := 0; k < 3; k++ {
		if d[k] == 0 {
			if o[k] < lo[k] || o[k] > hi[k] {
				return 0, 0, false
			}
			continue
		}
		t1 := (lo[k] - o[k]) / d[k]
		t2 := (hi[k] - o[k]) / d[k]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
			axis = k
		}
		tFar = min(tFar, t2)
	}
	if tNear > tFar || tNear < 0 {
		return 0, 0, false
	}
	return tNear, axis, true
}
