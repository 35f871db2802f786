package meshing

import (
	"voxstream/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned run of voxels inside one chunk, in local voxel
// coordinates: origin (X,Y,Z) and positive extents (DX,DY,DZ).
// Type is the merged voxel type for type-boundary boxes and Air for
// solid-boundary boxes.
type Box struct {
	X, Y, Z    int
	DX, DY, DZ int
	Type       world.Voxel
}

// Center returns the box center in local space. A box of extent 1 is
// centred on its single voxel.
func (b Box) Center() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(b.X) + float32(b.DX-1)*0.5,
		float32(b.Y) + float32(b.DY-1)*0.5,
		float32(b.Z) + float32(b.DZ-1)*0.5,
	}
}

// Size returns the box extents.
func (b Box) Size() mgl32.Vec3 {
	return mgl32.Vec3{float32(b.DX), float32(b.DY), float32(b.DZ)}
}

// Volume returns the number of voxels covered.
func (b Box) Volume() int {
	return b.DX * b.DY * b.DZ
}

// Contains reports whether local voxel (x,y,z) lies inside the box.
func (b Box) Contains(x, y, z int) bool {
	return x >= b.X && x < b.X+b.DX &&
		y >= b.Y && y < b.Y+b.DY &&
		z >= b.Z && z < b.Z+b.DZ
}
