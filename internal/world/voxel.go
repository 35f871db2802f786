package world

import (
	"fmt"
	"strings"
)

// Voxel is the byte-sized type tag stored per grid cell.
type Voxel uint8

const (
	VoxelAir Voxel = iota
	VoxelGrass
	VoxelDirt
	VoxelStone
	VoxelBedrock

	voxelCount
)

var voxelNames = [voxelCount]string{
	VoxelAir:     "air",
	VoxelGrass:   "grass",
	VoxelDirt:    "dirt",
	VoxelStone:   "stone",
	VoxelBedrock: "bedrock",
}

// IsAir reports whether v is the empty sentinel.
func (v Voxel) IsAir() bool {
	return v == VoxelAir
}

// Valid reports whether v is a known voxel type.
func (v Voxel) Valid() bool {
	return v < voxelCount
}

func (v Voxel) String() string {
	if !v.Valid() {
		return fmt.Sprintf("voxel(%d)", uint8(v))
	}
	return voxelNames[v]
}

// ParseVoxel converts a lowercase type name (as used in settings files) to a Voxel.
func ParseVoxel(name string) (Voxel, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range voxelNames {
		if s == n {
			return Voxel(i), nil
		}
	}
	return VoxelAir, fmt.Errorf("unknown voxel type %q", name)
}
