// Package geo defines the coordinate, goal and path value types shared by
// the pathing control core. It owns no mutable state and performs no I/O.
package geo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockPos is an integer voxel coordinate. Equality is component-wise.
type BlockPos struct {
	X, Y, Z int32
}

// Add returns pos offset by (dx, dy, dz).
func (pos BlockPos) Add(dx, dy, dz int32) BlockPos {
	return BlockPos{X: pos.X + dx, Y: pos.Y + dy, Z: pos.Z + dz}
}

// Below returns the block directly beneath pos.
func (pos BlockPos) Below() BlockPos {
	return BlockPos{X: pos.X, Y: pos.Y - 1, Z: pos.Z}
}

// Above returns the block directly above pos.
func (pos BlockPos) Above() BlockPos {
	return BlockPos{X: pos.X, Y: pos.Y + 1, Z: pos.Z}
}

// DistanceSqXZ returns the squared horizontal distance between the centre of
// pos (x+0.5, z+0.5) and the continuous point (px, pz).
func (pos BlockPos) DistanceSqXZ(px, pz float64) float64 {
	cx, cz := float64(pos.X)+0.5, float64(pos.Z)+0.5
	dx, dz := cx-px, cz-pz
	return dx*dx + dz*dz
}

// Center returns the continuous point at the centre of pos, the way world
// positions are represented everywhere outside this package's integer grid.
func (pos BlockPos) Center() mgl64.Vec3 {
	return mgl64.Vec3{float64(pos.X) + 0.5, float64(pos.Y), float64(pos.Z) + 0.5}
}

// DistanceTo returns the straight-line distance from the centre of pos to
// the continuous point p.
func (pos BlockPos) DistanceTo(p mgl64.Vec3) float64 {
	return pos.Center().Sub(p).Len()
}

func (pos BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", pos.X, pos.Y, pos.Z)
}
