package geo

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Path is a finite ordered sequence of blocks produced by a search.
type Path struct {
	Nodes              []BlockPos
	Src, Dest          BlockPos
	Goal               Goal
	NumNodesConsidered int
}

// Contains reports whether pos appears among the path's nodes.
func (p Path) Contains(pos BlockPos) bool {
	for _, n := range p.Nodes {
		if n == pos {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of positions appears among the path's
// nodes.
func (p Path) ContainsAny(positions ...BlockPos) bool {
	for _, pos := range positions {
		if p.Contains(pos) {
			return true
		}
	}
	return false
}

// NodeSet builds a hash set over the path's nodes, for callers that need to
// test membership of several candidate positions against a single
// best-so-far path without a fresh linear scan per candidate.
func (p Path) NodeSet() PosSet {
	return NewPosSet(p.Nodes)
}

// PosSet is a fixed hash set of BlockPos, keyed by a 64-bit digest of the
// position. A membership test is one map lookup plus a linear scan of the
// positions sharing that digest.
type PosSet struct {
	buckets map[uint64][]BlockPos
}

// NewPosSet builds a PosSet over positions.
func NewPosSet(positions []BlockPos) PosSet {
	buckets := make(map[uint64][]BlockPos, len(positions))
	for _, pos := range positions {
		key := posHash(pos)
		buckets[key] = append(buckets[key], pos)
	}
	return PosSet{buckets: buckets}
}

// Contains reports whether pos was among the positions the set was built
// from.
func (s PosSet) Contains(pos BlockPos) bool {
	for _, candidate := range s.buckets[posHash(pos)] {
		if candidate == pos {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of positions is in the set.
func (s PosSet) ContainsAny(positions ...BlockPos) bool {
	for _, pos := range positions {
		if s.Contains(pos) {
			return true
		}
	}
	return false
}

func posHash(pos BlockPos) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(pos.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(pos.Y))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(pos.Z))
	return xxhash.Sum64(buf[:])
}

// CalculationContext is a snapshot of world state handed to a search. Only
// contexts with SafeForThreadedUse set may be passed to a background
// search; the core never mutates a context once handed off.
type CalculationContext struct {
	SafeForThreadedUse bool
}
