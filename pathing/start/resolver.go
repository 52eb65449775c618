// Package start implements StartResolver: the policy for choosing the
// logical block a new search should originate from, given the agent's
// physical position.
package start

import (
	"sort"

	"github.com/df-mc/pathkeeper/pathing/geo"
	"github.com/df-mc/pathkeeper/pathing/worldctx"
)

// sneakReach is the maximum per-axis offset, in blocks, at which a
// candidate start block is still considered reachable while sneaking.
const sneakReach = 0.8

// Resolve picks the block a new search should start from. Rules, in order:
//
//  1. If the block beneath the player's feet is walkable, start there.
//  2. Else if the player is airborne: start one block below feet if that is
//     walkable, otherwise at feet.
//  3. Else (on ground but floating over a gap): examine the four nearest of
//     the nine blocks horizontally adjacent to feet, in order of distance
//     to the player's continuous position, and return the first one the
//     player could legally stand on within sneaking reach.
func Resolve(player worldctx.PlayerContext, blocks worldctx.BlockQuery) geo.BlockPos {
	feet := player.PlayerFeet()

	if blocks.Walkable(feet.Below()) {
		return feet
	}

	if !player.OnGround() {
		below := feet.Below()
		if blocks.Walkable(below.Below()) {
			return below
		}
		return feet
	}

	return resolveFloating(player, blocks, feet)
}

type candidate struct {
	pos      geo.BlockPos
	distSqXZ float64
}

// resolveFloating implements rule 3: the player is reported on_ground yet
// the block beneath their feet isn't walkable (standing at the lip of a
// ledge). The "or" below, rather than "and", is preserved verbatim for
// behavioural compatibility even though a true sneaking-reach ball would
// use "and" on both axes; flagged for review, not silently corrected.
func resolveFloating(player worldctx.PlayerContext, blocks worldctx.BlockQuery, feet geo.BlockPos) geo.BlockPos {
	px, _, pz := player.Position()

	candidates := make([]candidate, 0, 9)
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			pos := geo.BlockPos{X: feet.X + dx, Y: feet.Y, Z: feet.Z + dz}
			candidates = append(candidates, candidate{pos: pos, distSqXZ: pos.DistanceSqXZ(px, pz)})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distSqXZ < candidates[j].distSqXZ })

	limit := min(4, len(candidates))
	for _, c := range candidates[:limit] {
		cx, cz := float64(c.pos.X)+0.5, float64(c.pos.Z)+0.5
		withinReach := absF(cx-px) <= sneakReach || absF(cz-pz) <= sneakReach
		if !withinReach {
			continue
		}
		if blocks.Walkable(c.pos.Below()) && blocks.WalkThroughable(c.pos) && blocks.WalkThroughable(c.pos.Above()) {
			return c.pos
		}
	}
	return feet
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
