// Package resolve implements C9: scored candidate search for handle
// references that the straightforward C8 handle-stream parse gets
// wrong in R2010+ files, where obj_size is itself heuristic and the
// handle sequence isn't always canonical (§4.9).
//
// The search enumerates (end_bit, base_handle) pairs, reads a bounded
// run of handles from each in both fixed-base and chained-base mode,
// and scores every handle found against the expected slot and a
// known-value set. Lower score wins; the exact weights are tuned
// against real files and should not be changed casually.
package resolve

import (
	"sort"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/handles"
)

const maxHandlesPerCandidate = 64

// Scoring weights (§4.9); do not retune without re-validating against
// the layer/block-name recovery fixtures.
const (
	weightHandleIndex       = 16
	penaltyUnknownLayer     = 50_000
	penaltyZeroLayer        = 10_000
	penaltyFirstSlot        = 200
	penaltyChainedMode      = 20
	bonusMatchesInitial     = 80
	penaltyMinimumLayerBias = 150
)

// Candidate is one scored guess at a handle reference.
type Candidate struct {
	Handle  uint64
	EndBit  uint64
	Base    uint64
	Chained bool
	Slot    int
	Score   int64
}

// layerHandleScore implements layer_handle_score: 0 when known, a
// large penalty for the zero handle, a larger one for anything else.
func layerHandleScore(candidate uint64, known map[uint64]bool) int64 {
	if known[candidate] {
		return 0
	}
	if candidate == 0 {
		return penaltyZeroLayer
	}
	return penaltyUnknownLayer
}

// ScanCandidateHandles exposes scanCandidate to callers outside this
// package (dwg's orchestrator uses it to build blockname.TargetedScan's
// reference-scanning closure).
func ScanCandidateHandles(raw []byte, endBit uint64, base uint64, chained bool) []uint64 {
	return scanCandidate(raw, endBit, base, chained)
}

// scanCandidate reads up to maxHandlesPerCandidate handles starting at
// endBit using base as the (fixed or chained) reference handle.
func scanCandidate(raw []byte, endBit uint64, base uint64, chained bool) []uint64 {
	r := bit.NewReader(raw)
	if err := r.SetBitPos(int64(endBit)); err != nil {
		return nil
	}
	out := make([]uint64, 0, maxHandlesPerCandidate)
	cur := base
	for i := 0; i < maxHandlesPerCandidate; i++ {
		hv, err := r.ReadH()
		if err != nil {
			break
		}
		v := handles.Resolve(hv, cur)
		out = append(out, v)
		if chained {
			cur = v
		}
	}
	return out
}

// FindLayer runs the scored search for an entity's layer handle: for
// every (endBit, baseHandle) pair drawn from endBits/baseHandles, scan
// both fixed- and chained-base mode and score each handle found at
// expectedSlot against knownLayers. initial is the handle the ordinary
// C8 parse produced (0 if it failed), used for the match bonus.
// The default (lowest known) layer is returned only when no candidate
// from a known layer set was found.
func FindLayer(raw []byte, endBits []uint64, baseHandles []uint64, expectedSlot int, knownLayers map[uint64]bool, initial uint64) uint64 {
	best, found := searchHandleSlot(raw, endBits, baseHandles, expectedSlot, knownLayers, initial)
	if found {
		return best
	}
	return defaultLowest(knownLayers)
}

func searchHandleSlot(raw []byte, endBits []uint64, baseHandles []uint64, expectedSlot int, known map[uint64]bool, initial uint64) (uint64, bool) {
	haveKnownBest := false
	var knownBestScore int64
	var knownBestHandle uint64

	for _, endBit := range endBits {
		for _, base := range baseHandles {
			for _, chained := range [2]bool{false, true} {
				found := scanCandidate(raw, endBit, base, chained)
				for slot, h := range found {
					score := int64(slot) * weightHandleIndex
					score += int64(abs(slot - expectedSlot))
					score += layerHandleScore(h, known)
					if slot == 0 {
						score += penaltyFirstSlot
					}
					if chained {
						score += penaltyChainedMode
					}
					if h == initial && initial != 0 {
						score -= bonusMatchesInitial
					}
					if known[h] && h == minHandle(known) {
						score += penaltyMinimumLayerBias
					}
					if known[h] && (!haveKnownBest || score < knownBestScore || (score == knownBestScore && h < knownBestHandle)) {
						knownBestScore, knownBestHandle, haveKnownBest = score, h, true
					}
				}
			}
		}
	}

	if haveKnownBest {
		return knownBestHandle, true
	}
	return 0, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minHandle(known map[uint64]bool) uint64 {
	var hs []uint64
	for h := range known {
		hs = append(hs, h)
	}
	if len(hs) == 0 {
		return 0
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs[0]
}

func defaultLowest(known map[uint64]bool) uint64 {
	return minHandle(known)
}

// FindBlockHeader is INSERT's counterpart to FindLayer: the known set
// is block-header handles (plus adjacency aliases the caller has
// already folded in), and up to eight neighbour candidates (|a-b|<=8)
// are considered when nothing resolves directly.
func FindBlockHeader(raw []byte, endBits []uint64, baseHandles []uint64, expectedSlot int, knownBlockHeaders map[uint64]bool, initial uint64) (uint64, []uint64) {
	best, found := searchHandleSlot(raw, endBits, baseHandles, expectedSlot, knownBlockHeaders, initial)
	var neighbours []uint64
	if !found {
		for h := range knownBlockHeaders {
			if initial != 0 && absU64(h, initial) <= 8 {
				neighbours = append(neighbours, h)
			}
		}
		sort.Slice(neighbours, func(i, j int) bool { return neighbours[i] < neighbours[j] })
		if len(neighbours) > 8 {
			neighbours = neighbours[:8]
		}
		return 0, neighbours
	}
	return best, nil
}

func absU64(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// FindAnonymousBlock resolves a DIMENSION's anonymous-block reference,
// applying the bare-"*D"-is-ambiguous penalty (§4.9) via nameOf.
func FindAnonymousBlock(raw []byte, endBits []uint64, baseHandles []uint64, expectedSlot int, knownBlocks map[uint64]bool, nameOf func(uint64) string, initial uint64) uint64 {
	var bestScore int64
	var bestHandle uint64
	haveBest := false

	for _, endBit := range endBits {
		for _, base := range baseHandles {
			for _, chained := range [2]bool{false, true} {
				found := scanCandidate(raw, endBit, base, chained)
				for slot, h := range found {
					if !knownBlocks[h] {
						continue
					}
					score := int64(slot)*weightHandleIndex + int64(abs(slot-expectedSlot))
					if chained {
						score += penaltyChainedMode
					}
					if h == initial && initial != 0 {
						score -= bonusMatchesInitial
					}
					name := nameOf(h)
					if name == "*D" {
						score += 1024
					}
					if !haveBest || score < bestScore || (score == bestScore && h < bestHandle) {
						bestScore, bestHandle, haveBest = score, h, true
					}
				}
			}
		}
	}

	return bestHandle
}
