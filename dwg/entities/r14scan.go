// r14scan.go implements the R14-family speculative recovery path for
// LINE/CIRCLE/ARC bodies (§5, §9 "global mutable state (search
// hints)"). R14 object records sometimes carry a common header whose
// obj_size boundary doesn't land cleanly on the body that follows, so
// when the direct decode fails the scanner probes nearby bit offsets
// with a couple of candidate body layouts and scores each candidate
// on geometric plausibility, preferring whichever offset worked last
// time.
//
// The preferred-delta globals are relaxed-ordering hints, not a
// cache of correct answers: a stale read only changes scan order, and
// concurrent scans racing on the same atomic either find it or don't.
package entities

import (
	"math"
	"sync/atomic"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/internal/errors"
)

var (
	r14LinePreferredDelta   uint32 = 64
	r14CirclePreferredDelta uint32 = 64
	r14ArcPreferredDelta    uint32 = 64
)

func scanWindow(preferred, halfWidth, max uint32) (uint32, uint32) {
	lo := uint32(0)
	if preferred > halfWidth {
		lo = preferred - halfWidth
	}
	hi := preferred + halfWidth
	if hi > max {
		hi = max
	}
	return lo, hi
}

func isFiniteAndBounded(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1.0e9 {
			return false
		}
	}
	return true
}

// scoreLineCandidate mirrors score_line_candidate: lower is better,
// nil means implausible enough to discard outright.
func scoreLineCandidate(delta uint64, start, end, extrusion bit.Point3) *uint64 {
	if !isFiniteAndBounded(start.X, start.Y, start.Z, end.X, end.Y, end.Z, extrusion.X, extrusion.Y, extrusion.Z) {
		return nil
	}
	exNorm := math.Sqrt(extrusion.X*extrusion.X + extrusion.Y*extrusion.Y + extrusion.Z*extrusion.Z)
	if math.IsNaN(exNorm) || exNorm < 1.0e-9 || exNorm > 1.0e3 {
		return nil
	}

	score := delta
	score += uint64(math.Round(math.Abs(exNorm-1.0) * 64))

	dx, dy, dz := start.X-end.X, start.Y-end.Y, start.Z-end.Z
	length2 := dx*dx + dy*dy + dz*dz
	geomMaxAbs := maxAbs(start.X, start.Y, start.Z, end.X, end.Y, end.Z)
	nearZeroOrOne := countNearZeroOrOne(start.X, start.Y, start.Z, end.X, end.Y, end.Z)

	if length2 < 1.0e-18 {
		score += 1500
	}
	if geomMaxAbs < 1.0e-6 {
		score += 2000
	}
	if geomMaxAbs <= 1.0+1.0e-9 {
		score += 256
	}
	if nearZeroOrOne >= 5 {
		score += 192
	}
	if length2 <= 1.0+1.0e-9 {
		score += 128
	}
	if math.Abs(start.Z) > 1.0e-6 || math.Abs(end.Z) > 1.0e-6 {
		score += 512
	}
	if math.Abs(extrusion.X)+math.Abs(extrusion.Y) < 1.0e-6 && math.Abs(extrusion.Z-1.0) < 1.0e-6 {
		score -= minU64(score, 8)
	}
	return &score
}

func maxAbs(vs ...float64) float64 {
	m := 0.0
	for _, v := range vs {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func countNearZeroOrOne(vs ...float64) int {
	n := 0
	for _, v := range vs {
		if math.Abs(v) < 1.0e-9 || math.Abs(v-1.0) < 1.0e-9 || math.Abs(v+1.0) < 1.0e-9 {
			n++
		}
	}
	return n
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func isHighConfidenceLine(delta uint64, score uint64) bool {
	return delta >= 24 && score <= 96
}

// parseLineBodyPrimary decodes the canonical field order (§4.7).
func parseLineBodyPrimary(r *bit.Reader) (start, end, extrusion bit.Point3, err error) {
	zZero, err := r.ReadB()
	if err != nil {
		return
	}
	start.X, err = r.ReadRD()
	if err != nil {
		return
	}
	end.X, err = r.ReadDD(start.X)
	if err != nil {
		return
	}
	start.Y, err = r.ReadRD()
	if err != nil {
		return
	}
	end.Y, err = r.ReadDD(start.Y)
	if err != nil {
		return
	}
	if zZero == 0 {
		start.Z, err = r.ReadRD()
		if err != nil {
			return
		}
		end.Z, err = r.ReadDD(start.Z)
		if err != nil {
			return
		}
	}
	if _, err = r.ReadBT(); err != nil {
		return
	}
	extrusion, err = r.ReadBE()
	return
}

// parseLineBodyAltNoZFlag decodes without the z-zero gate bit, always
// reading z explicitly (one of the two R14 variants line.rs probes).
func parseLineBodyAltNoZFlag(r *bit.Reader) (start, end, extrusion bit.Point3, err error) {
	start.X, err = r.ReadRD()
	if err != nil {
		return
	}
	end.X, err = r.ReadDD(start.X)
	if err != nil {
		return
	}
	start.Y, err = r.ReadRD()
	if err != nil {
		return
	}
	end.Y, err = r.ReadDD(start.Y)
	if err != nil {
		return
	}
	start.Z, err = r.ReadRD()
	if err != nil {
		return
	}
	end.Z, err = r.ReadDD(start.Z)
	if err != nil {
		return
	}
	if _, err = r.ReadBT(); err != nil {
		return
	}
	extrusion, err = r.ReadBE()
	return
}

// parseLineBody3BD decodes the explicit R13/R14 layout: start/end as
// two raw 3BD points with no delta-encoding between them.
func parseLineBody3BD(r *bit.Reader) (start, end, extrusion bit.Point3, err error) {
	start, err = r.Read3BD()
	if err != nil {
		return
	}
	end, err = r.Read3BD()
	if err != nil {
		return
	}
	if _, err = r.ReadBT(); err != nil {
		return
	}
	extrusion, err = r.ReadBE()
	return
}

// DecodeLineR14Fallback probes nearby bit offsets around the common
// header's nominal body start, trying the three known LINE body
// layouts at each, and returns the best-scoring plausible candidate.
// Used when the direct (obj_size-anchored) decode of an R14 object
// fails or looks wrong.
func DecodeLineR14Fallback(raw []byte, baseBit int64, h header.CommonEntityHeader) (*Line, error) {
	type parser func(*bit.Reader) (bit.Point3, bit.Point3, bit.Point3, error)
	parsers := []parser{parseLineBodyPrimary, parseLineBodyAltNoZFlag, parseLineBody3BD}

	preferred := atomic.LoadUint32(&r14LinePreferredDelta)
	lo, hi := scanWindow(preferred, 6, 256)

	var bestScore uint64
	var bestLine *Line
	var bestDelta uint32
	haveBest := false

	tryDelta := func(delta uint32) *Line {
		target := baseBit + int64(delta)
		if target < 0 || target/8 >= int64(len(raw)) {
			return nil
		}
		for kind, p := range parsers {
			probe := bit.NewReader(raw)
			probe.SetBitPos(target)
			start, end, extrusion, err := p(probe)
			if err != nil {
				continue
			}
			scorePtr := scoreLineCandidate(uint64(delta), start, end, extrusion)
			if scorePtr == nil {
				continue
			}
			score := *scorePtr
			switch kind {
			case 1:
				score += 8
			case 2:
				score = subClamp(score, 16)
			}
			candidate := &Line{Base: BaseFrom(h), Start: start, End: end, Extrusion: extrusion}
			if isHighConfidenceLine(uint64(delta), score) {
				atomic.StoreUint32(&r14LinePreferredDelta, delta)
				return candidate
			}
			if !haveBest || score < bestScore {
				bestScore, bestLine, bestDelta, haveBest = score, candidate, delta, true
			}
		}
		return nil
	}

	for d := lo; d <= hi; d++ {
		if c := tryDelta(d); c != nil {
			return c, nil
		}
	}
	for d := uint32(0); d <= 256; d++ {
		if d >= lo && d <= hi {
			continue
		}
		if c := tryDelta(d); c != nil {
			return c, nil
		}
	}

	if haveBest {
		atomic.StoreUint32(&r14LinePreferredDelta, bestDelta)
		return bestLine, nil
	}
	return nil, errors.At(errors.Decode, baseBit/8, "failed to recover R14 LINE entity")
}

func subClamp(v, by uint64) uint64 {
	if v < by {
		return 0
	}
	return v - by
}

func scoreCircleCandidate(delta uint64, center bit.Point3, radius float64, extrusion bit.Point3) *uint64 {
	if !isFiniteAndBounded(center.X, center.Y, center.Z, radius, extrusion.X, extrusion.Y, extrusion.Z) {
		return nil
	}
	if radius <= 1.0e-9 || radius > 1.0e9 {
		return nil
	}
	exNorm := math.Sqrt(extrusion.X*extrusion.X + extrusion.Y*extrusion.Y + extrusion.Z*extrusion.Z)
	if math.IsNaN(exNorm) || exNorm < 1.0e-9 || exNorm > 1.0e3 {
		return nil
	}
	score := delta
	score += uint64(math.Round(math.Abs(exNorm-1.0) * 64))
	if maxAbs(center.X, center.Y, center.Z) < 1.0e-6 {
		score += 1500
	}
	if math.Abs(center.Z) > 1.0e-6 {
		score += 512
	}
	return &score
}

// parseCircleBodyPrimary decodes the canonical field order (§4.7).
func parseCircleBodyPrimary(r *bit.Reader) (center bit.Point3, radius float64, extrusion bit.Point3, err error) {
	center, err = r.Read3BD()
	if err != nil {
		return
	}
	radius, err = r.ReadBD()
	if err != nil {
		return
	}
	if _, err = r.ReadBT(); err != nil {
		return
	}
	extrusion, err = r.ReadBE()
	return
}

// parseCircleBodyAltR14 reads thickness/extrusion as raw BD/3BD
// rather than the gated BT/BE forms, the second layout circle.rs probes.
func parseCircleBodyAltR14(r *bit.Reader) (center bit.Point3, radius float64, extrusion bit.Point3, err error) {
	center, err = r.Read3BD()
	if err != nil {
		return
	}
	radius, err = r.ReadBD()
	if err != nil {
		return
	}
	if _, err = r.ReadBD(); err != nil {
		return
	}
	extrusion, err = r.Read3BD()
	return
}

// DecodeCircleR14Fallback is CIRCLE's counterpart to
// DecodeLineR14Fallback: the same offset-scan/score/prefer-last-delta
// shape, against the two candidate CIRCLE body layouts.
func DecodeCircleR14Fallback(raw []byte, baseBit int64, h header.CommonEntityHeader) (*Circle, error) {
	type parser func(*bit.Reader) (bit.Point3, float64, bit.Point3, error)
	parsers := []parser{parseCircleBodyPrimary, parseCircleBodyAltR14}

	preferred := atomic.LoadUint32(&r14CirclePreferredDelta)
	lo, hi := scanWindow(preferred, 8, 256)

	var bestScore uint64
	var bestCircle *Circle
	var bestDelta uint32
	haveBest := false

	tryDelta := func(delta uint32) *Circle {
		target := baseBit + int64(delta)
		if target < 0 || target/8 >= int64(len(raw)) {
			return nil
		}
		for kind, p := range parsers {
			probe := bit.NewReader(raw)
			probe.SetBitPos(target)
			center, radius, extrusion, err := p(probe)
			if err != nil {
				continue
			}
			scorePtr := scoreCircleCandidate(uint64(delta), center, radius, extrusion)
			if scorePtr == nil {
				continue
			}
			score := *scorePtr
			if kind == 1 {
				score = subClamp(score, 8)
			}
			candidate := &Circle{Base: BaseFrom(h), Center: center, Radius: radius, Extrusion: extrusion}
			if delta >= 24 && score <= 96 {
				atomic.StoreUint32(&r14CirclePreferredDelta, delta)
				return candidate
			}
			if !haveBest || score < bestScore {
				bestScore, bestCircle, bestDelta, haveBest = score, candidate, delta, true
			}
		}
		return nil
	}

	for d := lo; d <= hi; d++ {
		if c := tryDelta(d); c != nil {
			return c, nil
		}
	}
	for d := uint32(0); d <= 1024; d++ {
		if d <= 256 && d >= lo && d <= hi {
			continue
		}
		if d == 257 && haveBest && bestScore <= 96 {
			break
		}
		if c := tryDelta(d); c != nil {
			return c, nil
		}
	}

	if haveBest {
		atomic.StoreUint32(&r14CirclePreferredDelta, bestDelta)
		return bestCircle, nil
	}
	return nil, errors.At(errors.Decode, baseBit/8, "failed to recover R14 CIRCLE entity")
}

// DecodeArcR14Fallback mirrors DecodeCircleR14Fallback, reusing its
// two candidate layouts and scorer for the center/radius/extrusion
// prefix shared with CIRCLE, then adding the two trailing BD angles.
func DecodeArcR14Fallback(raw []byte, baseBit int64, h header.CommonEntityHeader) (*Arc, error) {
	preferred := atomic.LoadUint32(&r14ArcPreferredDelta)
	lo, hi := scanWindow(preferred, 8, 256)

	type parser func(*bit.Reader) (bit.Point3, float64, bit.Point3, error)
	parsers := []parser{parseCircleBodyPrimary, parseCircleBodyAltR14}

	var bestScore uint64
	var bestArc *Arc
	var bestDelta uint32
	haveBest := false

	tryDelta := func(delta uint32) *Arc {
		target := baseBit + int64(delta)
		if target < 0 || target/8 >= int64(len(raw)) {
			return nil
		}
		for kind, p := range parsers {
			probe := bit.NewReader(raw)
			probe.SetBitPos(target)
			center, radius, extrusion, err := p(probe)
			if err != nil {
				continue
			}
			startAngle, err := probe.ReadBD()
			if err != nil {
				continue
			}
			endAngle, err := probe.ReadBD()
			if err != nil {
				continue
			}
			scorePtr := scoreCircleCandidate(uint64(delta), center, radius, extrusion)
			if scorePtr == nil || !isFiniteAndBounded(startAngle, endAngle) {
				continue
			}
			score := *scorePtr
			if kind == 1 {
				score = subClamp(score, 8)
			}
			candidate := &Arc{
				Circle:     Circle{Base: BaseFrom(h), Center: center, Radius: radius, Extrusion: extrusion},
				StartAngle: startAngle,
				EndAngle:   endAngle,
			}
			if delta >= 24 && score <= 112 {
				atomic.StoreUint32(&r14ArcPreferredDelta, delta)
				return candidate
			}
			if !haveBest || score < bestScore {
				bestScore, bestArc, bestDelta, haveBest = score, candidate, delta, true
			}
		}
		return nil
	}

	for d := lo; d <= hi; d++ {
		if c := tryDelta(d); c != nil {
			return c, nil
		}
	}
	for d := uint32(0); d <= 1024; d++ {
		if d <= 256 && d >= lo && d <= hi {
			continue
		}
		if d == 257 && haveBest && bestScore <= 112 {
			break
		}
		if c := tryDelta(d); c != nil {
			return c, nil
		}
	}

	if haveBest {
		atomic.StoreUint32(&r14ArcPreferredDelta, bestDelta)
		return bestArc, nil
	}
	return nil, errors.At(errors.Decode, baseBit/8, "failed to recover R14 ARC entity")
}
