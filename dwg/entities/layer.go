package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Layer is the LAYER table record. Only the fields the object graph
// actually needs downstream (name, on/off/color state) are kept; the
// rest of the state-flags bitfield is read and discarded.
//
// The state-flags-plus-color block that follows the entry name has no
// single fixed layout across the R14..R2018 family -- real files show
// a handful of extra reserved bits before/after the xref/frozen/locked
// flags, and before the final BS "values" field. Rather than pick one
// and fail on the others, DecodeLayer tries each candidate layout in
// turn from the same start position and scores the result the same
// way LAYER color extraction already is elsewhere in this package
// family: lower is better, and an out-of-range color index or a
// malformed RGB marker pushes the score up instead of rejecting the
// candidate outright.
type Layer struct {
	Base
	DeclaredName    string
	LayerColorIndex uint16
	TrueColor       uint32
	HasTrueColor bool
	Frozen       bool
	On           bool
	Locked       bool
}

func (l *Layer) TypeName() string { return "LAYER" }

type layerColorVariant struct {
	preFlagBits, postFlagBits, preValuesBits uint
}

var layerColorVariants = []layerColorVariant{
	{0, 0, 0},
	{2, 0, 0},
	{0, 2, 0},
	{0, 0, 2},
	{2, 2, 0},
	{2, 0, 2},
	{0, 2, 2},
	{2, 2, 2},
}

// DecodeLayer parses a LAYER body. name is the entry name already
// pulled from the string stream (R2010+) or "" to have this function
// read it off the data stream as a TV (legacy layout).
func DecodeLayer(r *bit.Reader, h header.CommonEntityHeader, name string) (*Layer, error) {
	if name == "" {
		n, err := r.ReadTV()
		if err != nil {
			return nil, err
		}
		name = n
	}

	styleStart := r.TellBits()
	type decoded = struct {
		on, frozen, locked bool
		colorIndex         uint16
		trueColor          uint32
		hasTrueColor       bool
		colorByte          int8
	}

	var best *decoded
	var bestScore uint64
	for _, v := range layerColorVariants {
		if err := r.SetBitPos(styleStart); err != nil {
			return nil, err
		}
		d, ok := tryDecodeLayerColor(r, v)
		if !ok {
			continue
		}
		score := layerColorScore(d.colorIndex, d.hasTrueColor, d.trueColor, d.colorByte)
		if best == nil || score < bestScore {
			dc := d
			best = &dc
			bestScore = score
		}
	}

	if best == nil {
		if err := r.SetBitPos(styleStart); err != nil {
			return nil, err
		}
		d, err := mustDecodeLayerColor(r, layerColorVariants[0])
		if err != nil {
			return nil, err
		}
		best = &d
	}

	return &Layer{
		Base:         BaseFrom(h),
		DeclaredName: name,
		LayerColorIndex: best.colorIndex,
		TrueColor:    best.trueColor,
		HasTrueColor: best.hasTrueColor,
		Frozen:       best.frozen,
		On:           best.on,
		Locked:       best.locked,
	}, nil
}

func tryDecodeLayerColor(r *bit.Reader, v layerColorVariant) (struct {
	on, frozen, locked bool
	colorIndex         uint16
	trueColor          uint32
	hasTrueColor       bool
	colorByte          int8
}, bool) {
	d, err := mustDecodeLayerColor(r, v)
	if err != nil {
		return d, false
	}
	return d, true
}

func mustDecodeLayerColor(r *bit.Reader, v layerColorVariant) (struct {
	on, frozen, locked bool
	colorIndex         uint16
	trueColor          uint32
	hasTrueColor       bool
	colorByte          int8
}, error) {
	var d struct {
		on, frozen, locked bool
		colorIndex         uint16
		trueColor          uint32
		hasTrueColor       bool
		colorByte          int8
	}

	if v.preFlagBits > 0 {
		if _, err := readBits(r, v.preFlagBits); err != nil {
			return d, err
		}
	}
	if _, err := r.ReadB(); err != nil { // flag_64
		return d, err
	}
	if v.postFlagBits > 0 {
		if _, err := readBits(r, v.postFlagBits); err != nil {
			return d, err
		}
	}
	if _, err := r.ReadBS(); err != nil { // xref_index_plus_one
		return d, err
	}
	if _, err := r.ReadB(); err != nil { // xdep
		return d, err
	}
	frozen, err := r.ReadB()
	if err != nil {
		return d, err
	}
	d.frozen = frozen == 1
	on, err := r.ReadB()
	if err != nil {
		return d, err
	}
	d.on = on == 1
	if _, err := r.ReadB(); err != nil { // frozen_new (duplicate indicator)
		return d, err
	}
	locked, err := r.ReadB()
	if err != nil {
		return d, err
	}
	d.locked = locked == 1
	if v.preValuesBits > 0 {
		if _, err := readBits(r, v.preValuesBits); err != nil {
			return d, err
		}
	}
	if _, err := r.ReadBS(); err != nil { // values
		return d, err
	}

	colorIndex, err := r.ReadBS()
	if err != nil {
		return d, err
	}
	d.colorIndex = colorIndex

	rgb, err := r.ReadBL()
	if err != nil {
		return d, err
	}
	colorByte, err := r.ReadRC()
	if err != nil {
		return d, err
	}
	d.colorByte = colorByte
	if colorByte&0x01 != 0 {
		if _, err := r.ReadTV(); err != nil {
			return d, err
		}
	}
	if colorByte&0x02 != 0 {
		if _, err := r.ReadTV(); err != nil {
			return d, err
		}
	}

	if rgb != 0 && (rgb>>24) != 0 {
		if tc := rgb & 0x00FFFFFF; tc != 0 {
			d.trueColor = tc
			d.hasTrueColor = true
		}
	}
	return d, nil
}

func readBits(r *bit.Reader, n uint) (uint64, error) {
	var v uint64
	for i := uint(0); i < n; i++ {
		b, err := r.ReadB()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(b)
	}
	return v, nil
}

// layerColorScore mirrors the plausibility scoring used for recovered
// LAYER color data: an out-of-range index or an ill-formed RGB marker
// costs points instead of disqualifying the candidate outright.
func layerColorScore(colorIndex uint16, hasTrueColor bool, trueColor uint32, colorByte int8) uint64 {
	var score uint64
	switch {
	case colorIndex <= 257:
	case colorIndex <= 4096:
		score += 1_000
	default:
		score += 100_000
	}
	if colorByte < 0 || colorByte > 3 {
		score += 10_000
	}
	if hasTrueColor && (trueColor == 0 || trueColor > 0x00FFFFFF) {
		score += 10_000
	}
	return score
}
