// Package handles implements C8: the handle-stream resolver. Once a
// per-type decoder finishes the data stream, the bit reader seeks to
// obj_size and this package reads the fixed sequence of owner/reactor/
// xdic/color-book/layer/ltype/material/plotstyle/visual-style/
// type-specific handles the common header's flags gate (§4.8).
//
// Handle-stream errors are non-fatal: Parse returns whatever handles
// it managed to read plus the error that stopped it, so callers in
// best-effort mode can keep a partial Set and hand the rest to
// dwg/resolve (C9).
package handles

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Handle codes (§4.8): 2-5 absolute, 6-0xA relative to a base handle.
const (
	CodeAbsoluteMin = 0x2
	CodeAbsoluteMax = 0x5
	CodeRelativeMin = 0x6
	CodeRelativeMax = 0xA
)

// Resolve turns a raw bit.Handle into its 64-bit value given base, the
// handle the reference is relative to (by default the owning object's
// own handle).
func Resolve(h bit.Handle, base uint64) uint64 {
	switch {
	case h.Code >= CodeAbsoluteMin && h.Code <= CodeAbsoluteMax:
		return h.Value
	case h.Code == 0x6:
		return base + 1
	case h.Code == 0x8:
		return base - 1
	case h.Code == 0xA:
		return base - h.Value
	case h.Code >= CodeRelativeMin && h.Code <= CodeRelativeMax:
		return base + h.Value
	default:
		return h.Value
	}
}

// Set is every handle the stream can carry for one object.
type Set struct {
	Owner          uint64
	HasOwner       bool
	Reactors       []uint64
	Xdic           uint64
	HasXdic        bool
	ColorBook      uint64
	HasColorBook   bool
	Layer          uint64
	Ltype          uint64
	HasLtype       bool
	Material       uint64
	HasMaterial    bool
	Plotstyle      uint64
	HasPlotstyle   bool
	VisualStyle    uint64
	HasVisualStyle bool
	Trailing       []uint64 // type-specific trailing handles, in stream order
}

// Parse reads the handle stream in the fixed order §4.8 specifies,
// gated by the flags already parsed into h. base is the handle relative
// references resolve against (the object's own handle, by default).
// numTrailing bounds how many type-specific trailing handles to read
// (e.g. 2 for INSERT's block-header + seqend); errors partway through
// return the partially-filled Set alongside the error.
func Parse(r *bit.Reader, h header.CommonEntityHeader, base uint64, numTrailing int) (Set, error) {
	var s Set

	if h.EntityMode == 0 {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Owner = Resolve(raw, base)
		s.HasOwner = true
	}

	s.Reactors = make([]uint64, 0, h.NumReactors)
	for i := uint32(0); i < h.NumReactors; i++ {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Reactors = append(s.Reactors, Resolve(raw, base))
	}

	if !h.XdicMissing {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Xdic = Resolve(raw, base)
		s.HasXdic = true
	}

	if h.Color.HasBook {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.ColorBook = Resolve(raw, base)
		s.HasColorBook = true
	}

	layerRaw, err := r.ReadH()
	if err != nil {
		return s, err
	}
	s.Layer = Resolve(layerRaw, base)

	if h.LtypeFlags == 3 {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Ltype = Resolve(raw, base)
		s.HasLtype = true
	}

	if h.MaterialFlags != 0 {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Material = Resolve(raw, base)
		s.HasMaterial = true
	}

	if h.PlotstyleFlags != 0 {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Plotstyle = Resolve(raw, base)
		s.HasPlotstyle = true
	}

	if h.HasVisualStyle {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.VisualStyle = Resolve(raw, base)
		s.HasVisualStyle = true
	}

	for i := 0; i < numTrailing; i++ {
		raw, err := r.ReadH()
		if err != nil {
			return s, err
		}
		s.Trailing = append(s.Trailing, Resolve(raw, base))
	}

	return s, nil
}
