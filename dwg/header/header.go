// Package header implements C5: the common entity/object header shared
// by every decoded object, across the version-family variants spec §4.5
// describes. The six per-version variants spec.md enumerates collapse
// here into two concrete parse paths -- Legacy (R14/R2000) and Modern
// (R2007/R2010/R2013/R2018) -- gated internally by small version
// checks for the handful of fields that actually differ release to
// release (binary-data-secondary streams, visual-style presence);
// spec.md's six-variant framing describes the same underlying
// version-by-version deltas, just enumerated per release rather than
// grouped by which deltas apply. See DESIGN.md for the rationale.
package header

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/version"
	"github.com/dsnet/cadwg/internal/errors"
)

// Color is a CMC (color map color) value: an index plus optional
// true-color/book override.
type Color struct {
	Index       uint16
	HasTrueColor bool
	TrueColor   uint32
	HasName     bool
	Name        string
	HasBook     bool
	Book        string
}

// CommonEntityHeader is the fixed preamble every entity/object carries.
type CommonEntityHeader struct {
	Handle   uint64
	ObjSize  uint64 // absolute bit position where the handle stream begins
	BodyBits uint64 // total bits in the body (for bounds checks / recovery candidates)

	EntityMode      uint8
	NumReactors     uint32
	XdicMissing     bool
	NoLinks         bool
	DSBinaryPresent bool

	Color Color

	LtypeScale float64
	LtypeFlags uint8

	PlotstyleFlags uint8
	MaterialFlags  uint8
	Invisibility   uint16
	Lineweight     int8

	HasVisualStyle bool
}

// ParseCommon parses the common header from r, choosing the legacy or
// modern layout by v (version.IsModernFamily). The handle is always
// read from the stream; ParseCommon does not compare it with the
// handle the object map gave for this record.
func ParseCommon(r *bit.Reader, v version.Version) (CommonEntityHeader, error) {
	if version.IsModernFamily(v) {
		return parseModern(r, v)
	}
	return parseLegacy(r, v)
}

func skipEED(r *bit.Reader) error {
	for {
		n, err := r.ReadBS()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := r.ReadH(); err != nil {
			return err
		}
		for i := uint16(0); i < n; i++ {
			if _, err := r.ReadRC(); err != nil {
				return err
			}
		}
	}
}

func parseColor(r *bit.Reader) (Color, error) {
	var c Color
	idx, err := r.ReadBS()
	if err != nil {
		return c, err
	}
	c.Index = idx
	if idx&0x8000 != 0 {
		tc, err := r.ReadBL()
		if err != nil {
			return c, err
		}
		c.HasTrueColor = true
		c.TrueColor = tc
		flags, err := r.ReadRC()
		if err != nil {
			return c, err
		}
		if flags&1 != 0 {
			name, err := r.ReadTV()
			if err != nil {
				return c, err
			}
			c.HasName = true
			c.Name = name
		}
		if flags&2 != 0 {
			book, err := r.ReadTV()
			if err != nil {
				return c, err
			}
			c.HasBook = true
			c.Book = book
		}
	}
	return c, nil
}

// parseLegacy implements the R14/R2000 variant: handle, EED,
// graphic-present flag, obj_size as a raw RL bit-length, entity_mode,
// reactors, xdic/links, CMC color, ltype scale/flags, plotstyle flags,
// invisibility, lineweight.
func parseLegacy(r *bit.Reader, v version.Version) (CommonEntityHeader, error) {
	var h CommonEntityHeader
	hv, err := r.ReadH()
	if err != nil {
		return h, err
	}
	h.Handle = hv.Value

	if err := skipEED(r); err != nil {
		return h, err
	}

	graphicPresent, err := r.ReadB()
	if err != nil {
		return h, err
	}
	if graphicPresent == 1 {
		n, err := r.ReadBL()
		if err != nil {
			return h, err
		}
		for i := uint32(0); i < n; i++ {
			if _, err := r.ReadRC(); err != nil {
				return h, err
			}
		}
	}

	objSizeBits, err := r.ReadRL()
	if err != nil {
		return h, err
	}
	h.BodyBits = uint64(objSizeBits)
	// In the legacy layout obj_size is communicated relative to the
	// current position (the handle stream begins obj_size bits after
	// the data stream, which starts right here).
	dataStart := uint64(r.TellBits())

	mode, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.EntityMode = mode

	numReactors, err := r.ReadBL()
	if err != nil {
		return h, err
	}
	h.NumReactors = numReactors

	xdicMissing, err := r.ReadB()
	if err != nil {
		return h, err
	}
	h.XdicMissing = xdicMissing == 1

	noLinks, err := r.ReadB()
	if err != nil {
		return h, err
	}
	h.NoLinks = noLinks == 1

	c, err := parseColor(r)
	if err != nil {
		return h, err
	}
	h.Color = c

	ltScale, err := r.ReadBD()
	if err != nil {
		return h, err
	}
	h.LtypeScale = ltScale

	ltFlags, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.LtypeFlags = ltFlags

	psFlags, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.PlotstyleFlags = psFlags

	invis, err := r.ReadBS()
	if err != nil {
		return h, err
	}
	h.Invisibility = invis

	lw, err := r.ReadRC()
	if err != nil {
		return h, err
	}
	h.Lineweight = lw

	h.ObjSize = dataStart + uint64(objSizeBits)
	return h, nil
}

// parseModern implements the R2007+ variant: the handle moves before
// obj_size, obj_size is a bit offset relative to the body start, and
// additional flags govern secondary binary-data streams (R2013+),
// visual-style presence (R2010+).
func parseModern(r *bit.Reader, v version.Version) (CommonEntityHeader, error) {
	var h CommonEntityHeader

	hv, err := r.ReadH()
	if err != nil {
		return h, err
	}
	h.Handle = hv.Value

	objSizeBits, err := r.ReadRL()
	if err != nil {
		return h, err
	}
	h.BodyBits = uint64(objSizeBits)

	if err := skipEED(r); err != nil {
		return h, err
	}

	if v == version.R2013 || v == version.R2018 {
		dsBin, err := r.ReadB()
		if err != nil {
			return h, err
		}
		h.DSBinaryPresent = dsBin == 1
	}

	mode, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.EntityMode = mode

	hasVS, err := r.ReadB()
	if err != nil {
		return h, err
	}
	h.HasVisualStyle = version.IsR2010Plus(v) && hasVS == 1

	numReactors, err := r.ReadBL()
	if err != nil {
		return h, err
	}
	h.NumReactors = numReactors

	xdicMissing, err := r.ReadB()
	if err != nil {
		return h, err
	}
	h.XdicMissing = xdicMissing == 1

	c, err := parseColor(r)
	if err != nil {
		return h, err
	}
	h.Color = c

	ltScale, err := r.ReadBD()
	if err != nil {
		return h, err
	}
	h.LtypeScale = ltScale

	ltFlags, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.LtypeFlags = ltFlags

	plotFlags, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.PlotstyleFlags = plotFlags

	matFlags, err := r.ReadBB()
	if err != nil {
		return h, err
	}
	h.MaterialFlags = matFlags

	invis, err := r.ReadBS()
	if err != nil {
		return h, err
	}
	h.Invisibility = invis

	lw, err := r.ReadRC()
	if err != nil {
		return h, err
	}
	h.Lineweight = lw

	// obj_size is a bit offset from the start of the body (bit 0),
	// which is where this very reader started.
	h.ObjSize = uint64(objSizeBits)
	if h.ObjSize > h.BodyBits && h.BodyBits > 0 {
		return h, errors.Atf(errors.Decode, int64(h.ObjSize), "obj_size %d exceeds body length %d", h.ObjSize, h.BodyBits)
	}
	return h, nil
}

// R2010DataEndCandidates enumerates plausible end-of-data bit positions
// for R2010+ handle-stream recovery (§4.9): the canonical obj_size
// value, deltas in 8-bit steps, the body length, and obj_size-derived
// values. dwg/resolve consumes this list when the canonical obj_size
// does not yield a plausible layer/block reference.
func R2010DataEndCandidates(h CommonEntityHeader) []uint64 {
	var out []uint64
	seen := map[uint64]bool{}
	add := func(v uint64) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	add(h.ObjSize)
	for delta := int64(-128); delta <= 128; delta += 8 {
		v := int64(h.ObjSize) + delta
		if v >= 0 {
			add(uint64(v))
		}
	}
	if h.BodyBits > 0 {
		add(h.BodyBits)
	}
	return out
}
