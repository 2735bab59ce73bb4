package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/internal/errors"
)

// DimCommon is the preamble every DIMENSION subtype shares (§4.7):
// extrusion, text midpoint, elevation, flags, user text, rotation,
// insert scale/rotation, and the optional attachment/line-spacing/
// measurement block R2000+ adds. DimstyleHandle and
// AnonymousBlockHandle are left zero by the decoders here, and the dwg
// Decoder does not fill them in afterwards.
type DimCommon struct {
	Base
	Extrusion           bit.Point3
	TextMidpoint         bit.Point3
	Elevation            float64
	Flags                uint8
	UserText             string
	TextRotation         float64
	HorizontalDirection  float64
	InsertScale          bit.Point3
	InsertRotation       float64
	HasAttachment        bool
	AttachmentPoint      uint16
	LineSpacingStyle     uint16
	LineSpacingFactor    float64
	ActualMeasurement    float64
	HasInsertPoint       bool
	InsertPoint          bit.Point3
	DimstyleHandle       uint64
	AnonymousBlockHandle uint64
}

// dimVariant enumerates which of the optional preamble fields a given
// file/release combination includes, mirroring the DIM_LINEAR
// recovery variant table; the same ambiguity applies to every
// DIMENSION subtype since they all share this preamble.
type dimVariant struct {
	hasAttachment  bool
	hasUnknownFlag bool
	hasFlipArrow1  bool
	hasFlipArrow2  bool
	hasPoint12     bool
}

var dimVariants = []dimVariant{
	{true, true, true, true, true},
	{true, true, true, false, true},
	{true, true, false, false, true},
	{true, false, false, false, true},
	{true, false, false, false, false},
	{false, false, false, false, false},
}

func decodeDimCommon(r *bit.Reader, h header.CommonEntityHeader, v dimVariant) (DimCommon, error) {
	var d DimCommon
	d.Base = BaseFrom(h)

	ext, err := r.Read3BD()
	if err != nil {
		return d, err
	}
	d.Extrusion = ext

	midX, err := r.ReadRD()
	if err != nil {
		return d, err
	}
	midY, err := r.ReadRD()
	if err != nil {
		return d, err
	}
	elevation, err := r.ReadBD()
	if err != nil {
		return d, err
	}
	d.Elevation = elevation
	d.TextMidpoint = bit.Point3{X: midX, Y: midY, Z: elevation}

	flags, err := r.ReadRC()
	if err != nil {
		return d, err
	}
	d.Flags = uint8(flags)

	text, err := r.ReadTV()
	if err != nil {
		return d, err
	}
	d.UserText = text

	d.TextRotation, err = r.ReadBD()
	if err != nil {
		return d, err
	}
	d.HorizontalDirection, err = r.ReadBD()
	if err != nil {
		return d, err
	}
	sx, err := r.ReadBD()
	if err != nil {
		return d, err
	}
	sy, err := r.ReadBD()
	if err != nil {
		return d, err
	}
	sz, err := r.ReadBD()
	if err != nil {
		return d, err
	}
	d.InsertScale = bit.Point3{X: sx, Y: sy, Z: sz}
	d.InsertRotation, err = r.ReadBD()
	if err != nil {
		return d, err
	}

	if v.hasAttachment {
		d.HasAttachment = true
		d.AttachmentPoint, err = r.ReadBS()
		if err != nil {
			return d, err
		}
		d.LineSpacingStyle, err = r.ReadBS()
		if err != nil {
			return d, err
		}
		d.LineSpacingFactor, err = r.ReadBD()
		if err != nil {
			return d, err
		}
		d.ActualMeasurement, err = r.ReadBD()
		if err != nil {
			return d, err
		}
	}

	if v.hasUnknownFlag {
		if _, err := r.ReadB(); err != nil {
			return d, err
		}
	}
	if v.hasFlipArrow1 {
		if _, err := r.ReadB(); err != nil {
			return d, err
		}
	}
	if v.hasFlipArrow2 {
		if _, err := r.ReadB(); err != nil {
			return d, err
		}
	}

	if v.hasPoint12 {
		x, err := r.ReadRD()
		if err != nil {
			return d, err
		}
		y, err := r.ReadRD()
		if err != nil {
			return d, err
		}
		d.HasInsertPoint = true
		d.InsertPoint = bit.Point3{X: x, Y: y, Z: elevation}
	}

	return d, nil
}

// DimLinear is the linear/rotated DIMENSION subtype, grounded directly
// on the original decoder's variant table.
type DimLinear struct {
	DimCommon
	Point13, Point14, Point10 bit.Point3
	ExtLineRotation           float64
	DimRotation               float64
}

func (d *DimLinear) TypeName() string { return "DIM_LINEAR" }

// DecodeDimLinear tries each preamble variant in turn from the same
// start position, the way the original decoder does, and returns the
// first one whose trailing fields parse cleanly.
func DecodeDimLinear(r *bit.Reader, h header.CommonEntityHeader) (*DimLinear, error) {
	start := r.TellBits()
	var lastErr error
	for _, v := range dimVariants {
		if err := r.SetBitPos(start); err != nil {
			return nil, err
		}
		dl, err := decodeDimLinearVariant(r, h, v)
		if err == nil {
			return dl, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New(errors.Decode, "failed to decode DIM_LINEAR")
	}
	return nil, lastErr
}

func decodeDimLinearVariant(r *bit.Reader, h header.CommonEntityHeader, v dimVariant) (*DimLinear, error) {
	common, err := decodeDimCommon(r, h, v)
	if err != nil {
		return nil, err
	}
	p13, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	p14, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	p10, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	extRot, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	dimRot, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	return &DimLinear{
		DimCommon:       common,
		Point13:         p13,
		Point14:         p14,
		Point10:         p10,
		ExtLineRotation: extRot,
		DimRotation:     dimRot,
	}, nil
}

// DimAligned has the same trailing layout as DIM_LINEAR minus the
// dim-line-rotation angle (an aligned dimension has no rotation
// degree of freedom beyond the extension-line direction). No
// unfiltered original reader for this subtype was available; this
// follows §4.7's "type-specific points and angles" description and
// the DIM_LINEAR layout it is a restriction of.
type DimAligned struct {
	DimCommon
	Point13, Point14, Point10 bit.Point3
	ExtLineRotation           float64
}

func (d *DimAligned) TypeName() string { return "DIM_ALIGNED" }

func DecodeDimAligned(r *bit.Reader, h header.CommonEntityHeader) (*DimAligned, error) {
	start := r.TellBits()
	var lastErr error
	for _, v := range dimVariants {
		if err := r.SetBitPos(start); err != nil {
			return nil, err
		}
		common, err := decodeDimCommon(r, h, v)
		if err != nil {
			lastErr = err
			continue
		}
		p13, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p14, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p10, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		extRot, err := r.ReadBD()
		if err != nil {
			lastErr = err
			continue
		}
		return &DimAligned{DimCommon: common, Point13: p13, Point14: p14, Point10: p10, ExtLineRotation: extRot}, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.Decode, "failed to decode DIM_ALIGNED")
	}
	return nil, lastErr
}

// DimRadius carries the circle/arc center (Point10), the leader
// endpoint (Point15) and the leader length.
type DimRadius struct {
	DimCommon
	Point10, Point15 bit.Point3
	LeaderLength     float64
}

func (d *DimRadius) TypeName() string { return "DIM_RADIUS" }

func DecodeDimRadius(r *bit.Reader, h header.CommonEntityHeader) (*DimRadius, error) {
	v, err := decodeDimCircularVariants(r, h)
	if err != nil {
		return nil, err
	}
	return &DimRadius{DimCommon: v.common, Point10: v.p10, Point15: v.p15, LeaderLength: v.length}, nil
}

// DimDiameter carries the same shape as DIM_RADIUS: center, leader
// endpoint, leader length.
type DimDiameter struct {
	DimCommon
	Point10, Point15 bit.Point3
	LeaderLength     float64
}

func (d *DimDiameter) TypeName() string { return "DIM_DIAMETER" }

func DecodeDimDiameter(r *bit.Reader, h header.CommonEntityHeader) (*DimDiameter, error) {
	var out *DimDiameter
	v, err := decodeDimCircularVariants(r, h)
	if err != nil {
		return nil, err
	}
	out = &DimDiameter{DimCommon: v.common, Point10: v.p10, Point15: v.p15, LeaderLength: v.length}
	return out, nil
}

type dimCircularResult struct {
	common DimCommon
	p10    bit.Point3
	p15    bit.Point3
	length float64
}

func decodeDimCircularVariants(r *bit.Reader, h header.CommonEntityHeader) (dimCircularResult, error) {
	start := r.TellBits()
	var lastErr error
	for _, v := range dimVariants {
		if err := r.SetBitPos(start); err != nil {
			return dimCircularResult{}, err
		}
		common, err := decodeDimCommon(r, h, v)
		if err != nil {
			lastErr = err
			continue
		}
		p10, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p15, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		length, err := r.ReadBD()
		if err != nil {
			lastErr = err
			continue
		}
		return dimCircularResult{common: common, p10: p10, p15: p15, length: length}, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.Decode, "failed to decode circular DIMENSION")
	}
	return dimCircularResult{}, lastErr
}

// DimOrdinate carries the feature-location point (Point10) and the
// leader endpoint (Point13); bit 0 of Flags (already captured in
// DimCommon) distinguishes the x-datum/y-datum variant, per §4.7.
type DimOrdinate struct {
	DimCommon
	Point10, Point13 bit.Point3
}

func (d *DimOrdinate) TypeName() string { return "DIM_ORDINATE" }

func DecodeDimOrdinate(r *bit.Reader, h header.CommonEntityHeader) (*DimOrdinate, error) {
	start := r.TellBits()
	var lastErr error
	for _, v := range dimVariants {
		if err := r.SetBitPos(start); err != nil {
			return nil, err
		}
		common, err := decodeDimCommon(r, h, v)
		if err != nil {
			lastErr = err
			continue
		}
		p10, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p13, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		return &DimOrdinate{DimCommon: common, Point10: p10, Point13: p13}, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.Decode, "failed to decode DIM_ORDINATE")
	}
	return nil, lastErr
}

// DimAngular2Line is the two-line angular dimension: the angle vertex
// (Point15), two points along each line (Point10, Point13) and the
// arc point (Point14).
type DimAngular2Line struct {
	DimCommon
	Point15, Point10, Point13, Point14 bit.Point3
}

func (d *DimAngular2Line) TypeName() string { return "DIM_ANG2LN" }

func DecodeDimAngular2Line(r *bit.Reader, h header.CommonEntityHeader) (*DimAngular2Line, error) {
	start := r.TellBits()
	var lastErr error
	for _, v := range dimVariants {
		if err := r.SetBitPos(start); err != nil {
			return nil, err
		}
		common, err := decodeDimCommon(r, h, v)
		if err != nil {
			lastErr = err
			continue
		}
		p15, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p10, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p13, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p14, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		return &DimAngular2Line{DimCommon: common, Point15: p15, Point10: p10, Point13: p13, Point14: p14}, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.Decode, "failed to decode DIM_ANG2LN")
	}
	return nil, lastErr
}

// DimAngular3Pt is the three-point angular dimension: angle vertex
// (Point10), and the two end points of the angle (Point13, Point14).
type DimAngular3Pt struct {
	DimCommon
	Point10, Point13, Point14 bit.Point3
}

func (d *DimAngular3Pt) TypeName() string { return "DIM_ANG3PT" }

func DecodeDimAngular3Pt(r *bit.Reader, h header.CommonEntityHeader) (*DimAngular3Pt, error) {
	start := r.TellBits()
	var lastErr error
	for _, v := range dimVariants {
		if err := r.SetBitPos(start); err != nil {
			return nil, err
		}
		common, err := decodeDimCommon(r, h, v)
		if err != nil {
			lastErr = err
			continue
		}
		p10, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p13, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		p14, err := r.Read3BD()
		if err != nil {
			lastErr = err
			continue
		}
		return &DimAngular3Pt{DimCommon: common, Point10: p10, Point13: p13, Point14: p14}, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.Decode, "failed to decode DIM_ANG3PT")
	}
	return nil, lastErr
}
