package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Text data-flags bits (§1 writer subset): each bit set means the
// corresponding field is at its default and was omitted from the
// stream, mirroring the real DataFlags byte ODA-family readers use.
const (
	textFlagElevationDefault = 0x01
	textFlagNoAlignPoint     = 0x02
	textFlagObliqueDefault   = 0x04
	textFlagRotationDefault  = 0x08
)

// Text is the TEXT entity.
type Text struct {
	Base
	Insertion bit.Point3
	Extrusion bit.Point3
	Thickness float64
	Rotation  float64
	Height    float64
	Value     string
}

func (t *Text) TypeName() string { return "TEXT" }

// DecodeText reads a TEXT body laid out the way dwg/writer emits it: a
// flags byte gating elevation/rotation, then 2D insertion, extrusion,
// thickness, optional rotation, height and the text value.
func DecodeText(r *bit.Reader, h header.CommonEntityHeader) (*Text, error) {
	flags, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	var elevation float64
	if flags&textFlagElevationDefault == 0 {
		elevation, err = r.ReadRD()
		if err != nil {
			return nil, err
		}
	}
	x, err := r.ReadRD()
	if err != nil {
		return nil, err
	}
	y, err := r.ReadRD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ReadBE()
	if err != nil {
		return nil, err
	}
	thickness, err := r.ReadBT()
	if err != nil {
		return nil, err
	}
	var rotation float64
	if flags&textFlagRotationDefault == 0 {
		rotation, err = r.ReadRD()
		if err != nil {
			return nil, err
		}
	}
	height, err := r.ReadRD()
	if err != nil {
		return nil, err
	}
	value, err := r.ReadTV()
	if err != nil {
		return nil, err
	}
	return &Text{
		Base:      BaseFrom(h),
		Insertion: bit.Point3{X: x, Y: y, Z: elevation},
		Extrusion: extrusion,
		Thickness: thickness,
		Rotation:  rotation,
		Height:    height,
		Value:     value,
	}, nil
}
