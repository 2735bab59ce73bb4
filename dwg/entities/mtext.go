package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// MText is the MTEXT entity: an insertion point, a text-direction
// vector, the bounding rectangle width, the nominal text height,
// attachment point and drawing direction codes, and the text value.
type MText struct {
	Base
	Insertion        bit.Point3
	Direction        bit.Point3
	RectWidth        float64
	Height           float64
	Attachment       uint16
	DrawingDirection uint16
	Value            string
}

func (m *MText) TypeName() string { return "MTEXT" }

func DecodeMText(r *bit.Reader, h header.CommonEntityHeader) (*MText, error) {
	insertion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	direction, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	rectWidth, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	height, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	attachment, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	drawDir, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	value, err := r.ReadTV()
	if err != nil {
		return nil, err
	}
	return &MText{
		Base:             BaseFrom(h),
		Insertion:        insertion,
		Direction:        direction,
		RectWidth:        rectWidth,
		Height:           height,
		Attachment:       attachment,
		DrawingDirection: drawDir,
		Value:            value,
	}, nil
}
