package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Insert is the INSERT entity: 3BD position, 2-bit scale mode, BD
// rotation, 3BD extrusion, optional attribute chain.
type Insert struct {
	Base
	Position          bit.Point3
	Scale             bit.Point3
	Rotation          float64
	Extrusion         bit.Point3
	HasAttribs        bool
	OwnedCount        uint32 // only meaningful when HasAttribs
	BlockHeaderHandle uint64
	BlockName         string // populated by dwg/resolve / dwg/blockname, not here
}

func (i *Insert) TypeName() string { return "INSERT" }

func DecodeInsert(r *bit.Reader, h header.CommonEntityHeader) (*Insert, error) {
	pos, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	mode, err := r.ReadBB()
	if err != nil {
		return nil, err
	}
	var scale bit.Point3
	switch mode {
	case 3: // 11 -> (1,1,1)
		scale = bit.Point3{X: 1, Y: 1, Z: 1}
	case 1: // 01 -> (1, DD, DD)
		y, err := r.ReadDD(1.0)
		if err != nil {
			return nil, err
		}
		z, err := r.ReadDD(1.0)
		if err != nil {
			return nil, err
		}
		scale = bit.Point3{X: 1, Y: y, Z: z}
	case 2: // 10 -> (RD, =, =)
		x, err := r.ReadRD()
		if err != nil {
			return nil, err
		}
		scale = bit.Point3{X: x, Y: x, Z: x}
	default: // 00 -> (RD, DD, DD)
		x, err := r.ReadRD()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadDD(x)
		if err != nil {
			return nil, err
		}
		z, err := r.ReadDD(x)
		if err != nil {
			return nil, err
		}
		scale = bit.Point3{X: x, Y: y, Z: z}
	}
	rotation, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	hasAttribsBit, err := r.ReadB()
	if err != nil {
		return nil, err
	}
	ins := &Insert{
		Base:       BaseFrom(h),
		Position:   pos,
		Scale:      scale,
		Rotation:   rotation,
		Extrusion:  extrusion,
		HasAttribs: hasAttribsBit == 1,
	}
	if ins.HasAttribs {
		count, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		ins.OwnedCount = count
	}
	return ins, nil
}
