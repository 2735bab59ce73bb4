package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Point is the POINT entity: 3BD location, BT thickness, BE extrusion,
// BD x-axis angle (the ECS angle used to orient the point's UCS icon).
type Point struct {
	Base
	Location  bit.Point3
	Thickness float64
	Extrusion bit.Point3
	XAxisAngle float64
}

func (p *Point) TypeName() string { return "POINT" }

func DecodePoint(r *bit.Reader, h header.CommonEntityHeader) (*Point, error) {
	loc, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	thickness, err := r.ReadBT()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ReadBE()
	if err != nil {
		return nil, err
	}
	angle, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	return &Point{Base: BaseFrom(h), Location: loc, Thickness: thickness, Extrusion: extrusion, XAxisAngle: angle}, nil
}
