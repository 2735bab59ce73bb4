package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Circle is the CIRCLE entity: 3BD center, BD radius, BT thickness, BE extrusion.
type Circle struct {
	Base
	Center    bit.Point3
	Radius    float64
	Thickness float64
	Extrusion bit.Point3
}

func (c *Circle) TypeName() string { return "CIRCLE" }

func DecodeCircle(r *bit.Reader, h header.CommonEntityHeader) (*Circle, error) {
	center, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	radius, err := r.ReadBD()
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
	return &Circle{Base: BaseFrom(h), Center: center, Radius: radius, Thickness: thickness, Extrusion: extrusion}, nil
}

// Arc is the ARC entity: a Circle body plus start/end angle.
type Arc struct {
	Circle
	StartAngle, EndAngle float64
}

func (a *Arc) TypeName() string { return "ARC" }

func DecodeArc(r *bit.Reader, h header.CommonEntityHeader) (*Arc, error) {
	c, err := DecodeCircle(r, h)
	if err != nil {
		return nil, err
	}
	start, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	end, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	return &Arc{Circle: *c, StartAngle: start, EndAngle: end}, nil
}
