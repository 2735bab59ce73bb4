package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Line is the LINE entity (§4.7): 1-bit z-zero flag, x via RD+DD, y via
// RD+DD, conditional z via RD+DD, thickness, extrusion.
type Line struct {
	Base
	Start, End bit.Point3
	Thickness  float64
	Extrusion  bit.Point3
}

func (l *Line) TypeName() string { return "LINE" }

// DecodeLine parses a LINE body immediately following the common
// header.
func DecodeLine(r *bit.Reader, h header.CommonEntityHeader) (*Line, error) {
	zZero, err := r.ReadB()
	if err != nil {
		return nil, err
	}
	x1, err := r.ReadRD()
	if err != nil {
		return nil, err
	}
	x2, err := r.ReadDD(x1)
	if err != nil {
		return nil, err
	}
	y1, err := r.ReadRD()
	if err != nil {
		return nil, err
	}
	y2, err := r.ReadDD(y1)
	if err != nil {
		return nil, err
	}
	var z1, z2 float64
	if zZero == 0 {
		z1, err = r.ReadRD()
		if err != nil {
			return nil, err
		}
		z2, err = r.ReadDD(z1)
		if err != nil {
			return nil, err
		}
	}
	thickness, err := r.ReadBT()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ReadBE()
	if err != nil {
		return nil, err
	}
	l := &Line{
		Base:      BaseFrom(h),
		Start:     bit.Point3{X: x1, Y: y1, Z: z1},
		End:       bit.Point3{X: x2, Y: y2, Z: z2},
		Thickness: thickness,
		Extrusion: extrusion,
	}
	return l, nil
}
