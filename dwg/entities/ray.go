package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Ray is the RAY entity: a start point and an infinite unit direction.
type Ray struct {
	Base
	Start       bit.Point3
	UnitVector  bit.Point3
}

func (r *Ray) TypeName() string { return "RAY" }

func DecodeRay(r2 *bit.Reader, h header.CommonEntityHeader) (*Ray, error) {
	start, err := r2.Read3BD()
	if err != nil {
		return nil, err
	}
	dir, err := r2.Read3BD()
	if err != nil {
		return nil, err
	}
	return &Ray{Base: BaseFrom(h), Start: start, UnitVector: dir}, nil
}

// XLine is the XLINE entity, encoded identically to RAY (an
// unbounded two-point line rather than a half-bounded one).
type XLine struct {
	Base
	Start      bit.Point3
	UnitVector bit.Point3
}

func (x *XLine) TypeName() string { return "XLINE" }

func DecodeXLine(r *bit.Reader, h header.CommonEntityHeader) (*XLine, error) {
	start, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	dir, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	return &XLine{Base: BaseFrom(h), Start: start, UnitVector: dir}, nil
}
