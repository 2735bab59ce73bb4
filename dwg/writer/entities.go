package writer

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/classes"
	"github.com/dsnet/cadwg/internal/errors"
)

func typeCode(name string) uint16 {
	code, ok := classes.CodeForName(name)
	if !ok {
		panic("writer: no fixed type code for " + name) // programmer error: name is a package constant below
	}
	return uint16(code)
}

// LineInput is the writer-side geometry for a LINE entity, grounded on
// dwg/entities.DecodeLine's field order (read in reverse to encode).
type LineInput struct {
	Common
	Start, End bit.Point3
	Thickness  float64
	Extrusion  bit.Point3
}

// EncodeLine returns a framed LINE object record.
func EncodeLine(in LineInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("LINE"), in.Common, func(w *bit.Writer) error {
		zZero := uint8(0)
		if in.Start.Z == 0 && in.End.Z == 0 {
			zZero = 1
		}
		w.WriteB(zZero)
		w.WriteRD(in.Start.X)
		w.WriteDD(in.End.X, in.Start.X)
		w.WriteRD(in.Start.Y)
		w.WriteDD(in.End.Y, in.Start.Y)
		if zZero == 0 {
			w.WriteRD(in.Start.Z)
			w.WriteDD(in.End.Z, in.Start.Z)
		}
		w.WriteBT(in.Thickness)
		w.WriteBE(in.Extrusion)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// CircleInput is the writer-side geometry for a CIRCLE entity.
type CircleInput struct {
	Common
	Center    bit.Point3
	Radius    float64
	Thickness float64
	Extrusion bit.Point3
}

func writeCircleBody(w *bit.Writer, center bit.Point3, radius, thickness float64, extrusion bit.Point3) {
	w.Write3BD(center)
	w.WriteBD(radius)
	w.WriteBT(thickness)
	w.WriteBE(extrusion)
}

// EncodeCircle returns a framed CIRCLE object record.
func EncodeCircle(in CircleInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("CIRCLE"), in.Common, func(w *bit.Writer) error {
		writeCircleBody(w, in.Center, in.Radius, in.Thickness, in.Extrusion)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// ArcInput is the writer-side geometry for an ARC entity: a Circle
// body plus start/end angle, mirroring dwg/entities.Arc's embedding.
type ArcInput struct {
	Common
	Center               bit.Point3
	Radius               float64
	Thickness            float64
	Extrusion            bit.Point3
	StartAngle, EndAngle float64
}

// EncodeArc returns a framed ARC object record.
func EncodeArc(in ArcInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("ARC"), in.Common, func(w *bit.Writer) error {
		writeCircleBody(w, in.Center, in.Radius, in.Thickness, in.Extrusion)
		w.WriteBD(in.StartAngle)
		w.WriteBD(in.EndAngle)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// PointInput is the writer-side geometry for a POINT entity.
type PointInput struct {
	Common
	Location   bit.Point3
	Thickness  float64
	Extrusion  bit.Point3
	XAxisAngle float64
}

// EncodePoint returns a framed POINT object record.
func EncodePoint(in PointInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("POINT"), in.Common, func(w *bit.Writer) error {
		w.Write3BD(in.Location)
		w.WriteBT(in.Thickness)
		w.WriteBE(in.Extrusion)
		w.WriteBD(in.XAxisAngle)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// RayInput is the writer-side geometry for a RAY entity.
type RayInput struct {
	Common
	Start, UnitVector bit.Point3
}

// EncodeRay returns a framed RAY object record.
func EncodeRay(in RayInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("RAY"), in.Common, func(w *bit.Writer) error {
		w.Write3BD(in.Start)
		w.Write3BD(in.UnitVector)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// XLineInput is the writer-side geometry for an XLINE entity, encoded
// identically to RAY.
type XLineInput struct {
	Common
	Start, UnitVector bit.Point3
}

// EncodeXLine returns a framed XLINE object record.
func EncodeXLine(in XLineInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("XLINE"), in.Common, func(w *bit.Writer) error {
		w.Write3BD(in.Start)
		w.Write3BD(in.UnitVector)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// TextInput is the writer-side geometry for a TEXT entity. The writer
// always emits elevation and rotation explicitly (data flags 0), the
// narrow canonical layout dwg/entities.DecodeText's doc comment
// describes as "the way dwg/writer emits it".
type TextInput struct {
	Common
	Insertion bit.Point3
	Extrusion bit.Point3
	Thickness float64
	Rotation  float64
	Height    float64
	Value     string
}

// EncodeText returns a framed TEXT object record.
func EncodeText(in TextInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("TEXT"), in.Common, func(w *bit.Writer) error {
		w.WriteRC(0) // data flags: elevation and rotation both present
		w.WriteRD(in.Insertion.Z)
		w.WriteRD(in.Insertion.X)
		w.WriteRD(in.Insertion.Y)
		w.WriteBE(in.Extrusion)
		w.WriteBT(in.Thickness)
		w.WriteRD(in.Rotation)
		w.WriteRD(in.Height)
		return w.WriteTV(in.Value)
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// MTextInput is the writer-side geometry for an MTEXT entity.
type MTextInput struct {
	Common
	Insertion        bit.Point3
	Direction        bit.Point3
	RectWidth        float64
	Height           float64
	Attachment       uint16
	DrawingDirection uint16
	Value            string
}

// EncodeMText returns a framed MTEXT object record.
func EncodeMText(in MTextInput) ([]byte, error) {
	body, err := assembleEntityRecord(typeCode("MTEXT"), in.Common, func(w *bit.Writer) error {
		w.Write3BD(in.Insertion)
		w.Write3BD(in.Direction)
		w.WriteBD(in.RectWidth)
		w.WriteBD(in.Height)
		w.WriteBS(in.Attachment)
		w.WriteBS(in.DrawingDirection)
		return w.WriteTV(in.Value)
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}

// LwPolylineInput is the writer-side geometry for an LWPOLYLINE
// entity. Vertices are written in the R2000+ first-absolute/rest-
// relative encoding dwg/entities.DecodeLwPolyline's r14VertexMode=false
// path expects.
type LwPolylineInput struct {
	Common
	Closed     bool
	Normal     bit.Point3
	ConstWidth *float64
	Vertices   []struct{ X, Y float64 }
	Bulges     []float64
	Widths     []struct{ Start, End float64 }
}

const (
	lwFlagClosed     = 0x01
	lwFlagConstWidth = 0x04
	lwFlagHasBulges  = 0x10
	lwFlagHasWidths  = 0x20
)

// EncodeLwPolyline returns a framed LWPOLYLINE object record.
func EncodeLwPolyline(in LwPolylineInput) ([]byte, error) {
	if len(in.Bulges) > 0 && len(in.Bulges) != len(in.Vertices) {
		return nil, errors.Newf(errors.Format, "lwpolyline bulge count %d != vertex count %d", len(in.Bulges), len(in.Vertices))
	}
	if len(in.Widths) > 0 && len(in.Widths) != len(in.Vertices) {
		return nil, errors.Newf(errors.Format, "lwpolyline width count %d != vertex count %d", len(in.Widths), len(in.Vertices))
	}

	var flags uint16
	if in.Closed {
		flags |= lwFlagClosed
	}
	if in.ConstWidth != nil {
		flags |= lwFlagConstWidth
	}
	if len(in.Bulges) > 0 {
		flags |= lwFlagHasBulges
	}
	if len(in.Widths) > 0 {
		flags |= lwFlagHasWidths
	}

	body, err := assembleEntityRecord(typeCode("LWPOLYLINE"), in.Common, func(w *bit.Writer) error {
		w.WriteBS(flags)
		if in.ConstWidth != nil {
			w.WriteBD(*in.ConstWidth)
		}
		if in.Closed {
			w.Write3BD(in.Normal)
		}
		w.WriteBL(uint32(len(in.Vertices)))
		if len(in.Bulges) > 0 {
			w.WriteBL(uint32(len(in.Bulges)))
		}
		if len(in.Widths) > 0 {
			w.WriteBL(uint32(len(in.Widths)))
		}
		for i, v := range in.Vertices {
			if i == 0 {
				w.WriteRD(v.X)
				w.WriteRD(v.Y)
				continue
			}
			prev := in.Vertices[i-1]
			w.WriteDD(v.X, prev.X)
			w.WriteDD(v.Y, prev.Y)
		}
		for _, b := range in.Bulges {
			w.WriteBD(b)
		}
		for _, wd := range in.Widths {
			w.WriteBD(wd.Start)
			w.WriteBD(wd.End)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodeRecord(body), nil
}
