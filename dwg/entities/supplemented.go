// supplemented.go rounds out C7 with the additional fixed-code
// variants original_source/src/entities/{ellipse,solid,trace,shape,
// tolerance,polyline_3d,polyline_mesh,vertex_pface_face,face3d,
// oleframe,long_transaction,mline,body,viewport}.rs carry that
// spec.md's distillation didn't call out by name (§4.7 "representative
// bodies" scope, supplemented per SPEC_FULL.md §12). Each decoder
// reads only the geometry/scalar fields the original struct
// enumerates; any field the original reads as an inline body handle
// (shapefile_handle, dimstyle_handle, mlinestyle_handle, acis_handles,
// ...) is left to the common handle-stream pass (dwg/handles) via
// trailing handles instead of being re-read here a second time,
// keeping every type on the same common-header/handle-stream
// machinery the rest of this package uses.
package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Ellipse is the ELLIPSE entity.
type Ellipse struct {
	Base
	Center, MajorAxis, Extrusion     bit.Point3
	AxisRatio, StartAngle, EndAngle  float64
}

func (e *Ellipse) TypeName() string { return "ELLIPSE" }

func DecodeEllipse(r *bit.Reader, h header.CommonEntityHeader) (*Ellipse, error) {
	center, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	major, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	ratio, err := r.ReadBD()
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
	return &Ellipse{Base: BaseFrom(h), Center: center, MajorAxis: major, Extrusion: extrusion, AxisRatio: ratio, StartAngle: start, EndAngle: end}, nil
}

// read4Points reads the shared SOLID/TRACE/3DFACE shape: four 3D points.
func read4Points(r *bit.Reader) (p1, p2, p3, p4 bit.Point3, err error) {
	if p1, err = r.Read3BD(); err != nil {
		return
	}
	if p2, err = r.Read3BD(); err != nil {
		return
	}
	if p3, err = r.Read3BD(); err != nil {
		return
	}
	p4, err = r.Read3BD()
	return
}

// Solid is the SOLID entity: four corner points, thickness, extrusion.
type Solid struct {
	Base
	P1, P2, P3, P4 bit.Point3
	Thickness      float64
	Extrusion      bit.Point3
}

func (s *Solid) TypeName() string { return "SOLID3D" }

func DecodeSolid(r *bit.Reader, h header.CommonEntityHeader) (*Solid, error) {
	p1, p2, p3, p4, err := read4Points(r)
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
	return &Solid{Base: BaseFrom(h), P1: p1, P2: p2, P3: p3, P4: p4, Thickness: thickness, Extrusion: extrusion}, nil
}

// Trace is encoded identically to Solid (§ same four-corner shape).
type Trace struct {
	Base
	P1, P2, P3, P4 bit.Point3
	Thickness      float64
	Extrusion      bit.Point3
}

func (t *Trace) TypeName() string { return "TRACE" }

func DecodeTrace(r *bit.Reader, h header.CommonEntityHeader) (*Trace, error) {
	p1, p2, p3, p4, err := read4Points(r)
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
	return &Trace{Base: BaseFrom(h), P1: p1, P2: p2, P3: p3, P4: p4, Thickness: thickness, Extrusion: extrusion}, nil
}

// Face3D is the 3DFACE entity: four corner points plus an invisible-
// edge bitmask.
type Face3D struct {
	Base
	P1, P2, P3, P4      bit.Point3
	InvisibleEdgeFlags  uint16
}

func (f *Face3D) TypeName() string { return "FACE3D" }

func DecodeFace3D(r *bit.Reader, h header.CommonEntityHeader) (*Face3D, error) {
	p1, p2, p3, p4, err := read4Points(r)
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	return &Face3D{Base: BaseFrom(h), P1: p1, P2: p2, P3: p3, P4: p4, InvisibleEdgeFlags: flags}, nil
}

// Shape is the SHAPE entity: an insertion point plus scale/rotation/
// width/oblique scalars and a shape-definition index. ShapefileHandle
// is left for the handle-stream pass.
type Shape struct {
	Base
	Insertion                       bit.Point3
	Scale, Rotation, WidthFactor     float64
	Oblique, Thickness               float64
	ShapeNo                          uint16
	Extrusion                        bit.Point3
}

func (s *Shape) TypeName() string { return "SHAPE" }

func DecodeShape(r *bit.Reader, h header.CommonEntityHeader) (*Shape, error) {
	insertion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	scale, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	rotation, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	width, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	oblique, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	thickness, err := r.ReadBT()
	if err != nil {
		return nil, err
	}
	shapeNo, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ReadBE()
	if err != nil {
		return nil, err
	}
	return &Shape{Base: BaseFrom(h), Insertion: insertion, Scale: scale, Rotation: rotation,
		WidthFactor: width, Oblique: oblique, Thickness: thickness, ShapeNo: shapeNo, Extrusion: extrusion}, nil
}

// Tolerance is the TOLERANCE entity: a text value plus placement.
// DimstyleHandle is left for the handle-stream pass.
type Tolerance struct {
	Base
	Text                          string
	Insertion, XDirection, Extrusion bit.Point3
	Height, DimGap                 float64
}

func (t *Tolerance) TypeName() string { return "TOLERANCE" }

func DecodeTolerance(r *bit.Reader, h header.CommonEntityHeader) (*Tolerance, error) {
	text, err := r.ReadTV()
	if err != nil {
		return nil, err
	}
	insertion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	xdir, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	height, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	dimgap, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	return &Tolerance{Base: BaseFrom(h), Text: text, Insertion: insertion, XDirection: xdir,
		Extrusion: extrusion, Height: height, DimGap: dimgap}, nil
}

// Polyline3D is the POLYLINE_3D entity: two flag bytes plus the owned-
// vertex count (the vertices themselves are separate VERTEX_3D
// objects chained by handle, not inlined here).
type Polyline3D struct {
	Base
	Flags75, Flags70 uint8
	OwnedCount       uint32
}

func (p *Polyline3D) TypeName() string { return "POLYLINE_3D" }

func DecodePolyline3D(r *bit.Reader, h header.CommonEntityHeader) (*Polyline3D, error) {
	f75, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	f70, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	return &Polyline3D{Base: BaseFrom(h), Flags75: uint8(f75), Flags70: uint8(f70), OwnedCount: count}, nil
}

// PolylineMesh is the POLYLINE_MESH entity: an M x N control mesh
// descriptor, vertices chained by handle as with Polyline3D.
type PolylineMesh struct {
	Base
	Flags, CurveType                uint16
	MVertexCount, NVertexCount       uint16
	MDensity, NDensity               uint16
	OwnedCount                       uint32
}

func (p *PolylineMesh) TypeName() string { return "POLYLINE_MESH" }

func DecodePolylineMesh(r *bit.Reader, h header.CommonEntityHeader) (*PolylineMesh, error) {
	flags, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	curveType, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	mCount, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	nCount, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	mDensity, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	nDensity, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	owned, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	return &PolylineMesh{Base: BaseFrom(h), Flags: flags, CurveType: curveType,
		MVertexCount: mCount, NVertexCount: nCount, MDensity: mDensity, NDensity: nDensity, OwnedCount: owned}, nil
}

// VertexPFaceFace is the VERTEX_PFACE_FACE entity: four 1-based vertex
// indices into the owning polyline's vertex list (0 = unused corner).
type VertexPFaceFace struct {
	Base
	Index1, Index2, Index3, Index4 uint16
}

func (v *VertexPFaceFace) TypeName() string { return "VERTEX_PFACE_FACE" }

func DecodeVertexPFaceFace(r *bit.Reader, h header.CommonEntityHeader) (*VertexPFaceFace, error) {
	i1, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	i2, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	i3, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	i4, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	return &VertexPFaceFace{Base: BaseFrom(h), Index1: i1, Index2: i2, Index3: i3, Index4: i4}, nil
}

// MLine is the MLINE entity: style scale/justification/placement plus
// a vertex count (vertices are a variable-length run the original
// reads inline; here only the count is captured, matching this
// package's "representative body" treatment of other multi-vertex
// types). MlinestyleHandle is left for the handle-stream pass.
type MLine struct {
	Base
	Scale                     float64
	Justification             uint8
	BasePoint, Extrusion      bit.Point3
	OpenClosed                uint16
	LinesInStyle              uint8
	VertexCount               uint32
}

func (m *MLine) TypeName() string { return "MLINE" }

func DecodeMLine(r *bit.Reader, h header.CommonEntityHeader) (*MLine, error) {
	scale, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	justificationRaw, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	justification := uint8(justificationRaw)
	base, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	openClosed, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	linesInStyleRaw, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	linesInStyle := uint8(linesInStyleRaw)
	vertexCount, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	return &MLine{Base: BaseFrom(h), Scale: scale, Justification: justification, BasePoint: base,
		Extrusion: extrusion, OpenClosed: openClosed, LinesInStyle: linesInStyle, VertexCount: vertexCount}, nil
}

// OleFrame, LongTransaction, Body and Viewport carry no type-specific
// data fields in the original's minimal-body form beyond the common
// header and a set of handle-stream references (acis/xdic/reactor
// handles); they exist here so object-map walks over files containing
// them dispatch to a known variant instead of falling back to Dynamic.

type OleFrame struct{ Base }

func (o *OleFrame) TypeName() string { return "OLEFRAME" }

func DecodeOleFrame(_ *bit.Reader, h header.CommonEntityHeader) (*OleFrame, error) {
	return &OleFrame{Base: BaseFrom(h)}, nil
}

type LongTransaction struct{ Base }

func (l *LongTransaction) TypeName() string { return "LONG_TRANSACTION" }

func DecodeLongTransaction(_ *bit.Reader, h header.CommonEntityHeader) (*LongTransaction, error) {
	return &LongTransaction{Base: BaseFrom(h)}, nil
}

type Body struct{ Base }

func (b *Body) TypeName() string { return "BODY" }

func DecodeBody(_ *bit.Reader, h header.CommonEntityHeader) (*Body, error) {
	return &Body{Base: BaseFrom(h)}, nil
}

type Viewport struct{ Base }

func (v *Viewport) TypeName() string { return "VIEWPORT" }

func DecodeViewport(_ *bit.Reader, h header.CommonEntityHeader) (*Viewport, error) {
	return &Viewport{Base: BaseFrom(h)}, nil
}
