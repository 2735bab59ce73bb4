// structural.go decodes the polyline/vertex scaffolding types:
// VERTEX_2D and VERTEX_3D (the point records a POLYLINE's owned-object
// chain points at), SEQEND (the chain terminator), MINSERT (INSERT's
// rectangular-array cousin), BLOCK/ENDBLK (the pair of markers a
// BLOCK_HEADER's block owns) and POLYLINE_2D. None of these carry a
// handle-stream-resolved name or layer beyond what the common header
// already gives dwg/handles, so — like BLOCK_HEADER/LAYER — they are
// grounded on the corresponding original_source/src/entities/*.rs
// file where one exists, and on the common-header-only pattern used
// for OLEFRAME/BODY/VIEWPORT where it doesn't (SEQEND, BLOCK, ENDBLK).
package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// Vertex2D is the VERTEX_2D entity owned by a POLYLINE_2D: flags are
// a plain RS (not bit-pair-coded, unlike most entity flag fields), a
// 3BD position, and a start/end-width pair collapsed into one BD when
// they're equal (start_width's sign bit signals that, per the
// original decoder).
type Vertex2D struct {
	Base
	Flags      uint16
	Position   bit.Point3
	StartWidth float64
	EndWidth   float64
	Bulge      float64
	TangentDir float64
}

func (v *Vertex2D) TypeName() string { return "VERTEX_2D" }

func DecodeVertex2D(r *bit.Reader, h header.CommonEntityHeader) (*Vertex2D, error) {
	flags, err := r.ReadRS()
	if err != nil {
		return nil, err
	}
	pos, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	startWidth, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	endWidth := startWidth
	if startWidth < 0 {
		startWidth = -startWidth
		endWidth = startWidth
	} else {
		endWidth, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	bulge, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	tangent, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	return &Vertex2D{
		Base:       BaseFrom(h),
		Flags:      flags,
		Position:   pos,
		StartWidth: startWidth,
		EndWidth:   endWidth,
		Bulge:      bulge,
		TangentDir: tangent,
	}, nil
}

// Vertex3D is the VERTEX_3D entity owned by POLYLINE_3D/POLYLINE_MESH:
// an RC flag byte and a 3BD position, nothing else.
type Vertex3D struct {
	Base
	Flags    uint8
	Position bit.Point3
}

func (v *Vertex3D) TypeName() string { return "VERTEX_3D" }

func DecodeVertex3D(r *bit.Reader, h header.CommonEntityHeader) (*Vertex3D, error) {
	flags, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	pos, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	return &Vertex3D{Base: BaseFrom(h), Flags: uint8(flags), Position: pos}, nil
}

// SeqEnd terminates a POLYLINE/INSERT owned-object chain. It has no
// type-specific data fields; the common header is all there is.
type SeqEnd struct{ Base }

func (s *SeqEnd) TypeName() string { return "SEQEND" }

func DecodeSeqEnd(_ *bit.Reader, h header.CommonEntityHeader) (*SeqEnd, error) {
	return &SeqEnd{Base: BaseFrom(h)}, nil
}

// Block is the BLOCK entity a BLOCK_HEADER owns as its first child;
// its only type-specific field is the block's own name, which on
// legacy files duplicates the BLOCK_HEADER's. Like BLOCK_HEADER, the
// R2010+ name lives in the string stream and is supplied by the
// caller; "" means read it off the data stream instead.
type Block struct {
	Base
	DeclaredName string
}

func (b *Block) TypeName() string { return "BLOCK" }

func DecodeBlock(r *bit.Reader, h header.CommonEntityHeader, name string) (*Block, error) {
	if name != "" {
		return &Block{Base: BaseFrom(h), DeclaredName: name}, nil
	}
	n, err := r.ReadTV()
	if err != nil {
		return nil, err
	}
	return &Block{Base: BaseFrom(h), DeclaredName: n}, nil
}

// EndBlk closes a BLOCK_HEADER's owned-object chain, mirroring SEQEND.
type EndBlk struct{ Base }

func (e *EndBlk) TypeName() string { return "ENDBLK" }

func DecodeEndBlk(_ *bit.Reader, h header.CommonEntityHeader) (*EndBlk, error) {
	return &EndBlk{Base: BaseFrom(h)}, nil
}

// Polyline2D is the POLYLINE_2D entity: a BS curve/smooth-surface
// type, start/end width, thickness, an extrusion and an owned-vertex
// count.
type Polyline2D struct {
	Base
	Flags      uint16
	CurveType  uint16
	StartWidth float64
	EndWidth   float64
	Thickness  float64
	Extrusion  bit.Point3
	OwnedCount uint32
}

func (p *Polyline2D) TypeName() string { return "POLYLINE_2D" }

func DecodePolyline2D(r *bit.Reader, h header.CommonEntityHeader) (*Polyline2D, error) {
	flags, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	curveType, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	startWidth, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	endWidth, err := r.ReadBD()
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
	count, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	return &Polyline2D{
		Base:       BaseFrom(h),
		Flags:      flags,
		CurveType:  curveType,
		StartWidth: startWidth,
		EndWidth:   endWidth,
		Thickness:  thickness,
		Extrusion:  extrusion,
		OwnedCount: count,
	}, nil
}

// MInsert is INSERT's rectangular-array cousin: same position/scale/
// rotation/extrusion/attribute-chain shape, plus a row/column count
// and spacing. The block-header handle and attribute chain live in
// the handle stream, same deferral as Insert.
type MInsert struct {
	Base
	Position          bit.Point3
	Scale             bit.Point3
	Rotation          float64
	Extrusion         bit.Point3
	HasAttribs        bool
	OwnedCount        uint32
	NumColumns        uint16
	NumRows           uint16
	ColumnSpacing     float64
	RowSpacing        float64
	BlockHeaderHandle uint64
	BlockName         string
}

func (m *MInsert) TypeName() string { return "MINSERT" }

func DecodeMInsert(r *bit.Reader, h header.CommonEntityHeader) (*MInsert, error) {
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
	case 3:
		scale = bit.Point3{X: 1, Y: 1, Z: 1}
	case 1:
		y, err := r.ReadDD(1.0)
		if err != nil {
			return nil, err
		}
		z, err := r.ReadDD(1.0)
		if err != nil {
			return nil, err
		}
		scale = bit.Point3{X: 1, Y: y, Z: z}
	case 2:
		x, err := r.ReadRD()
		if err != nil {
			return nil, err
		}
		scale = bit.Point3{X: x, Y: x, Z: x}
	default:
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
	mi := &MInsert{
		Base:       BaseFrom(h),
		Position:   pos,
		Scale:      scale,
		Rotation:   rotation,
		Extrusion:  extrusion,
		HasAttribs: hasAttribsBit == 1,
	}
	if mi.HasAttribs {
		count, err := r.ReadBL()
		if err != nil {
			return nil, err
		}
		mi.OwnedCount = count
	}
	numColumns, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	numRows, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	columnSpacing, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	rowSpacing, err := r.ReadBD()
	if err != nil {
		return nil, err
	}
	mi.NumColumns = numColumns
	mi.NumRows = numRows
	mi.ColumnSpacing = columnSpacing
	mi.RowSpacing = rowSpacing
	return mi, nil
}
