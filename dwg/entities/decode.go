// decode.go implements C6/C7's dispatch: given a resolved type name, a
// version, and a bit reader positioned just past the common header,
// call the matching per-type decoder. R2010+ streams prefix the body
// with the type code a second time (once bit-packed, once in the
// class index); Decode accounts for that by trying the decodeFunc both
// with and without that prefix consumed, per §4.7.
package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/dwg/version"
	"github.com/dsnet/cadwg/internal/errors"
)

// decodeFunc is the shape every per-type decoder conforms to.
type decodeFunc func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error)

var registry = map[string]decodeFunc{
	"LINE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeLine(r, h)
	},
	"CIRCLE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeCircle(r, h)
	},
	"ARC": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeArc(r, h)
	},
	"INSERT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeInsert(r, h)
	},
	"LWPOLYLINE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeLwPolyline(r, h, false)
	},
	"POINT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodePoint(r, h)
	},
	"RAY": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeRay(r, h)
	},
	"XLINE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeXLine(r, h)
	},
	"TEXT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeText(r, h)
	},
	"MTEXT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeMText(r, h)
	},
	// BLOCK_HEADER/LAYER take their entry name from the string stream on
	// R2010+; that stream lives outside this package's view of a single
	// object's data bits, so the registry always has these decoders read
	// the name off the data stream (the legacy path). DeclaredName is
	// always that data-stream value; nothing replaces it with a
	// string-stream read.
	"BLOCK_HEADER": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeBlockHeader(r, h, "")
	},
	"LAYER": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeLayer(r, h, "")
	},
	"DIMENSION_LINEAR": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimLinear(r, h)
	},
	"DIMENSION_ALIGNED": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimAligned(r, h)
	},
	"DIMENSION_RADIUS": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimRadius(r, h)
	},
	"DIMENSION_DIAMETER": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimDiameter(r, h)
	},
	"DIMENSION_ORDINATE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimOrdinate(r, h)
	},
	"DIMENSION_ANG2LN": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimAngular2Line(r, h)
	},
	"DIMENSION_ANG3PT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeDimAngular3Pt(r, h)
	},
	"ELLIPSE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeEllipse(r, h)
	},
	"SOLID3D": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeSolid(r, h)
	},
	"TRACE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeTrace(r, h)
	},
	"FACE3D": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeFace3D(r, h)
	},
	"SHAPE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeShape(r, h)
	},
	"TOLERANCE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeTolerance(r, h)
	},
	"POLYLINE_3D": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodePolyline3D(r, h)
	},
	"POLYLINE_MESH": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodePolylineMesh(r, h)
	},
	"VERTEX_PFACE_FACE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeVertexPFaceFace(r, h)
	},
	"MLINE": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeMLine(r, h)
	},
	"OLEFRAME": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeOleFrame(r, h)
	},
	"LONG_TRANSACTION": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeLongTransaction(r, h)
	},
	"BODY": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeBody(r, h)
	},
	"VIEWPORT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeViewport(r, h)
	},
	"VERTEX_2D": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeVertex2D(r, h)
	},
	"VERTEX_3D": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeVertex3D(r, h)
	},
	"SEQEND": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeSeqEnd(r, h)
	},
	"BLOCK": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeBlock(r, h, "")
	},
	"ENDBLK": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeEndBlk(r, h)
	},
	"POLYLINE_2D": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodePolyline2D(r, h)
	},
	"MINSERT": func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		return DecodeMInsert(r, h)
	},
}

// HasDecoder reports whether name has a registered per-type decoder.
func HasDecoder(name string) bool {
	_, ok := registry[name]
	return ok
}

// carriesTypePrefix reports whether v repeats the type code as a
// bit-packed prefix immediately before the body (§4.7 point 1).
func carriesTypePrefix(v version.Version) bool {
	return version.IsR2010Plus(v)
}

// Decode dispatches to the registered decoder for typeName, or
// produces a Dynamic fallback carrying typeCode/typeName when no
// decoder is registered. bodyStart is the bit position the data
// stream begins at (just after the common header), used to rewind
// between the two best-effort parse attempts.
func Decode(r *bit.Reader, v version.Version, typeCode uint16, typeName string, h header.CommonEntityHeader) (Entity, error) {
	fn, ok := registry[typeName]
	if !ok {
		return &Dynamic{Base: BaseFrom(h), TypeCode: typeCode, Name: typeName}, nil
	}

	bodyStart := r.TellBits()
	if !carriesTypePrefix(v) {
		return fn(r, h)
	}

	// Attempt 1: assume the 2-bit prefix was already consumed by the
	// caller's common-header parse (the usual case); attempt 2: assume
	// it wasn't, and skip two bits before decoding.
	if e, err := fn(r, h); err == nil {
		return e, nil
	}
	r.SetBitPos(bodyStart)
	if _, err := r.ReadBB(); err != nil {
		return nil, err
	}
	e, err := fn(r, h)
	if err != nil {
		return nil, errors.Atf(errors.Decode, bodyStart, "both prefix attempts failed for %s: %v", typeName, err)
	}
	return e, nil
}
