// Package classes implements C6: mapping a raw type code to a type
// name, through the fixed code table for codes below 0x1F0 and the
// per-file dynamic class table for codes at or above it.
package classes

// TypeCode is a raw entity/object type code as it appears in an object
// record, before any name resolution.
type TypeCode uint16

// DynamicThreshold is the boundary below which type codes are fixed
// and above which they're looked up in a per-file dynamic class table.
const DynamicThreshold TypeCode = 0x1F0

// fixedCodes is the canonical code -> name table for codes below
// DynamicThreshold (§4.6). Not exhaustive of the full DWG object
// catalog, but covers every type dwg/entities has a decoder for plus
// the handful of structural codes (BLOCK/ENDBLK/SEQEND) the name
// resolver depends on.
var fixedCodes = map[TypeCode]string{
	0x01: "TEXT",
	0x03: "ATTRIB",
	0x04: "BLOCK",
	0x05: "ENDBLK",
	0x06: "SEQEND",
	0x07: "INSERT",
	0x08: "MINSERT",
	0x0A: "VERTEX_2D",
	0x0B: "VERTEX_3D",
	0x0F: "CIRCLE",
	0x10: "ARC",
	0x11: "TRACE",
	0x12: "SHAPE",
	0x13: "VIEWPORT",
	0x14: "ELLIPSE",
	0x15: "SPLINE",
	0x16: "REGION",
	0x17: "SOLID3D",
	0x1A: "RAY",
	0x1B: "XLINE",
	0x1F: "MTEXT",
	0x20: "LEADER",
	0x21: "TOLERANCE",
	0x22: "MLINE",
	0x23: "BLOCK_CONTROL",
	0x25: "LAYER_CONTROL",
	0x27: "STYLE_CONTROL",
	0x28: "STYLE",
	0x2C: "LTYPE_CONTROL",
	0x2D: "LTYPE",
	0x2E: "UCS",
	0x2F: "VIEW_CONTROL",
	0x30: "VIEW",
	0x31: "BLOCK_HEADER",
	0x32: "UCS_CONTROL",
	0x33: "LAYER",
	0x34: "VPORT_CONTROL",
	0x35: "VPORT",
	0x36: "APPID_CONTROL",
	0x37: "APPID",
	0x38: "DIMSTYLE_CONTROL",
	0x39: "DIMSTYLE",
	0x3A: "VP_ENT_HDR_CTRL",
	0x3B: "VP_ENT_HDR",
	0x3E: "LINE",
	0x40: "DIMENSION_ORDINATE",
	0x41: "DIMENSION_LINEAR",
	0x42: "DIMENSION_ALIGNED",
	0x43: "DIMENSION_ANG3PT",
	0x44: "DIMENSION_ANG2LN",
	0x45: "DIMENSION_RADIUS",
	0x46: "DIMENSION_DIAMETER",
	0x47: "POINT",
	0x4D: "LWPOLYLINE",
	0x5A: "POLYLINE_2D",
	0x5B: "POLYLINE_3D",
	0x5C: "POLYLINE_MESH",
	0x5D: "POLYLINE_PFACE",
	0x5E: "VERTEX_PFACE_FACE",
	0x5F: "FACE3D",
	0x60: "OLEFRAME",
	0x61: "BODY",
	0x62: "LONG_TRANSACTION",
}

// CodeForName returns the fixed type code for canonicalName, for
// callers that need to go the other direction -- dwg/writer emits a
// type-code prefix ahead of the common header and looks its code up
// here rather than hard-coding it a second time.
func CodeForName(canonicalName string) (TypeCode, bool) {
	for code, name := range fixedCodes {
		if name == canonicalName {
			return code, true
		}
	}
	return 0, false
}

// Table is a per-file dynamic class table for codes >= DynamicThreshold.
type Table map[TypeCode]string

// Register records code -> className in the dynamic table. Empty
// className is a no-op: an unregistered code is treated as unknown.
func (t Table) Register(code TypeCode, className string) {
	if className == "" {
		return
	}
	t[code] = className
}

// Resolve returns the canonical type name for code, or ("", false) for
// an unrecognized code (fixed and absent from the dynamic table).
func Resolve(code TypeCode, dyn Table) (string, bool) {
	if code < DynamicThreshold {
		name, ok := fixedCodes[code]
		return name, ok
	}
	name, ok := dyn[code]
	return name, ok
}

// MatchesTypeName reports whether code names canonicalName, either
// because code equals canonicalCode directly, or because the dynamic
// table's entry for code equals canonicalName.
func MatchesTypeName(code, canonicalCode TypeCode, canonicalName string, dyn Table) bool {
	if code == canonicalCode {
		return true
	}
	if name, ok := dyn[code]; ok && name == canonicalName {
		return true
	}
	return false
}
