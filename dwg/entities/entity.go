// Package entities implements C7: per-type object bodies. Each
// decoder is decodeFunc with signature (bit.Reader, version, common
// header) -> Entity, following the shape spec §4.7 describes: consume
// an optional R2010+ type-code prefix, parse the type-specific data
// stream, then let the caller seek to ObjSize and hand off to
// dwg/handles for the handle stream.
//
// Entity is modeled as an explicit sum type (§9 design notes): a
// common Base embedded in every concrete struct, plus a Dynamic
// fallback for type codes with no known decoder. This is a plain
// interface rather than a single discriminated struct because each
// variant's geometry fields differ enough that a shared struct would
// be mostly-empty per variant, the way the teacher avoids one
// kitchen-sink frame struct across flate/brotli/bzip2.
package entities

import "github.com/dsnet/cadwg/dwg/header"

// Entity is implemented by every decoded object/entity variant.
type Entity interface {
	Handle() uint64
	ColorIndex() uint16
	LayerHandle() uint64
	SetLayerHandle(uint64)
	TypeName() string
}

// Base carries the fields every entity shares: handle, color and the
// layer reference, which dwg/handles or dwg/resolve populate after the
// type-specific body has been parsed.
type Base struct {
	H     uint64
	Color uint16
	Layer uint64
}

func (b *Base) Handle() uint64           { return b.H }
func (b *Base) ColorIndex() uint16       { return b.Color }
func (b *Base) LayerHandle() uint64      { return b.Layer }
func (b *Base) SetLayerHandle(h uint64)  { b.Layer = h }

// BaseFrom builds a Base out of a parsed common header.
func BaseFrom(h header.CommonEntityHeader) Base {
	return Base{H: h.Handle, Color: h.Color.Index}
}

// Dynamic is the fallback variant for a type code with no registered
// decoder: its geometry is not interpreted, but its handle/color/layer
// still participate in the handle graph.
type Dynamic struct {
	Base
	TypeCode uint16
	Name     string
}

func (d *Dynamic) TypeName() string { return "Dynamic:" + d.Name }
