package entities

import (
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

func TestDecodeLayerAlignedVariant(t *testing.T) {
	w := bit.NewWriter()
	if err := w.WriteTV("LAYER0"); err != nil {
		t.Fatal(err)
	}
	w.WriteB(0) // flag_64
	w.WriteBS(0) // xref_index_plus_one
	w.WriteB(0) // xdep
	w.WriteB(0) // frozen
	w.WriteB(1) // on
	w.WriteB(0) // frozen_new
	w.WriteB(0) // locked
	w.WriteBS(0) // values
	w.WriteBS(5) // colorIndex
	w.WriteBL(0) // rgb
	w.WriteRC(0) // colorByte

	r := bit.NewReader(w.Bytes())
	l, err := DecodeLayer(r, header.CommonEntityHeader{Handle: 0x52}, "")
	if err != nil {
		t.Fatal(err)
	}
	if l.DeclaredName != "LAYER0" {
		t.Fatalf("name = %q", l.DeclaredName)
	}
	if !l.On || l.Frozen || l.Locked {
		t.Fatalf("state flags: %+v", l)
	}
	if l.LayerColorIndex != 5 {
		t.Fatalf("color index = %d", l.LayerColorIndex)
	}
	if l.TypeName() != "LAYER" {
		t.Fatalf("TypeName = %q", l.TypeName())
	}
}
