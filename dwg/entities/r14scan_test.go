package entities

import (
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

func TestDecodeLineR14FallbackFindsShiftedBody(t *testing.T) {
	w := bit.NewWriter()
	w.WriteRC(0) // 8 junk bits standing in for a misjudged header tail
	w.WriteB(1)  // z-zero
	w.WriteRD(50)
	w.WriteDD(100, 50)
	w.WriteRD(10)
	w.WriteDD(20, 10)
	w.WriteBT(0)
	w.WriteBE(bit.Point3{X: 0, Y: 0, Z: 1})
	raw := w.Bytes()

	line, err := DecodeLineR14Fallback(raw, 0, header.CommonEntityHeader{Handle: 0x10})
	if err != nil {
		t.Fatal(err)
	}
	if line.Start.X != 50 || line.End.X != 100 || line.Start.Y != 10 {
		t.Fatalf("unexpected recovered line %+v", line)
	}
}

func TestDecodeCircleR14FallbackFindsShiftedBody(t *testing.T) {
	w := bit.NewWriter()
	w.WriteRC(0)
	w.Write3BD(bit.Point3{X: 4, Y: 5, Z: 0})
	w.WriteBD(2.5)
	w.WriteBT(0)
	w.WriteBE(bit.Point3{X: 0, Y: 0, Z: 1})
	raw := w.Bytes()

	c, err := DecodeCircleR14Fallback(raw, 0, header.CommonEntityHeader{Handle: 0x41})
	if err != nil {
		t.Fatal(err)
	}
	if c.Center.X != 4 || c.Radius != 2.5 {
		t.Fatalf("unexpected recovered circle %+v", c)
	}
}
