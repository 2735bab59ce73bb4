package entities

import (
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

func TestDecodePointRoundTrip(t *testing.T) {
	w := bit.NewWriter()
	w.Write3BD(bit.Point3{X: 7, Y: 8, Z: 0})
	w.WriteBT(0)
	w.WriteBE(bit.Point3{X: 0, Y: 0, Z: 1})
	w.WriteBD(0.3)

	r := bit.NewReader(w.Bytes())
	p, err := DecodePoint(r, header.CommonEntityHeader{Handle: 0x45})
	if err != nil {
		t.Fatal(err)
	}
	if p.Location.X != 7 || p.Location.Y != 8 || p.XAxisAngle != 0.3 {
		t.Fatalf("unexpected point %+v", p)
	}
	if p.TypeName() != "POINT" {
		t.Fatalf("TypeName = %q", p.TypeName())
	}
}

func TestDecodeRayAndXLine(t *testing.T) {
	w := bit.NewWriter()
	w.Write3BD(bit.Point3{X: 9, Y: 1, Z: 0})
	w.Write3BD(bit.Point3{X: 1, Y: 0, Z: 0})

	r := bit.NewReader(w.Bytes())
	ray, err := DecodeRay(r, header.CommonEntityHeader{Handle: 0x46})
	if err != nil {
		t.Fatal(err)
	}
	if ray.Start.X != 9 || ray.UnitVector.X != 1 {
		t.Fatalf("unexpected ray %+v", ray)
	}

	w2 := bit.NewWriter()
	w2.Write3BD(bit.Point3{X: 10, Y: 2, Z: 0})
	w2.Write3BD(bit.Point3{X: 0, Y: 1, Z: 0})
	r2 := bit.NewReader(w2.Bytes())
	xl, err := DecodeXLine(r2, header.CommonEntityHeader{Handle: 0x47})
	if err != nil {
		t.Fatal(err)
	}
	if xl.Start.Y != 2 || xl.UnitVector.Y != 1 {
		t.Fatalf("unexpected xline %+v", xl)
	}
}

func TestDecodeText(t *testing.T) {
	w := bit.NewWriter()
	w.WriteRC(0) // elevation and rotation both present
	w.WriteRD(0) // elevation
	w.WriteRD(1.5)
	w.WriteRD(2.5)
	w.WriteBE(bit.Point3{X: 0, Y: 0, Z: 1})
	w.WriteBT(0)
	w.WriteRD(0.2) // rotation
	w.WriteRD(2.0) // height
	if err := w.WriteTV("HELLO"); err != nil {
		t.Fatal(err)
	}

	r := bit.NewReader(w.Bytes())
	text, err := DecodeText(r, header.CommonEntityHeader{Handle: 0x43})
	if err != nil {
		t.Fatal(err)
	}
	if text.Value != "HELLO" || text.Insertion.X != 1.5 || text.Rotation != 0.2 {
		t.Fatalf("unexpected text %+v", text)
	}
}

func TestDecodeTextDefaultFlags(t *testing.T) {
	w := bit.NewWriter()
	w.WriteRC(int8(textFlagElevationDefault | textFlagRotationDefault))
	w.WriteRD(3)
	w.WriteRD(4)
	w.WriteBE(bit.Point3{X: 0, Y: 0, Z: 1})
	w.WriteBT(0)
	w.WriteRD(1.0)
	if err := w.WriteTV("X"); err != nil {
		t.Fatal(err)
	}

	r := bit.NewReader(w.Bytes())
	text, err := DecodeText(r, header.CommonEntityHeader{Handle: 0x1})
	if err != nil {
		t.Fatal(err)
	}
	if text.Insertion.Z != 0 || text.Rotation != 0 {
		t.Fatalf("expected defaulted fields to be zero, got %+v", text)
	}
}

func TestDecodeMText(t *testing.T) {
	w := bit.NewWriter()
	w.Write3BD(bit.Point3{X: 3, Y: 4, Z: 0})
	w.Write3BD(bit.Point3{X: 1, Y: 0, Z: 0})
	w.WriteBD(12)
	w.WriteBD(1.5)
	w.WriteBS(1)
	w.WriteBS(1)
	if err := w.WriteTV("MULTI"); err != nil {
		t.Fatal(err)
	}

	r := bit.NewReader(w.Bytes())
	mt, err := DecodeMText(r, header.CommonEntityHeader{Handle: 0x44})
	if err != nil {
		t.Fatal(err)
	}
	if mt.Value != "MULTI" || mt.RectWidth != 12 || mt.Height != 1.5 {
		t.Fatalf("unexpected mtext %+v", mt)
	}
}
