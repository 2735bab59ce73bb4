package entities

import (
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

func TestDecodeLwPolylineClosedNoExtras(t *testing.T) {
	w := bit.NewWriter()
	w.WriteBS(lwFlagClosed)
	w.Write3BD(bit.Point3{X: 0, Y: 0, Z: 1}) // normal, present because closed bit doubles as normal-present
	w.WriteBL(3)
	w.WriteRD(0)
	w.WriteRD(0)
	w.WriteDD(2, 0)
	w.WriteDD(0, 0)
	w.WriteDD(2, 2)
	w.WriteDD(1, 0)

	r := bit.NewReader(w.Bytes())
	lp, err := DecodeLwPolyline(r, header.CommonEntityHeader{Handle: 0x42}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(lp.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(lp.Vertices))
	}
	if lp.Vertices[0].X != 0 || lp.Vertices[1].X != 2 || lp.Vertices[2].Y != 1 {
		t.Fatalf("unexpected vertices %+v", lp.Vertices)
	}
	if lp.Bulges != nil || lp.Widths != nil {
		t.Fatalf("expected no bulges/widths, got %+v / %+v", lp.Bulges, lp.Widths)
	}
}

func TestDecodeLwPolylineConstWidthAndBulges(t *testing.T) {
	w := bit.NewWriter()
	flags := uint16(lwFlagConstWidth | lwFlagHasBulges)
	w.WriteBS(flags)
	w.WriteBD(0.5) // const width
	w.WriteBL(2)   // num verts
	w.WriteBL(2)   // num bulges
	w.WriteRD(0)
	w.WriteRD(0)
	w.WriteDD(1, 0)
	w.WriteDD(1, 0)
	w.WriteBD(0.1)
	w.WriteBD(0.2)

	r := bit.NewReader(w.Bytes())
	lp, err := DecodeLwPolyline(r, header.CommonEntityHeader{Handle: 0x48}, false)
	if err != nil {
		t.Fatal(err)
	}
	if lp.ConstWidth == nil || *lp.ConstWidth != 0.5 {
		t.Fatalf("expected const width 0.5, got %+v", lp.ConstWidth)
	}
	if len(lp.Bulges) != 2 || lp.Bulges[0] != 0.1 || lp.Bulges[1] != 0.2 {
		t.Fatalf("unexpected bulges %+v", lp.Bulges)
	}
	if len(lp.Widths) != 2 || lp.Widths[0].Start != 0.5 || lp.Widths[1].End != 0.5 {
		t.Fatalf("expected const width applied to all vertices, got %+v", lp.Widths)
	}
}

func TestDecodeLwPolylineZeroVertices(t *testing.T) {
	w := bit.NewWriter()
	w.WriteBS(0)
	w.WriteBL(0)

	r := bit.NewReader(w.Bytes())
	lp, err := DecodeLwPolyline(r, header.CommonEntityHeader{Handle: 0x49}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(lp.Vertices) != 0 {
		t.Fatalf("expected no vertices, got %+v", lp.Vertices)
	}
}
