package entities

import (
	"errors"
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/dwg/version"
)

var errBadMarker = errors.New("bad marker")

func TestDecodeDispatchKnownType(t *testing.T) {
	w := bit.NewWriter()
	w.WriteB(1) // z-zero
	w.WriteRD(1)
	w.WriteDD(4.5, 1)
	w.WriteRD(2)
	w.WriteDD(7, 2)
	w.WriteBT(0)
	w.WriteBE(bit.Point3{X: 0, Y: 0, Z: 1})

	r := bit.NewReader(w.Bytes())
	e, err := Decode(r, version.R2000, 0x3E, "LINE", header.CommonEntityHeader{Handle: 0x30})
	if err != nil {
		t.Fatal(err)
	}
	line, ok := e.(*Line)
	if !ok {
		t.Fatalf("expected *Line, got %T", e)
	}
	if line.Start.X != 1 || line.End.X != 4.5 {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestDecodeDispatchUnknownTypeFallsBackToDynamic(t *testing.T) {
	r := bit.NewReader(nil)
	e, err := Decode(r, version.R2000, 0x1F3, "ACAD_PROXY_ENTITY", header.CommonEntityHeader{Handle: 0x99})
	if err != nil {
		t.Fatal(err)
	}
	dyn, ok := e.(*Dynamic)
	if !ok {
		t.Fatalf("expected *Dynamic, got %T", e)
	}
	if dyn.Name != "ACAD_PROXY_ENTITY" || dyn.TypeCode != 0x1F3 {
		t.Fatalf("unexpected dynamic %+v", dyn)
	}
}

// TestDecodeDispatchR2010PrefixRetry exercises the retry path with a
// synthetic decoder rather than a real entity type, since whether a
// misaligned real decode happens to produce a hard error (rather than
// silently-wrong values) depends on which selector bits the
// misalignment lands on.
func TestDecodeDispatchR2010PrefixRetry(t *testing.T) {
	const name = "TESTPREFIXED"
	registry[name] = func(r *bit.Reader, h header.CommonEntityHeader) (Entity, error) {
		marker, err := r.ReadBS()
		if err != nil {
			return nil, err
		}
		if marker != 0xABCD {
			return nil, errBadMarker
		}
		return &Dynamic{Base: BaseFrom(h), Name: name}, nil
	}
	defer delete(registry, name)

	w := bit.NewWriter()
	w.WriteBB(1) // stray 2-bit type prefix the caller didn't consume
	w.WriteBS(0xABCD)

	r := bit.NewReader(w.Bytes())
	e, err := Decode(r, version.R2010, 0x1F4, name, header.CommonEntityHeader{Handle: 0x50})
	if err != nil {
		t.Fatal(err)
	}
	if e.(*Dynamic).Name != name {
		t.Fatalf("unexpected entity %+v", e)
	}
}
