package writer

import (
	"math"
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/classes"
	"github.com/dsnet/cadwg/dwg/container"
	"github.com/dsnet/cadwg/dwg/entities"
	"github.com/dsnet/cadwg/dwg/handles"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/dwg/objectmap"
	"github.com/dsnet/cadwg/dwg/record"
	"github.com/dsnet/cadwg/dwg/version"
)

// decodeObjectMap walks file's legacy section directory directly, without
// going through the dwg Decoder, and decodes the OBJECTMAP section it finds.
func decodeObjectMap(t *testing.T, file []byte) *objectmap.Index {
	t.Helper()
	dir, err := container.ParseLegacyDirectory(file, false)
	if err != nil {
		t.Fatalf("ParseLegacyDirectory: %v", err)
	}
	rec, ok := dir.ByKind(container.KindObjectMap)
	if !ok {
		t.Fatalf("no OBJECTMAP section in directory")
	}
	sec, err := container.ReadLegacySection(file, rec, false)
	if err != nil {
		t.Fatalf("ReadLegacySection: %v", err)
	}
	idx, err := objectmap.Decode(sec.Data, false)
	if err != nil {
		t.Fatalf("objectmap.Decode: %v", err)
	}
	return idx
}

// decodeOneRecord mimics the dwg Decoder's per-record dispatch
// (decodeOne): read the type-code prefix, resolve it to a name, parse the
// common header, hand off to the registered per-type decoder, then
// resolve the handle stream.
func decodeOneRecord(t *testing.T, file []byte, byteOffset int) (entities.Entity, handles.Set) {
	t.Helper()
	f, err := record.Parse(file, byteOffset, false)
	if err != nil {
		t.Fatalf("record.Parse: %v", err)
	}
	r := f.Reader()
	code, err := r.ReadBS()
	if err != nil {
		t.Fatalf("read type code: %v", err)
	}
	name, ok := classes.Resolve(classes.TypeCode(code), classes.Table{})
	if !ok {
		t.Fatalf("unresolved type code %#x", code)
	}
	h, err := header.ParseCommon(r, version.R2000)
	if err != nil {
		t.Fatalf("header.ParseCommon: %v", err)
	}
	ent, err := entities.Decode(r, version.R2000, uint16(code), name, h)
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	if err := r.SetBitPos(int64(h.ObjSize)); err != nil {
		t.Fatalf("seek to handle stream: %v", err)
	}
	set, err := handles.Parse(r, h, h.Handle, 0)
	if err != nil {
		t.Fatalf("handles.Parse: %v", err)
	}
	return ent, set
}

func findRecord(t *testing.T, index *objectmap.Index, handle uint64) int {
	t.Helper()
	off, ok := index.Locate(handle)
	if !ok {
		t.Fatalf("handle %#x not in object map", handle)
	}
	return int(off)
}

func TestWriteMinimalLineDocument(t *testing.T) {
	body, err := EncodeLine(LineInput{
		Common:    Common{Handle: 0x30, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Start:     bit.Point3{X: 1, Y: 2, Z: 0},
		End:       bit.Point3{X: 4.5, Y: 7, Z: 0},
		Extrusion: bit.Point3{X: 0, Y: 0, Z: 1},
	})
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}

	file, err := WriteR2000([]Record{{Handle: 0x30, Body: body}})
	if err != nil {
		t.Fatalf("WriteR2000: %v", err)
	}
	if string(file[0:6]) != "AC1015" {
		t.Fatalf("header tag = %q, want AC1015", file[0:6])
	}

	idx := decodeObjectMap(t, file)
	if len(idx.Refs) != 1 {
		t.Fatalf("object map has %d refs, want 1", len(idx.Refs))
	}

	ent, set := decodeOneRecord(t, file, findRecord(t, idx, 0x30))
	line, ok := ent.(*entities.Line)
	if !ok {
		t.Fatalf("decoded entity is %T, want *entities.Line", ent)
	}
	if line.Handle() != 0x30 {
		t.Fatalf("handle = %#x, want 0x30", line.Handle())
	}
	if line.Start != (bit.Point3{X: 1, Y: 2, Z: 0}) {
		t.Fatalf("start = %+v, want (1,2,0)", line.Start)
	}
	if line.End != (bit.Point3{X: 4.5, Y: 7, Z: 0}) {
		t.Fatalf("end = %+v, want (4.5,7,0)", line.End)
	}
	if line.ColorIndex() != 7 {
		t.Fatalf("color = %d, want 7", line.ColorIndex())
	}
	if set.Layer != 2 {
		t.Fatalf("layer handle = %#x, want 2", set.Layer)
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWriteMixedEntityDocument(t *testing.T) {
	type built struct {
		handle uint64
		body   []byte
	}
	var recs []built

	mustEncode := func(handle uint64) func(body []byte, err error) {
		return func(body []byte, err error) {
			t.Helper()
			if err != nil {
				t.Fatalf("encode handle %#x: %v", handle, err)
			}
			recs = append(recs, built{handle, body})
		}
	}

	mustEncode(0x40)(EncodeArc(ArcInput{
		Common: Common{Handle: 0x40, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Center: bit.Point3{X: 2, Y: 3, Z: 0}, Radius: 5,
		Extrusion:  bit.Point3{X: 0, Y: 0, Z: 1},
		StartAngle: 0.25, EndAngle: 1.5,
	}))
	mustEncode(0x41)(EncodeCircle(CircleInput{
		Common: Common{Handle: 0x41, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Center: bit.Point3{X: 4, Y: 5, Z: 0}, Radius: 2.5,
		Extrusion: bit.Point3{X: 0, Y: 0, Z: 1},
	}))
	mustEncode(0x42)(EncodeLwPolyline(LwPolylineInput{
		Common: Common{Handle: 0x42, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Closed: true,
		Normal: bit.Point3{X: 0, Y: 0, Z: 1},
		Vertices: []struct{ X, Y float64 }{
			{0, 0}, {2, 0}, {2, 1},
		},
	}))
	mustEncode(0x43)(EncodeText(TextInput{
		Common:    Common{Handle: 0x43, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Insertion: bit.Point3{X: 1.5, Y: 2.5, Z: 0},
		Extrusion: bit.Point3{X: 0, Y: 0, Z: 1},
		Height:    2, Rotation: 0.2, Value: "HELLO",
	}))
	mustEncode(0x44)(EncodeMText(MTextInput{
		Common:    Common{Handle: 0x44, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Insertion: bit.Point3{X: 3, Y: 4, Z: 0},
		Direction: bit.Point3{X: 1, Y: 0, Z: 0},
		RectWidth: 12, Height: 1.5, Attachment: 1, DrawingDirection: 1,
		Value: "MULTI",
	}))
	mustEncode(0x45)(EncodePoint(PointInput{
		Common:   Common{Handle: 0x45, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Location: bit.Point3{X: 7, Y: 8, Z: 0}, Extrusion: bit.Point3{X: 0, Y: 0, Z: 1},
		XAxisAngle: 0.3,
	}))
	mustEncode(0x46)(EncodeRay(RayInput{
		Common: Common{Handle: 0x46, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Start:  bit.Point3{X: 9, Y: 1, Z: 0}, UnitVector: bit.Point3{X: 1, Y: 0, Z: 0},
	}))
	mustEncode(0x47)(EncodeXLine(XLineInput{
		Common: Common{Handle: 0x47, OwnerHandle: 1, LayerHandle: 2, ColorIndex: 7},
		Start:  bit.Point3{X: 10, Y: 2, Z: 0}, UnitVector: bit.Point3{X: 0, Y: 1, Z: 0},
	}))

	var docRecords []Record
	for _, r := range recs {
		docRecords = append(docRecords, Record{Handle: r.handle, Body: r.body})
	}
	file, err := WriteR2000(docRecords)
	if err != nil {
		t.Fatalf("WriteR2000: %v", err)
	}
	idx := decodeObjectMap(t, file)
	if len(idx.Refs) != 8 {
		t.Fatalf("object map has %d refs, want 8", len(idx.Refs))
	}

	arcEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x40))
	arc := arcEnt.(*entities.Arc)
	if !almostEqual(arc.StartAngle, 0.25) || !almostEqual(arc.EndAngle, 1.5) {
		t.Fatalf("arc angles = %v/%v", arc.StartAngle, arc.EndAngle)
	}
	if arc.Center != (bit.Point3{X: 2, Y: 3, Z: 0}) || !almostEqual(arc.Radius, 5) {
		t.Fatalf("arc geometry mismatch: %+v", arc)
	}

	circEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x41))
	circ := circEnt.(*entities.Circle)
	if circ.Center != (bit.Point3{X: 4, Y: 5, Z: 0}) || !almostEqual(circ.Radius, 2.5) {
		t.Fatalf("circle geometry mismatch: %+v", circ)
	}

	lwEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x42))
	lw := lwEnt.(*entities.LwPolyline)
	want := []struct{ X, Y float64 }{{0, 0}, {2, 0}, {2, 1}}
	if len(lw.Vertices) != len(want) {
		t.Fatalf("lwpolyline vertex count = %d, want %d", len(lw.Vertices), len(want))
	}
	for i, v := range want {
		if !almostEqual(lw.Vertices[i].X, v.X) || !almostEqual(lw.Vertices[i].Y, v.Y) {
			t.Fatalf("vertex %d = %+v, want %+v", i, lw.Vertices[i], v)
		}
	}

	textEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x43))
	text := textEnt.(*entities.Text)
	if text.Value != "HELLO" {
		t.Fatalf("text value = %q", text.Value)
	}
	if !almostEqual(text.Height, 2) || !almostEqual(text.Rotation, 0.2) {
		t.Fatalf("text geometry mismatch: %+v", text)
	}

	mtextEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x44))
	mtext := mtextEnt.(*entities.MText)
	if mtext.Value != "MULTI" {
		t.Fatalf("mtext value = %q", mtext.Value)
	}
	if !almostEqual(mtext.RectWidth, 12) || !almostEqual(mtext.Height, 1.5) {
		t.Fatalf("mtext geometry mismatch: %+v", mtext)
	}

	pointEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x45))
	pt := pointEnt.(*entities.Point)
	if pt.Location != (bit.Point3{X: 7, Y: 8, Z: 0}) || !almostEqual(pt.XAxisAngle, 0.3) {
		t.Fatalf("point geometry mismatch: %+v", pt)
	}

	rayEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x46))
	ray := rayEnt.(*entities.Ray)
	if ray.Start != (bit.Point3{X: 9, Y: 1, Z: 0}) || ray.UnitVector != (bit.Point3{X: 1, Y: 0, Z: 0}) {
		t.Fatalf("ray geometry mismatch: %+v", ray)
	}

	xlineEnt, _ := decodeOneRecord(t, file, findRecord(t, idx, 0x47))
	xline := xlineEnt.(*entities.XLine)
	if xline.Start != (bit.Point3{X: 10, Y: 2, Z: 0}) || xline.UnitVector != (bit.Point3{X: 0, Y: 1, Z: 0}) {
		t.Fatalf("xline geometry mismatch: %+v", xline)
	}
}

func TestHandleAllocatorAvoidsReservedHandles(t *testing.T) {
	a := NewHandleAllocator(10)
	h1, err := a.Allocate()
	if err != nil || h1 != 10 {
		t.Fatalf("first allocate = %#x, %v, want 10", h1, err)
	}
	h2, err := a.Allocate()
	if err != nil || h2 != 11 {
		t.Fatalf("second allocate = %#x, %v, want 11", h2, err)
	}
	if err := a.Reserve(20); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	h3, err := a.Allocate()
	if err != nil || h3 != 12 {
		t.Fatalf("third allocate = %#x, %v, want 12", h3, err)
	}
	if !a.IsReserved(20) {
		t.Fatalf("expected 20 to be reserved")
	}
	if err := a.Reserve(20); err == nil {
		t.Fatalf("expected duplicate reservation of 20 to error")
	}
}
