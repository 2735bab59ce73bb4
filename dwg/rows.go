package dwg

import "github.com/dsnet/cadwg/bit"

// Row shapes follow spec §6's canonical tuples: a handle plus
// primitive scalars and small tuples, not the richer entity structs
// dwg/entities decodes internally. Document is the typed-row-sequence
// output every decode API call produces.

// LineRow is (handle, x1, y1, z1, x2, y2, z2).
type LineRow struct {
	Handle     uint64
	Start, End bit.Point3
	ColorIndex uint16
	Layer      uint64
	LayerName  string
}

// CircleRow is (handle, center3, radius).
type CircleRow struct {
	Handle     uint64
	Center     bit.Point3
	Radius     float64
	ColorIndex uint16
	Layer      uint64
	LayerName  string
}

// ArcRow is CircleRow plus a start/end angle pair.
type ArcRow struct {
	Handle                 uint64
	Center                 bit.Point3
	Radius                 float64
	StartAngle, EndAngle   float64
	ColorIndex             uint16
	Layer                  uint64
	LayerName              string
}

// PointRow is (handle, location3).
type PointRow struct {
	Handle     uint64
	Location   bit.Point3
	ColorIndex uint16
	Layer      uint64
	LayerName  string
}

// RayRow and XLineRow are (handle, start3, unit_vector3); rays are
// half-infinite, construction lines are doubly infinite, but both
// decode to the same shape.
type RayRow struct {
	Handle             uint64
	Start, UnitVector  bit.Point3
	ColorIndex         uint16
	Layer              uint64
	LayerName          string
}

type XLineRow struct {
	Handle             uint64
	Start, UnitVector  bit.Point3
	ColorIndex         uint16
	Layer              uint64
	LayerName          string
}

// TextRow is (handle, insertion3, height, rotation, value).
type TextRow struct {
	Handle     uint64
	Insertion  bit.Point3
	Height     float64
	Rotation   float64
	Value      string
	ColorIndex uint16
	Layer      uint64
	LayerName  string
}

// MTextRow is (handle, insertion3, rect_width, height, value).
type MTextRow struct {
	Handle     uint64
	Insertion  bit.Point3
	RectWidth  float64
	Height     float64
	Value      string
	ColorIndex uint16
	Layer      uint64
	LayerName  string
}

// LwPolylineRow is (handle, flags, [(x,y)…], [bulge…], [(start_w,end_w)…], const_width?).
type LwPolylineRow struct {
	Handle      uint64
	Closed      bool
	Vertices    []struct{ X, Y float64 }
	Bulges      []float64
	Widths      []struct{ Start, End float64 }
	ConstWidth  float64
	HasConstWidth bool
	ColorIndex  uint16
	Layer       uint64
	LayerName   string
}

// InsertRow is (handle, position3, scale3, rotation, block_name_or_null).
type InsertRow struct {
	Handle            uint64
	Position          bit.Point3
	Scale             bit.Point3
	Rotation          float64
	BlockHeaderHandle uint64
	BlockName         string // "" when unresolved
	ColorIndex        uint16
	Layer             uint64
	LayerName         string
}

// Document is every row sequence one decode produced, plus the side
// tables (layer names, block names) used to fill in the *Name fields
// above.
type Document struct {
	Lines       []LineRow
	Circles     []CircleRow
	Arcs        []ArcRow
	Points      []PointRow
	Rays        []RayRow
	XLines      []XLineRow
	Texts       []TextRow
	MTexts      []MTextRow
	LwPolylines []LwPolylineRow
	Inserts     []InsertRow

	// DynamicCount is how many object-map entries decoded to a
	// dwg/entities.Dynamic fallback (no registered per-type decoder),
	// or were skipped under best-effort after an error.
	DynamicCount int
	SkippedCount int

	// Errors collects every best-effort skip, in object-map order, for
	// callers that want to report partial-decode diagnostics.
	Errors []error
}

func (d *Document) rowCount() int {
	return len(d.Lines) + len(d.Circles) + len(d.Arcs) + len(d.Points) +
		len(d.Rays) + len(d.XLines) + len(d.Texts) + len(d.MTexts) +
		len(d.LwPolylines) + len(d.Inserts)
}
