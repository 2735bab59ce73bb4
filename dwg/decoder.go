// Package dwg is the orchestrator tying together C2-C10: it detects
// the dialect, locates sections, walks the object map, frames and
// decodes each object, resolves its handle stream (with C9's scored
// recovery as a fallback on R2010+), and assembles typed rows per
// spec §6. Every other dwg/* package is a pure function of bytes;
// this package is the only one that sequences them, the way the
// teacher's xflate.Reader sequences meta/huffman/dictDecoder without
// owning their internals itself.
package dwg

import (
	"github.com/dsnet/cadwg/dwg/blockname"
	"github.com/dsnet/cadwg/dwg/classes"
	"github.com/dsnet/cadwg/dwg/container"
	"github.com/dsnet/cadwg/dwg/entities"
	"github.com/dsnet/cadwg/dwg/handles"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/dwg/layers"
	"github.com/dsnet/cadwg/dwg/objectmap"
	"github.com/dsnet/cadwg/dwg/record"
	"github.com/dsnet/cadwg/dwg/resolve"
	"github.com/dsnet/cadwg/dwg/version"
	"github.com/dsnet/cadwg/internal/errors"
)

// Decoder holds one parsed drawing's directory and object map, ready
// to walk. Open does the up-front work (directory + object map);
// Decode walks the records and builds a Document.
type Decoder struct {
	cfg        Config
	version    version.Version
	bestEffort bool
	buf        []byte
	dir        *container.Directory
	index      *objectmap.Index
	// recordBase is the byte slice object-map offsets are relative to:
	// the whole file for the legacy family (records sit directly in
	// buf), or the decompressed Objects section's data for the
	// 2004/2007 families (records sit inside that section instead).
	recordBase []byte
	dynClasses classes.Table
}

// Open detects the version, parses the section directory, and decodes
// the object map. It does not yet decode any entity; call Decode for that.
func Open(buf []byte, cfg Config) (*Decoder, error) {
	v, err := version.Detect(buf)
	if err != nil {
		return nil, err
	}
	bestEffort := cfg.BestEffort || version.DefaultBestEffort(v)
	cfg.trace("dwg: detected version %s (best_effort=%v)", v, bestEffort)

	fam := version.FamilyOf(v)
	dir, err := container.Parse(buf, fam, bestEffort)
	if err != nil {
		return nil, err
	}

	mapSec, err := dir.SectionByKind(container.KindObjectMap)
	if err != nil {
		return nil, err
	}
	index, err := objectmap.Decode(mapSec.Data, bestEffort)
	if err != nil {
		return nil, err
	}

	recordBase := buf
	if fam != container.FamilyLegacy {
		objSec, err := dir.SectionByKind(container.KindObjects)
		if err != nil {
			return nil, err
		}
		recordBase = objSec.Data
	}

	dynClasses := classes.Table{}
	if classesSec, err := dir.SectionByKind(container.KindClasses); err != nil {
		// No CLASSES section at all: every type code this file uses
		// must then be < classes.DynamicThreshold. Tolerated regardless
		// of bestEffort, since a directory that lacks the section isn't
		// itself malformed data to reject.
		cfg.trace("dwg: no classes section in directory: %v", err)
	} else if t, _, err := classes.ParseSection(classesSec.Data, bestEffort); err != nil {
		if !bestEffort {
			return nil, err
		}
		cfg.trace("dwg: classes section parse error: %v", err)
	} else {
		dynClasses = t
	}

	return &Decoder{
		cfg:        cfg,
		version:    v,
		bestEffort: bestEffort,
		buf:        buf,
		dir:        dir,
		index:      index,
		recordBase: recordBase,
		dynClasses: dynClasses,
	}, nil
}

// Version reports the dialect Open detected.
func (d *Decoder) Version() version.Version { return d.version }

// Preview returns the file's embedded thumbnail, decompressing it via
// the non-Autodesk LZMA variant some R2013+ writers use in place of
// the native encoding. Returns an error if the file has no
// "AcDb:Preview" section, or if its bytes aren't LZMA-compressed.
func (d *Decoder) Preview() ([]byte, error) {
	return d.dir.Preview()
}

// decoded is one object-map entry's fully resolved state: the decoded
// entity, its handle set, and the raw record bytes (kept for C9's
// scored recovery, which re-scans the raw handle stream).
type decoded struct {
	offset int
	entity entities.Entity
	set    handles.Set
	h      header.CommonEntityHeader
	raw    []byte
}

// Decode walks the object map in order and returns every row it could
// assemble. Under best-effort, a single entity's Format/Decode/Io
// error skips that entity (recorded in Document.Errors) rather than
// aborting the call; Unsupported and container-level Checksum errors
// still abort, matching §7's propagation policy.
func (d *Decoder) Decode() (*Document, error) {
	doc := &Document{}

	var all []decoded
	layerTable := layers.New()
	blockNames := blockname.New()

	for _, ref := range d.index.Refs {
		dr, err := d.decodeOne(ref)
		if err != nil {
			if errors.Is(err, errors.Unsupported) || errors.Is(err, errors.Checksum) {
				return nil, err
			}
			if !d.bestEffort {
				return nil, err
			}
			doc.SkippedCount++
			doc.Errors = append(doc.Errors, err)
			continue
		}

		switch e := dr.entity.(type) {
		case *entities.Layer:
			layerTable.Record(e.Handle(), e.DeclaredName)
		case *entities.BlockHeader:
			blockNames.Primary([]blockname.Record{{HeaderHandle: e.Handle(), DeclaredName: e.DeclaredName}})
		case *entities.Dynamic:
			doc.DynamicCount++
		}
		all = append(all, dr)
	}
	// Alias receives no records here: BLOCK and ENDBLK objects are decoded
	// but not paired with their BLOCK_HEADER, so this pass assigns no names.
	blockNames.Alias(nil)

	// Pass 3 (R2010+ only): any BLOCK_HEADER whose name is still unknown
	// after Primary/Alias gets one more chance via TargetedScan, which
	// scans every already-named header's own handle stream for a
	// reference into the still-unnamed set.
	knownBlockHeaders := make(map[uint64]bool)
	rawByHandle := make(map[uint64][]byte, len(all))
	headerByHandle := make(map[uint64]header.CommonEntityHeader, len(all))
	for _, o := range all {
		rawByHandle[o.h.Handle] = o.raw
		headerByHandle[o.h.Handle] = o.h
		if bh, ok := o.entity.(*entities.BlockHeader); ok {
			knownBlockHeaders[bh.Handle()] = true
		}
	}
	if version.IsHandleStreamAmbiguous(d.version) {
		var targets, named []uint64
		for h := range knownBlockHeaders {
			if _, ok := blockNames.NameOf(h); ok {
				named = append(named, h)
			} else {
				targets = append(targets, h)
			}
		}
		blockNames.TargetedScan(targets, named, func(headerHandle uint64) []uint64 {
			raw, ok := rawByHandle[headerHandle]
			if !ok {
				return nil
			}
			hh := headerByHandle[headerHandle]
			var refs []uint64
			for _, eb := range header.R2010DataEndCandidates(hh) {
				refs = append(refs, resolve.ScanCandidateHandles(raw, eb, hh.Handle, false)...)
				refs = append(refs, resolve.ScanCandidateHandles(raw, eb, hh.Handle, true)...)
			}
			return refs
		})
	}

	for _, dr := range all {
		if d.cfg.Limit > 0 && doc.rowCount() >= d.cfg.Limit {
			break
		}
		layer := dr.set.Layer
		if layer == 0 && version.IsHandleStreamAmbiguous(d.version) {
			known := make(map[uint64]bool, layerTable.Len())
			// layerTable only exposes NameOf; rebuild the known-handle
			// set from every *entities.Layer this pass recorded.
			for _, o := range all {
				if l, ok := o.entity.(*entities.Layer); ok {
					known[l.Handle()] = true
				}
			}
			endBits := header.R2010DataEndCandidates(dr.h)
			layer = resolve.FindLayer(dr.raw, endBits, []uint64{dr.h.Handle, 0}, 1, known, layer)
		}
		layerName, _ := layerTable.NameOf(layer)

		blockHandle := uint64(0)
		if ins, ok := dr.entity.(*entities.Insert); ok {
			blockHandle = ins.BlockHeaderHandle
			if blockHandle == 0 && len(dr.set.Trailing) > 0 {
				blockHandle = dr.set.Trailing[0]
			}
			if blockHandle == 0 && version.IsHandleStreamAmbiguous(d.version) {
				// INSERT's block-header handle is the last handle the
				// stream carries, following owner/xdic/layer in the
				// common case; 3 is an approximation of that slot, not
				// an exact one (§4.9's scoring tolerates being off by a
				// few slots via weightHandleIndex).
				endBits := header.R2010DataEndCandidates(dr.h)
				best, _ := resolve.FindBlockHeader(dr.raw, endBits, []uint64{dr.h.Handle, 0}, 3, knownBlockHeaders, 0)
				blockHandle = best
			}
		}

		appendRow(doc, dr, layer, layerName, blockHandle, blockNames)
	}

	return doc, nil
}

// decodeOne frames the record at ref.Offset, parses its common header
// and type-specific body, and resolves its handle stream.
func (d *Decoder) decodeOne(ref objectmap.Ref) (decoded, error) {
	frame, err := record.Parse(d.recordBase, int(ref.Offset), d.bestEffort)
	if err != nil {
		return decoded{}, err
	}
	r := frame.Reader()

	codeRaw, err := r.ReadBS()
	if err != nil {
		return decoded{}, err
	}
	code := classes.TypeCode(codeRaw)
	name, ok := classes.Resolve(code, d.dynClasses)
	if !ok {
		name = ""
	}

	h, err := header.ParseCommon(r, d.version)
	if err != nil {
		return decoded{}, err
	}
	if h.Handle != ref.Handle {
		d.cfg.trace("dwg: object-map handle %#x disagrees with body handle %#x at offset %d", ref.Handle, h.Handle, ref.Offset)
	}

	entity, err := entities.Decode(r, d.version, uint16(code), name, h)
	if err != nil {
		return decoded{}, err
	}

	if err := r.SetBitPos(int64(h.ObjSize)); err != nil {
		return decoded{}, err
	}
	numTrailing := 0
	if _, ok := entity.(*entities.Insert); ok {
		numTrailing = 1
	}
	set, err := handles.Parse(r, h, h.Handle, numTrailing)
	if err != nil && !d.bestEffort {
		return decoded{}, err
	}
	entity.SetLayerHandle(set.Layer)

	return decoded{offset: int(ref.Offset), entity: entity, set: set, h: h, raw: frame.Body}, nil
}

// appendRow converts one decoded entity into its row type and appends
// it to the matching Document slice. Types without a case below
// (Dynamic, LAYER, BLOCK_HEADER and the other table/object types)
// produce no row; of those, Decode counts only Dynamic ones, in
// DynamicCount.
func appendRow(doc *Document, dr decoded, layer uint64, layerName string, blockHandle uint64, blockNames *blockname.Resolver) {
	switch e := dr.entity.(type) {
	case *entities.Line:
		doc.Lines = append(doc.Lines, LineRow{
			Handle: e.Handle(), Start: e.Start, End: e.End,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.Circle:
		doc.Circles = append(doc.Circles, CircleRow{
			Handle: e.Handle(), Center: e.Center, Radius: e.Radius,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.Arc:
		doc.Arcs = append(doc.Arcs, ArcRow{
			Handle: e.Handle(), Center: e.Center, Radius: e.Radius,
			StartAngle: e.StartAngle, EndAngle: e.EndAngle,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.Point:
		doc.Points = append(doc.Points, PointRow{
			Handle: e.Handle(), Location: e.Location,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.Ray:
		doc.Rays = append(doc.Rays, RayRow{
			Handle: e.Handle(), Start: e.Start, UnitVector: e.UnitVector,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.XLine:
		doc.XLines = append(doc.XLines, XLineRow{
			Handle: e.Handle(), Start: e.Start, UnitVector: e.UnitVector,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.Text:
		doc.Texts = append(doc.Texts, TextRow{
			Handle: e.Handle(), Insertion: e.Insertion, Height: e.Height,
			Rotation: e.Rotation, Value: e.Value,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.MText:
		doc.MTexts = append(doc.MTexts, MTextRow{
			Handle: e.Handle(), Insertion: e.Insertion, RectWidth: e.RectWidth,
			Height: e.Height, Value: e.Value,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	case *entities.LwPolyline:
		row := LwPolylineRow{
			Handle: e.Handle(), Closed: e.Flags&0x01 != 0,
			Vertices: e.Vertices, Bulges: e.Bulges,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		}
		for _, w := range e.Widths {
			row.Widths = append(row.Widths, struct{ Start, End float64 }{w.Start, w.End})
		}
		if e.ConstWidth != nil {
			row.HasConstWidth = true
			row.ConstWidth = *e.ConstWidth
		}
		doc.LwPolylines = append(doc.LwPolylines, row)
	case *entities.Insert:
		name, _ := blockNames.NameOf(blockHandle)
		doc.Inserts = append(doc.Inserts, InsertRow{
			Handle: e.Handle(), Position: e.Position, Scale: e.Scale,
			Rotation: e.Rotation, BlockHeaderHandle: blockHandle, BlockName: name,
			ColorIndex: e.ColorIndex(), Layer: layer, LayerName: layerName,
		})
	}
}
