package writer

import (
	"encoding/binary"

	"github.com/dsnet/cadwg/dwg/objectmap"
	"github.com/dsnet/cadwg/internal/errors"
)

// directorySentinel is the fixed 16-byte marker that ends the legacy
// section directory; dwg/container/legacy.go's ParseLegacyDirectory
// doesn't actually validate it (best-effort callers may be missing
// it), but this writer always emits it so round-tripped files look
// identical to what a real AutoCAD R2000 writer produces at this
// offset.
var directorySentinel = [16]byte{
	0x95, 0xA0, 0x4E, 0x28, 0x99, 0x82, 0x1A, 0xE5,
	0x5E, 0x41, 0xE0, 0x5F, 0x9D, 0x3A, 0x4D, 0x00,
}

// classesSentinelBefore/After frame the minimal CLASSES section this
// writer emits: no class table, just the two sentinels and a
// zero-length, zero-CRC body, grounded on
// original_source/src/writer/r2000/classes.rs's
// encode_minimal_classes_section.
var (
	classesSentinelBefore = [16]byte{
		0x8D, 0xA1, 0xC4, 0xB8, 0xC4, 0xA9, 0xF8, 0xC5,
		0xC0, 0xDC, 0xF4, 0x5F, 0xE7, 0xCF, 0xB6, 0x8A,
	}
	classesSentinelAfter = [16]byte{
		0x72, 0x5E, 0x3B, 0x47, 0x3B, 0x56, 0x07, 0x3A,
		0x3F, 0x23, 0x0B, 0xA0, 0x18, 0x30, 0x49, 0x75,
	}
)

// Record is one already-encoded object record plus the handle it was
// written for; WriteR2000 assembles them into an R2000 file in handle
// order, the same sort_by_key(handle) the Rust writer applies before
// laying the records out.
type Record struct {
	Handle uint64
	Body   []byte // result of one of the EncodeX functions in entities.go
}

func encodeMinimalClassesSection() []byte {
	out := make([]byte, 0, 16+4+2+16)
	out = append(out, classesSentinelBefore[:]...)
	out = append(out, 0, 0, 0, 0) // class data size, RL 0
	out = append(out, 0, 0)       // CRC placeholder
	out = append(out, classesSentinelAfter[:]...)
	return out
}

func alignUp(v, align int) int {
	if align == 0 {
		return v
	}
	rem := v % align
	if rem == 0 {
		return v
	}
	return v + (align - rem)
}

// WriteR2000 assembles a complete AC1015 file: header + section
// directory (classes, object map) + classes section + object records
// + object map, laid out exactly per spec §6's byte diagram. records
// need not be pre-sorted; WriteR2000 sorts a copy by handle the way
// the original writer does before computing offsets.
func WriteR2000(records []Record) ([]byte, error) {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Handle > sorted[j].Handle; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Handle == sorted[i-1].Handle {
			return nil, errors.Newf(errors.Format, "duplicate object handle %#x", sorted[i].Handle)
		}
	}

	classesSection := encodeMinimalClassesSection()

	const recordCount = 2 // directory lists only CLASSES and OBJECTMAP; object records are located via the map, not their own directory entry
	directorySize := 0x15 + 4 + recordCount*9 + 2 + 16
	cursor := alignUp(directorySize, 4)

	classesOffset := cursor
	cursor = alignUp(cursor+len(classesSection), 4)

	refs := make([]objectmap.Ref, len(sorted))
	offsets := make([]int, len(sorted))
	for i, rec := range sorted {
		offsets[i] = cursor
		refs[i] = objectmap.Ref{Handle: rec.Handle, Offset: uint32(cursor)}
		cursor += len(rec.Body)
	}
	cursor = alignUp(cursor, 4)

	objectMapSection := objectmap.Encode(refs)
	objectMapOffset := cursor
	cursor += len(objectMapSection)

	out := make([]byte, cursor)
	copy(out[0:6], []byte("AC1015"))
	binary.LittleEndian.PutUint32(out[0x15:0x19], recordCount)

	entryOff := 0x19
	writeSectionRecord(out, entryOff, 1, uint32(classesOffset), uint32(len(classesSection)))
	entryOff += 9
	writeSectionRecord(out, entryOff, 2, uint32(objectMapOffset), uint32(len(objectMapSection)))
	entryOff += 9
	binary.LittleEndian.PutUint16(out[entryOff:entryOff+2], 0) // directory CRC placeholder
	entryOff += 2
	copy(out[entryOff:entryOff+16], directorySentinel[:])

	copy(out[classesOffset:], classesSection)
	for i, rec := range sorted {
		copy(out[offsets[i]:], rec.Body)
	}
	copy(out[objectMapOffset:], objectMapSection)

	return out, nil
}

func writeSectionRecord(buf []byte, offset int, kind byte, sectionOffset, sectionSize uint32) {
	buf[offset] = kind
	binary.LittleEndian.PutUint32(buf[offset+1:offset+5], sectionOffset)
	binary.LittleEndian.PutUint32(buf[offset+5:offset+9], sectionSize)
}
