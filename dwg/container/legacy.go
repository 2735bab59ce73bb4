package container

import (
	"encoding/binary"

	"github.com/dsnet/golib/errs"

	"github.com/dsnet/cadwg/internal/crc"
	"github.com/dsnet/cadwg/internal/errors"
)

// errDirectoryShort is the internal sentinel errs.Assert panics with;
// the deferred errs.Recover in ParseLegacyDirectory turns it back into
// a normal returned *errors.Error before any caller ever sees a panic,
// the same defer-Recover-at-the-boundary convention
// xflate/meta.Reader.decodeBlock uses.
var errDirectoryShort = errors.New(errors.Format, "legacy section directory truncated")

// directorySentinel marks the end of the legacy section directory, the
// same 16-byte constant the writer emits (see dwg/writer/r2000.go).
var directorySentinel = [16]byte{
	0x95, 0xA0, 0x4E, 0x28, 0x99, 0x82, 0x1A, 0xE5,
	0x5E, 0x41, 0xE0, 0x5F, 0x9D, 0x3A, 0x4D, 0x00,
}

// legacyCountOffset and legacyTableOffset match the layout spec.md §6
// defines for the writer's R2000 output: a record count at 0x15, the
// table starting at 0x19.
const (
	legacyCountOffset = 0x15
	legacyTableOffset = 0x19
	legacyRecordSize  = 9 // 1 (kind) + 4 (offset) + 4 (size)
)

// kindFromByte maps the single-byte kind tag the legacy directory uses
// to a SectionKind.
var kindFromByte = map[byte]SectionKind{
	0: KindHeader,
	1: KindClasses,
	2: KindObjectMap,
	3: KindObjects,
	4: KindUnknown, // unknown/reserved legacy sections (preview, etc.)
}

// ParseLegacyDirectory parses the R14/R2000-family literal section
// directory from buf.
func ParseLegacyDirectory(buf []byte, bestEffort bool) (dir *SectionDirectory, err error) {
	defer errs.Recover(&err)
	errs.Assert(len(buf) >= legacyTableOffset+4, errDirectoryShort)

	count := binary.LittleEndian.Uint32(buf[legacyCountOffset : legacyCountOffset+4])
	dir = &SectionDirectory{}
	end := legacyTableOffset + int(count)*legacyRecordSize
	if end > len(buf) {
		errs.Assert(bestEffort, errDirectoryShort)
		// Best-effort: decode as many whole records as fit.
		count = uint32((len(buf) - legacyTableOffset) / legacyRecordSize)
		end = legacyTableOffset + int(count)*legacyRecordSize
	}
	off := legacyTableOffset
	for i := uint32(0); i < count; i++ {
		kindByte := buf[off]
		offset := binary.LittleEndian.Uint32(buf[off+1 : off+5])
		size := binary.LittleEndian.Uint32(buf[off+5 : off+9])
		dir.Records = append(dir.Records, SectionRecord{
			Kind:   kindFromByte[kindByte],
			Offset: uint64(offset),
			Size:   uint64(size),
		})
		off += legacyRecordSize
	}
	return dir, nil
}

// ReadLegacySection returns the raw bytes for rec out of buf. Legacy
// sections are stored uncompressed, so there is no decompression
// stage; the trailing CRC (if present within bounds) is verified
// unless bestEffort masks the mismatch.
func ReadLegacySection(buf []byte, rec SectionRecord, bestEffort bool) (Section, error) {
	start := int(rec.Offset)
	size := int(rec.Size)
	if start < 0 || size < 0 || start+size > len(buf) {
		if !bestEffort {
			return Section{}, errors.Atf(errors.Format, int64(start), "section %s out of bounds", rec.Kind)
		}
		return Section{Record: rec}, nil
	}
	data := buf[start : start+size]
	sec := Section{Record: rec, Data: data}
	if start+size+2 <= len(buf) {
		want := binary.LittleEndian.Uint16(buf[start+size : start+size+2])
		got := crc.Checksum(data)
		sec.CRCChecked = true
		sec.CRCValid = got == want
		if !sec.CRCValid && !bestEffort {
			return sec, errors.Atf(errors.Checksum, int64(start+size), "section %s CRC mismatch", rec.Kind)
		}
	}
	return sec, nil
}
