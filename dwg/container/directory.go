// Package container implements C2: version detection has already
// happened by the time callers reach here (see version.Detect); this
// package parses the section directory for each dialect family and
// exposes decompressed section slices. Three family parsers
// (legacy.go, r2004.go, r2007.go) feed the same SectionDirectory type,
// mirroring the way the teacher's flate/brotli/bzip2 packages are
// distinct bitstream grammars that converge on the same Reader shape.
package container

import "github.com/dsnet/cadwg/internal/errors"

// SectionKind tags the semantic role of a section record.
type SectionKind int

const (
	KindUnknown SectionKind = iota
	KindHeader
	KindClasses
	KindObjectMap
	KindObjects
	KindStrings
)

func (k SectionKind) String() string {
	switch k {
	case KindHeader:
		return "Header"
	case KindClasses:
		return "Classes"
	case KindObjectMap:
		return "ObjectMap"
	case KindObjects:
		return "Objects"
	case KindStrings:
		return "Strings"
	default:
		return "Unknown"
	}
}

// SectionRecord is (kind-tag, byte-offset, byte-size, optional-name).
type SectionRecord struct {
	Kind   SectionKind
	Name   string
	Offset uint64
	Size   uint64
}

// SectionDirectory is the parsed table of section records for one file.
type SectionDirectory struct {
	Records []SectionRecord
}

// ByKind returns the first record of the given kind, if any.
func (d *SectionDirectory) ByKind(k SectionKind) (SectionRecord, bool) {
	for _, r := range d.Records {
		if r.Kind == k {
			return r, true
		}
	}
	return SectionRecord{}, false
}

// ByName returns the first record with the given name, if any. Used by
// the r2004/r2007 families, where sections are named rather than
// fixed-order.
func (d *SectionDirectory) ByName(name string) (SectionRecord, bool) {
	for _, r := range d.Records {
		if r.Name == name {
			return r, true
		}
	}
	return SectionRecord{}, false
}

// Section is a decompressed section's bytes plus the record that
// described it and whether its CRC matched.
type Section struct {
	Record     SectionRecord
	Data       []byte
	CRCValid   bool
	CRCChecked bool
}

// knownSectionNames maps the r2004/r2007 family's named sections onto
// the kinds the rest of the decoder cares about; sections named
// something else (AcDb:Preview, AcDb:SummaryInfo, AcDb:AppInfo, ...)
// decode to KindUnknown and are reached by name instead (Directory.Preview
// looks up AcDb:Preview).
var knownSectionNames = map[string]SectionKind{
	"AcDb:Header":       KindHeader,
	"AcDb:Classes":      KindClasses,
	"AcDb:Handles":      KindObjectMap,
	"AcDb:AcDbObjects":  KindObjects,
	"AcDb:ObjFreeSpace": KindUnknown,
}

func kindForName(name string) SectionKind {
	if k, ok := knownSectionNames[name]; ok {
		return k
	}
	return KindUnknown
}

func errShort(offset int64) error {
	return errors.Atf(errors.Format, offset, "section directory truncated")
}
