package container

import (
	"bytes"

	"github.com/ulikunitz/xz/lzma"

	"github.com/dsnet/cadwg/internal/errors"
)

// Family mirrors dwg.Family without importing the dwg package (which
// imports container), so callers pass the family they already
// determined from the version tag.
type Family int

const (
	FamilyLegacy Family = iota
	Family2004
	Family2007
)

// Directory is the section directory Parse builds for buf under the
// given family, with accessors for each section's decompressed bytes.
// The r2004 entries are retained so sections can be decompressed lazily and
// cached, rather than eagerly decompressing sections nothing ends up
// reading.
type Directory struct {
	Dir         *SectionDirectory
	family      Family
	buf         []byte
	bestEffort  bool
	r2004       []sysSectionEntry
	cache       map[string]Section
}

// Parse detects the directory for the given family and returns a
// Directory ready to serve Section lookups.
func Parse(buf []byte, family Family, bestEffort bool) (*Directory, error) {
	d := &Directory{buf: buf, family: family, bestEffort: bestEffort, cache: map[string]Section{}}
	switch family {
	case FamilyLegacy:
		dir, err := ParseLegacyDirectory(buf, bestEffort)
		if err != nil {
			return nil, err
		}
		d.Dir = dir
	case Family2007:
		dir, err := ParseR2007Directory(buf, bestEffort)
		if err != nil {
			return nil, err
		}
		d.Dir = dir
	default:
		dir, entries, err := ParseR2004Directory(buf, bestEffort)
		if err != nil {
			return nil, err
		}
		d.Dir = dir
		d.r2004 = entries
	}
	return d, nil
}

// Section returns the decompressed bytes for the named/kinded section,
// decompressing and caching on first access (one-shot lazy init per
// §5 "decompressed sections are owned and cached once per section").
func (d *Directory) Section(rec SectionRecord) (Section, error) {
	key := rec.Name
	if key == "" {
		key = rec.Kind.String()
	}
	if sec, ok := d.cache[key]; ok {
		return sec, nil
	}
	var sec Section
	var err error
	switch d.family {
	case FamilyLegacy:
		sec, err = ReadLegacySection(d.buf, rec, d.bestEffort)
	case Family2007:
		sec, err = ReadR2007Section(d.buf, rec, d.bestEffort)
	default:
		sec, err = d.readR2004(rec)
	}
	if err != nil {
		return Section{}, err
	}
	d.cache[key] = sec
	return sec, nil
}

func (d *Directory) readR2004(rec SectionRecord) (Section, error) {
	for _, e := range d.r2004 {
		if e.Name == rec.Name {
			return DecompressR2004Section(d.buf, e, d.bestEffort)
		}
	}
	return Section{}, errors.Newf(errors.Format, "no system-section entry for %q", rec.Name)
}

// SectionByKind is a convenience wrapper combining directory lookup
// and decompression.
func (d *Directory) SectionByKind(k SectionKind) (Section, error) {
	rec, ok := d.Dir.ByKind(k)
	if !ok {
		return Section{}, errors.Newf(errors.Format, "no %s section in directory", k)
	}
	return d.Section(rec)
}

// Preview returns the file's "AcDb:Preview" section passed through
// PreviewLZMA, for callers that want the thumbnail rather than any
// drawing entity. Preview data that is not an LZMA blob yields
// PreviewLZMA's Decode error.
// It is never called from the ObjectMap/Objects/Header decode path;
// Decoder.Preview is the sole entry point that reaches it.
func (d *Directory) Preview() ([]byte, error) {
	rec, ok := d.Dir.ByName("AcDb:Preview")
	if !ok {
		return nil, errors.Newf(errors.Format, "no AcDb:Preview section in directory")
	}
	sec, err := d.Section(rec)
	if err != nil {
		return nil, err
	}
	return PreviewLZMA(sec.Data)
}

// PreviewLZMA decompresses an LZMA-compressed preview/thumbnail blob
// some non-Autodesk R2013+ writers emit in place of the native
// encoding. This path is only reached when a caller explicitly asks
// for preview data via Directory.Preview; the common
// ObjectMap/Objects/Header path never touches package lzma.
func PreviewLZMA(raw []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Newf(errors.Decode, "lzma preview: %v", err)
	}
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Newf(errors.Decode, "lzma preview: %v", err)
	}
	return buf.Bytes(), nil
}
