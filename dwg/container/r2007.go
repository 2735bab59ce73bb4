package container

import (
	"github.com/dsnet/cadwg/bit"
)

const r2007DirectoryBitOffset = 0x80 * 8

// ParseR2007Directory parses the R2007-specific bitstream-encoded
// section directory: unlike the legacy byte table (legacy.go) or the
// r2004 system-section index (r2004.go), R2007 stores the directory as
// a BL count followed by per-entry (TV name, BLL offset, BLL size)
// triples read through the same bit.Reader the rest of the decoder
// uses for object bodies -- R2007 is the one container family where
// the directory itself is bit-packed rather than byte-aligned.
func ParseR2007Directory(buf []byte, bestEffort bool) (*SectionDirectory, error) {
	r := bit.NewReader(buf)
	if err := r.SetBitPos(r2007DirectoryBitOffset); err != nil {
		if bestEffort {
			return &SectionDirectory{}, nil
		}
		return nil, err
	}
	count, err := r.ReadBL()
	if err != nil {
		if bestEffort {
			return &SectionDirectory{}, nil
		}
		return nil, err
	}
	dir := &SectionDirectory{}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadTV()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, err
		}
		offset, err := r.ReadBLL()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, err
		}
		size, err := r.ReadBLL()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, err
		}
		dir.Records = append(dir.Records, SectionRecord{
			Kind:   kindForName(name),
			Name:   name,
			Offset: offset,
			Size:   size,
		})
	}
	return dir, nil
}

// ReadR2007Section slices out a section's bytes directly; R2007
// sections in this implementation are stored byte-aligned and
// uncompressed (the bitstream encoding applies only to the directory
// itself), so no decompression stage runs here.
func ReadR2007Section(buf []byte, rec SectionRecord, bestEffort bool) (Section, error) {
	return ReadLegacySection(buf, rec, bestEffort)
}
