// Package objectmap implements C3: decoding the monotone delta-coded
// (handle, offset) table into an index. Structurally this is the
// simplest of the bit-packed tables -- a sequence of fixed-size
// blocks, each a run of UMC deltas -- so it leans directly on the bit
// package rather than introducing its own cursor type, the way the
// teacher's xflate/meta package builds directly on a shared bits.Buffer
// instead of rolling a parallel bit cursor per format.
package objectmap

import (
	"encoding/binary"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/internal/errors"
)

// Ref is one (handle, offset) pair recorded in the object map.
type Ref struct {
	Handle uint64
	Offset uint32
}

// Index is the decoded object map: an ordered list preserving
// emission order, plus a lookup side-index by handle.
type Index struct {
	Refs []Ref
	byH  map[uint64]uint32
}

// Locate returns the record offset for handle, if present. Grounded on
// original_source/src/objects/object_locator.rs, which the Rust
// implementation exposes as a dedicated accessor rather than having
// every caller walk Refs.
func (ix *Index) Locate(handle uint64) (uint32, bool) {
	off, ok := ix.byH[handle]
	return off, ok
}

// Decode parses the object-map section bytes into an Index. Each block
// starts with a 16-bit big-endian section_size (>= 2); a block with
// section_size == 2 is the terminator (empty payload, just the
// trailing CRC). Within a block, (Δhandle, Δoffset) pairs are unsigned
// modular-char and accumulate from (0,0); the running pair resets at
// the start of every block.
func Decode(data []byte, bestEffort bool) (*Index, error) {
	ix := &Index{byH: map[uint64]uint32{}}
	pos := 0
	for pos < len(data) {
		if pos+2 > len(data) {
			if bestEffort {
				break
			}
			return nil, errors.Atf(errors.Format, int64(pos), "object map block header truncated")
		}
		size := binary.BigEndian.Uint16(data[pos : pos+2])
		if size < 2 {
			if bestEffort {
				break
			}
			return nil, errors.Atf(errors.Format, int64(pos), "object map block size %d < 2", size)
		}
		blockEnd := pos + int(size)
		if blockEnd > len(data) {
			if bestEffort {
				blockEnd = len(data)
			} else {
				return nil, errors.Atf(errors.Format, int64(pos), "object map block exceeds section")
			}
		}
		if size == 2 {
			// Terminator block: empty payload, CRC (unverified) follows.
			break
		}
		payload := data[pos+2 : blockEnd]
		if err := decodeBlock(payload, ix, bestEffort); err != nil && !bestEffort {
			return nil, err
		}
		pos = blockEnd + 2 // skip the block's trailing CRC
	}
	return ix, nil
}

func decodeBlock(payload []byte, ix *Index, bestEffort bool) error {
	r := bit.NewReader(payload)
	var handle uint64
	var offset uint32
	for r.Remaining() >= 16 { // a UMC pair needs at least 2 bytes
		dh, err := r.ReadUMC()
		if err != nil {
			if bestEffort {
				return nil
			}
			return err
		}
		do, err := r.ReadUMC()
		if err != nil {
			if bestEffort {
				return nil
			}
			return err
		}
		newHandle := handle + uint64(dh)
		newOffset := offset + do
		if newHandle < handle || newOffset < offset {
			if !bestEffort {
				return errors.Atf(errors.Format, r.TellBits()/8, "object map block is not monotone")
			}
		}
		handle, offset = newHandle, newOffset
		ix.Refs = append(ix.Refs, Ref{Handle: handle, Offset: offset})
		ix.byH[handle] = offset
	}
	return nil
}

// Encode is the writer-side counterpart: it emits refs (which must
// already be sorted and monotone) as a single block followed by the
// 2-byte terminator block, matching
// encode_object_map_section(refs)/build_object_index_from_directory(S)
// from the testable properties in spec §8.
func Encode(refs []Ref) []byte {
	w := bit.NewWriter()
	var handle uint64
	var offset uint32
	for _, ref := range refs {
		_ = w.WriteUMC(uint32(ref.Handle - handle))
		_ = w.WriteUMC(ref.Offset - offset)
		handle, offset = ref.Handle, ref.Offset
	}
	payload := w.Bytes()

	out := make([]byte, 2, 2+len(payload)+2)
	binary.BigEndian.PutUint16(out[0:2], uint16(2+len(payload)))
	out = append(out, payload...)
	out = append(out, 0, 0) // CRC placeholder, matching the writer's zero-filled block CRCs

	terminator := []byte{0x00, 0x02, 0x00, 0x00}
	return append(out, terminator...)
}
