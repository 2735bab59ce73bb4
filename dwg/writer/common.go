package writer

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/record"
	"github.com/dsnet/cadwg/internal/errors"
)

// encodeRecord wraps an entity's body bits as a framed object record
// (C4's write-side counterpart), reusing dwg/record.Encode rather than
// re-deriving the MS-size+CRC framing here.
func encodeRecord(body []byte) []byte {
	return record.Encode(body)
}

// Common is the subset of the common header and handle stream every
// writer-emitted entity shares: a handle, an owning block (modelspace,
// handle 1 by convention, matching the Rust writer's owner_handle: 1),
// a layer (handle 2, the default layer our minimal classes/layer setup
// implies), and a color index.
type Common struct {
	Handle      uint64
	OwnerHandle uint64
	LayerHandle uint64
	ColorIndex  uint16
}

func (c Common) validate() error {
	if c.Handle == 0 {
		return errors.New(errors.Format, "entity handle must be non-zero")
	}
	if c.OwnerHandle == 0 || c.LayerHandle == 0 {
		return errors.New(errors.Format, "entity owner/layer handles must be non-zero")
	}
	return nil
}

// assembleEntityRecord writes one full object-record body: an R2010-
// style type-code prefix (harmless for legacy dispatch, read by the
// orchestrator before header.ParseCommon, the same way a real R2000
// object record leads with its type code), the common header fields
// in exactly the order dwg/header's parseLegacy expects, the
// type-specific body writeBody appends, and finally the owner+layer
// handle stream -- the only two handles our common header's flags
// require (EntityMode 0, XdicMissing, no color book, LtypeFlags != 3,
// MaterialFlags == 0, PlotstyleFlags == 0, no visual style, matching
// dwg/handles.Parse's gating exactly).
//
// obj_size is computed, not guessed: writeBody runs against a scratch
// Writer first so its bit length is known before the RL length field
// is written, then the scratch bits are spliced in behind it.
func assembleEntityRecord(typeCode uint16, c Common, writeBody func(w *bit.Writer) error) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	out := bit.NewWriter()
	out.WriteBS(typeCode)
	if err := out.WriteH(0x02, c.Handle); err != nil {
		return nil, err
	}
	out.WriteBS(0) // EED terminator (no extended entity data)
	out.WriteB(0)  // graphic_present_flag

	scratch := bit.NewWriter()
	scratch.WriteBB(0)            // entity_mode: 0 => owner handle present in the handle stream
	scratch.WriteBL(0)            // num_reactors
	scratch.WriteB(1)             // xdic_missing_flag
	scratch.WriteB(0)             // no_links
	scratch.WriteBS(c.ColorIndex) // CMC color index, no true-color/book override
	scratch.WriteBD(1.0)          // ltype scale
	scratch.WriteBB(0)            // ltype_flags (!= 3, no explicit ltype handle)
	scratch.WriteBB(0)            // plotstyle_flags (0, no explicit plotstyle handle)
	scratch.WriteBS(0)            // invisibility
	scratch.WriteRC(0)            // lineweight
	if err := writeBody(scratch); err != nil {
		return nil, err
	}

	objSizeBits := scratch.TellBits()
	out.WriteRL(uint32(objSizeBits))
	out.WriteBitsFrom(scratch)

	handles := bit.NewWriter()
	if err := handles.WriteH(0x02, c.OwnerHandle); err != nil {
		return nil, err
	}
	if err := handles.WriteH(0x02, c.LayerHandle); err != nil {
		return nil, err
	}
	out.WriteBitsFrom(handles)

	return out.Bytes(), nil
}
