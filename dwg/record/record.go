// Package record implements C4: splitting one object record into its
// size-prefixed body and CRC tail, and exposing a bit.Reader
// positioned at the first body bit. This is deliberately the thinnest
// package in the decoder -- one function, one type -- the way the
// teacher keeps bzip2's block-header framing (magic + CRC + payload)
// separate from the BWT/MTF/RLE stages that interpret the payload.
package record

import (
	"encoding/binary"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/internal/crc"
	"github.com/dsnet/cadwg/internal/errors"
)

// Frame is one framed object record.
type Frame struct {
	Offset        int    // byte offset of the size prefix within the section
	Size          uint32 // size-in-bytes of the body, per the MS prefix
	BodyStartByte int    // byte offset where the body begins
	Body          []byte // the body bytes themselves
	CRC           uint16
	CRCValid      bool
}

// Reader returns a bit.Reader positioned at the start of the body.
func (f Frame) Reader() *bit.Reader {
	return bit.NewReader(f.Body)
}

// Parse frames one object record out of section starting at byteOffset
// (the offset recorded in the object map). It reads an MS size prefix,
// slices the body, and verifies the trailing 2-byte CRC.
func Parse(section []byte, byteOffset int, bestEffort bool) (Frame, error) {
	if byteOffset < 0 || byteOffset >= len(section) {
		return Frame{}, errors.Atf(errors.Format, int64(byteOffset), "record offset out of bounds")
	}
	r := bit.NewReader(section[byteOffset:])
	size, err := r.ReadMS()
	if err != nil {
		return Frame{}, err
	}
	if size == 0 {
		return Frame{}, errors.Atf(errors.Format, int64(byteOffset), "record size is zero")
	}
	if err := r.AlignByte(); err != nil {
		return Frame{}, err
	}
	prefixBytes := int(r.TellBits() / 8)
	bodyStart := byteOffset + prefixBytes
	bodyEnd := bodyStart + int(size)
	crcEnd := bodyEnd + 2
	if crcEnd > len(section) {
		if bestEffort {
			if bodyEnd > len(section) {
				bodyEnd = len(section)
			}
			return Frame{
				Offset:        byteOffset,
				Size:          size,
				BodyStartByte: bodyStart,
				Body:          section[bodyStart:bodyEnd],
			}, nil
		}
		return Frame{}, errors.Atf(errors.Format, int64(bodyEnd), "record body+CRC exceeds section buffer")
	}

	body := section[bodyStart:bodyEnd]
	wantCRC := binary.LittleEndian.Uint16(section[bodyEnd:crcEnd])
	gotCRC := crc.Checksum(body)
	f := Frame{
		Offset:        byteOffset,
		Size:          size,
		BodyStartByte: bodyStart,
		Body:          body,
		CRC:           wantCRC,
		CRCValid:      wantCRC == gotCRC,
	}
	if !f.CRCValid && !bestEffort {
		return f, errors.Atf(errors.Checksum, int64(bodyEnd), "object record CRC mismatch")
	}
	return f, nil
}

// Encode is the writer-side counterpart: MS size + body bits + u16 LE
// CRC, matching the wire format spec §6 defines for the writer.
func Encode(body []byte) []byte {
	w := bit.NewWriter()
	_ = w.WriteMS(uint32(len(body)))
	w.AlignByte()
	out := append(w.Bytes(), body...)
	var crcBytes [2]byte
	binary.LittleEndian.PutUint16(crcBytes[:], crc.Checksum(body))
	return append(out, crcBytes[:]...)
}
