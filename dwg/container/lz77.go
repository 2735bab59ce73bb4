package container

import "github.com/dsnet/cadwg/internal/errors"

// lz77Decompress implements the LZ77-family decoder the R2004+ system
// sections use before C3/C4 ever see the bytes. The sliding-window
// back-reference copy is grounded on the teacher's
// brotli/dict_decoder.go (a dictDecoder that grows a window and serves
// backward copies); here the "window" is simply the output buffer
// built so far, since a whole section is decompressed in one shot
// rather than streamed.
//
// Token grammar: a control byte per token. 0x00 ends the stream. A
// control byte with the high bit set is a literal run of (byte&0x7F)
// raw bytes. Otherwise the control byte (1-0x7F) is a back-reference
// length, followed by a little-endian 16-bit distance: copy length
// bytes from output[len(output)-distance:].
func lz77Decompress(in []byte, sizeHint int) ([]byte, error) {
	out := make([]byte, 0, sizeHint)
	i := 0
	for i < len(in) {
		ctrl := in[i]
		i++
		if ctrl == 0x00 {
			break
		}
		if ctrl&0x80 != 0 {
			n := int(ctrl & 0x7F)
			if i+n > len(in) {
				return nil, errors.Atf(errors.Format, int64(i), "lz77 literal run exceeds input")
			}
			out = append(out, in[i:i+n]...)
			i += n
			continue
		}
		length := int(ctrl)
		if i+2 > len(in) {
			return nil, errors.Atf(errors.Format, int64(i), "lz77 back-reference truncated")
		}
		dist := int(in[i]) | int(in[i+1])<<8
		i += 2
		if dist <= 0 || dist > len(out) {
			return nil, errors.Atf(errors.Format, int64(i), "lz77 back-reference distance %d exceeds window", dist)
		}
		start := len(out) - dist
		for j := 0; j < length; j++ {
			out = append(out, out[start+j])
		}
	}
	return out, nil
}
