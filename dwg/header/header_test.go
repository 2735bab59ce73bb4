package header

import (
	"testing"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/version"
)

func buildLegacyHeaderBody(t *testing.T, handle uint64, trailingBits int) []byte {
	t.Helper()
	w := bit.NewWriter()
	if err := w.WriteH(5, handle); err != nil {
		t.Fatal(err)
	}
	w.WriteBS(0) // EED terminator
	w.WriteB(0)  // no graphic

	// The data fields go into their own writer first so obj_size (their
	// bit length) can be written ahead of them: obj_size starts at bit
	// 19 here, not on a byte boundary, so it cannot be patched byte-wise.
	data := bit.NewWriter()
	data.WriteBB(0)  // entity_mode
	data.WriteBL(0)  // num_reactors
	data.WriteB(0)   // xdic_missing
	data.WriteB(0)   // no_links
	data.WriteBS(7)  // color index, no true color
	data.WriteBD(1.0) // ltype scale
	data.WriteBB(0)  // ltype flags
	data.WriteBB(0)  // plotstyle flags
	data.WriteBS(0)  // invisibility
	data.WriteRC(0)  // lineweight
	w.WriteRL(uint32(data.TellBits()))
	w.WriteBitsFrom(data)

	for i := 0; i < trailingBits; i++ {
		w.WriteB(0)
	}
	return w.Bytes()
}

func TestParseCommonLegacy(t *testing.T) {
	body := buildLegacyHeaderBody(t, 0x42, 16)
	r := bit.NewReader(body)
	h, err := ParseCommon(r, version.R2000)
	if err != nil {
		t.Fatal(err)
	}
	if h.Handle != 0x42 {
		t.Errorf("handle = %x, want 0x42", h.Handle)
	}
	if h.Color.Index != 7 {
		t.Errorf("color index = %d, want 7", h.Color.Index)
	}
	// obj_size should point at the handle stream, i.e. right after the
	// fields we wrote plus before the trailing padding bits.
	handleReader := bit.NewReader(body)
	if err := handleReader.SetBitPos(int64(h.ObjSize)); err != nil {
		t.Fatalf("obj_size out of range: %v", err)
	}
}

func TestR2010DataEndCandidatesIncludesCanonical(t *testing.T) {
	h := CommonEntityHeader{ObjSize: 512, BodyBits: 1024}
	cands := R2010DataEndCandidates(h)
	found := false
	for _, c := range cands {
		if c == 512 {
			found = true
		}
	}
	if !found {
		t.Error("expected canonical obj_size among candidates")
	}
	if len(cands) < 2 {
		t.Error("expected delta candidates beyond the canonical value")
	}
}
