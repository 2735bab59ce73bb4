package objectmap

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	refs := []Ref{
		{Handle: 1, Offset: 100},
		{Handle: 3, Offset: 140},
		{Handle: 10, Offset: 220},
	}
	data := Encode(refs)

	ix, err := Decode(data, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.Refs) != len(refs) {
		t.Fatalf("got %d refs, want %d", len(ix.Refs), len(refs))
	}
	for i, want := range refs {
		if ix.Refs[i] != want {
			t.Errorf("ref %d: got %+v, want %+v", i, ix.Refs[i], want)
		}
	}
	if off, ok := ix.Locate(3); !ok || off != 140 {
		t.Errorf("Locate(3) = %d, %v", off, ok)
	}
	if _, ok := ix.Locate(999); ok {
		t.Error("Locate(999) should miss")
	}
}

func TestDecodeEmpty(t *testing.T) {
	ix, err := Decode(Encode(nil), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.Refs) != 0 {
		t.Errorf("expected no refs, got %d", len(ix.Refs))
	}
}

func TestDecodeBestEffortTruncatedBlock(t *testing.T) {
	// A block claiming more payload than is actually present.
	data := []byte{0x00, 0x10, 0x01, 0x02} // size=16 but only 2 bytes follow
	ix, err := Decode(data, true)
	if err != nil {
		t.Fatalf("best-effort decode should not error: %v", err)
	}
	_ = ix // best-effort just yields whatever could be salvaged
}
