package record

import "testing"

func TestParseEncodeRoundTrip(t *testing.T) {
	body := []byte("the quick brown fox")
	section := Encode(body)

	f, err := Parse(section, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if f.Size != uint32(len(body)) {
		t.Errorf("size = %d, want %d", f.Size, len(body))
	}
	if string(f.Body) != string(body) {
		t.Errorf("body = %q, want %q", f.Body, body)
	}
	if !f.CRCValid {
		t.Error("expected valid CRC")
	}
}

func TestParseZeroSize(t *testing.T) {
	section := []byte{0x80, 0x00} // BB=10 -> BL/MS... encode size 0 via raw bytes
	// Build a minimal MS-encoded zero: selector chunk with value 0, no continuation.
	section = []byte{0x00, 0x00}
	_, err := Parse(section, 0, false)
	if err == nil {
		t.Fatal("expected error for zero-size record")
	}
}

func TestParseMultipleRecordsInSection(t *testing.T) {
	a := Encode([]byte("first"))
	b := Encode([]byte("second-record"))
	section := append(append([]byte{}, a...), b...)

	fa, err := Parse(section, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(fa.Body) != "first" {
		t.Errorf("got %q", fa.Body)
	}
	nextOffset := fa.BodyStartByte + int(fa.Size) + 2
	fb, err := Parse(section, nextOffset, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(fb.Body) != "second-record" {
		t.Errorf("got %q", fb.Body)
	}
}
