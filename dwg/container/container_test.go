package container

import (
	"encoding/binary"
	"testing"

	"github.com/dsnet/cadwg/internal/crc"
)

func buildLegacyBuf(records []SectionRecord, sections map[SectionKind][]byte) []byte {
	buf := make([]byte, legacyTableOffset)
	binary.LittleEndian.PutUint32(buf[legacyCountOffset:], uint32(len(records)))

	var table []byte
	var body []byte
	bodyBase := legacyTableOffset + len(records)*legacyRecordSize
	for _, rec := range records {
		data := sections[rec.Kind]
		offset := bodyBase + len(body)
		var rb [9]byte
		for kb, k := range kindFromByte {
			if k == rec.Kind {
				rb[0] = kb
				break
			}
		}
		binary.LittleEndian.PutUint32(rb[1:5], uint32(offset))
		binary.LittleEndian.PutUint32(rb[5:9], uint32(len(data)))
		table = append(table, rb[:]...)

		body = append(body, data...)
		var crcBytes [2]byte
		binary.LittleEndian.PutUint16(crcBytes[:], crc.Checksum(data))
		body = append(body, crcBytes[:]...)
	}
	buf = append(buf, table...)
	buf = append(buf, body...)
	return buf
}

func TestLegacyDirectoryRoundTrip(t *testing.T) {
	sections := map[SectionKind][]byte{
		KindObjects:   []byte("hello-objects-section"),
		KindObjectMap: []byte("om"),
	}
	records := []SectionRecord{
		{Kind: KindObjects},
		{Kind: KindObjectMap},
	}
	buf := buildLegacyBuf(records, sections)

	dir, err := ParseLegacyDirectory(buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(dir.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(dir.Records))
	}
	rec, ok := dir.ByKind(KindObjects)
	if !ok {
		t.Fatal("missing Objects record")
	}
	sec, err := ReadLegacySection(buf, rec, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(sec.Data) != "hello-objects-section" {
		t.Errorf("got %q", sec.Data)
	}
	if !sec.CRCValid {
		t.Error("expected valid CRC")
	}
}

func TestDirectoryPreviewMissingSection(t *testing.T) {
	sections := map[SectionKind][]byte{
		KindObjects:   []byte("hello-objects-section"),
		KindObjectMap: []byte("om"),
	}
	records := []SectionRecord{
		{Kind: KindObjects},
		{Kind: KindObjectMap},
	}
	buf := buildLegacyBuf(records, sections)

	dir, err := Parse(buf, FamilyLegacy, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dir.Preview(); err == nil {
		t.Error("expected an error for a directory with no AcDb:Preview section")
	}
}

func TestPreviewLZMARejectsNonLZMAData(t *testing.T) {
	if _, err := PreviewLZMA([]byte("not an lzma stream")); err == nil {
		t.Error("expected an error decoding non-LZMA bytes as LZMA")
	}
}

func TestLegacyBestEffortTruncated(t *testing.T) {
	buf := make([]byte, legacyTableOffset+5) // fewer bytes than one full record
	binary.LittleEndian.PutUint32(buf[legacyCountOffset:], 3)
	dir, err := ParseLegacyDirectory(buf, true)
	if err != nil {
		t.Fatalf("best-effort parse should not fail: %v", err)
	}
	if len(dir.Records) != 0 {
		t.Errorf("expected 0 usable records, got %d", len(dir.Records))
	}

	_, err = ParseLegacyDirectory(buf, false)
	if err == nil {
		t.Fatal("expected strict-mode error on truncated directory")
	}
}

func TestLZ77RoundTrip(t *testing.T) {
	// Encode "ABCABCABC" as a literal run then a back-reference.
	in := []byte{
		0x83, 'A', 'B', 'C', // literal run of 3
		0x06, 0x03, 0x00, // copy 6 bytes from distance 3 -> "ABCABC"
		0x00, // end
	}
	out, err := lz77Decompress(in, 16)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "ABCABCABC" {
		t.Errorf("got %q", out)
	}
}

func TestDescrambleInvolution(t *testing.T) {
	data := []byte("the quick brown fox jumps over 13 lazy dogs!!")
	orig := append([]byte(nil), data...)
	descramble(data)
	if string(data) == string(orig) {
		t.Fatal("descramble did not change data")
	}
	descramble(data)
	if string(data) != string(orig) {
		t.Fatal("descramble is not its own inverse")
	}
}
