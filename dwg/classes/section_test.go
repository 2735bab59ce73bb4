package classes

import (
	"encoding/binary"
	"testing"

	"github.com/dsnet/cadwg/bit"
)

// buildSection assembles a CLASSES section byte slice around a
// pre-encoded record body, mirroring the sentinel/RL-size/CRC framing
// dwg/writer's encodeMinimalClassesSection emits.
func buildSection(body []byte) []byte {
	out := make([]byte, 0, sectionHeaderLen+len(body)+2+16)
	out = append(out, sectionSentinelBefore[:]...)
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(body)))
	out = append(out, size[:]...)
	out = append(out, body...)
	out = append(out, 0, 0) // CRC placeholder; ParseSection doesn't validate it
	out = append(out, sectionSentinelAfter[:]...)
	return out
}

func encodeRecord(w *bit.Writer, number, proxyFlags uint16, appName, className string, version uint16) {
	w.WriteBS(number)
	w.WriteBS(proxyFlags)
	if err := w.WriteTV(appName); err != nil {
		panic(err)
	}
	if err := w.WriteTV(className); err != nil {
		panic(err)
	}
	w.WriteBS(version)
}

func TestParseSectionEmptyBody(t *testing.T) {
	data := buildSection(nil)
	table, records, err := ParseSection(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if _, ok := Resolve(0x1F5, table); ok {
		t.Error("empty table should not resolve any dynamic code")
	}
}

func TestParseSectionOneRecord(t *testing.T) {
	w := bit.NewWriter()
	encodeRecord(w, 0x1F5, 0, "ACDB_CLASSES", "ACAD_PROXY_ENTITY", 27)
	data := buildSection(w.Bytes())

	table, records, err := ParseSection(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Number != 0x1F5 || rec.ClassName != "ACAD_PROXY_ENTITY" || rec.AppName != "ACDB_CLASSES" || rec.Version != 27 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	name, ok := Resolve(0x1F5, table)
	if !ok || name != "ACAD_PROXY_ENTITY" {
		t.Fatalf("got %q, %v", name, ok)
	}
}

func TestParseSectionMultipleRecords(t *testing.T) {
	w := bit.NewWriter()
	encodeRecord(w, 0x1F0, 0, "APP_A", "WIPEOUT", 1)
	encodeRecord(w, 0x1F1, 1, "APP_B", "SUN", 2)
	data := buildSection(w.Bytes())

	table, records, err := ParseSection(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if name, ok := Resolve(0x1F0, table); !ok || name != "WIPEOUT" {
		t.Fatalf("got %q, %v", name, ok)
	}
	if name, ok := Resolve(0x1F1, table); !ok || name != "SUN" {
		t.Fatalf("got %q, %v", name, ok)
	}
}

func TestParseSectionTooShortIsEmptyUnderBestEffort(t *testing.T) {
	table, records, err := ParseSection([]byte{1, 2, 3}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 || len(table) != 0 {
		t.Fatalf("expected empty table/records, got %d/%d", len(table), len(records))
	}
}

func TestParseSectionTooShortErrorsOutsideBestEffort(t *testing.T) {
	_, _, err := ParseSection([]byte{1, 2, 3}, false)
	if err == nil {
		t.Fatal("expected an error for a too-short section")
	}
}

func TestParseSectionTruncatedRecordBestEffort(t *testing.T) {
	w := bit.NewWriter()
	encodeRecord(w, 0x1F0, 0, "APP_A", "WIPEOUT", 1)
	full := w.Bytes()
	// Drop the last two bytes, cutting off the record's final field, to
	// simulate a malformed trailing record.
	body := full[:len(full)-2]
	data := buildSection(body)

	table, records, err := ParseSection(data, true)
	if err != nil {
		t.Fatalf("unexpected error under best-effort: %v", err)
	}
	_ = table
	if len(records) != 0 {
		t.Fatalf("expected the truncated record to be dropped, got %d", len(records))
	}
}
