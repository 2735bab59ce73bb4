package classes

import (
	"encoding/binary"

	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/internal/errors"
)

// sectionSentinelBefore/After frame the CLASSES section's class-record
// body on disk: a 16-byte sentinel, a 4-byte RL giving the record
// body's length in bytes, the records themselves, a 2-byte CRC, then
// the matching after-sentinel. dwg/writer's encodeMinimalClassesSection
// emits exactly this shape (with a zero-length, zero-record body);
// ParseSection is its inverse, generalized to a non-empty body.
var (
	sectionSentinelBefore = [16]byte{
		0x8D, 0xA1, 0xC4, 0xB8, 0xC4, 0xA9, 0xF8, 0xC5,
		0xC0, 0xDC, 0xF4, 0x5F, 0xE7, 0xCF, 0xB6, 0x8A,
	}
	sectionSentinelAfter = [16]byte{
		0x72, 0x5E, 0x3B, 0x47, 0x3B, 0x56, 0x07, 0x3A,
		0x3F, 0x23, 0x0B, 0xA0, 0x18, 0x30, 0x49, 0x75,
	}
)

const sectionHeaderLen = 16 + 4 // before-sentinel + RL size field

// Record is one CLASSES section entry: the per-file type code a class
// name was assigned, the proxy flags AutoCAD stores alongside it, the
// owning application's name, and the class's declared name and
// version.
type Record struct {
	Number     TypeCode
	ProxyFlags uint16
	AppName    string
	ClassName  string
	Version    uint16
}

// ParseSection decodes a CLASSES section's bytes into a dynamic class
// Table (§4.6's "built once per file"), registering every record it
// reads under its class number. It also returns the individual
// records, for callers that want more than the resolved name (tests,
// diagnostics).
//
// A section shorter than the header (the 16-byte start sentinel plus
// the RL body size) yields an empty table under bestEffort and a
// Format error otherwise. Under bestEffort, a
// record that fails to parse partway through the body stops the scan
// instead of discarding every record already read; outside
// bestEffort the same condition is a hard error.
func ParseSection(data []byte, bestEffort bool) (Table, []Record, error) {
	t := Table{}
	if len(data) < sectionHeaderLen {
		if bestEffort {
			return t, nil, nil
		}
		return nil, nil, errors.Newf(errors.Format, "classes section too short for header: %d bytes", len(data))
	}

	size := binary.LittleEndian.Uint32(data[16:20])
	bodyStart := sectionHeaderLen
	bodyEnd := bodyStart + int(size)
	switch {
	case bodyEnd > len(data) && bestEffort:
		bodyEnd = len(data)
	case bodyEnd > len(data):
		return nil, nil, errors.Atf(errors.Format, int64(bodyStart), "classes section body (%d bytes) exceeds section size %d", size, len(data)-bodyStart)
	}

	var records []Record
	r := bit.NewReader(data[bodyStart:bodyEnd])
	for {
		number, err := r.ReadBS()
		if err != nil {
			break
		}
		proxyFlags, err := r.ReadBS()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, nil, err
		}
		appName, err := r.ReadTV()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, nil, err
		}
		className, err := r.ReadTV()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, nil, err
		}
		version, err := r.ReadBS()
		if err != nil {
			if bestEffort {
				break
			}
			return nil, nil, err
		}

		rec := Record{
			Number:     TypeCode(number),
			ProxyFlags: proxyFlags,
			AppName:    appName,
			ClassName:  className,
			Version:    version,
		}
		records = append(records, rec)
		t.Register(rec.Number, rec.ClassName)
	}

	return t, records, nil
}
