// Package version is the detected-dialect vocabulary shared by every
// other dwg/* package, kept separate from the top-level dwg package so
// that dwg/header, dwg/entities, dwg/resolve and friends can depend on
// it without importing the orchestrator package that depends on them.
package version

import (
	"github.com/dsnet/cadwg/dwg/container"
	"github.com/dsnet/cadwg/internal/errors"
)

// Version is the detected dialect of a drawing file. Once detected it
// is immutable and determines every branching decision downstream.
type Version int

const (
	Unknown Version = iota
	R14
	R2000
	R2004
	R2007
	R2010
	R2013
	R2018
)

func (v Version) String() string {
	switch v {
	case R14:
		return "R14"
	case R2000:
		return "R2000"
	case R2004:
		return "R2004"
	case R2007:
		return "R2007"
	case R2010:
		return "R2010"
	case R2013:
		return "R2013"
	case R2018:
		return "R2018"
	default:
		return "Unknown"
	}
}

// tagToVersion maps the 6-byte file signature to a dialect.
var tagToVersion = map[string]Version{
	"AC1014": R14,
	"AC1015": R2000,
	"AC1018": R2004,
	"AC1021": R2007,
	"AC1024": R2010,
	"AC1027": R2013,
	"AC1032": R2018,
}

// Detect reads the first 6 bytes of buf and returns the matching
// dialect, or Unknown with a Format error if buf is too short or an
// Unsupported error if the tag isn't recognized.
func Detect(buf []byte) (Version, error) {
	if len(buf) < 6 {
		return Unknown, errors.New(errors.Format, "buffer shorter than the 6-byte version tag")
	}
	tag := string(buf[:6])
	if v, ok := tagToVersion[tag]; ok {
		return v, nil
	}
	return Unknown, errors.Newf(errors.Unsupported, "unrecognized version tag %q", tag)
}

// FamilyOf reports which container family (dwg/container.Family) a
// version belongs to (§4.2).
func FamilyOf(v Version) container.Family {
	switch v {
	case R14, R2000:
		return container.FamilyLegacy
	case R2007:
		return container.Family2007
	default:
		return container.Family2004
	}
}

// IsModernFamily reports whether v uses the "handle before obj_size,
// separate string/handle stream tail" common-header layout (§4.5).
func IsModernFamily(v Version) bool {
	return v == R2007 || v == R2010 || v == R2013 || v == R2018
}

// IsR2010Plus reports whether v is R2010 or later.
func IsR2010Plus(v Version) bool {
	return v == R2010 || v == R2013 || v == R2018
}

// IsHandleStreamAmbiguous reports whether obj_size/handle-stream layout
// requires the scored recovery search of dwg/resolve (§4.9), true for
// R2010 and later.
func IsHandleStreamAmbiguous(v Version) bool {
	return IsR2010Plus(v)
}

// DefaultBestEffort reports whether a version defaults to best-effort
// decoding per §7 ("versions outside the well-tested set default to
// best-effort"). R2000 and R2004 are the well-tested baseline.
func DefaultBestEffort(v Version) bool {
	switch v {
	case R2000, R2004:
		return false
	default:
		return true
	}
}
