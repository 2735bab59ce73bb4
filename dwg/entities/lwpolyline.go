package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
	"github.com/dsnet/cadwg/internal/errors"
)

// LwPolyline flag bits (§4.7).
const (
	lwFlagClosed       = 0x01
	lwFlagThickness    = 0x02
	lwFlagConstWidth   = 0x04
	lwFlagElevation    = 0x08
	lwFlagHasBulges    = 0x10
	lwFlagHasWidths    = 0x20
	lwFlagHasVertexIDs = 0x400
)

// Width is a per-vertex (start, end) width pair.
type Width struct{ Start, End float64 }

// LwPolyline is the LWPOLYLINE entity.
type LwPolyline struct {
	Base
	Flags      uint16
	ConstWidth *float64
	Elevation  float64
	Thickness  float64
	Normal     bit.Point3
	Vertices   []struct{ X, Y float64 }
	Bulges     []float64
	Widths     []Width
}

func (l *LwPolyline) TypeName() string { return "LWPOLYLINE" }

// maxLwPolylineCount bounds vertex/bulge/width counts read off a
// (possibly corrupt) BL field, the same guard the original decoder's
// validate_lwpolyline_count applies before allocating.
const maxLwPolylineCount = 1 << 20

func validateCount(n uint32, what string) error {
	if n > maxLwPolylineCount {
		return errors.Newf(errors.Decode, "lwpolyline %s count %d implausible", what, n)
	}
	return nil
}

// DecodeLwPolyline decodes an LWPOLYLINE body. r14VertexMode selects
// the R13/R14 vertex encoding (each vertex is two raw RD values)
// instead of the R2000+ encoding (first vertex RD, subsequent DD
// relative to the previous vertex).
func DecodeLwPolyline(r *bit.Reader, h header.CommonEntityHeader, r14VertexMode bool) (*LwPolyline, error) {
	flags, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	l := &LwPolyline{Base: BaseFrom(h), Flags: flags}

	if flags&lwFlagConstWidth != 0 {
		w, err := r.ReadBD()
		if err != nil {
			return nil, err
		}
		l.ConstWidth = &w
	}
	if flags&lwFlagElevation != 0 {
		l.Elevation, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagThickness != 0 {
		l.Thickness, err = r.ReadBD()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagClosed != 0 {
		l.Normal, err = r.Read3BD()
		if err != nil {
			return nil, err
		}
	}

	numVerts, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	if err := validateCount(numVerts, "vertex"); err != nil {
		return nil, err
	}
	var numBulges, numVertexIDs, numWidths uint32
	if flags&lwFlagHasBulges != 0 {
		numBulges, err = r.ReadBL()
		if err != nil {
			return nil, err
		}
		if err := validateCount(numBulges, "bulge"); err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasVertexIDs != 0 {
		numVertexIDs, err = r.ReadBL()
		if err != nil {
			return nil, err
		}
		if err := validateCount(numVertexIDs, "vertex-id"); err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasWidths != 0 {
		numWidths, err = r.ReadBL()
		if err != nil {
			return nil, err
		}
		if err := validateCount(numWidths, "width"); err != nil {
			return nil, err
		}
	}

	l.Vertices = make([]struct{ X, Y float64 }, 0, numVerts)
	if numVerts > 0 {
		if r14VertexMode {
			for i := uint32(0); i < numVerts; i++ {
				x, err := r.ReadRD()
				if err != nil {
					return nil, err
				}
				y, err := r.ReadRD()
				if err != nil {
					return nil, err
				}
				l.Vertices = append(l.Vertices, struct{ X, Y float64 }{x, y})
			}
		} else {
			x0, err := r.ReadRD()
			if err != nil {
				return nil, err
			}
			y0, err := r.ReadRD()
			if err != nil {
				return nil, err
			}
			l.Vertices = append(l.Vertices, struct{ X, Y float64 }{x0, y0})
			for i := uint32(1); i < numVerts; i++ {
				prev := l.Vertices[len(l.Vertices)-1]
				x, err := r.ReadDD(prev.X)
				if err != nil {
					return nil, err
				}
				y, err := r.ReadDD(prev.Y)
				if err != nil {
					return nil, err
				}
				l.Vertices = append(l.Vertices, struct{ X, Y float64 }{x, y})
			}
		}
	}

	if numBulges > 0 {
		normalized := make([]float64, numVerts)
		for i := uint32(0); i < numBulges; i++ {
			b, err := r.ReadBD()
			if err != nil {
				return nil, err
			}
			if i < numVerts {
				normalized[i] = b
			}
		}
		l.Bulges = normalized
	}

	for i := uint32(0); i < numVertexIDs; i++ {
		if _, err := r.ReadBL(); err != nil {
			return nil, err
		}
	}

	if numWidths > 0 || l.ConstWidth != nil {
		normalized := make([]Width, numVerts)
		if l.ConstWidth != nil {
			for i := range normalized {
				normalized[i] = Width{*l.ConstWidth, *l.ConstWidth}
			}
		}
		for i := uint32(0); i < numWidths; i++ {
			sw, err := r.ReadBD()
			if err != nil {
				return nil, err
			}
			ew, err := r.ReadBD()
			if err != nil {
				return nil, err
			}
			if i < numVerts {
				normalized[i] = Width{sw, ew}
			}
		}
		l.Widths = normalized
	}

	return l, nil
}
