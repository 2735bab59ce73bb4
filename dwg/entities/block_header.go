package entities

import (
	"github.com/dsnet/cadwg/bit"
	"github.com/dsnet/cadwg/dwg/header"
)

// BlockHeader is the BLOCK_HEADER object (§4.7, C10's primary source of
// declared names): 6 flag bits, owned-object count, base point, an
// x-ref path string, preview-image bytes, insert units and the
// explodable/scaling trailer. The entry name itself lives in the
// string stream on R2010+ and in the data stream on legacy files; both
// paths feed DeclaredName, leaving it to dwg/blockname to decide what
// to do with an empty one.
type BlockHeader struct {
	Base
	DeclaredName   string
	IsXRefDep      bool
	IsAnonymous    bool
	HasAttribs     bool
	BlkIsXRef      bool
	XRefOverlaid   bool
	IsLoadedBit    bool
	OwnedObjCount  uint32
	BasePoint      bit.Point3
	XRefPath       string
	InsertUnits    uint16
	Explodable     bool
	BlockScaling   uint8
}

func (b *BlockHeader) TypeName() string { return "BLOCK_HEADER" }

// DecodeBlockHeader parses a BLOCK_HEADER body. name is the entry name
// already pulled from the string stream (R2010+) or "" to have this
// function read it off the data stream as a TV (legacy layout).
func DecodeBlockHeader(r *bit.Reader, h header.CommonEntityHeader, name string) (*BlockHeader, error) {
	bh := &BlockHeader{Base: BaseFrom(h), DeclaredName: name}

	if name == "" {
		n, err := r.ReadTV()
		if err != nil {
			return nil, err
		}
		bh.DeclaredName = n
	}

	flags := [6]uint8{}
	for i := range flags {
		b, err := r.ReadB()
		if err != nil {
			return nil, err
		}
		flags[i] = b
	}
	bh.IsXRefDep = flags[0] == 1
	bh.IsAnonymous = flags[1] == 1
	bh.HasAttribs = flags[2] == 1
	bh.BlkIsXRef = flags[3] == 1
	bh.XRefOverlaid = flags[4] == 1
	bh.IsLoadedBit = flags[5] == 1

	count, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	bh.OwnedObjCount = count

	base, err := r.Read3BD()
	if err != nil {
		return nil, err
	}
	bh.BasePoint = base

	xref, err := r.ReadTV()
	if err != nil {
		return nil, err
	}
	bh.XRefPath = xref

	previewSize, err := r.ReadBL()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < previewSize; i++ {
		if _, err := r.ReadRC(); err != nil {
			return nil, err
		}
	}

	units, err := r.ReadBS()
	if err != nil {
		return nil, err
	}
	bh.InsertUnits = units

	explodable, err := r.ReadB()
	if err != nil {
		return nil, err
	}
	bh.Explodable = explodable == 1

	scaling, err := r.ReadRC()
	if err != nil {
		return nil, err
	}
	bh.BlockScaling = uint8(scaling)

	return bh, nil
}
