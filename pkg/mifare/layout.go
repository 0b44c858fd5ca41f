package mifare

import "fmt"

// SECTOR LAYOUT:
//
// Sectors 0-31 hold 4 blocks each, sectors 32-39 hold 16 blocks each (4K only).
//
//	1K:  16 x 4            =  64 blocks
//	4K:  32 x 4 + 8 x 16   = 256 blocks
//
// Trailer block format (16 bytes):
//
//	[0:6)   Key A
//	[6:9)   Access bits
//	[9]     Reserved (general purpose byte)
//	[10:16) Key B

const (
	smallSectorBlocks = 4
	largeSectorBlocks = 16
	smallSectorCount  = 32
	maxSectorCount    = 40
	keySize           = 6
)

// Geometry identifies a supported card memory size by its block count.
type Geometry int

const (
	Geometry1K Geometry = 64
	Geometry4K Geometry = 256
)

// GeometryForBlocks returns the geometry matching a total block count.
func GeometryForBlocks(blocks int) (Geometry, error) {
	switch Geometry(blocks) {
	case Geometry1K, Geometry4K:
		return Geometry(blocks), nil
	default:
		return 0, fmt.Errorf("%w: %d blocks", ErrUnsupportedCardSize, blocks)
	}
}

// Blocks returns the total number of blocks.
func (g Geometry) Blocks() int {
	return int(g)
}

// Sectors returns the number of sectors of the geometry.
func (g Geometry) Sectors() int {
	switch g {
	case Geometry1K:
		return 16
	case Geometry4K:
		return maxSectorCount
	default:
		return 0
	}
}

func (g Geometry) String() string {
	switch g {
	case Geometry1K:
		return "1K"
	case Geometry4K:
		return "4K"
	default:
		return fmt.Sprintf("Geometry(%d blocks)", int(g))
	}
}

// BlocksInSector returns how many blocks sector holds.
func BlocksInSector(sector int) int {
	if sector < smallSectorCount {
		return smallSectorBlocks
	}
	return largeSectorBlocks
}

// FirstBlockOf returns the index of the first block of sector.
func FirstBlockOf(sector int) int {
	if sector < smallSectorCount {
		return sector * smallSectorBlocks
	}
	return smallSectorCount*smallSectorBlocks + (sector-smallSectorCount)*largeSectorBlocks
}

// SectorOfBlock returns the sector holding block.
func SectorOfBlock(block int) int {
	smallBlocks := smallSectorCount * smallSectorBlocks
	if block < smallBlocks {
		return block / smallSectorBlocks
	}
	return smallSectorCount + (block-smallBlocks)/largeSectorBlocks
}

// IsTrailerBlock reports whether block is the last block of its sector.
func IsTrailerBlock(block int) bool {
	sector := SectorOfBlock(block)
	return block == FirstBlockOf(sector)+BlocksInSector(sector)-1
}

// SectorTrailer is the decoded trailer block of one sector.
type SectorTrailer struct {
	Sector     int
	FirstBlock int
	Blocks     int
	KeyA       [keySize]byte
	KeyB       [keySize]byte
	AccessBits [3]byte
	Reserved   byte
	Conditions AccessConditions
}

// TrailerBlock returns the index of the trailer block.
func (st SectorTrailer) TrailerBlock() int {
	return st.FirstBlock + st.Blocks - 1
}

// RawAccess returns the access bytes followed by the reserved byte, as shown in dumps.
func (st SectorTrailer) RawAccess() []byte {
	return []byte{st.AccessBits[0], st.AccessBits[1], st.AccessBits[2], st.Reserved}
}

// ParseTrailer decodes a 16-byte trailer block.
func ParseTrailer(sector int, block []byte) (SectorTrailer, error) {
	if len(block) != BlockSize {
		return SectorTrailer{}, fmt.Errorf("trailer of sector %d: expected %d bytes, got %d", sector, BlockSize, len(block))
	}

	st := SectorTrailer{
		Sector:     sector,
		FirstBlock: FirstBlockOf(sector),
		Blocks:     BlocksInSector(sector),
		Reserved:   block[9],
	}
	copy(st.KeyA[:], block[0:6])
	copy(st.AccessBits[:], block[6:9])
	copy(st.KeyB[:], block[10:16])
	st.Conditions = DecodeAccessBits(st.AccessBits)

	return st, nil
}

// Layout is the ordered list of sector trailers of an image.
type Layout struct {
	Geometry Geometry
	Sectors  []SectorTrailer
}

// ResolveLayout partitions img into sectors and decodes the trailer of each.
//
// Iteration stops at the end of the image, at sector 40, or when fewer blocks remain
// than the current sector needs. An incomplete trailing sector is dropped silently.
func ResolveLayout(img Image) (Layout, error) {
	if len(img)%BlockSize != 0 {
		return Layout{}, fmt.Errorf("%w: %d bytes", ErrMisalignedImage, len(img))
	}

	total := img.Blocks()
	geometry, err := GeometryForBlocks(total)
	if err != nil {
		return Layout{}, err
	}

	layout := Layout{
		Geometry: geometry,
		Sectors:  make([]SectorTrailer, 0, geometry.Sectors()),
	}

	cursor := 0
	for sector := 0; sector < maxSectorCount && cursor < total; sector++ {
		n := BlocksInSector(sector)
		if total-cursor < n {
			break
		}

		st, err := ParseTrailer(sector, img.Block(cursor+n-1))
		if err != nil {
			return Layout{}, err
		}
		layout.Sectors = append(layout.Sectors, st)

		cursor += n
	}

	return layout, nil
}
