package mifare

import "github.com/gregLibert/mifare-dump/internal/testutils"

// transportTrailer is the factory trailer of a blank card.
var transportTrailer = testutils.Hex("FF FF FF FF FF FF FF 07 80 69 FF FF FF FF FF FF")

// fixtureBlock0 is the block 0 used by the decoding scenarios.
var fixtureBlock0 = testutils.Hex("04 12 34 56 78 9A 12 00 00 00 00 00 00 00 00 00")

// newImage builds an image of the given block count with block0 and a transport
// trailer at the end of every sector.
func newImage(blocks int, block0 []byte) Image {
	img := make(Image, blocks*BlockSize)
	copy(img, block0)

	for sector := 0; FirstBlockOf(sector) < blocks; sector++ {
		trailer := FirstBlockOf(sector) + BlocksInSector(sector) - 1
		if trailer >= blocks {
			break
		}
		copy(img[trailer*BlockSize:], transportTrailer)
	}
	return img
}

// setBlock overwrites block n of img.
func setBlock(img Image, n int, data []byte) {
	copy(img[n*BlockSize:(n+1)*BlockSize], data)
}
