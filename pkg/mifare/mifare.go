/*
Package mifare decodes MIFARE Classic memory images.

A dump is a text file of "Block <n>: XX XX ..." lines. ParseDump turns it into an Image
(16-byte blocks), and Decode runs the full pipeline:

	text -> Image -> Block0Info (UID, BCC, manufacturer, production date)
	              -> Layout (one SectorTrailer per sector: keys + access conditions)

Two geometries are supported:

  - 1K: 64 blocks, 16 sectors of 4 blocks.
  - 4K: 256 blocks, 32 sectors of 4 blocks followed by 8 sectors of 16 blocks.

The last block of each sector is its trailer:

	KeyA (6) | Access bits (3) | Reserved (1) | KeyB (6)

Everything in this package is a pure function of its input. Lookup tables are
switches, there is no package state to reset between calls.
*/
package mifare

import (
	"errors"
	"fmt"
)

// BlockSize is the number of bytes in one MIFARE Classic block.
const BlockSize = 16

var (
	// ErrNoBlockData is returned when no "Block" line yields any byte.
	ErrNoBlockData = errors.New("no block data found")

	// ErrInvalidHexToken is matched by *InvalidHexTokenError.
	ErrInvalidHexToken = errors.New("invalid hex token")

	// ErrTooShortForBlock0 is returned when the image does not hold a complete block 0.
	ErrTooShortForBlock0 = errors.New("image too short for block 0")

	// ErrMisalignedImage is returned when the image length is not a multiple of BlockSize.
	ErrMisalignedImage = errors.New("image length is not a multiple of 16")

	// ErrUnsupportedCardSize is returned for block counts other than 64 (1K) and 256 (4K).
	ErrUnsupportedCardSize = errors.New("unsupported card size")
)

// InvalidHexTokenError reports the first token of a dump that is not a byte in hex.
type InvalidHexTokenError struct {
	Line  int // 1-based line number in the dump text
	Token string
}

func (e *InvalidHexTokenError) Error() string {
	return fmt.Sprintf("line %d: invalid hex token %q", e.Line, e.Token)
}

func (e *InvalidHexTokenError) Unwrap() error {
	return ErrInvalidHexToken
}
