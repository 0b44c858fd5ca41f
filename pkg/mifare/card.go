package mifare

import (
	"fmt"

	"github.com/gregLibert/mifare-dump/pkg/bits"
)

// BLOCK 0 (Manufacturer Block):
//
//	[0:4) UID
//	[4]   BCC, XOR of the UID bytes
//	[5]   Manufacturer code
//	[6]   Production date: high nibble = year - 2000, low nibble = week
//
// The week nibble ranges 0-15 and is reported as found, never validated against a calendar.

const productionEpoch = 2000

// Block0Info is the decoded manufacturer block.
type Block0Info struct {
	UID              [4]byte
	CheckByte        byte
	ManufacturerCode byte
	ManufacturerName string
	ProductionYear   int
	ProductionWeek   int
	ChecksumValid    bool

	// ExpectedCheckByte is set only when ChecksumValid is false.
	ExpectedCheckByte *byte
}

// ParseBlock0 decodes the manufacturer block from the first bytes of an image.
func ParseBlock0(data []byte) (Block0Info, error) {
	if len(data) < BlockSize {
		return Block0Info{}, fmt.Errorf("%w: %d bytes", ErrTooShortForBlock0, len(data))
	}

	info := Block0Info{
		CheckByte:        data[4],
		ManufacturerCode: data[5],
		ManufacturerName: ManufacturerName(data[5]),
		ProductionYear:   productionEpoch + int(bits.HighNibble(data[6])),
		ProductionWeek:   int(bits.LowNibble(data[6])),
	}
	copy(info.UID[:], data[0:4])

	bcc := ValidateBCC(info.UID, info.CheckByte)
	info.ChecksumValid = bcc.Valid
	if !bcc.Valid {
		expected := bcc.Expected
		info.ExpectedCheckByte = &expected
	}

	return info, nil
}

// DecodedCard is the complete decoding of a dump.
type DecodedCard struct {
	Block0 Block0Info
	Layout Layout

	// Image is the raw byte image, kept for the binary export.
	Image Image
}

// Decode parses a text dump and decodes it.
func Decode(text string) (*DecodedCard, error) {
	img, err := ParseDump(text)
	if err != nil {
		return nil, err
	}
	return DecodeImage(img)
}

// DecodeImage decodes an already parsed image.
func DecodeImage(img Image) (*DecodedCard, error) {
	block0, err := ParseBlock0(img)
	if err != nil {
		return nil, err
	}

	layout, err := ResolveLayout(img)
	if err != nil {
		return nil, fmt.Errorf("resolve sector layout: %w", err)
	}

	return &DecodedCard{
		Block0: block0,
		Layout: layout,
		Image:  img,
	}, nil
}
