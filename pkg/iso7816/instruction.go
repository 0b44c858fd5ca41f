package iso7816

import (
	"fmt"

	"github.com/gregLibert/mifare-dump/pkg/bits"
)

// Instruction Byte (INS) Logic according to ISO/IEC 7816-4.
//
// Bit 1 of an interindustry INS flags a BER-TLV data field (e.g. READ BINARY 0xB0 vs 0xB1).
// Values whose upper nibble is '6' or '9' are reserved for SW1 and transport procedures.
//
// PC/SC Part 3 reuses a few interindustry codes for reader pseudo-APDUs:
// LOAD KEYS (0x82), GENERAL AUTHENTICATE (0x86), READ BINARY (0xB0) and GET DATA (0xCA).

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instructions sent by the PC/SC storage-card commands and the client.
const (
	INS_LOAD_KEYS            InsCode = 0x82
	INS_GENERAL_AUTHENTICATE InsCode = 0x86
	INS_READ_BINARY          InsCode = 0xB0
	INS_GET_RESPONSE         InsCode = 0xC0
	INS_GET_DATA             InsCode = 0xCA
)

// String returns the constant name of the code.
func (i InsCode) String() string {
	switch i {
	case INS_LOAD_KEYS:
		return "INS_LOAD_KEYS"
	case INS_GENERAL_AUTHENTICATE:
		return "INS_GENERAL_AUTHENTICATE"
	case INS_READ_BINARY:
		return "INS_READ_BINARY"
	case INS_GET_RESPONSE:
		return "INS_GET_RESPONSE"
	case INS_GET_DATA:
		return "INS_GET_DATA"
	default:
		return fmt.Sprintf("InsCode(0x%02X)", byte(i))
	}
}

// Instruction represents the parsed ISO 7816-4 Instruction byte (INS).
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction creates an Instruction object with validation.
// It rejects '6X' and '9X' values as they are invalid according to ISO 7816-3.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := bits.HighNibble(byte(ins))
	if highNibble == 0x6 || highNibble == 0x9 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// mustInstruction is used for the package's own constants, which are known to be valid.
func mustInstruction(ins InsCode) Instruction {
	i, err := NewInstruction(ins)
	if err != nil {
		panic(err)
	}
	return i
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	format := "Standard"
	if i.IsBERTLV {
		format = "BER-TLV"
	}
	return fmt.Sprintf("INS: 0x%02X | Command: %s | Format: %s", byte(i.Raw), i.Raw.String(), format)
}
