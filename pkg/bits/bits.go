// Package bits holds the small bit helpers shared by the APDU layer and the
// MIFARE decoders. Single-byte helpers number bits 1 (LSB) to 8 (MSB), the
// ISO 7816 convention. Field works on a byte stream read MSB first.
package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 8 to 5 for the high nibble).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// Set returns b with the n-th bit raised.
func Set(b byte, n uint) byte {
	return b | Bit(n)
}

// HighNibble returns bits 8-5 of b.
func HighNibble(b byte) byte {
	return GetRange(b, 8, 5)
}

// LowNibble returns bits 4-1 of b.
func LowNibble(b byte) byte {
	return GetRange(b, 4, 1)
}

// Field reads width bits (1 to 8) starting at offset from data, where the
// stream is the concatenation of the bytes rendered most significant bit first.
// Offset 0 is the MSB of data[0]. Bits past the end of data read as zero.
//
// Example: Field([]byte{0b1010_0000, 0x00}, 0, 3) returns 0b101.
func Field(data []byte, offset, width uint) byte {
	if width < 1 || width > 8 {
		return 0
	}

	var v byte
	for i := uint(0); i < width; i++ {
		pos := offset + i
		idx := pos / 8
		v <<= 1
		if idx < uint(len(data)) && IsSet(data[idx], 8-pos%8) {
			v |= 1
		}
	}
	return v
}
