package iso7816

// PC/SC PART 3 STORAGE-CARD COMMANDS:
//
// GET DATA      FF CA 00 00 00                       -> UID + 9000
// LOAD KEYS     FF 82 00 <slot> 06 <key 6 bytes>     -> 9000
// AUTHENTICATE  FF 86 00 00 05 01 00 <blk> <type> <slot>
// READ BINARY   FF B0 00 <blk> <Le>                  -> data + 9000
//
// LOAD KEYS with P1 = 00 stores the key in the reader's volatile memory.
// The authenticate data block is version 01, block MSB, block LSB, key type, key slot.

// KeyType selects which MIFARE Classic sector key an authentication uses.
type KeyType byte

const (
	KeyTypeA KeyType = 0x60
	KeyTypeB KeyType = 0x61
)

func (k KeyType) String() string {
	switch k {
	case KeyTypeA:
		return "A"
	case KeyTypeB:
		return "B"
	default:
		return "?"
	}
}

// GetUID asks the reader for the UID of the card in the field.
func GetUID() *CommandAPDU {
	return NewCommandAPDU(ClassPCSC, mustInstruction(INS_GET_DATA), 0x00, 0x00, nil, MaxShortLe)
}

// LoadKey stores a 6-byte key in a volatile key slot of the reader.
func LoadKey(slot byte, key [6]byte) *CommandAPDU {
	data := make([]byte, len(key))
	copy(data, key[:])
	return NewCommandAPDU(ClassPCSC, mustInstruction(INS_LOAD_KEYS), 0x00, slot, data, 0)
}

// Authenticate opens the sector holding block with the key stored in slot.
func Authenticate(block int, keyType KeyType, slot byte) *CommandAPDU {
	data := []byte{0x01, byte(block >> 8), byte(block), byte(keyType), slot}
	return NewCommandAPDU(ClassPCSC, mustInstruction(INS_GENERAL_AUTHENTICATE), 0x00, 0x00, data, 0)
}

// ReadBinary reads length bytes starting at block.
func ReadBinary(block int, length int) *CommandAPDU {
	return NewCommandAPDU(ClassPCSC, mustInstruction(INS_READ_BINARY), byte(block>>8), byte(block), nil, length)
}
