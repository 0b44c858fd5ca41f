package mifare

import (
	"fmt"

	"github.com/gregLibert/mifare-dump/pkg/bits"
)

// ACCESS BITS DECODING:
//
// The three access bytes of a trailer (bytes 6-8) are read as one 24-bit stream,
// most significant bit of byte 6 first. Three 3-bit fields are sliced from it:
//
//	bits [0:3) -> read
//	bits [3:6) -> write
//	bits [6:9) -> increment/decrement
//
// and each field is mapped through the same table:
//
//	000 No access     001 Always       010 Key A only
//	011 Key B only    100 No auth      101 Key A or Key B
//	110, 111 Invalid
//
// This is a simplified reading. On real MIFARE Classic hardware the bits C1, C2, C3 of each
// block are spread over the three bytes with inverted copies, so these conditions do not
// describe what the card actually enforces.

const accessFieldWidth = 3

// Bit offsets of each field in the access stream.
const (
	readFieldOffset   = 0
	writeFieldOffset  = 3
	incDecFieldOffset = 6
)

// Permission is the tier granted to one operation.
type Permission int

const (
	NoAccess Permission = iota
	Always
	KeyAOnly
	KeyBOnly
	NoAuth
	EitherKey
	Invalid
)

// Operation is a sector operation governed by the access conditions.
type Operation int

const (
	Read Operation = iota
	Write
	IncrementDecrement
)

func (op Operation) String() string {
	switch op {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case IncrementDecrement:
		return "Increment/Decrement"
	default:
		return fmt.Sprintf("Operation(%d)", int(op))
	}
}

func (p Permission) String() string {
	switch p {
	case NoAccess:
		return "NoAccess"
	case Always:
		return "Always"
	case KeyAOnly:
		return "KeyAOnly"
	case KeyBOnly:
		return "KeyBOnly"
	case NoAuth:
		return "NoAuth"
	case EitherKey:
		return "EitherKey"
	case Invalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Permission(%d)", int(p))
	}
}

// Describe returns the display text of p for op. Only NoAuth depends on the operation.
func (p Permission) Describe(op Operation) string {
	switch p {
	case NoAccess:
		return "No access"
	case Always:
		return "Always"
	case KeyAOnly:
		return "Key A only"
	case KeyBOnly:
		return "Key B only"
	case NoAuth:
		switch op {
		case Write:
			return "Write access without authentication"
		case IncrementDecrement:
			return "Increment/Decrement without authentication"
		default:
			return "Read access without authentication"
		}
	case EitherKey:
		return "Key A or Key B"
	default:
		return "Invalid"
	}
}

// permissionFromField maps a 3-bit access field to its tier.
func permissionFromField(field byte) Permission {
	switch field {
	case 0b000:
		return NoAccess
	case 0b001:
		return Always
	case 0b010:
		return KeyAOnly
	case 0b011:
		return KeyBOnly
	case 0b100:
		return NoAuth
	case 0b101:
		return EitherKey
	default:
		return Invalid
	}
}

// AccessConditions holds the decoded tier of each operation for one sector.
type AccessConditions struct {
	Read               Permission
	Write              Permission
	IncrementDecrement Permission
}

// DecodeAccessBits decodes the 3 access bytes of a sector trailer.
func DecodeAccessBits(access [3]byte) AccessConditions {
	stream := access[:]
	return AccessConditions{
		Read:               permissionFromField(bits.Field(stream, readFieldOffset, accessFieldWidth)),
		Write:              permissionFromField(bits.Field(stream, writeFieldOffset, accessFieldWidth)),
		IncrementDecrement: permissionFromField(bits.Field(stream, incDecFieldOffset, accessFieldWidth)),
	}
}

// String renders the conditions as "Read: <text>, Write: <text>, Increment/Decrement: <text>".
func (ac AccessConditions) String() string {
	return fmt.Sprintf("%s: %s, %s: %s, %s: %s",
		Read, ac.Read.Describe(Read),
		Write, ac.Write.Describe(Write),
		IncrementDecrement, ac.IncrementDecrement.Describe(IncrementDecrement),
	)
}
