package mifare

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeAccessBits(t *testing.T) {
	tests := []struct {
		name   string
		access [3]byte
		want   AccessConditions
	}{
		{
			name:   "Transport configuration FF 07 80",
			access: [3]byte{0xFF, 0x07, 0x80},
			want:   AccessConditions{Read: Invalid, Write: Invalid, IncrementDecrement: Invalid},
		},
		{
			name:   "All zero",
			access: [3]byte{0x00, 0x00, 0x00},
			want:   AccessConditions{Read: NoAccess, Write: NoAccess, IncrementDecrement: NoAccess},
		},
		{
			// 001 100 101 -> 0011_0010 1000_0000
			name:   "Always / NoAuth / EitherKey",
			access: [3]byte{0x32, 0x80, 0x00},
			want:   AccessConditions{Read: Always, Write: NoAuth, IncrementDecrement: EitherKey},
		},
		{
			// 010 011 100 -> 0100_1110 0000_0000
			name:   "KeyAOnly / KeyBOnly / NoAuth",
			access: [3]byte{0x4E, 0x00, 0x00},
			want:   AccessConditions{Read: KeyAOnly, Write: KeyBOnly, IncrementDecrement: NoAuth},
		},
		{
			name:   "Bits after the ninth are ignored",
			access: [3]byte{0x4E, 0x7F, 0xFF},
			want:   AccessConditions{Read: KeyAOnly, Write: KeyBOnly, IncrementDecrement: NoAuth},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAccessBits(tt.access)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeAccessBits(% X) mismatch (-want +got):\n%s", tt.access, diff)
			}
		})
	}
}

func TestDecodeAccessBits_AllFields(t *testing.T) {
	table := []Permission{NoAccess, Always, KeyAOnly, KeyBOnly, NoAuth, EitherKey, Invalid, Invalid}

	// Only the first 9 bits matter; sweep them all and a few tails.
	for head := 0; head < 1<<9; head++ {
		for _, tail := range []int{0x0000, 0x7FFF, 0x2AAA} {
			stream := head<<15 | tail
			access := [3]byte{byte(stream >> 16), byte(stream >> 8), byte(stream)}

			want := AccessConditions{
				Read:               table[head>>6&0b111],
				Write:              table[head>>3&0b111],
				IncrementDecrement: table[head&0b111],
			}
			if got := DecodeAccessBits(access); got != want {
				t.Fatalf("DecodeAccessBits(% X) = %+v; want %+v", access, got, want)
			}
		}
	}
}

func TestPermission_Describe(t *testing.T) {
	for _, p := range []Permission{NoAccess, Always, KeyAOnly, KeyBOnly, EitherKey, Invalid} {
		if p.Describe(Read) != p.Describe(Write) || p.Describe(Write) != p.Describe(IncrementDecrement) {
			t.Errorf("%s text should not depend on the operation", p)
		}
	}

	noAuth := map[Operation]string{
		Read:               "Read access without authentication",
		Write:              "Write access without authentication",
		IncrementDecrement: "Increment/Decrement without authentication",
	}
	for op, want := range noAuth {
		if got := NoAuth.Describe(op); got != want {
			t.Errorf("NoAuth.Describe(%s) = %q; want %q", op, got, want)
		}
	}
}

func TestAccessConditions_String(t *testing.T) {
	ac := DecodeAccessBits([3]byte{0x32, 0x80, 0x00})
	want := "Read: Always, Write: Write access without authentication, Increment/Decrement: Key A or Key B"
	if got := ac.String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
