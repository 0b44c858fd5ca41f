package mifare

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/mifare-dump/internal/testutils"
)

func TestDecodedCard_Describe(t *testing.T) {
	img := newImage(64, fixtureBlock0)
	setBlock(img, 7, testutils.Hex("A0 A1 A2 A3 A4 A5 32 80 00 69 B0 B1 B2 B3 B4 B5"))

	card, err := DecodeImage(img)
	if err != nil {
		t.Fatalf("DecodeImage() failed: %v", err)
	}

	actualLines := strings.Split(card.Describe(), "\n")
	if len(actualLines) != 24 {
		t.Fatalf("Describe() wrote %d lines, want 24", len(actualLines))
	}

	expectedHead := []string{
		"=== MIFARE CLASSIC 1K DUMP ===",
		"    - UID: 04 12 34 56",
		"    - BCC: 78 (Valid: No, Expected: 74)",
		"    - Manufacturer Code: 9A (Unknown Manufacturer)",
		"    - Production Year: 2001",
		"    - Production Week: 2",
		"",
		"=== SECTOR TRAILERS (16) ===",
		"    - Sector 0: KeyA FF FF FF FF FF FF | KeyB FF FF FF FF FF FF | Access FF 07 80 69 | Read: Invalid, Write: Invalid, Increment/Decrement: Invalid",
		"    - Sector 1: KeyA A0 A1 A2 A3 A4 A5 | KeyB B0 B1 B2 B3 B4 B5 | Access 32 80 00 69 | Read: Always, Write: Write access without authentication, Increment/Decrement: Key A or Key B",
	}

	if diff := cmp.Diff(expectedHead, actualLines[:len(expectedHead)]); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(actualLines[23], "    - Sector 15: ") {
		t.Errorf("Last line = %q, want sector 15", actualLines[23])
	}
}

func TestBlock0Info_DescribeValid(t *testing.T) {
	info, err := ParseBlock0(testutils.Hex("DE AD BE EF 22 04 9F 00 00 00 00 00 00 00 00 00"))
	if err != nil {
		t.Fatalf("ParseBlock0() failed: %v", err)
	}

	want := strings.Join([]string{
		"    - UID: DE AD BE EF",
		"    - BCC: 22 (Valid: Yes)",
		"    - Manufacturer Code: 04 (NXP Semiconductors)",
		"    - Production Year: 2009",
		"    - Production Week: 15",
	}, "\n")

	if diff := cmp.Diff(want, info.Describe()); diff != "" {
		t.Errorf("Describe mismatch (-want +got):\n%s", diff)
	}
}
