package mifare

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/mifare-dump/internal/testutils"
	"github.com/gregLibert/mifare-dump/pkg/tlv"
)

func TestDecodedCard_MarshalTLV_RoundTrip(t *testing.T) {
	img := newImage(256, fixtureBlock0)
	setBlock(img, 255, testutils.Hex("D3 F7 D3 F7 D3 F7 4E 00 00 42 01 02 03 04 05 06"))

	card, err := DecodeImage(img)
	if err != nil {
		t.Fatalf("DecodeImage() failed: %v", err)
	}

	data, err := card.MarshalTLV()
	if err != nil {
		t.Fatalf("MarshalTLV() failed: %v", err)
	}
	if data[0] != 0xE1 {
		t.Errorf("Export starts with %02X, want E1", data[0])
	}

	back, err := UnmarshalTLV(data)
	if err != nil {
		t.Fatalf("UnmarshalTLV() failed: %v", err)
	}

	if diff := cmp.Diff(card.Export(), back); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}

	if len(back.Sectors) != 40 {
		t.Fatalf("Export holds %d sectors, want 40", len(back.Sectors))
	}
	last := back.Sectors[39]
	if diff := cmp.Diff(testutils.Hex("27"), last.Index); diff != "" {
		t.Errorf("Last index mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testutils.Hex("4E 00 00 42"), last.AccessBits); diff != "" {
		t.Errorf("Last access mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalTLV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"Empty", nil, tlv.ErrTemplateMismatch},
		{"Wrong template", testutils.Hex("E2 03 C1 01 00"), tlv.ErrTemplateMismatch},
		{"Trailing packet", testutils.Hex("E1 03 C6 01 40", "E1 00"), tlv.ErrTemplateMismatch},
		{"Truncated", testutils.Hex("E1 05 C1"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTLV(tt.data)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCardExport_Describe(t *testing.T) {
	card, err := DecodeImage(newImage(64, fixtureBlock0))
	if err != nil {
		t.Fatalf("DecodeImage() failed: %v", err)
	}

	actualLines := strings.Split(card.Export().Describe(), "\n")

	expectedHead := []string{
		"=== MIFARE TLV EXPORT ===",
		"    - Card.Geometry (C6): 0040 (Dec: 64)",
		"    - Block0.UID (C1): 04 12 34 56",
		"    - Block0.BCC (C2): 78",
		"    - Block0.ManufacturerCode (C3): 9A",
		"    - Block0.Production (C4): 12",
		"    - Block0.BCCValid (C5): 00 (Dec: 0)",
		"    - Sector[0].Index (C7): 00 (Dec: 0)",
		"    - Sector[0].KeyA (C8): FF FF FF FF FF FF",
		"    - Sector[0].AccessBits (C9): FF 07 80 69",
		"    - Sector[0].KeyB (CA): FF FF FF FF FF FF",
	}

	if diff := cmp.Diff(expectedHead, actualLines[:len(expectedHead)]); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}
