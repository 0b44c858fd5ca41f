package mifare

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/mifare-dump/internal/testutils"
)

func TestResolveLayout_Geometries(t *testing.T) {
	tests := []struct {
		name         string
		blocks       int
		wantGeometry Geometry
		wantSectors  int
	}{
		{"1K", 64, Geometry1K, 16},
		{"4K", 256, Geometry4K, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := ResolveLayout(newImage(tt.blocks, fixtureBlock0))
			if err != nil {
				t.Fatalf("ResolveLayout() failed: %v", err)
			}
			if layout.Geometry != tt.wantGeometry {
				t.Errorf("Geometry = %s, want %s", layout.Geometry, tt.wantGeometry)
			}
			if len(layout.Sectors) != tt.wantSectors {
				t.Fatalf("Sectors = %d, want %d", len(layout.Sectors), tt.wantSectors)
			}

			covered := 0
			for i, st := range layout.Sectors {
				if st.Sector != i {
					t.Errorf("Sector %d has index %d", i, st.Sector)
				}
				if st.FirstBlock != covered {
					t.Errorf("Sector %d starts at block %d, want %d", i, st.FirstBlock, covered)
				}

				wantBlocks := 4
				if i >= 32 {
					wantBlocks = 16
				}
				if st.Blocks != wantBlocks {
					t.Errorf("Sector %d has %d blocks, want %d", i, st.Blocks, wantBlocks)
				}
				covered += st.Blocks
			}

			if covered*BlockSize != tt.blocks*BlockSize {
				t.Errorf("Sectors cover %d blocks, want %d", covered, tt.blocks)
			}
		})
	}
}

func TestResolveLayout_Errors(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{"100 bytes", 100, ErrMisalignedImage},
		{"17 bytes", 17, ErrMisalignedImage},
		{"5 blocks", 80, ErrUnsupportedCardSize},
		{"128 blocks", 128 * BlockSize, ErrUnsupportedCardSize},
		{"Empty", 0, ErrUnsupportedCardSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveLayout(make(Image, tt.size))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveLayout(%d bytes) error = %v, want %v", tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestResolveLayout_TrailerExtraction(t *testing.T) {
	img := newImage(256, fixtureBlock0)

	// Sector 1 trailer is block 7, sector 39 trailer is block 255.
	setBlock(img, 7, testutils.Hex("A0 A1 A2 A3 A4 A5 32 80 00 69 B0 B1 B2 B3 B4 B5"))
	setBlock(img, 255, testutils.Hex("D3 F7 D3 F7 D3 F7 4E 00 00 42 01 02 03 04 05 06"))

	layout, err := ResolveLayout(img)
	if err != nil {
		t.Fatalf("ResolveLayout() failed: %v", err)
	}

	want1 := SectorTrailer{
		Sector:     1,
		FirstBlock: 4,
		Blocks:     4,
		KeyA:       [6]byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5},
		KeyB:       [6]byte{0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5},
		AccessBits: [3]byte{0x32, 0x80, 0x00},
		Reserved:   0x69,
		Conditions: AccessConditions{Read: Always, Write: NoAuth, IncrementDecrement: EitherKey},
	}
	if diff := cmp.Diff(want1, layout.Sectors[1]); diff != "" {
		t.Errorf("Sector 1 mismatch (-want +got):\n%s", diff)
	}

	last := layout.Sectors[39]
	if last.TrailerBlock() != 255 || last.FirstBlock != 240 {
		t.Errorf("Sector 39 spans blocks %d-%d, want 240-255", last.FirstBlock, last.TrailerBlock())
	}
	if last.KeyA != [6]byte{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7} || last.Reserved != 0x42 {
		t.Errorf("Sector 39 trailer mismatch: %+v", last)
	}
	if diff := cmp.Diff(testutils.Hex("4E 00 00 42"), last.RawAccess()); diff != "" {
		t.Errorf("RawAccess mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTrailer_WrongSize(t *testing.T) {
	if _, err := ParseTrailer(0, make([]byte, 15)); err == nil {
		t.Error("Expected error for 15-byte trailer")
	}
}

func TestSectorArithmetic(t *testing.T) {
	tests := []struct {
		sector     int
		firstBlock int
		blocks     int
	}{
		{0, 0, 4},
		{15, 60, 4},
		{31, 124, 4},
		{32, 128, 16},
		{39, 240, 16},
	}

	for _, tt := range tests {
		if got := FirstBlockOf(tt.sector); got != tt.firstBlock {
			t.Errorf("FirstBlockOf(%d) = %d; want %d", tt.sector, got, tt.firstBlock)
		}
		if got := BlocksInSector(tt.sector); got != tt.blocks {
			t.Errorf("BlocksInSector(%d) = %d; want %d", tt.sector, got, tt.blocks)
		}
	}

	for block := 0; block < 256; block++ {
		sector := SectorOfBlock(block)
		first := FirstBlockOf(sector)
		if block < first || block >= first+BlocksInSector(sector) {
			t.Fatalf("SectorOfBlock(%d) = %d, which spans %d-%d", block, sector, first, first+BlocksInSector(sector)-1)
		}
		wantTrailer := block == first+BlocksInSector(sector)-1
		if IsTrailerBlock(block) != wantTrailer {
			t.Errorf("IsTrailerBlock(%d) = %v", block, !wantTrailer)
		}
	}
}

func TestGeometry(t *testing.T) {
	if _, err := GeometryForBlocks(63); !errors.Is(err, ErrUnsupportedCardSize) {
		t.Errorf("GeometryForBlocks(63) error = %v", err)
	}
	if Geometry1K.String() != "1K" || Geometry4K.String() != "4K" {
		t.Error("Unexpected geometry names")
	}
	if Geometry1K.Sectors() != 16 || Geometry4K.Sectors() != 40 {
		t.Error("Unexpected sector counts")
	}
}
