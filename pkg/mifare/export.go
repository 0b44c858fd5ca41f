package mifare

import (
	"fmt"
	"strings"

	"github.com/gregLibert/mifare-dump/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// TLV EXPORT:
// A decoded card can be exported as BER-TLV using private-class tags:
//
//	E1 Card template
//	   C6 Geometry (block count, 2 bytes)
//	   E2 Block 0 template: C1 UID, C2 BCC, C3 manufacturer, C4 production byte, C5 BCC valid
//	   E3 Sector template (repeated): C7 index, C8 Key A, C9 access + reserved, CA Key B, CB conditions

const tagCardTemplate = "E1"

// CardExport is the TLV view of a DecodedCard.
type CardExport struct {
	Geometry []byte         `tlv:"C6" fmt:"int"`
	Block0   Block0Export   `tlv:"E2"`
	Sectors  []SectorExport `tlv:"E3"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// Block0Export is the TLV view of Block0Info.
type Block0Export struct {
	UID              []byte `tlv:"C1" fmt:"hex"`
	BCC              []byte `tlv:"C2" fmt:"hex"`
	ManufacturerCode []byte `tlv:"C3" fmt:"hex"`
	Production       []byte `tlv:"C4" fmt:"hex"`
	BCCValid         []byte `tlv:"C5" fmt:"int"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// SectorExport is the TLV view of a SectorTrailer.
type SectorExport struct {
	Index      []byte `tlv:"C7" fmt:"int"`
	KeyA       []byte `tlv:"C8" fmt:"hex"`
	AccessBits []byte `tlv:"C9" fmt:"hex"`
	KeyB       []byte `tlv:"CA" fmt:"hex"`
	Conditions []byte `tlv:"CB" fmt:"ascii"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// Export builds the TLV view of the card.
func (c *DecodedCard) Export() *CardExport {
	blocks := c.Layout.Geometry.Blocks()

	valid := byte(0x00)
	if c.Block0.ChecksumValid {
		valid = 0x01
	}

	var production byte
	if len(c.Image) > 6 {
		production = c.Image[6]
	}

	export := &CardExport{
		Geometry: []byte{byte(blocks >> 8), byte(blocks)},
		Block0: Block0Export{
			UID:              append([]byte(nil), c.Block0.UID[:]...),
			BCC:              []byte{c.Block0.CheckByte},
			ManufacturerCode: []byte{c.Block0.ManufacturerCode},
			Production:       []byte{production},
			BCCValid:         []byte{valid},
		},
	}

	for _, st := range c.Layout.Sectors {
		export.Sectors = append(export.Sectors, SectorExport{
			Index:      []byte{byte(st.Sector)},
			KeyA:       append([]byte(nil), st.KeyA[:]...),
			AccessBits: st.RawAccess(),
			KeyB:       append([]byte(nil), st.KeyB[:]...),
			Conditions: []byte(st.Conditions.String()),
		})
	}

	return export
}

// MarshalTLV encodes the card as a BER-TLV E1 template.
func (c *DecodedCard) MarshalTLV() ([]byte, error) {
	return tlv.Marshal(tagCardTemplate, c.Export())
}

// UnmarshalTLV reads back an export produced by MarshalTLV.
func UnmarshalTLV(data []byte) (*CardExport, error) {
	export := &CardExport{}
	if err := tlv.Unmarshal(tagCardTemplate, data, export); err != nil {
		return nil, fmt.Errorf("card export: %w", err)
	}
	return export, nil
}

// Describe generates a report of every field carried by the export.
func (e *CardExport) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== MIFARE TLV EXPORT ===")

	tlv.WriteStructFields(&sb, "Card", e)
	tlv.WriteStructFields(&sb, "Block0", e.Block0)

	for _, s := range e.Sectors {
		prefix := "Sector"
		if len(s.Index) == 1 {
			prefix = fmt.Sprintf("Sector[%d]", s.Index[0])
		}
		tlv.WriteStructFields(&sb, prefix, s)
	}

	return strings.TrimRight(sb.String(), "\n")
}
