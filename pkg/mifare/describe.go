package mifare

import (
	"fmt"
	"strings"
)

// Describe generates the human-readable report of the card.
func (c *DecodedCard) Describe() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("=== MIFARE CLASSIC %s DUMP ===\n", c.Layout.Geometry))
	sb.WriteString(c.Block0.Describe())
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("=== SECTOR TRAILERS (%d) ===\n", len(c.Layout.Sectors)))
	for _, st := range c.Layout.Sectors {
		sb.WriteString(st.Describe())
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Describe renders block 0 as report lines.
func (b Block0Info) Describe() string {
	lines := []string{
		fmt.Sprintf("    - UID: %s", FormatHex(b.UID[:])),
		fmt.Sprintf("    - BCC: %02X (%s)", b.CheckByte, b.bccStatus()),
		fmt.Sprintf("    - Manufacturer Code: %s (%s)", ManufacturerCodeString(b.ManufacturerCode), b.ManufacturerName),
		fmt.Sprintf("    - Production Year: %d", b.ProductionYear),
		fmt.Sprintf("    - Production Week: %d", b.ProductionWeek),
	}
	return strings.Join(lines, "\n")
}

func (b Block0Info) bccStatus() string {
	if b.ChecksumValid || b.ExpectedCheckByte == nil {
		return "Valid: Yes"
	}
	return fmt.Sprintf("Valid: No, Expected: %02X", *b.ExpectedCheckByte)
}

// Describe renders one sector row.
func (st SectorTrailer) Describe() string {
	return fmt.Sprintf("    - Sector %d: KeyA %s | KeyB %s | Access %s | %s",
		st.Sector, FormatHex(st.KeyA[:]), FormatHex(st.KeyB[:]), FormatHex(st.RawAccess()), st.Conditions)
}
