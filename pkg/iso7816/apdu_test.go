package iso7816

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestCommandAPDU_Encoding(t *testing.T) {
	insAuth, _ := NewInstruction(INS_GENERAL_AUTHENTICATE)
	insRead, _ := NewInstruction(INS_READ_BINARY)

	tests := []struct {
		name     string
		cmd      *CommandAPDU
		expected string
	}{
		{
			name:     "Case 1: Header Only (No Data, No Le)",
			cmd:      NewCommandAPDU(ClassInterindustry, insAuth, 0x01, 0x02, nil, 0),
			expected: "00860102",
		},
		{
			name: "Case 3: Data, No Le",
			cmd:  NewCommandAPDU(ClassInterindustry, insAuth, 0x04, 0x00, []byte{0xA0, 0x00}, 0),
			// Lc=02, Data=A000
			expected: "0086040002A000",
		},
		{
			name: "Case 2: No Data, Le=MaxShortLe (256)",
			cmd:  NewCommandAPDU(ClassPCSC, insRead, 0x00, 0x00, nil, MaxShortLe),
			// Le=00 means 256
			expected: "FFB0000000",
		},
		{
			name:     "Case 2: Le=16",
			cmd:      NewCommandAPDU(ClassPCSC, insRead, 0x00, 0x3F, nil, 16),
			expected: "FFB0003F10",
		},
		{
			name: "Case 4: Data and Le",
			cmd:  NewCommandAPDU(ClassInterindustry, insAuth, 0x00, 0x00, []byte{0x01}, 10),
			// Lc=01, Data=01, Le=0A
			expected: "0086000001010A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotBytes, err := tt.cmd.Bytes()
			if err != nil {
				t.Fatalf("Encoding failed: %v", err)
			}
			gotHex := strings.ToUpper(hex.EncodeToString(gotBytes))
			if gotHex != tt.expected {
				t.Errorf("Mismatch\nExpected: %s\nGot:      %s", tt.expected, gotHex)
			}
		})
	}
}

func TestCommandAPDU_EncodingLimits(t *testing.T) {
	insRead, _ := NewInstruction(INS_READ_BINARY)

	if _, err := NewCommandAPDU(ClassPCSC, insRead, 0, 0, make([]byte, 256), 0).Bytes(); err == nil {
		t.Error("Expected error for Lc > 255")
	}
	if _, err := NewCommandAPDU(ClassPCSC, insRead, 0, 0, nil, 257).Bytes(); err == nil {
		t.Error("Expected error for Le > 256")
	}
}

func TestParseResponseAPDU(t *testing.T) {
	// Raw: 01 02 03 (Data) | 90 00 (SW)
	raw, _ := hex.DecodeString("0102039000")
	resp, err := ParseResponseAPDU(raw)

	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(resp.Data) != 3 {
		t.Errorf("Wrong data length: got %d, want 3", len(resp.Data))
	}
	if resp.Status != SW_NO_ERROR {
		t.Errorf("Wrong status: got %04X, want %04X", uint16(resp.Status), uint16(SW_NO_ERROR))
	}
}

func TestParseResponseAPDU_TooShort(t *testing.T) {
	raw := []byte{0x90}
	_, err := ParseResponseAPDU(raw)

	if err == nil {
		t.Error("Expected error for short response, got nil")
	}
}
