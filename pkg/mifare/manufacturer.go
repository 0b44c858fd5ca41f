package mifare

import "fmt"

// UnknownManufacturer is returned for codes missing from the registry.
const UnknownManufacturer = "Unknown Manufacturer"

// ManufacturerName returns the display name of the chip manufacturer stored in byte 5 of block 0.
func ManufacturerName(code byte) string {
	switch code {
	case 0x00:
		return "Unknown or Reserved"
	case 0x04:
		return "NXP Semiconductors"
	case 0x05:
		return "Mikron"
	case 0x07:
		return "Infineon Technologies"
	case 0x0A:
		return "Atmel"
	case 0x0B:
		return "SLE (Siemens/Infineon)"
	case 0x0C:
		return "HITAG (Philips/NXP)"
	case 0x0F:
		return "NXP (former Philips Semiconductors)"
	case 0x11:
		return "STMicroelectronics"
	case 0x13:
		return "Toshiba"
	case 0x1F:
		return "Broadcom"
	case 0x2B:
		return "Intel Corporation"
	case 0x2E:
		return "Sony Corporation"
	case 0x39:
		return "Motorola"
	case 0x3F:
		return "Microchip Technology"
	case 0x41:
		return "ASK (Amplitude Shift Keying)"
	case 0x43:
		return "Melexis"
	case 0x4A:
		return "EM Microelectronic-Marin SA"
	case 0x4D:
		return "Micron"
	case 0x55:
		return "Magellan Technology"
	case 0x6A:
		return "Samsung"
	case 0x7C:
		return "Toshiba"
	case 0x88:
		return "Shanghai Fudan Microelectronics"
	case 0x8A:
		return "Texas Instruments"
	case 0xA0:
		return "EMVCo (Payment Systems)"
	case 0xA1:
		return "LEGIC Identsystems AG"
	case 0xB0:
		return "Giesecke+Devrient"
	case 0xB3:
		return "Samsung Electronics"
	case 0xC0:
		return "RFID Components"
	case 0xC1:
		return "Silicon Craft Technology"
	case 0xC2:
		return "Zilog"
	case 0xD2:
		return "Shanghai Huahong Integrated Circuit"
	case 0xE0:
		return "SMARTRAC (now Avery Dennison RFID)"
	case 0xE1:
		return "TagSys"
	case 0xF0:
		return "Feitian Technologies"
	case 0xFF:
		return "Test Manufacturer/Custom Chip"
	default:
		return UnknownManufacturer
	}
}

// ManufacturerCodeString formats a manufacturer code as two uppercase hex digits.
func ManufacturerCodeString(code byte) string {
	return fmt.Sprintf("%02X", code)
}
