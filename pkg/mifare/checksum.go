package mifare

// BCCResult is the outcome of a UID check byte verification.
type BCCResult struct {
	Valid    bool
	Expected byte
}

// ComputeBCC returns the Block Check Character of a 4-byte UID: the XOR of its bytes.
func ComputeBCC(uid [4]byte) byte {
	return uid[0] ^ uid[1] ^ uid[2] ^ uid[3]
}

// ValidateBCC compares check with the BCC computed from uid.
func ValidateBCC(uid [4]byte, check byte) BCCResult {
	expected := ComputeBCC(uid)
	return BCCResult{
		Valid:    expected == check,
		Expected: expected,
	}
}
