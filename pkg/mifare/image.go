package mifare

import (
	"fmt"
	"strconv"
	"strings"
)

const blockPrefix = "Block"

// Image is the raw memory of a card, block 0 first.
type Image []byte

// Blocks returns the number of complete blocks in the image.
func (img Image) Blocks() int {
	return len(img) / BlockSize
}

// Block returns the 16 bytes of block n, or nil if the block is not complete.
func (img Image) Block(n int) []byte {
	start := n * BlockSize
	if n < 0 || start+BlockSize > len(img) {
		return nil
	}
	return img[start : start+BlockSize]
}

// Bytes returns a copy of the image suitable for a binary export.
func (img Image) Bytes() []byte {
	out := make([]byte, len(img))
	copy(out, img)
	return out
}

// ParseDump extracts the bytes of every "Block" line of text, in line order.
//
// A line is taken into account when it starts with the literal "Block". Everything after
// its first ':' is trimmed and split on single spaces, each token being one byte in hex.
// Other lines are ignored.
func ParseDump(text string) (Image, error) {
	var img Image

	for i, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, blockPrefix) {
			continue
		}

		_, payload, found := strings.Cut(line, ":")
		if !found {
			return nil, &InvalidHexTokenError{Line: i + 1, Token: strings.TrimSpace(line)}
		}

		payload = strings.TrimSpace(payload)
		if payload == "" {
			continue
		}

		for _, token := range strings.Split(payload, " ") {
			b, err := strconv.ParseUint(token, 16, 8)
			if err != nil {
				return nil, &InvalidHexTokenError{Line: i + 1, Token: token}
			}
			img = append(img, byte(b))
		}
	}

	if len(img) == 0 {
		return nil, ErrNoBlockData
	}
	return img, nil
}

// FormatDump renders img in the text format read by ParseDump, one line per block.
// A trailing partial block is written on its own line.
func FormatDump(img Image) string {
	var sb strings.Builder

	for n := 0; n*BlockSize < len(img); n++ {
		end := min((n+1)*BlockSize, len(img))
		sb.WriteString(fmt.Sprintf("%s %d: %s\n", blockPrefix, n, FormatHex(img[n*BlockSize:end])))
	}

	return sb.String()
}

// FormatHex renders bytes as space-separated two-digit uppercase hex ("04 1A FF").
func FormatHex(data []byte) string {
	return fmt.Sprintf("% X", data)
}
