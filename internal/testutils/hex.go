// Package testutils holds fixture helpers shared by the package tests.
package testutils

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex decodes hex fixtures written the way dumps and traces print them, e.g.
// Hex("FF 82 00 00 06", "FFFFFFFFFFFF"). Whitespace is ignored and parts are
// concatenated. It panics on malformed input, since fixtures are constants.
func Hex(parts ...string) []byte {
	compact := strings.Join(strings.Fields(strings.Join(parts, " ")), "")

	data, err := hex.DecodeString(compact)
	if err != nil {
		panic(fmt.Sprintf("testutils.Hex(%q): %v", parts, err))
	}
	return data
}
