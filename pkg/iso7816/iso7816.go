/*
Package iso7816 implements the APDU layer used to talk to a contactless reader through PC/SC.

Storage cards such as MIFARE Classic do not speak ISO 7816-4 natively. PC/SC readers expose them
through "pseudo-APDUs" (PC/SC Part 3) that reuse the ISO 7816 framing with the reserved class byte
0xFF. This package provides the framing (Command/Response APDU, Status Word, Trace), a Client that
handles the 61XX and 6CXX transport mechanisms, and builders for the storage-card commands.

# Fundamentals

The communication with the reader is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Reader processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x6300: Operation failed (PC/SC Part 3, e.g. authentication refused).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).

# Usage Example: Reading a MIFARE Classic block

	client := iso7816.NewClient(card)

	if _, err := client.Send(iso7816.LoadKey(0x00, key)); err != nil {
	    log.Fatal(err)
	}

	trace, err := client.Send(iso7816.Authenticate(4, iso7816.KeyTypeA, 0x00))
	if err != nil || !trace.IsSuccess() {
	    log.Fatal("authentication refused")
	}

	trace, err = client.Send(iso7816.ReadBinary(4, 16))
	if err == nil && trace.IsSuccess() {
	    fmt.Printf("Block 4: % X\n", trace.Last().Response.Data)
	}
*/
package iso7816
