package iso7816

import (
	"fmt"
)

// CLIENT & PROTOCOL LOGIC:
// The Client drives the reader connection and hides two ISO 7816-3 transport behaviors:
//
// 1. "61 XX" (Response Available): a GET RESPONSE with Le = XX is sent automatically.
// 2. "6C XX" (Wrong Length): the original command is re-sent with Le = XX.
//
// Send() returns the Trace of every physical exchange made for the logical request.

// maxTraceLength bounds the 61XX/6CXX follow-ups for one logical request.
const maxTraceLength = 8

// Transmitter abstracts the physical card connection (*scard.Card satisfies it).
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client manages the high-level communication with the card.
type Client struct {
	Card Transmitter
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits a command and handles protocol logic (61xx, 6Cxx).
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	return c.send(cmd, nil)
}

func (c *Client) send(cmd *CommandAPDU, trace Trace) (Trace, error) {
	if len(trace) >= maxTraceLength {
		return trace, fmt.Errorf("too many chained responses (%d)", len(trace))
	}

	rawCmd, err := cmd.Bytes()
	if err != nil {
		return trace, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return trace, fmt.Errorf("transmission error: %w", err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return trace, err
	}

	trace = append(trace, Transaction{Command: cmd, Response: resp})

	sw1 := resp.Status.SW1()
	sw2 := resp.Status.SW2()

	switch sw1 {
	case 0x61:
		// GET RESPONSE stays on the class of the original command. 6100 means 256 bytes.
		return c.send(NewCommandAPDU(cmd.Class, mustInstruction(INS_GET_RESPONSE), 0x00, 0x00, nil, leOf(sw2)), trace)
	case 0x6C:
		// Clone to keep the caller's command untouched
		retry := *cmd
		retry.Ne = leOf(sw2)
		return c.send(&retry, trace)
	}

	return trace, nil
}

func leOf(sw2 byte) int {
	if sw2 == 0 {
		return MaxShortLe
	}
	return int(sw2)
}
