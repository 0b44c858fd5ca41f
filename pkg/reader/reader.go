// Package reader acquires a MIFARE Classic memory image through a PC/SC reader.
//
// The Dumper authenticates each sector with a list of candidate keys, reads all of its
// blocks and assembles a mifare.Image. Card hardware never returns Key A on a read, so
// the key that opened the sector is written back into the trailer of the image.
// Sectors that no key opens, or that hold a block the card refuses to read, are left
// zeroed and listed in the Result.
package reader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gregLibert/mifare-dump/pkg/iso7816"
	"github.com/gregLibert/mifare-dump/pkg/mifare"
	log "github.com/sirupsen/logrus"
)

// keySlot is the volatile reader slot every candidate key is loaded into.
const keySlot = 0x00

// ErrUnknownCardSize is returned when the geometry is neither configured nor found in the ATR.
var ErrUnknownCardSize = errors.New("cannot determine card size")

// DefaultKeys are well-known MIFARE Classic keys tried when none are configured.
var DefaultKeys = [][6]byte{
	{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, // transport
	{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5}, // MAD key A
	{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7}, // NFC Forum
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// pcscRID is the PC/SC registered application provider identifier found in storage card ATRs.
var pcscRID = []byte{0xA0, 0x00, 0x00, 0x03, 0x06}

// DetectGeometry reads the card name from a PC/SC Part 3 ATR.
//
// The historical bytes carry RID (5) | standard (1) | card name (2). Card name 0001 is
// MIFARE Classic 1K and 0002 is MIFARE Classic 4K.
func DetectGeometry(atr []byte) (mifare.Geometry, error) {
	idx := bytes.Index(atr, pcscRID)
	if idx < 0 || idx+len(pcscRID)+3 > len(atr) {
		return 0, fmt.Errorf("%w: no PC/SC card name in ATR % X", ErrUnknownCardSize, atr)
	}

	name := atr[idx+len(pcscRID)+1 : idx+len(pcscRID)+3]
	switch {
	case name[0] == 0x00 && name[1] == 0x01:
		return mifare.Geometry1K, nil
	case name[0] == 0x00 && name[1] == 0x02:
		return mifare.Geometry4K, nil
	default:
		return 0, fmt.Errorf("%w: card name %02X%02X is not a MIFARE Classic 1K/4K", ErrUnknownCardSize, name[0], name[1])
	}
}

// Options configures a Dumper.
type Options struct {
	// Keys are tried in order, first as Key A then as Key B. Empty means DefaultKeys.
	Keys [][6]byte

	// Geometry forces the card size. Zero means detection from ATR.
	Geometry mifare.Geometry

	// ATR of the card, used for geometry detection.
	ATR []byte
}

// Result is the outcome of a dump.
type Result struct {
	UID        []byte
	Geometry   mifare.Geometry
	Image      mifare.Image
	Unreadable []int // sectors left zeroed
}

// Dumper reads a whole card through an iso7816.Client.
type Dumper struct {
	client *iso7816.Client
	opts   Options

	loaded    bool
	loadedKey [6]byte
}

// NewDumper creates a Dumper over the given card connection.
func NewDumper(card iso7816.Transmitter, opts Options) *Dumper {
	if len(opts.Keys) == 0 {
		opts.Keys = DefaultKeys
	}
	return &Dumper{client: iso7816.NewClient(card), opts: opts}
}

// Dump reads the UID and every sector of the card.
func (d *Dumper) Dump() (*Result, error) {
	uid, err := d.readUID()
	if err != nil {
		return nil, err
	}

	geometry := d.opts.Geometry
	if geometry == 0 {
		if geometry, err = DetectGeometry(d.opts.ATR); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{"uid": mifare.FormatHex(uid), "size": geometry}).Info("card detected")

	res := &Result{
		UID:      uid,
		Geometry: geometry,
		Image:    make(mifare.Image, geometry.Blocks()*mifare.BlockSize),
	}

	for sector := 0; sector < geometry.Sectors(); sector++ {
		ok, err := d.dumpSector(res.Image, sector)
		if err != nil {
			return nil, fmt.Errorf("sector %d: %w", sector, err)
		}
		if !ok {
			res.Unreadable = append(res.Unreadable, sector)
			log.WithField("sector", sector).Warn("sector not read, left zeroed")
		}
	}

	return res, nil
}

func (d *Dumper) readUID() ([]byte, error) {
	trace, err := d.client.Send(iso7816.GetUID())
	if err != nil {
		return nil, fmt.Errorf("get UID: %w", err)
	}
	if !trace.IsSuccess() {
		return nil, fmt.Errorf("get UID failed with status: %s", trace.Status().Verbose())
	}
	return append([]byte(nil), trace.Data()...), nil
}

// dumpSector authenticates and reads one sector into img. It reports false when no key
// opened the sector or when the card refused one of its blocks; img is then left untouched.
func (d *Dumper) dumpSector(img mifare.Image, sector int) (bool, error) {
	first := mifare.FirstBlockOf(sector)
	count := mifare.BlocksInSector(sector)

	key, keyType, found, err := d.authenticate(first)
	if err != nil || !found {
		return false, err
	}

	data := make([]byte, 0, count*mifare.BlockSize)
	for block := first; block < first+count; block++ {
		trace, err := d.client.Send(iso7816.ReadBinary(block, mifare.BlockSize))
		if err != nil {
			return false, fmt.Errorf("read block %d: %w", block, err)
		}
		if !trace.IsSuccess() || len(trace.Data()) != mifare.BlockSize {
			log.WithFields(log.Fields{
				"block":  block,
				"status": trace.Status().Verbose(),
				"length": len(trace.Data()),
			}).Warn("block read refused")
			return false, nil
		}
		data = append(data, trace.Data()...)
	}

	trailer := data[(count-1)*mifare.BlockSize:]
	switch keyType {
	case iso7816.KeyTypeA:
		copy(trailer[0:6], key[:])
	case iso7816.KeyTypeB:
		copy(trailer[10:16], key[:])
	}
	copy(img[first*mifare.BlockSize:], data)

	log.WithFields(log.Fields{"sector": sector, "key": mifare.FormatHex(key[:]), "type": keyType}).Debug("sector read")
	return true, nil
}

// authenticate tries every key as Key A, then as Key B, on the first block of a sector.
func (d *Dumper) authenticate(block int) ([6]byte, iso7816.KeyType, bool, error) {
	for _, keyType := range []iso7816.KeyType{iso7816.KeyTypeA, iso7816.KeyTypeB} {
		for _, key := range d.opts.Keys {
			if err := d.loadKey(key); err != nil {
				return key, keyType, false, err
			}

			trace, err := d.client.Send(iso7816.Authenticate(block, keyType, keySlot))
			if err != nil {
				return key, keyType, false, fmt.Errorf("authenticate block %d: %w", block, err)
			}
			if trace.IsSuccess() {
				return key, keyType, true, nil
			}
		}
	}
	return [6]byte{}, 0, false, nil
}

func (d *Dumper) loadKey(key [6]byte) error {
	if d.loaded && d.loadedKey == key {
		return nil
	}

	trace, err := d.client.Send(iso7816.LoadKey(keySlot, key))
	if err != nil {
		return fmt.Errorf("load key: %w", err)
	}
	if !trace.IsSuccess() {
		return fmt.Errorf("load key failed with status: %s", trace.Status().Verbose())
	}

	d.loaded = true
	d.loadedKey = key
	return nil
}
