package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ebfe/scard"
	"github.com/gregLibert/mifare-dump/internal/config"
	"github.com/gregLibert/mifare-dump/pkg/mifare"
	"github.com/gregLibert/mifare-dump/pkg/reader"
	log "github.com/sirupsen/logrus"
)

const usage = `Usage: mfdump [-config file.yaml] <command> [flags]

Commands:
  convert -in dump.txt [-out output.bin]   write the raw binary image
  view    -in dump.txt                     print the decoded card report
  tlv     -in dump.txt [-out card.tlv]     write the report as BER-TLV
  read    [-out dump.txt]                  dump a card through a PC/SC reader
`

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.SetLevel(cfg.LogLevel())

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "convert":
		err = runConvert(cfg, args)
	case "view":
		err = runView(args)
	case "tlv":
		err = runTLV(cfg, args)
	case "read":
		err = runRead(cfg, args)
	default:
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// =========================================================================
// Commands
// =========================================================================

// runConvert writes the binary image of a text dump.
func runConvert(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	in := fs.String("in", "", "text dump to convert")
	out := fs.String("out", "output.bin", "binary file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	card, err := decodeFile(*in)
	if err != nil {
		return err
	}

	return writeOutput(cfg, *out, card.Image.Bytes())
}

// runView prints the decoded report of a text dump.
func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	in := fs.String("in", "", "text dump to decode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	card, err := decodeFile(*in)
	if err != nil {
		return err
	}

	fmt.Println(card.Describe())
	return nil
}

// runTLV exports the decoded report as BER-TLV and prints its summary.
func runTLV(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tlv", flag.ExitOnError)
	in := fs.String("in", "", "text dump to decode")
	out := fs.String("out", "card.tlv", "TLV file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	card, err := decodeFile(*in)
	if err != nil {
		return err
	}

	data, err := card.MarshalTLV()
	if err != nil {
		return fmt.Errorf("encode TLV: %w", err)
	}

	// Read back what was written so the summary reflects the encoded bytes.
	export, err := mifare.UnmarshalTLV(data)
	if err != nil {
		return fmt.Errorf("decode TLV: %w", err)
	}
	fmt.Println(export.Describe())

	return writeOutput(cfg, *out, data)
}

// runRead dumps the card present on the configured reader as text.
func runRead(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	out := fs.String("out", "dump.txt", "text dump to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	keys, err := cfg.Reader.DecodeKeys()
	if err != nil {
		return err
	}

	ctx, card := connectToCard(cfg.Reader.Index)

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Printf("Warning: Failed to release context: %v", err)
		}
	}()

	defer func() {
		if err := card.Disconnect(scard.LeaveCard); err != nil {
			log.Printf("Warning: Failed to disconnect card: %v", err)
		}
	}()

	status, err := card.Status()
	if err != nil {
		return fmt.Errorf("card status: %w", err)
	}
	log.WithField("atr", mifare.FormatHex(status.Atr)).Info("card connected")

	res, err := reader.NewDumper(card, reader.Options{
		Keys:     keys,
		Geometry: cfg.Reader.Geometry(),
		ATR:      status.Atr,
	}).Dump()
	if err != nil {
		return err
	}

	if len(res.Unreadable) > 0 {
		log.Warnf("%d sector(s) could not be read: %v", len(res.Unreadable), res.Unreadable)
	}

	return writeOutput(cfg, *out, []byte(mifare.FormatDump(res.Image)))
}

// =========================================================================
// Helper Functions
// =========================================================================

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard(index int) (*scard.Context, *scard.Card) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		log.Fatalf("Error establishing context: %s", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) <= index {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatalf("No smart card reader found at index %d.", index)
	}

	log.Infof("Using reader: %s", readers[index])

	card, err := ctx.Connect(readers[index], scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Printf("Warning: Failed to release context during error handling: %v", relErr)
		}
		log.Fatalf("Error connecting to card: %s", err)
	}

	return ctx, card
}

func decodeFile(path string) (*mifare.DecodedCard, error) {
	if path == "" {
		return nil, fmt.Errorf("missing -in file")
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}

	card, err := mifare.Decode(string(text))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return card, nil
}

// writeOutput writes data to name, relative to the configured output directory.
func writeOutput(cfg *config.Config, name string, data []byte) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Output.Dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.WithFields(log.Fields{"file": path, "bytes": len(data)}).Info("file written")
	return nil
}
