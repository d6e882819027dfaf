package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/q0jt/go-trezor/trezor"
	"github.com/q0jt/go-trezor/trezor/config"
)

const usage = `Usage:
    trezor-model [flags] show [-format text|json|proto]
    trezor-model [flags] check [-kind auto|bootloader|firmware] <image>
    trezor-model [flags] dump <flash.bin|flash.hex> <outdir>

Flags:
`

func main() {
	log.SetFlags(0)
	confPath := flag.String("config", "", "pkl module with model descriptors (default: built in)")
	modelName := flag.String("model", trezor.ModelInternalName, "internal model name")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	conf, err := trezor.LoadModels(context.Background(), *confPath)
	if err != nil {
		log.Fatal(err)
	}
	m, err := trezor.ParseModel(*modelName)
	if err != nil {
		log.Fatal(err)
	}
	layout, err := trezor.Layout(conf, m)
	if err != nil {
		log.Fatal(err)
	}

	args := flag.Args()
	switch args[0] {
	case "show":
		err = show(os.Stdout, layout, args[1:])
	case "check":
		err = check(os.Stdout, layout, args[1:])
	case "dump":
		err = dump(os.Stdout, layout, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func show(w io.Writer, l *config.ModelLayout, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	format := fs.String("format", "text", "output format: text, json or proto")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *format {
	case "text":
		fmt.Fprintf(w, "Model:            %s (%s, %s)\n", l.FullName, l.Name, l.InternalName)
		fmt.Fprintf(w, "Bootloader:       %s\n", trezor.BootloaderRegion(l))
		fmt.Fprintf(w, "Firmware:         %s\n", trezor.FirmwareRegion(l))
		fmt.Fprintf(w, "Image chunk size: %d\n", l.ImageChunkSize)
		fmt.Fprintf(w, "Sector size:      %d\n", l.NorcowSectorSize)
		return nil
	case "json":
		b, err := trezor.MarshalJSON(l)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "proto":
		b, err := trezor.MarshalProto(l)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown format %q", *format)
}

func check(w io.Writer, l *config.ModelLayout, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	kindName := fs.String("kind", "auto", "image kind: auto, bootloader or firmware")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("check: expected one image file")
	}
	kind, err := trezor.ParseKind(*kindName)
	if err != nil {
		return err
	}
	img, err := trezor.OpenImage(fs.Arg(0), l, kind)
	if err != nil {
		return err
	}
	if err := img.Validate(l); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s image ok: %d bytes in %s\n", img.Kind, len(img.Data), img.Region(l))
	for i, h := range img.ChunkHashes(l) {
		fmt.Fprintf(w, "chunk %2d: %s\n", i, hex.EncodeToString(h))
	}
	return nil
}

func dump(w io.Writer, l *config.ModelLayout, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("dump: expected flash image and output directory")
	}
	f, err := trezor.OpenFlashDump(args[0], l)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(args[1], 0755); err != nil {
		return err
	}
	bl, err := f.ExtractBootloader()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(args[1], "bootloader.bin"), bl, 0644); err != nil {
		return err
	}
	fw, err := f.ExtractFirmware()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(args[1], "firmware.bin"), fw, 0644); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote bootloader (%d bytes) and firmware (%d bytes) to %s\n", len(bl), len(fw), args[1])
	return nil
}
