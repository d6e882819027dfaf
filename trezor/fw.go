package trezor

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/q0jt/go-trezor/trezor/config"
)

var (
	ErrEmptyImage   = errors.New("image is empty")
	ErrUnknownKind  = errors.New("image kind cannot be determined")
	ErrShortDump    = errors.New("flash dump does not reach the firmware region")
	ErrDumpTooLarge = errors.New("flash dump runs past the firmware region")
	errNotImageFile = errors.New("unsupported image file extension")
)

type Kind int

const (
	KindAuto Kind = iota
	KindBootloader
	KindFirmware
)

func (k Kind) String() string {
	switch k {
	case KindBootloader:
		return "bootloader"
	case KindFirmware:
		return "firmware"
	}
	return "auto"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return KindAuto, nil
	case "bootloader":
		return KindBootloader, nil
	case "firmware":
		return KindFirmware, nil
	}
	return KindAuto, fmt.Errorf("invalid image kind %q", s)
}

// ImageTooLargeError indicates that an image exceeds the maximum size of its region.
type ImageTooLargeError struct {
	Kind    Kind
	Size    int
	MaxSize uint32
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("%s image is %d bytes, maximum is %d", e.Kind, e.Size, e.MaxSize)
}

// LoadAddressError indicates that an image is not loaded at the start of its region.
type LoadAddressError struct {
	Kind     Kind
	Expected uint32
	Actual   uint32
}

func (e *LoadAddressError) Error() string {
	return fmt.Sprintf("%s image loads at 0x%08X, expected 0x%08X", e.Kind, e.Actual, e.Expected)
}

// Image is a bootloader or firmware image.
type Image struct {
	Kind Kind
	// LoadAddr is only known for images read from Intel HEX.
	LoadAddr uint32
	HasAddr  bool
	Data     []byte
}

// OpenImage reads a .bin or .hex image. Raw binaries carry no load address,
// so kind must not be KindAuto for them.
func OpenImage(name string, l *config.ModelLayout, kind Kind) (*Image, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(name) {
	case ".hex", ".ihex":
		return ReadHexImage(b, l, kind)
	case ".bin":
		return NewImage(b, kind)
	}
	return nil, fmt.Errorf("%w: %s", errNotImageFile, name)
}

// NewImage wraps a raw binary image.
func NewImage(b []byte, kind Kind) (*Image, error) {
	if kind == KindAuto {
		return nil, ErrUnknownKind
	}
	return &Image{Kind: kind, Data: b}, nil
}

// ReadHexImage parses an Intel HEX image. With KindAuto the kind is taken
// from the region the load address falls in.
func ReadHexImage(b []byte, l *config.ModelLayout, kind Kind) (*Image, error) {
	h, err := parseIntelHex(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	addr := h.base
	if kind == KindAuto {
		switch {
		case BootloaderRegion(l).Contains(addr):
			kind = KindBootloader
		case FirmwareRegion(l).Contains(addr):
			kind = KindFirmware
		default:
			return nil, fmt.Errorf("%w: load address 0x%08X", ErrUnknownKind, addr)
		}
	}
	img := &Image{Kind: kind, LoadAddr: addr, HasAddr: true}
	if r := img.Region(l); h.size > uint64(r.Size) {
		return nil, &ImageTooLargeError{Kind: kind, Size: int(h.size), MaxSize: r.Size}
	}
	img.Data = h.binary()
	return img, nil
}

// Region returns the flash region the image belongs to.
func (img *Image) Region(l *config.ModelLayout) Region {
	if img.Kind == KindBootloader {
		return BootloaderRegion(l)
	}
	return FirmwareRegion(l)
}

// Validate checks the image against the descriptor limits.
func (img *Image) Validate(l *config.ModelLayout) error {
	if len(img.Data) == 0 {
		return ErrEmptyImage
	}
	r := img.Region(l)
	if len(img.Data) > int(r.Size) {
		return &ImageTooLargeError{Kind: img.Kind, Size: len(img.Data), MaxSize: r.Size}
	}
	if img.HasAddr && img.LoadAddr != r.Start {
		return &LoadAddressError{Kind: img.Kind, Expected: r.Start, Actual: img.LoadAddr}
	}
	return nil
}

// Chunks splits the image into chunks of the descriptor's chunk size.
// The last chunk may be shorter.
func (img *Image) Chunks(l *config.ModelLayout) [][]byte {
	size := int(l.ImageChunkSize)
	chunks := make([][]byte, 0, ChunkCount(l, len(img.Data)))
	for off := 0; off < len(img.Data); off += size {
		end := min(off+size, len(img.Data))
		chunks = append(chunks, img.Data[off:end])
	}
	return chunks
}

// ChunkHashes returns the SHA-256 of every chunk.
func (img *Image) ChunkHashes(l *config.ModelLayout) [][]byte {
	var hashes [][]byte
	for _, c := range img.Chunks(l) {
		hashes = append(hashes, sha256Sum(c))
	}
	return hashes
}

func sha256Sum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// FlashDump is a flash image starting at the bootloader start address.
type FlashDump struct {
	r    io.ReaderAt
	size int64
	mem  *config.ModelLayout
}

// OpenFlashDump reads a .bin or .hex dump of the device flash.
func OpenFlashDump(name string, l *config.ModelLayout) (*FlashDump, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(name) {
	case ".hex", ".ihex":
		h, err := parseIntelHex(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		if h.base != l.BootloaderStart {
			return nil, &LoadAddressError{Kind: KindBootloader, Expected: l.BootloaderStart, Actual: h.base}
		}
		if h.size > flashDumpMaxSize(l) {
			return nil, fmt.Errorf("%w: %d bytes", ErrDumpTooLarge, h.size)
		}
		b = h.binary()
	case ".bin":
		if uint64(len(b)) > flashDumpMaxSize(l) {
			return nil, fmt.Errorf("%w: %d bytes", ErrDumpTooLarge, len(b))
		}
	default:
		return nil, fmt.Errorf("%w: %s", errNotImageFile, name)
	}
	return NewFlashDump(b, l), nil
}

// flashDumpMaxSize is the span from the bootloader start to the end of the
// firmware region.
func flashDumpMaxSize(l *config.ModelLayout) uint64 {
	return FirmwareRegion(l).End() - uint64(l.BootloaderStart)
}

func NewFlashDump(b []byte, l *config.ModelLayout) *FlashDump {
	return &FlashDump{r: bytes.NewReader(b), size: int64(len(b)), mem: l}
}

// ExtractBootloader returns the whole bootloader region.
func (f *FlashDump) ExtractBootloader() ([]byte, error) {
	n := min(int64(f.mem.BootloaderImageMaxSize), f.size)
	out := make([]byte, n)
	if _, err := f.r.ReadAt(out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractFirmware returns the firmware region with trailing erased bytes removed.
func (f *FlashDump) ExtractFirmware() ([]byte, error) {
	off := int64(f.mem.FirmwareStart - f.mem.BootloaderStart)
	if f.size <= off {
		return nil, ErrShortDump
	}
	n := min(int64(f.mem.FirmwareImageMaxSize), f.size-off)
	out := make([]byte, n)
	if _, err := f.r.ReadAt(out, off); err != nil {
		return nil, err
	}
	return bytes.TrimRight(out, "\xff"), nil
}
