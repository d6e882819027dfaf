package trezor

import (
	"bytes"
	"errors"
	"io"
	"math"

	"github.com/marcinbor85/gohex"
)

// HexFileToBinary converts Intel HEX data into a flat binary starting at
// the lowest loaded address. Gaps are filled with erased flash (0xFF).
func HexFileToBinary(b []byte) ([]byte, error) {
	h, err := parseIntelHex(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return h.binary(), nil
}

// hexImage is a parsed HEX file whose flat size is known before any
// buffer for it is allocated.
type hexImage struct {
	mem  *gohex.Memory
	base uint32
	size uint64
}

func parseIntelHex(r io.Reader) (*hexImage, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, errors.New("hex file has no data")
	}
	base, end := segments[0].Address, uint64(0)
	for _, segment := range segments {
		if segment.Address < base {
			base = segment.Address
		}
		if e := uint64(segment.Address) + uint64(len(segment.Data)); e > end {
			end = e
		}
	}
	size := end - uint64(base)
	if size > math.MaxUint32 {
		return nil, errors.New("hex file spans the whole address space")
	}
	return &hexImage{mem: mem, base: base, size: size}, nil
}

func (h *hexImage) binary() []byte {
	return h.mem.ToBinary(h.base, uint32(h.size), 0xFF)
}

// BinaryToHex writes b as Intel HEX loaded at addr.
func BinaryToHex(w io.Writer, addr uint32, b []byte) error {
	mem := gohex.NewMemory()
	if err := mem.AddBinary(addr, b); err != nil {
		return err
	}
	return mem.DumpIntelHex(w, 16)
}
