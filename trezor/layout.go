package trezor

import (
	"errors"
	"fmt"

	"github.com/q0jt/go-trezor/trezor/config"
)

var ErrZeroSize = errors.New("descriptor size is zero")

// Region is a span of flash memory.
type Region struct {
	Start uint32
	Size  uint32
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return uint64(r.Start) + uint64(r.Size)
}

func (r Region) Contains(addr uint32) bool {
	return addr >= r.Start && uint64(addr) < r.End()
}

func (r Region) Overlaps(o Region) bool {
	return uint64(r.Start) < o.End() && uint64(o.Start) < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("0x%08x-0x%08x", r.Start, r.End())
}

func BootloaderRegion(l *config.ModelLayout) Region {
	return Region{Start: l.BootloaderStart, Size: l.BootloaderImageMaxSize}
}

func FirmwareRegion(l *config.ModelLayout) Region {
	return Region{Start: l.FirmwareStart, Size: l.FirmwareImageMaxSize}
}

// RegionOverlapError indicates that the bootloader region runs into the firmware region.
type RegionOverlapError struct {
	Bootloader Region
	Firmware   Region
}

func (e *RegionOverlapError) Error() string {
	return fmt.Sprintf("bootloader region %s overlaps firmware region %s",
		e.Bootloader, e.Firmware)
}

// AlignmentError indicates that a size is not a multiple of the unit it is split into.
type AlignmentError struct {
	Field string
	Size  uint32
	Unit  uint32
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s %d is not a multiple of %d", e.Field, e.Size, e.Unit)
}

// Validate checks the relations between the descriptor values:
// the bootloader and firmware regions must not overlap, and the firmware
// max size must be a whole number of storage sectors and of image chunks.
func Validate(l *config.ModelLayout) error {
	if l == nil {
		return errors.New("nil descriptor")
	}
	sizes := []struct {
		field string
		v     uint32
	}{
		{"image chunk size", l.ImageChunkSize},
		{"bootloader max size", l.BootloaderImageMaxSize},
		{"firmware max size", l.FirmwareImageMaxSize},
		{"norcow sector size", l.NorcowSectorSize},
	}
	for _, s := range sizes {
		if s.v == 0 {
			return fmt.Errorf("%w: %s", ErrZeroSize, s.field)
		}
	}
	bl, fw := BootloaderRegion(l), FirmwareRegion(l)
	if uint64(l.FirmwareStart) < bl.End() {
		return &RegionOverlapError{Bootloader: bl, Firmware: fw}
	}
	if l.FirmwareImageMaxSize%l.NorcowSectorSize != 0 {
		return &AlignmentError{Field: "firmware max size", Size: l.FirmwareImageMaxSize, Unit: l.NorcowSectorSize}
	}
	if l.FirmwareImageMaxSize%l.ImageChunkSize != 0 {
		return &AlignmentError{Field: "firmware max size", Size: l.FirmwareImageMaxSize, Unit: l.ImageChunkSize}
	}
	return nil
}

// SectorCount returns the number of storage sectors in n bytes.
func SectorCount(l *config.ModelLayout, n uint32) (uint32, error) {
	if n%l.NorcowSectorSize != 0 {
		return 0, &AlignmentError{Field: "storage area", Size: n, Unit: l.NorcowSectorSize}
	}
	return n / l.NorcowSectorSize, nil
}

// AlignToSector rounds n up to the next sector boundary.
func AlignToSector(l *config.ModelLayout, n uint32) uint32 {
	s := l.NorcowSectorSize
	return (n + s - 1) / s * s
}

// ChunkCount returns the number of chunks needed for n bytes of image.
func ChunkCount(l *config.ModelLayout, n int) int {
	c := int(l.ImageChunkSize)
	return (n + c - 1) / c
}
