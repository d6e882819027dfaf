package trezor

import (
	"errors"
	"testing"

	"github.com/q0jt/go-trezor/trezor/config"
)

func TestRegion(t *testing.T) {
	bl := BootloaderRegion(T1B1())
	fw := FirmwareRegion(T1B1())

	if bl.End() != 0x08008000 {
		t.Errorf("bootloader end = 0x%x", bl.End())
	}
	if fw.End() != 0x08100000 {
		t.Errorf("firmware end = 0x%x", fw.End())
	}
	if bl.Overlaps(fw) || fw.Overlaps(bl) {
		t.Error("regions overlap")
	}
	if !fw.Contains(FirmwareStart) || fw.Contains(0x08100000) || bl.Contains(FirmwareStart) {
		t.Error("Contains reports wrong bounds")
	}
	if !(Region{Start: 0, Size: 10}).Overlaps(Region{Start: 9, Size: 1}) {
		t.Error("adjacent-by-one regions should overlap")
	}
	if got := bl.String(); got != "0x08000000-0x08008000" {
		t.Errorf("String() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(l *config.ModelLayout)
		wantErr any
	}{
		{
			name:   "valid",
			modify: func(l *config.ModelLayout) {},
		},
		{
			name:    "overlapping regions",
			modify:  func(l *config.ModelLayout) { l.BootloaderImageMaxSize = 0x10001 },
			wantErr: &RegionOverlapError{},
		},
		{
			name:    "firmware size not sector aligned",
			modify:  func(l *config.ModelLayout) { l.FirmwareImageMaxSize = 983040 + 512 },
			wantErr: &AlignmentError{},
		},
		{
			name:    "firmware size not chunk aligned",
			modify:  func(l *config.ModelLayout) { l.ImageChunkSize = 128 * 1024 },
			wantErr: &AlignmentError{},
		},
		{
			name:   "chunk size not sector aligned",
			modify: func(l *config.ModelLayout) { l.ImageChunkSize = 20 * 1024 },
		},
		{
			name:    "zero sector size",
			modify:  func(l *config.ModelLayout) { l.NorcowSectorSize = 0 },
			wantErr: ErrZeroSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := T1B1()
			tt.modify(l)
			err := Validate(l)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			case *RegionOverlapError:
				if !errors.As(err, &want) {
					t.Fatalf("expected RegionOverlapError, got %v", err)
				}
			case *AlignmentError:
				if !errors.As(err, &want) {
					t.Fatalf("expected AlignmentError, got %v", err)
				}
			case error:
				if !errors.Is(err, want) {
					t.Fatalf("expected %v, got %v", want, err)
				}
			}
		})
	}
}

func TestSectorMath(t *testing.T) {
	l := T1B1()

	n, err := SectorCount(l, 2*NorcowSectorSize)
	if err != nil || n != 2 {
		t.Errorf("SectorCount = %d, %v", n, err)
	}
	if _, err := SectorCount(l, NorcowSectorSize+1); err == nil {
		t.Error("expected alignment error")
	}
	if got := AlignToSector(l, 1); got != NorcowSectorSize {
		t.Errorf("AlignToSector(1) = %d", got)
	}
	if got := AlignToSector(l, NorcowSectorSize); got != NorcowSectorSize {
		t.Errorf("AlignToSector(sector) = %d", got)
	}
	if got := AlignToSector(l, 0); got != 0 {
		t.Errorf("AlignToSector(0) = %d", got)
	}
}

func TestChunkCount(t *testing.T) {
	l := T1B1()
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{ImageChunkSize, 1},
		{ImageChunkSize + 1, 2},
		{FirmwareImageMaxSize, 15},
	}
	for _, tt := range tests {
		if got := ChunkCount(l, tt.n); got != tt.want {
			t.Errorf("ChunkCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
