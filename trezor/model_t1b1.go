package trezor

import (
	"github.com/q0jt/go-trezor/trezor/config"
	"github.com/q0jt/go-trezor/trezor/config/model"
)

// Trezor Model One
const (
	ModelName              = "1"
	ModelFullName          = "Trezor Model One"
	ModelInternalName      = "T1B1"
	ModelInternalNameToken = model.T1B1

	BootloaderStart = 0x08000000
	FirmwareStart   = 0x08010000

	ImageChunkSize         = 64 * 1024
	BootloaderImageMaxSize = 32 * 1024 * 1  // 32 KB
	FirmwareImageMaxSize   = 64 * 1024 * 15 // 960 KB
	NorcowSectorSize       = 16 * 1024
)

// T1B1 returns the Model One descriptor.
func T1B1() *config.ModelLayout {
	return &config.ModelLayout{
		Name:                   ModelName,
		FullName:               ModelFullName,
		InternalName:           ModelInternalName,
		BootloaderStart:        BootloaderStart,
		FirmwareStart:          FirmwareStart,
		ImageChunkSize:         ImageChunkSize,
		BootloaderImageMaxSize: BootloaderImageMaxSize,
		FirmwareImageMaxSize:   FirmwareImageMaxSize,
		NorcowSectorSize:       NorcowSectorSize,
	}
}
