package windows

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

type win32PhysicalMemory struct {
	BankLabel        string
	DeviceLocator    string
	Capacity         uint64
	Speed            uint32
	Manufacturer     string
	SMBIOSMemoryType uint32
}

// smbiosMemoryTypes names SMBIOS type 17 memory type codes.
var smbiosMemoryTypes = map[uint32]string{
	18: "DDR",
	19: "DDR2",
	20: "DDR2 FB-DIMM",
	24: "DDR3",
	26: "DDR4",
	27: "LPDDR",
	28: "LPDDR2",
	29: "LPDDR3",
	30: "LPDDR4",
	34: "DDR5",
	35: "LPDDR5",
}

func (h *HardwareAbstractionLayer) memory() hardware.GlobalMemory {
	return common.NewMemory(h.backend, h.logger, common.MemoryOptions{
		Banks: h.memoryBanks(),
	})
}

func (h *HardwareAbstractionLayer) memoryBanks() []hardware.PhysicalMemory {
	banks := []hardware.PhysicalMemory{}
	var rows []win32PhysicalMemory
	if !h.query("", "SELECT BankLabel, DeviceLocator, Capacity, Speed, Manufacturer, SMBIOSMemoryType FROM Win32_PhysicalMemory", &rows) {
		return banks
	}
	for _, r := range rows {
		label := strings.TrimSpace(r.BankLabel)
		if loc := strings.TrimSpace(r.DeviceLocator); loc != "" && loc != label {
			label = strings.TrimPrefix(label+"/"+loc, "/")
		}
		memType, ok := smbiosMemoryTypes[r.SMBIOSMemoryType]
		if !ok {
			memType = "Unknown"
		}
		banks = append(banks, hardware.PhysicalMemory{
			BankLabel:    label,
			Capacity:     r.Capacity,
			ClockSpeed:   int64(r.Speed) * 1_000_000,
			Manufacturer: known(r.Manufacturer),
			MemoryType:   memType,
		})
	}
	return banks
}
