package linux

import (
	"log/slog"

	"github.com/jaypipes/ghw"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

func (h *HardwareAbstractionLayer) memory() hardware.GlobalMemory {
	return common.NewMemory(h.backend, h.logger, common.MemoryOptions{
		Banks: h.memoryBanks(),
		Swappiness: func() int {
			return int(h.procSys.Int("vm.swappiness", -1))
		},
	})
}

// memoryBanks lists DIMMs from the SMBIOS tables ghw reads. Reading them
// needs root, so an empty list is normal for unprivileged runs.
func (h *HardwareAbstractionLayer) memoryBanks() []hardware.PhysicalMemory {
	banks := []hardware.PhysicalMemory{}
	if !h.ghw {
		return banks
	}
	info, err := ghw.Memory(h.ghwOptions()...)
	if err != nil {
		h.logger.Debug("ghw memory lookup failed", slog.String("error", err.Error()))
		return banks
	}
	for _, m := range info.Modules {
		if m == nil || m.SizeBytes <= 0 {
			continue
		}
		label := m.Label
		if m.Location != "" && m.Location != label {
			label = m.Location + "/" + label
		}
		banks = append(banks, hardware.PhysicalMemory{
			BankLabel:    label,
			Capacity:     uint64(m.SizeBytes),
			Manufacturer: known(m.Vendor),
		})
	}
	return banks
}
