package freebsd

import (
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// memory reports physical memory from hw.physmem. Swap and the live figures
// come from gopsutil, which reads vm.swap_info itself. DIMM details need
// root-only SMBIOS table access, so no banks are listed.
func (h *HardwareAbstractionLayer) memory() hardware.GlobalMemory {
	return common.NewMemory(h.backend, h.logger, common.MemoryOptions{
		Total:    uint64(max(h.sysctl.Int64("hw.physmem", 0), 0)),
		PageSize: int64(h.sysctl.Int("hw.pagesize", 0)),
	})
}
