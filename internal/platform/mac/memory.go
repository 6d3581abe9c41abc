package mac

import (
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// xswUsage mirrors struct xsw_usage returned by vm.swapusage.
type xswUsage struct {
	Total     uint64
	Avail     uint64
	Used      uint64
	PageSize  uint32
	Encrypted int32
}

type memoryItem struct {
	Name         string       `json:"_name"`
	Items        []memoryItem `json:"_items"`
	Size         string       `json:"dimm_size"`
	Speed        string       `json:"dimm_speed"`
	Type         string       `json:"dimm_type"`
	Manufacturer string       `json:"dimm_manufacturer"`
	// Apple silicon reports unified memory as a single item sized here.
	Unified string `json:"SPMemoryDataType"`
}

func (h *HardwareAbstractionLayer) memory() hardware.GlobalMemory {
	return common.NewMemory(h.backend, h.logger, common.MemoryOptions{
		Total:    uint64(max(h.sysctl.Int64("hw.memsize", 0), 0)),
		PageSize: h.sysctl.Int64("hw.pagesize", 0),
		Banks:    h.memoryBanks(),
		Swap: func() (uint64, uint64, bool) {
			var usage xswUsage
			if !h.sysctl.Record("vm.swapusage", &usage) {
				return 0, 0, false
			}
			return usage.Total, usage.Used, true
		},
	})
}

func (h *HardwareAbstractionLayer) memoryBanks() []hardware.PhysicalMemory {
	banks := []hardware.PhysicalMemory{}
	var items []memoryItem
	if !h.profile("SPMemoryDataType", &items) {
		return banks
	}
	var walk func([]memoryItem)
	walk = func(items []memoryItem) {
		for _, it := range items {
			switch {
			case it.Unified != "":
				banks = append(banks, hardware.PhysicalMemory{
					BankLabel:    "Unified",
					Capacity:     parseSize(it.Unified),
					Manufacturer: it.Manufacturer,
					MemoryType:   it.Type,
				})
			case it.Size != "" && parseSize(it.Size) > 0:
				banks = append(banks, hardware.PhysicalMemory{
					BankLabel:    it.Name,
					Capacity:     parseSize(it.Size),
					ClockSpeed:   parseFrequency(it.Speed),
					Manufacturer: it.Manufacturer,
					MemoryType:   it.Type,
				})
			}
			walk(it.Items)
		}
	}
	walk(items)
	return banks
}
