package linux

import (
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// networkIFs uses gopsutil for addresses and counters and sysfs for what it
// lacks: an interface without a device link is virtual, and speed is in Mb/s.
func (h *HardwareAbstractionLayer) networkIFs(includeLocal bool) []hardware.NetworkIF {
	return common.NetworkIFs(h.backend, h.logger, common.NetworkOptions{
		Virtual: func(name string) bool {
			if !h.fs.exists("sys", "class", "net", name) {
				return hardware.IsVirtualName(name)
			}
			return !h.fs.exists("sys", "class", "net", name, "device")
		},
		Speed: func(name string) uint64 {
			mbps, ok := h.fs.readInt64("sys", "class", "net", name, "speed")
			if !ok || mbps <= 0 {
				return 0
			}
			return uint64(mbps) * 1_000_000
		},
		DisplayName: func(name string) string {
			return h.fs.readString("sys", "class", "net", name, "ifalias")
		},
	}, includeLocal)
}
