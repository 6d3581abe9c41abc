package windows

import (
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

type win32NetworkAdapter struct {
	NetConnectionID string
	Name            string
	PhysicalAdapter bool
	Speed           uint64
}

// networkIFs joins gopsutil's interfaces, named by connection ID ("Ethernet",
// "Wi-Fi"), with Win32_NetworkAdapter for the physical flag, speed and the
// adapter's product name.
func (h *HardwareAbstractionLayer) networkIFs(includeLocal bool) []hardware.NetworkIF {
	var rows []win32NetworkAdapter
	h.query("", "SELECT NetConnectionID, Name, PhysicalAdapter, Speed FROM Win32_NetworkAdapter WHERE NetConnectionID IS NOT NULL", &rows)
	adapters := make(map[string]win32NetworkAdapter, len(rows))
	for _, r := range rows {
		adapters[r.NetConnectionID] = r
	}

	return common.NetworkIFs(h.backend, h.logger, common.NetworkOptions{
		Virtual: func(name string) bool {
			if a, ok := adapters[name]; ok {
				return !a.PhysicalAdapter
			}
			return hardware.IsVirtualName(name)
		},
		Speed: func(name string) uint64 {
			return adapters[name].Speed
		},
		DisplayName: func(name string) string {
			if a, ok := adapters[name]; ok && a.Name != "" {
				return a.Name
			}
			return name
		},
	}, includeLocal)
}
