package windows

import (
	"log/slog"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type win32DesktopMonitor struct {
	Name                string
	MonitorManufacturer string
	PNPDeviceID         string
}

const enumKey = `HKLM\SYSTEM\CurrentControlSet\Enum\`

// displays decodes the EDID Windows caches under each monitor's device
// parameters. Monitors without a readable EDID are described from their PNP
// ID (DISPLAY\DEL40B5\...).
func (h *HardwareAbstractionLayer) displays() []hardware.Display {
	out := []hardware.Display{}
	var monitors []win32DesktopMonitor
	if !h.query("", "SELECT Name, MonitorManufacturer, PNPDeviceID FROM Win32_DesktopMonitor", &monitors) {
		return out
	}
	for _, m := range monitors {
		if !strings.HasPrefix(strings.ToUpper(m.PNPDeviceID), `DISPLAY\`) {
			continue
		}
		if edid, ok := h.registry.Raw(enumKey + m.PNPDeviceID + `\Device Parameters\EDID`); ok {
			d, err := hardware.DecodeEDID(edid)
			if err == nil {
				out = append(out, d)
				continue
			}
			h.logger.Debug("ignoring cached EDID",
				slog.String("device", m.PNPDeviceID),
				slog.String("error", err.Error()),
			)
		}
		d := hardware.Display{Name: m.Name}
		if parts := strings.Split(m.PNPDeviceID, `\`); len(parts) > 1 && len(parts[1]) >= 7 {
			d.ManufacturerID = strings.ToUpper(parts[1][:3])
			d.ProductCode = strings.ToUpper(parts[1][3:7])
		}
		out = append(out, d)
	}
	return out
}
