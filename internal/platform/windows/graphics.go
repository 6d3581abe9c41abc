package windows

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type win32VideoController struct {
	Name                 string
	PNPDeviceID          string
	AdapterCompatibility string
	DriverVersion        string
	AdapterRAM           uint32
}

// graphicsCards lists video controllers. AdapterRAM is a 32-bit property,
// so VRAM above 4 GiB is reported as 4 GiB.
func (h *HardwareAbstractionLayer) graphicsCards() []hardware.GraphicsCard {
	out := []hardware.GraphicsCard{}
	var rows []win32VideoController
	if !h.query("", "SELECT Name, PNPDeviceID, AdapterCompatibility, DriverVersion, AdapterRAM FROM Win32_VideoController", &rows) {
		return out
	}
	for _, r := range rows {
		card := hardware.GraphicsCard{
			Name:   r.Name,
			Vendor: r.AdapterCompatibility,
			VRAM:   uint64(r.AdapterRAM),
		}
		if dev := pnpField(r.PNPDeviceID, "DEV_"); dev != "" {
			card.DeviceID = "0x" + dev
		}
		var version []string
		if r.DriverVersion != "" {
			version = append(version, "driverVersion="+r.DriverVersion)
		}
		if rev := pnpField(r.PNPDeviceID, "REV_"); rev != "" {
			version = append(version, "revision=0x"+rev)
		}
		card.VersionInfo = strings.Join(version, ", ")
		out = append(out, card)
	}
	return out
}
