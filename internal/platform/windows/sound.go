package windows

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type win32SoundDevice struct {
	Name         string
	Manufacturer string
	ProductName  string
	DeviceID     string
}

type win32PnPSignedDriver struct {
	DeviceID      string
	DriverVersion string
}

func (h *HardwareAbstractionLayer) soundCards() []hardware.SoundCard {
	out := []hardware.SoundCard{}
	var devices []win32SoundDevice
	if !h.query("", "SELECT Name, Manufacturer, ProductName, DeviceID FROM Win32_SoundDevice", &devices) {
		return out
	}
	var drivers []win32PnPSignedDriver
	h.query("", "SELECT DeviceID, DriverVersion FROM Win32_PnPSignedDriver WHERE DeviceClass = 'MEDIA'", &drivers)
	versions := make(map[string]string, len(drivers))
	for _, d := range drivers {
		versions[strings.ToUpper(d.DeviceID)] = d.DriverVersion
	}

	for _, d := range devices {
		name := d.ProductName
		if name == "" {
			name = d.Name
		}
		out = append(out, hardware.SoundCard{
			DriverVersion: versions[strings.ToUpper(d.DeviceID)],
			Name:          name,
			Codec:         d.Manufacturer,
		})
	}
	return out
}
