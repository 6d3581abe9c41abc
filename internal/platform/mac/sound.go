package mac

import (
	"github.com/doughall/hwinv/internal/hardware"
)

type audioItem struct {
	Name         string      `json:"_name"`
	Manufacturer string      `json:"coreaudio_device_manufacturer"`
	Transport    string      `json:"coreaudio_device_transport"`
	Items        []audioItem `json:"_items"`
}

// soundCards lists CoreAudio devices. The driver version is the kernel
// release, since CoreAudio ships with the OS.
func (h *HardwareAbstractionLayer) soundCards() []hardware.SoundCard {
	out := []hardware.SoundCard{}
	var items []audioItem
	if !h.profile("SPAudioDataType", &items) {
		return out
	}
	driver := "CoreAudio"
	if release := h.sysctl.String("kern.osrelease", ""); release != "" {
		driver += " " + release
	}
	var walk func([]audioItem)
	walk = func(items []audioItem) {
		for _, it := range items {
			if len(it.Items) > 0 || it.Name == "coreaudio_device" {
				walk(it.Items)
				continue
			}
			name := it.Name
			if it.Manufacturer != "" {
				name = it.Manufacturer + " " + name
			}
			out = append(out, hardware.SoundCard{
				DriverVersion: driver,
				Name:          name,
				Codec:         stripPrefix(it.Transport, "coreaudio_device_type_"),
			})
		}
	}
	walk(items)
	return out
}
