// Package windows implements the hardware inventory for Windows.
//
// Most categories are WMI classes in root\CIMV2. Storage Spaces pools come
// from root\Microsoft\Windows\Storage and thermal zones from root\WMI. The
// processor brand and monitor EDIDs are read from the registry through the
// native accessor. Counters shared with other platforms come from gopsutil
// via package common.
package windows

import (
	"log/slog"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

// HardwareAbstractionLayer is the Windows inventory facade.
type HardwareAbstractionLayer struct {
	*hardware.Base
	wmi      Querier
	registry *native.Accessor
	backend  common.Backend
	logger   *slog.Logger
}

var _ hardware.HardwareAbstractionLayer = (*HardwareAbstractionLayer)(nil)

// New creates the Windows HAL. registry is normally
// native.NewRegistrySource() and wmi a WMIQuerier.
func New(registry native.Source, wmi Querier, backend common.Backend, logger *slog.Logger) *HardwareAbstractionLayer {
	logger = logger.With(slog.String("component", "windows"))
	h := &HardwareAbstractionLayer{
		wmi:      wmi,
		registry: native.NewAccessor(registry, logger),
		backend:  backend,
		logger:   logger,
	}
	h.Base = hardware.NewBase(hardware.Factories{
		ComputerSystem: h.computerSystem,
		Memory:         h.memory,
		Processor:      h.processor,
		Sensors:        h.sensors,
	})
	return h
}

func (h *HardwareAbstractionLayer) PowerSources() []hardware.PowerSource {
	return h.powerSources()
}

func (h *HardwareAbstractionLayer) DiskStores() []hardware.HWDiskStore {
	return h.diskStores()
}

func (h *HardwareAbstractionLayer) LogicalVolumeGroups() []hardware.LogicalVolumeGroup {
	return h.storagePools()
}

func (h *HardwareAbstractionLayer) Displays() []hardware.Display {
	return h.displays()
}

func (h *HardwareAbstractionLayer) NetworkIFs(includeLocalInterfaces bool) []hardware.NetworkIF {
	return h.networkIFs(includeLocalInterfaces)
}

func (h *HardwareAbstractionLayer) UsbDevices(tree bool) []hardware.UsbDevice {
	return hardware.BuildUsbDevices(h.usbNodes(), tree)
}

func (h *HardwareAbstractionLayer) SoundCards() []hardware.SoundCard {
	return h.soundCards()
}

func (h *HardwareAbstractionLayer) GraphicsCards() []hardware.GraphicsCard {
	return h.graphicsCards()
}
