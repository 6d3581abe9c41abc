// Package mac implements the hardware inventory for macOS.
//
// Scalar facts such as the model identifier, memory size and CPU brand come
// from sysctl through the native accessor. What sysctl does not expose is
// read from system_profiler's JSON output, one data type per call. Memory
// counters, load, disks and interfaces come from gopsutil via package common.
package mac

import (
	"log/slog"

	"github.com/doughall/hwinv/internal/executor"
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

// HardwareAbstractionLayer is the macOS inventory facade.
type HardwareAbstractionLayer struct {
	*hardware.Base
	sysctl  *native.Accessor
	run     executor.Runner
	backend common.Backend
	logger  *slog.Logger
}

var _ hardware.HardwareAbstractionLayer = (*HardwareAbstractionLayer)(nil)

// New creates the macOS HAL. source is normally native.NewSysctlSource()
// and run an executor allowed to call system_profiler.
func New(source native.Source, run executor.Runner, backend common.Backend, logger *slog.Logger) *HardwareAbstractionLayer {
	logger = logger.With(slog.String("component", "mac"))
	h := &HardwareAbstractionLayer{
		sysctl:  native.NewAccessor(source, logger),
		run:     run,
		backend: backend,
		logger:  logger,
	}
	h.Base = hardware.NewBase(hardware.Factories{
		ComputerSystem: h.computerSystem,
		Memory:         h.memory,
		Processor:      h.processor,
		Sensors: func() hardware.Sensors {
			return common.NewSensors(h.backend, h.logger, nil, nil)
		},
	})
	return h
}

func (h *HardwareAbstractionLayer) PowerSources() []hardware.PowerSource {
	return h.powerSources()
}

func (h *HardwareAbstractionLayer) DiskStores() []hardware.HWDiskStore {
	return common.DiskStores(h.backend, h.logger)
}

func (h *HardwareAbstractionLayer) Displays() []hardware.Display {
	return h.displays()
}

func (h *HardwareAbstractionLayer) NetworkIFs(includeLocalInterfaces bool) []hardware.NetworkIF {
	return common.NetworkIFs(h.backend, h.logger, common.NetworkOptions{}, includeLocalInterfaces)
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
