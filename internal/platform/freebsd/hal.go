// Package freebsd implements the hardware inventory for FreeBSD.
//
// CPU, memory, thermal and ACPI battery values are sysctl nodes read through
// the native accessor. SMBIOS strings come from the kernel environment
// (kenv), USB devices from usbconfig, graphics adapters from pciconf and
// sound devices from /dev/sndstat. FreeBSD has no display enumeration
// comparable to DRM connectors, so Displays is always empty.
package freebsd

import (
	"log/slog"

	"github.com/doughall/hwinv/internal/executor"
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

// Options configures the FreeBSD HAL.
type Options struct {
	// Root is the filesystem root holding dev/sndstat. Defaults to "/".
	Root string
}

// HardwareAbstractionLayer is the FreeBSD inventory facade.
type HardwareAbstractionLayer struct {
	*hardware.Base
	root    string
	sysctl  *native.Accessor
	run     executor.Runner
	backend common.Backend
	logger  *slog.Logger
}

var _ hardware.HardwareAbstractionLayer = (*HardwareAbstractionLayer)(nil)

// New creates the FreeBSD HAL. source is normally native.NewSysctlSource().
func New(opts Options, source native.Source, run executor.Runner, backend common.Backend, logger *slog.Logger) *HardwareAbstractionLayer {
	if opts.Root == "" {
		opts.Root = "/"
	}
	logger = logger.With(slog.String("component", "freebsd"))
	h := &HardwareAbstractionLayer{
		root:    opts.Root,
		sysctl:  native.NewAccessor(source, logger),
		run:     run,
		backend: backend,
		logger:  logger,
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
	return common.DiskStores(h.backend, h.logger)
}

func (h *HardwareAbstractionLayer) Displays() []hardware.Display {
	return []hardware.Display{}
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
