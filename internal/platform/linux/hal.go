// Package linux implements the hardware inventory for Linux.
//
// Providers read sysfs and procfs below a configurable root, and use ghw for
// the DMI, block device, memory module and GPU tables when it is enabled.
// Every ghw-backed provider has a plain sysfs fallback, so the HAL still
// works in containers and chroots where ghw's PCI database is missing.
package linux

import (
	"log/slog"
	"path/filepath"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

// Options configures the Linux HAL.
type Options struct {
	// Root is the filesystem root holding proc/ and sys/. Defaults to "/".
	Root string
	// DisableGHW skips ghw and uses the sysfs readers only.
	DisableGHW bool
}

// HardwareAbstractionLayer is the Linux inventory facade.
type HardwareAbstractionLayer struct {
	*hardware.Base
	fs      fsys
	procSys *native.Accessor
	backend common.Backend
	logger  *slog.Logger
	ghw     bool
}

var _ hardware.HardwareAbstractionLayer = (*HardwareAbstractionLayer)(nil)

// New creates the Linux HAL over the given gopsutil backend.
func New(opts Options, backend common.Backend, logger *slog.Logger) *HardwareAbstractionLayer {
	if opts.Root == "" {
		opts.Root = "/"
	}
	logger = logger.With(slog.String("component", "linux"))
	h := &HardwareAbstractionLayer{
		fs: fsys{root: opts.Root},
		procSys: native.NewAccessor(
			native.NewProcSysSource(filepath.Join(opts.Root, "proc", "sys")),
			logger,
			native.WithEncoding(native.Text),
		),
		backend: backend,
		logger:  logger,
		ghw:     !opts.DisableGHW,
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
	return h.logicalVolumeGroups()
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
