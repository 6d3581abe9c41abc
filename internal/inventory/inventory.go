// Package inventory builds a complete hardware snapshot from one hardware
// layer.
//
// A Report walks every category once: the singleton categories (computer
// system, memory, processor, sensors) and every list category. The host
// header comes from gopsutil, like the agent's static system info did. The
// report is what the CLI prints and what gets published, so its shape is
// stable: list categories encode as [] and never as null.
//
// Information collected:
//   - Host: hostname, OS, platform and version, kernel, virtualization, boot time
//   - Computer system: model, serials, firmware, baseboard
//   - Processor: identifier, topology counts, frequencies, load
//   - Memory: totals, swap, installed banks
//   - Sensors: CPU temperature, fans, CPU voltage
//   - Power sources, disks, volume groups, displays, network interfaces,
//     USB devices, sound cards and graphics cards
package inventory

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/doughall/hwinv/internal/hardware"
)

// SchemaVersion is bumped whenever a Report field changes meaning.
const SchemaVersion = 1

// Host is the OS-level header of a report.
type Host struct {
	// OS is the operating system name (linux, darwin, windows, freebsd)
	OS string `json:"os" yaml:"os"`

	// Platform is the distribution name (ubuntu, debian, darwin, Microsoft Windows 11 Pro)
	Platform        string `json:"platform" yaml:"platform"`
	PlatformFamily  string `json:"platformFamily" yaml:"platformFamily"`
	PlatformVersion string `json:"platformVersion" yaml:"platformVersion"`

	KernelVersion string `json:"kernelVersion" yaml:"kernelVersion"`
	KernelArch    string `json:"kernelArch" yaml:"kernelArch"`

	// Arch is the Go architecture of the binary (amd64, arm64)
	Arch string `json:"arch" yaml:"arch"`

	Hostname string `json:"hostname" yaml:"hostname"`

	// HostID is the OS machine identifier (machine-id, IOPlatformUUID, MachineGuid)
	HostID string `json:"hostId" yaml:"hostId"`

	VirtualizationSystem string `json:"virtSystem,omitempty" yaml:"virtSystem,omitempty"`
	VirtualizationRole   string `json:"virtRole,omitempty" yaml:"virtRole,omitempty"`

	// BootTime as Unix timestamp
	BootTime uint64 `json:"bootTime" yaml:"bootTime"`
}

// Processor is the processor section of a report.
type Processor struct {
	Identifier             hardware.ProcessorIdentifier `json:"identifier" yaml:"identifier"`
	LogicalProcessorCount  int                          `json:"logicalProcessorCount" yaml:"logicalProcessorCount"`
	PhysicalProcessorCount int                          `json:"physicalProcessorCount" yaml:"physicalProcessorCount"`
	PhysicalPackageCount   int                          `json:"physicalPackageCount" yaml:"physicalPackageCount"`
	MaxFreq                int64                        `json:"maxFreq" yaml:"maxFreq"`
	CurrentFreq            []int64                      `json:"currentFreq" yaml:"currentFreq"`
	LogicalProcessors      []hardware.LogicalProcessor  `json:"logicalProcessors" yaml:"logicalProcessors"`
	LoadAverage            []float64                    `json:"loadAverage" yaml:"loadAverage"`
	// Load is the busy fraction over the sampling window, or -1 when no
	// window was configured.
	Load            float64 `json:"load" yaml:"load"`
	ContextSwitches int64   `json:"contextSwitches" yaml:"contextSwitches"`
	Interrupts      int64   `json:"interrupts" yaml:"interrupts"`
}

// Memory is the memory section of a report.
type Memory struct {
	Total     uint64                    `json:"total" yaml:"total"`
	Available uint64                    `json:"available" yaml:"available"`
	PageSize  int64                     `json:"pageSize" yaml:"pageSize"`
	Virtual   hardware.VirtualMemory    `json:"virtual" yaml:"virtual"`
	Banks     []hardware.PhysicalMemory `json:"banks" yaml:"banks"`
}

// Sensors is the sensor section of a report.
type Sensors struct {
	CPUTemperature float64 `json:"cpuTemperature" yaml:"cpuTemperature"`
	FanSpeeds      []int   `json:"fanSpeeds" yaml:"fanSpeeds"`
	CPUVoltage     float64 `json:"cpuVoltage" yaml:"cpuVoltage"`
}

// Report is a full hardware snapshot of one machine.
type Report struct {
	SchemaVersion int       `json:"schemaVersion" yaml:"schemaVersion"`
	CollectedAt   time.Time `json:"collectedAt" yaml:"collectedAt"`
	// Fingerprint identifies the machine across runs; see Fingerprint.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	ToolVersion string `json:"toolVersion,omitempty" yaml:"toolVersion,omitempty"`

	Host           Host                     `json:"host" yaml:"host"`
	ComputerSystem hardware.ComputerSystem  `json:"computerSystem" yaml:"computerSystem"`
	Processor      Processor                `json:"processor" yaml:"processor"`
	Memory         Memory                   `json:"memory" yaml:"memory"`
	Sensors        Sensors                  `json:"sensors" yaml:"sensors"`

	PowerSources        []hardware.PowerSource        `json:"powerSources" yaml:"powerSources"`
	DiskStores          []hardware.HWDiskStore        `json:"diskStores" yaml:"diskStores"`
	LogicalVolumeGroups []hardware.LogicalVolumeGroup `json:"logicalVolumeGroups" yaml:"logicalVolumeGroups"`
	Displays            []hardware.Display            `json:"displays" yaml:"displays"`
	NetworkIFs          []hardware.NetworkIF          `json:"networkIFs" yaml:"networkIFs"`
	UsbDevices          []hardware.UsbDevice          `json:"usbDevices" yaml:"usbDevices"`
	SoundCards          []hardware.SoundCard          `json:"soundCards" yaml:"soundCards"`
	GraphicsCards       []hardware.GraphicsCard       `json:"graphicsCards" yaml:"graphicsCards"`
}

// Categories names every report section in collection order.
var Categories = []string{
	"computer", "cpu", "memory", "sensors", "power", "disks",
	"lvm", "displays", "network", "usb", "sound", "graphics",
}

// Options controls what Collect gathers.
type Options struct {
	// IncludeLocalInterfaces keeps loopback and virtual interfaces.
	IncludeLocalInterfaces bool
	// UsbTree nests USB devices under their hubs.
	UsbTree bool
	// LoadSample is the window over which CPU load is measured. Zero skips
	// the measurement.
	LoadSample time.Duration
	// ToolVersion is copied into the report.
	ToolVersion string
	// Categories limits collection to the named categories (see
	// Categories). Empty collects everything. A partial report carries no
	// fingerprint.
	Categories []string

	// HostInfo defaults to gopsutil's host.InfoWithContext.
	HostInfo func(ctx context.Context) (*host.InfoStat, error)
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Collect builds a report from hal. Hardware failures never fail the
// report; they surface as empty or default-valued sections. The only error
// is ctx being done, checked between categories.
func Collect(ctx context.Context, hal hardware.HardwareAbstractionLayer, opts Options) (*Report, error) {
	if opts.HostInfo == nil {
		opts.HostInfo = host.InfoWithContext
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "inventory"))

	r := &Report{
		SchemaVersion: SchemaVersion,
		CollectedAt:   opts.Now().UTC(),
		ToolVersion:   opts.ToolVersion,
		Host:          collectHost(ctx, opts.HostInfo, logger),
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"computer", func() error {
			if cs := hal.ComputerSystem(); cs != nil {
				r.ComputerSystem = *cs
			}
			return nil
		}},
		{"cpu", func() error { return r.collectProcessor(ctx, hal.Processor(), opts.LoadSample) }},
		{"memory", func() error {
			m := hal.Memory()
			r.Memory = Memory{
				Total:     m.Total(),
				Available: m.Available(),
				PageSize:  m.PageSize(),
				Virtual:   m.VirtualMemory(),
				Banks:     hardware.NonNil(m.PhysicalMemory()),
			}
			return nil
		}},
		{"sensors", func() error {
			s := hal.Sensors()
			r.Sensors = Sensors{
				CPUTemperature: s.CPUTemperature(),
				FanSpeeds:      hardware.NonNil(s.FanSpeeds()),
				CPUVoltage:     s.CPUVoltage(),
			}
			return nil
		}},
		{"power", func() error { r.PowerSources = hardware.NonNil(hal.PowerSources()); return nil }},
		{"disks", func() error { r.DiskStores = hardware.NonNil(hal.DiskStores()); return nil }},
		{"lvm", func() error {
			r.LogicalVolumeGroups = hardware.NonNil(hal.LogicalVolumeGroups())
			return nil
		}},
		{"displays", func() error { r.Displays = hardware.NonNil(hal.Displays()); return nil }},
		{"network", func() error {
			r.NetworkIFs = hardware.NonNil(hal.NetworkIFs(opts.IncludeLocalInterfaces))
			return nil
		}},
		{"usb", func() error { r.UsbDevices = hardware.NonNil(hal.UsbDevices(opts.UsbTree)); return nil }},
		{"sound", func() error { r.SoundCards = hardware.NonNil(hal.SoundCards()); return nil }},
		{"graphics", func() error { r.GraphicsCards = hardware.NonNil(hal.GraphicsCards()); return nil }},
	}
	for _, step := range steps {
		if len(opts.Categories) > 0 && !slices.Contains(opts.Categories, step.name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := step.run(); err != nil {
			return nil, err
		}
		logger.Debug("collected category",
			slog.String("category", step.name),
			slog.Duration("took", time.Since(start)),
		)
	}

	r.normalize()
	if len(opts.Categories) == 0 {
		r.Fingerprint = Fingerprint(r)
	}
	return r, nil
}

// normalize replaces the nil slices left by skipped categories.
func (r *Report) normalize() {
	r.Processor.CurrentFreq = hardware.NonNil(r.Processor.CurrentFreq)
	r.Processor.LogicalProcessors = hardware.NonNil(r.Processor.LogicalProcessors)
	r.Processor.LoadAverage = hardware.NonNil(r.Processor.LoadAverage)
	r.Memory.Banks = hardware.NonNil(r.Memory.Banks)
	r.Sensors.FanSpeeds = hardware.NonNil(r.Sensors.FanSpeeds)
	r.PowerSources = hardware.NonNil(r.PowerSources)
	r.DiskStores = hardware.NonNil(r.DiskStores)
	r.LogicalVolumeGroups = hardware.NonNil(r.LogicalVolumeGroups)
	r.Displays = hardware.NonNil(r.Displays)
	r.NetworkIFs = hardware.NonNil(r.NetworkIFs)
	r.UsbDevices = hardware.NonNil(r.UsbDevices)
	r.SoundCards = hardware.NonNil(r.SoundCards)
	r.GraphicsCards = hardware.NonNil(r.GraphicsCards)
}

func collectHost(ctx context.Context, info func(context.Context) (*host.InfoStat, error), logger *slog.Logger) Host {
	h := Host{OS: runtime.GOOS, Arch: runtime.GOARCH}
	hostInfo, err := info(ctx)
	if err != nil || hostInfo == nil {
		if err != nil {
			logger.Warn("failed to read host info", slog.String("error", err.Error()))
		}
		return h
	}
	h.Platform = hostInfo.Platform
	h.PlatformFamily = hostInfo.PlatformFamily
	h.PlatformVersion = hostInfo.PlatformVersion
	h.KernelVersion = hostInfo.KernelVersion
	h.KernelArch = hostInfo.KernelArch
	h.Hostname = hostInfo.Hostname
	h.HostID = hostInfo.HostID
	h.VirtualizationSystem = hostInfo.VirtualizationSystem
	h.VirtualizationRole = hostInfo.VirtualizationRole
	h.BootTime = hostInfo.BootTime
	return h
}

func (r *Report) collectProcessor(ctx context.Context, p hardware.CentralProcessor, sample time.Duration) error {
	r.Processor = Processor{
		Identifier:             p.Identifier(),
		LogicalProcessorCount:  p.LogicalProcessorCount(),
		PhysicalProcessorCount: p.PhysicalProcessorCount(),
		PhysicalPackageCount:   p.PhysicalPackageCount(),
		MaxFreq:                p.MaxFreq(),
		CurrentFreq:            hardware.NonNil(p.CurrentFreq()),
		LogicalProcessors:      hardware.NonNil(p.LogicalProcessors()),
		LoadAverage:            hardware.NonNil(p.SystemLoadAverage(3)),
		Load:                   -1,
		ContextSwitches:        p.ContextSwitches(),
		Interrupts:             p.Interrupts(),
	}
	if sample <= 0 {
		return nil
	}
	prev := p.SystemCPULoadTicks()
	timer := time.NewTimer(sample)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	r.Processor.Load = p.SystemCPULoadBetweenTicks(prev)
	return nil
}
