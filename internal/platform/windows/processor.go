package windows

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

const cpuKey = `HKLM\HARDWARE\DESCRIPTION\System\CentralProcessor\0\`

type win32Processor struct {
	NumberOfCores             uint32
	NumberOfLogicalProcessors uint32
	MaxClockSpeed             uint32
	CurrentClockSpeed         uint32
	CurrentVoltage            uint16
	ProcessorId               string
}

type win32PerfOSSystem struct {
	ContextSwitchesPersec uint32
}

type win32PerfOSProcessor struct {
	InterruptsPersec uint32
}

func (h *HardwareAbstractionLayer) processors() []win32Processor {
	var rows []win32Processor
	h.query("", "SELECT NumberOfCores, NumberOfLogicalProcessors, MaxClockSpeed, CurrentClockSpeed, CurrentVoltage, ProcessorId FROM Win32_Processor", &rows)
	return rows
}

func (h *HardwareAbstractionLayer) processor() hardware.CentralProcessor {
	sockets := h.processors()
	var logical, cores int
	var maxMHz uint32
	for _, s := range sockets {
		logical += int(s.NumberOfLogicalProcessors)
		cores += int(s.NumberOfCores)
		maxMHz = max(maxMHz, s.MaxClockSpeed)
	}

	opts := common.ProcessorOptions{
		Identify: func(id *hardware.ProcessorIdentifier) {
			h.identify(id, sockets)
		},
		MaxFreq:         int64(maxMHz) * 1_000_000,
		ContextSwitches: h.contextSwitches,
		Interrupts:      h.interrupts,
	}
	if logical > 0 {
		opts.Topology = common.EvenTopology(logical, cores, len(sockets))
		opts.CurrentFreq = func() []int64 { return h.currentFreq(logical) }
	}
	return common.NewProcessor(h.backend, h.logger, opts)
}

// identify reads the brand and vendor from the registry. Its Identifier value
// already has the "Intel64 Family 6 Model 158 Stepping 10" form.
func (h *HardwareAbstractionLayer) identify(id *hardware.ProcessorIdentifier, sockets []win32Processor) {
	if name := h.registry.String(cpuKey+"ProcessorNameString", ""); name != "" {
		id.Name = name
	}
	if vendor := h.registry.String(cpuKey+"VendorIdentifier", ""); vendor != "" {
		id.Vendor = vendor
	}
	if mhz := h.registry.Int(cpuKey+"~MHz", 0); mhz > 0 {
		id.VendorFreq = int64(mhz) * 1_000_000
	}
	if ident := h.registry.String(cpuKey+"Identifier", ""); ident != "" {
		id.Identifier = ident
		fields := strings.Fields(ident)
		for i := 0; i+1 < len(fields); i++ {
			switch fields[i] {
			case "Family":
				id.Family = fields[i+1]
			case "Model":
				id.Model = fields[i+1]
			case "Stepping":
				id.Stepping = fields[i+1]
			}
		}
		if len(fields) > 0 {
			id.Is64Bit = strings.Contains(fields[0], "64")
		}
	}
	if len(sockets) > 0 && sockets[0].ProcessorId != "" {
		id.ProcessorID = strings.ToUpper(sockets[0].ProcessorId)
	}
}

// currentFreq reports the first socket's clock for every processor; WMI has
// no per-core frequency.
func (h *HardwareAbstractionLayer) currentFreq(logical int) []int64 {
	out := make([]int64, logical)
	freq := int64(-1)
	if sockets := h.processors(); len(sockets) > 0 && sockets[0].CurrentClockSpeed > 0 {
		freq = int64(sockets[0].CurrentClockSpeed) * 1_000_000
	}
	for i := range out {
		out[i] = freq
	}
	return out
}

func (h *HardwareAbstractionLayer) contextSwitches() int64 {
	var rows []win32PerfOSSystem
	if !h.query("", "SELECT ContextSwitchesPersec FROM Win32_PerfRawData_PerfOS_System", &rows) || len(rows) == 0 {
		return 0
	}
	return int64(rows[0].ContextSwitchesPersec)
}

func (h *HardwareAbstractionLayer) interrupts() int64 {
	var rows []win32PerfOSProcessor
	if !h.query("", "SELECT InterruptsPersec FROM Win32_PerfRawData_PerfOS_Processor WHERE Name = '_Total'", &rows) || len(rows) == 0 {
		return 0
	}
	return int64(rows[0].InterruptsPersec)
}
