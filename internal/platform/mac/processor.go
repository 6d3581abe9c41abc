package mac

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// appleFamilies names hw.cpufamily values of Apple silicon cores.
var appleFamilies = map[uint32]string{
	0x1b588bb3: "Firestorm/Icestorm",
	0xda33d83d: "Blizzard/Avalanche",
	0x8765edea: "Everest/Sawtooth",
	0xfa33415e: "Ibiza",
	0x6f5129ac: "Donan",
}

func (h *HardwareAbstractionLayer) processor() hardware.CentralProcessor {
	logical := int(h.sysctl.Int("hw.logicalcpu", 0))
	physical := int(h.sysctl.Int("hw.physicalcpu", 0))
	packages := int(h.sysctl.Int("hw.packages", 1))

	opts := common.ProcessorOptions{
		Identify: h.identify,
		MaxFreq:  h.sysctl.Int64("hw.cpufrequency_max", 0),
	}
	if logical > 0 {
		opts.Topology = common.EvenTopology(logical, physical, packages)
	}
	return common.NewProcessor(h.backend, h.logger, opts)
}

// identify overlays the machdep.cpu values. Apple silicon has no x86
// family/model/stepping, so its identifier is built from hw.cpufamily.
func (h *HardwareAbstractionLayer) identify(id *hardware.ProcessorIdentifier) {
	if brand := h.sysctl.String("machdep.cpu.brand_string", ""); brand != "" {
		id.Name = brand
	}
	if vendor := h.sysctl.String("machdep.cpu.vendor", ""); vendor != "" {
		id.Vendor = vendor
	} else if strings.HasPrefix(id.Name, "Apple") {
		id.Vendor = apple
	}
	if freq := h.sysctl.Int64("hw.cpufrequency", 0); freq > 0 {
		id.VendorFreq = freq
	}
	id.Is64Bit = h.sysctl.Int("hw.cpu64bit_capable", 1) != 0

	if family := h.sysctl.Int("machdep.cpu.family", -1); family >= 0 {
		id.Family = strconv.Itoa(int(family))
		id.Model = strconv.Itoa(int(h.sysctl.Int("machdep.cpu.model", 0)))
		id.Stepping = strconv.Itoa(int(h.sysctl.Int("machdep.cpu.stepping", 0)))
		if sig := h.sysctl.Int("machdep.cpu.signature", 0); sig != 0 {
			id.ProcessorID = fmt.Sprintf("%016X", uint32(sig))
		}
		return
	}

	cpuFamily := uint32(h.sysctl.Int("hw.cpufamily", 0))
	if cpuFamily == 0 {
		return
	}
	id.Family = fmt.Sprintf("0x%08x", cpuFamily)
	id.Model = ""
	id.Stepping = ""
	id.MicroArchitecture = appleFamilies[cpuFamily]
	id.ProcessorID = fmt.Sprintf("%016X", cpuFamily)
	id.Identifier = "ARM64 Family " + id.Family
	if id.MicroArchitecture != "" {
		id.Identifier += " " + id.MicroArchitecture
	}
}
