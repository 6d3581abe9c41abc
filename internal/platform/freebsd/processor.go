package freebsd

import (
	"strconv"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

func (h *HardwareAbstractionLayer) processor() hardware.CentralProcessor {
	logical := int(h.sysctl.Int("hw.ncpu", 0))
	cores := int(h.sysctl.Int("kern.smp.cores", 0))

	opts := common.ProcessorOptions{
		Identify:        h.identify,
		MaxFreq:         h.maxFreq(),
		ContextSwitches: func() int64 { return int64(uint32(h.sysctl.Int("vm.stats.sys.v_swtch", 0))) },
		Interrupts:      func() int64 { return int64(uint32(h.sysctl.Int("vm.stats.sys.v_intr", 0))) },
	}
	if logical > 0 {
		opts.Topology = common.EvenTopology(logical, cores, 1)
		opts.CurrentFreq = func() []int64 { return h.currentFreq(logical) }
	}
	return common.NewProcessor(h.backend, h.logger, opts)
}

func (h *HardwareAbstractionLayer) identify(id *hardware.ProcessorIdentifier) {
	if model := h.sysctl.String("hw.model", ""); model != "" {
		id.Name = model
	}
	if mhz := h.sysctl.Int("hw.clockrate", 0); mhz > 0 {
		id.VendorFreq = int64(mhz) * 1_000_000
	}
	if machine := h.sysctl.String("hw.machine_arch", ""); machine != "" {
		id.Is64Bit = strings.Contains(machine, "64")
	}
}

// maxFreq takes the highest entry of dev.cpu.0.freq_levels, a list of
// "MHz/mW" pairs, highest first.
func (h *HardwareAbstractionLayer) maxFreq() int64 {
	levels := strings.Fields(h.sysctl.String("dev.cpu.0.freq_levels", ""))
	var best int64
	for _, level := range levels {
		mhz, _, _ := strings.Cut(level, "/")
		if v, err := strconv.ParseInt(mhz, 10, 64); err == nil {
			best = max(best, v*1_000_000)
		}
	}
	return best
}

// currentFreq reports dev.cpu.0.freq for every processor. cpufreq attaches
// to cpu0 only and all cores share its clock.
func (h *HardwareAbstractionLayer) currentFreq(logical int) []int64 {
	shared := int64(-1)
	if mhz := h.sysctl.Int("dev.cpu.0.freq", -1); mhz > 0 {
		shared = int64(mhz) * 1_000_000
	}
	out := make([]int64, logical)
	for i := range out {
		out[i] = shared
	}
	return out
}
