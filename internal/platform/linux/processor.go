package linux

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

func (h *HardwareAbstractionLayer) processor() hardware.CentralProcessor {
	cpus := h.cpuNumbers()
	opts := common.ProcessorOptions{
		Topology:        h.topology(cpus),
		MaxFreq:         h.maxFreq(cpus),
		ContextSwitches: func() int64 { return h.procStat("ctxt") },
		Interrupts:      func() int64 { return h.procStat("intr") },
	}
	if len(cpus) > 0 {
		opts.CurrentFreq = func() []int64 { return h.currentFreq(cpus) }
	}
	return common.NewProcessor(h.backend, h.logger, opts)
}

// cpuNumbers lists the cpuN directories under /sys/devices/system/cpu.
func (h *HardwareAbstractionLayer) cpuNumbers() []int {
	var out []int
	for _, name := range h.fs.list("sys", "devices", "system", "cpu") {
		rest, ok := strings.CutPrefix(name, "cpu")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// topology places each CPU from its sysfs topology files. It returns nil if
// sysfs has no topology, letting gopsutil's cpuinfo take over.
func (h *HardwareAbstractionLayer) topology(cpus []int) []hardware.LogicalProcessor {
	if len(cpus) == 0 {
		return nil
	}
	type coreKey struct{ pkg, core int64 }
	cores := map[coreKey]int{}
	packages := map[int64]int{}
	out := make([]hardware.LogicalProcessor, 0, len(cpus))
	for _, n := range cpus {
		dir := "cpu" + strconv.Itoa(n)
		pkg, ok1 := h.fs.readInt64("sys", "devices", "system", "cpu", dir, "topology", "physical_package_id")
		core, ok2 := h.fs.readInt64("sys", "devices", "system", "cpu", dir, "topology", "core_id")
		if !ok1 || !ok2 {
			return nil
		}
		if _, seen := packages[pkg]; !seen {
			packages[pkg] = len(packages)
		}
		key := coreKey{pkg, core}
		if _, seen := cores[key]; !seen {
			cores[key] = len(cores)
		}
		out = append(out, hardware.LogicalProcessor{
			ProcessorNumber:         n,
			PhysicalProcessorNumber: cores[key],
			PhysicalPackageNumber:   packages[pkg],
			NUMANode:                h.numaNode(dir),
		})
	}
	slices.SortFunc(out, func(a, b hardware.LogicalProcessor) int {
		return cmp.Compare(a.ProcessorNumber, b.ProcessorNumber)
	})
	return out
}

func (h *HardwareAbstractionLayer) numaNode(cpuDir string) int {
	for _, name := range h.fs.list("sys", "devices", "system", "cpu", cpuDir) {
		if rest, ok := strings.CutPrefix(name, "node"); ok {
			if n, err := strconv.Atoi(rest); err == nil {
				return n
			}
		}
	}
	return 0
}

// maxFreq is the highest cpuinfo_max_freq across CPUs, in Hz.
func (h *HardwareAbstractionLayer) maxFreq(cpus []int) int64 {
	var best int64
	for _, n := range cpus {
		khz, ok := h.fs.readInt64("sys", "devices", "system", "cpu", "cpu"+strconv.Itoa(n), "cpufreq", "cpuinfo_max_freq")
		if ok {
			best = max(best, khz*1000)
		}
	}
	return best
}

// currentFreq reads scaling_cur_freq per CPU, -1 where cpufreq is absent.
func (h *HardwareAbstractionLayer) currentFreq(cpus []int) []int64 {
	out := make([]int64, len(cpus))
	for i, n := range cpus {
		out[i] = -1
		khz, ok := h.fs.readInt64("sys", "devices", "system", "cpu", "cpu"+strconv.Itoa(n), "cpufreq", "scaling_cur_freq")
		if ok {
			out[i] = khz * 1000
		}
	}
	return out
}

// procStat returns the first number after key in /proc/stat, or 0.
func (h *HardwareAbstractionLayer) procStat(key string) int64 {
	for _, line := range strings.Split(string(h.fs.readBytes("proc", "stat")), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != key {
			continue
		}
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
