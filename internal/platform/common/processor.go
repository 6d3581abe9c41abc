package common

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/doughall/hwinv/internal/hardware"
)

// ProcessorOptions carries the platform-specific parts of CentralProcessor.
// Nil hooks fall back to what gopsutil and cpuid report.
type ProcessorOptions struct {
	// Identify adjusts the identifier after gopsutil and cpuid have filled it.
	// Derived fields (VendorFreq, ProcessorID, Identifier, MicroArchitecture)
	// are computed afterwards unless the hook set them.
	Identify func(id *hardware.ProcessorIdentifier)
	// Topology lists logical processors when the platform knows them better.
	Topology []hardware.LogicalProcessor
	// MaxFreq in Hz; zero means unknown.
	MaxFreq     int64
	CurrentFreq func() []int64
	// ContextSwitches defaults to gopsutil's load.Misc counter.
	ContextSwitches func() int64
	Interrupts      func() int64
}

// Processor is a CentralProcessor backed by gopsutil and cpuid. The
// identifier, topology and maximum frequency are fixed at construction.
type Processor struct {
	backend  Backend
	logger   *slog.Logger
	opts     ProcessorOptions
	id       hardware.ProcessorIdentifier
	topology []hardware.LogicalProcessor
	physical int
	packages int
	maxFreq  int64
}

// NewProcessor identifies the CPU and its topology.
func NewProcessor(backend Backend, logger *slog.Logger, opts ProcessorOptions) *Processor {
	ctx := context.Background()
	p := &Processor{backend: backend, logger: logger, opts: opts, maxFreq: -1}

	infos, err := backend.CPUInfo(ctx)
	if err != nil {
		logger.Warn("failed to read CPU info", slog.String("error", err.Error()))
	}
	p.id = identify(infos, opts.Identify)

	logical, err := backend.CPUCounts(ctx, true)
	if err != nil {
		logger.Warn("failed to count logical CPUs", slog.String("error", err.Error()))
		logical = runtime.NumCPU()
	}
	p.physical, err = backend.CPUCounts(ctx, false)
	if err != nil || p.physical <= 0 {
		if err != nil {
			logger.Warn("failed to count physical CPUs", slog.String("error", err.Error()))
		}
		p.physical = logical
	}

	p.topology = opts.Topology
	if p.topology == nil {
		p.topology = topologyFromInfo(infos, logical, p.physical)
	} else {
		p.physical = countCores(p.topology)
	}
	p.packages = countPackages(p.topology)

	switch {
	case opts.MaxFreq > 0:
		p.maxFreq = opts.MaxFreq
	case cpuid.CPU.BoostFreq > 0:
		p.maxFreq = cpuid.CPU.BoostFreq
	case p.id.VendorFreq > 0:
		p.maxFreq = p.id.VendorFreq
	default:
		for _, info := range infos {
			p.maxFreq = max(p.maxFreq, int64(info.Mhz*1e6))
		}
	}
	return p
}

func (p *Processor) Identifier() hardware.ProcessorIdentifier { return p.id }

func (p *Processor) MaxFreq() int64 { return p.maxFreq }

func (p *Processor) LogicalProcessors() []hardware.LogicalProcessor { return p.topology }

func (p *Processor) LogicalProcessorCount() int { return len(p.topology) }

func (p *Processor) PhysicalProcessorCount() int { return p.physical }

func (p *Processor) PhysicalPackageCount() int { return p.packages }

// CurrentFreq returns one frequency per logical processor, -1 where unknown.
func (p *Processor) CurrentFreq() []int64 {
	if p.opts.CurrentFreq != nil {
		return p.opts.CurrentFreq()
	}
	out := make([]int64, len(p.topology))
	for i := range out {
		out[i] = -1
	}
	infos, err := p.backend.CPUInfo(context.Background())
	if err != nil {
		p.logger.Warn("failed to read CPU frequency", slog.String("error", err.Error()))
		return out
	}
	for i := range out {
		switch {
		case len(infos) == len(out):
			out[i] = int64(infos[i].Mhz * 1e6)
		case len(infos) > 0:
			out[i] = int64(infos[0].Mhz * 1e6)
		}
	}
	return out
}

// SystemCPULoadTicks returns cumulative system-wide CPU times in ms.
func (p *Processor) SystemCPULoadTicks() hardware.CPUTicks {
	times, err := p.backend.CPUTimes(context.Background(), false)
	if err != nil || len(times) == 0 {
		if err != nil {
			p.logger.Warn("failed to read CPU times", slog.String("error", err.Error()))
		}
		return hardware.CPUTicks{}
	}
	return TicksFromTimes(times[0])
}

func (p *Processor) SystemCPULoadBetweenTicks(prev hardware.CPUTicks) float64 {
	return hardware.LoadBetween(prev, p.SystemCPULoadTicks())
}

// SystemLoadAverage returns up to three averages; -1 where unavailable.
func (p *Processor) SystemLoadAverage(n int) []float64 {
	out := hardware.UnavailableLoad(n)
	avg, err := p.backend.LoadAvg(context.Background())
	if err != nil {
		p.logger.Warn("failed to read load average", slog.String("error", err.Error()))
		return out
	}
	values := []float64{avg.Load1, avg.Load5, avg.Load15}
	copy(out, values)
	return out
}

func (p *Processor) ContextSwitches() int64 {
	if p.opts.ContextSwitches != nil {
		return p.opts.ContextSwitches()
	}
	misc, err := p.backend.LoadMisc(context.Background())
	if err != nil {
		p.logger.Warn("failed to read context switches", slog.String("error", err.Error()))
		return 0
	}
	return int64(misc.Ctxt)
}

func (p *Processor) Interrupts() int64 {
	if p.opts.Interrupts != nil {
		return p.opts.Interrupts()
	}
	return 0
}

// TicksFromTimes converts gopsutil seconds to millisecond ticks.
func TicksFromTimes(t cpu.TimesStat) hardware.CPUTicks {
	ms := func(sec float64) uint64 {
		if sec <= 0 {
			return 0
		}
		return uint64(sec * 1000)
	}
	return hardware.CPUTicks{
		User:    ms(t.User),
		Nice:    ms(t.Nice),
		System:  ms(t.System),
		Idle:    ms(t.Idle),
		IOWait:  ms(t.Iowait),
		IRQ:     ms(t.Irq),
		SoftIRQ: ms(t.Softirq),
		Steal:   ms(t.Steal),
	}
}

var brandFreq = regexp.MustCompile(`@\s*([0-9.]+)\s*([GM])Hz`)

// ParseBrandFreq extracts the advertised frequency from a brand string such
// as "Intel(R) Core(TM) i7-8750H CPU @ 2.20GHz". It returns -1 if none.
func ParseBrandFreq(brand string) int64 {
	m := brandFreq.FindStringSubmatch(brand)
	if m == nil {
		return -1
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return -1
	}
	if m[2] == "G" {
		return int64(v * 1e9)
	}
	return int64(v * 1e6)
}

// identify merges gopsutil's per-CPU info with cpuid. gopsutil wins where
// both report a field; cpuid fills what the OS does not expose.
func identify(infos []cpu.InfoStat, hook func(*hardware.ProcessorIdentifier)) hardware.ProcessorIdentifier {
	id := hardware.ProcessorIdentifier{
		Vendor:   cpuid.CPU.VendorString,
		Name:     cpuid.CPU.BrandName,
		Is64Bit:  strings.Contains(runtime.GOARCH, "64"),
		Family:   strconv.Itoa(cpuid.CPU.Family),
		Model:    strconv.Itoa(cpuid.CPU.Model),
		Stepping: strconv.Itoa(cpuid.CPU.Stepping),
	}
	if len(infos) > 0 {
		info := infos[0]
		if info.VendorID != "" {
			id.Vendor = info.VendorID
		}
		if info.ModelName != "" {
			id.Name = info.ModelName
		}
		if info.Family != "" {
			id.Family = info.Family
		}
		if info.Model != "" {
			id.Model = info.Model
		}
		if info.Stepping != 0 {
			id.Stepping = strconv.Itoa(int(info.Stepping))
		}
	}
	if hook != nil {
		hook(&id)
	}
	id.Name = strings.TrimSpace(id.Name)

	if id.VendorFreq <= 0 {
		id.VendorFreq = cpuid.CPU.Hz
	}
	if id.VendorFreq <= 0 {
		id.VendorFreq = ParseBrandFreq(id.Name)
	}
	if level := cpuid.CPU.X64Level(); level > 0 && id.MicroArchitecture == "" {
		id.MicroArchitecture = fmt.Sprintf("x86-64-v%d", level)
	}
	if id.ProcessorID == "" {
		id.ProcessorID = processorSignature(id)
	}
	if id.Identifier == "" {
		id.Identifier = identifierString(id)
	}
	return id
}

// processorSignature encodes family, model and stepping in the layout of
// CPUID leaf 1 EAX.
func processorSignature(id hardware.ProcessorIdentifier) string {
	family, err1 := strconv.Atoi(id.Family)
	model, err2 := strconv.Atoi(id.Model)
	stepping, err3 := strconv.Atoi(id.Stepping)
	if err1 != nil || err2 != nil || err3 != nil || family == 0 {
		return ""
	}
	sig := stepping&0xF | (model&0xF)<<4 | (min(family, 0xF)&0xF)<<8 | (model>>4&0xF)<<16
	if family > 0xF {
		sig |= ((family - 0xF) & 0xFF) << 20
	}
	return fmt.Sprintf("%016X", sig)
}

func identifierString(id hardware.ProcessorIdentifier) string {
	arch := runtime.GOARCH
	switch {
	case strings.Contains(id.Vendor, "Intel") && id.Is64Bit:
		arch = "Intel64"
	case strings.Contains(id.Vendor, "AMD") && id.Is64Bit:
		arch = "AMD64"
	case strings.Contains(id.Vendor, "Intel"):
		arch = "x86"
	}
	return fmt.Sprintf("%s Family %s Model %s Stepping %s", arch, id.Family, id.Model, id.Stepping)
}

// topologyFromInfo places logical processors when gopsutil reports one entry
// per thread (Linux). Otherwise threads are spread evenly across cores on a
// single package.
func topologyFromInfo(infos []cpu.InfoStat, logical, physical int) []hardware.LogicalProcessor {
	out := make([]hardware.LogicalProcessor, 0, logical)
	if len(infos) == logical && logical > 0 {
		packages := map[string]int{}
		cores := map[string]int{}
		for _, info := range infos {
			if _, ok := packages[info.PhysicalID]; !ok {
				packages[info.PhysicalID] = len(packages)
			}
			key := info.PhysicalID + "/" + info.CoreID
			if _, ok := cores[key]; !ok {
				cores[key] = len(cores)
			}
			out = append(out, hardware.LogicalProcessor{
				ProcessorNumber:         int(info.CPU),
				PhysicalProcessorNumber: cores[key],
				PhysicalPackageNumber:   packages[info.PhysicalID],
			})
		}
		slices.SortFunc(out, func(a, b hardware.LogicalProcessor) int {
			return cmp.Compare(a.ProcessorNumber, b.ProcessorNumber)
		})
		return out
	}
	return EvenTopology(logical, physical, 1)
}

// EvenTopology spreads logical processors evenly across cores and cores
// evenly across packages. Platforms that only report counts use it.
func EvenTopology(logical, physical, packages int) []hardware.LogicalProcessor {
	if logical <= 0 {
		return []hardware.LogicalProcessor{}
	}
	if physical <= 0 || physical > logical {
		physical = logical
	}
	packages = min(max(packages, 1), physical)
	out := make([]hardware.LogicalProcessor, 0, logical)
	for i := 0; i < logical; i++ {
		core := i * physical / logical
		out = append(out, hardware.LogicalProcessor{
			ProcessorNumber:         i,
			PhysicalProcessorNumber: core,
			PhysicalPackageNumber:   core * packages / physical,
		})
	}
	return out
}

func countCores(topology []hardware.LogicalProcessor) int {
	type key struct{ pkg, core int }
	seen := map[key]bool{}
	for _, lp := range topology {
		seen[key{lp.PhysicalPackageNumber, lp.PhysicalProcessorNumber}] = true
	}
	return len(seen)
}

func countPackages(topology []hardware.LogicalProcessor) int {
	seen := map[int]bool{}
	for _, lp := range topology {
		seen[lp.PhysicalPackageNumber] = true
	}
	return max(len(seen), 1)
}
