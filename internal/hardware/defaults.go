package hardware

// NoMemory is the GlobalMemory of a platform that could not be queried.
type NoMemory struct{}

func (NoMemory) Total() uint64                    { return 0 }
func (NoMemory) Available() uint64                { return 0 }
func (NoMemory) PageSize() int64                  { return 0 }
func (NoMemory) VirtualMemory() VirtualMemory     { return VirtualMemory{Swappiness: -1} }
func (NoMemory) PhysicalMemory() []PhysicalMemory { return []PhysicalMemory{} }

// NoProcessor is the CentralProcessor of a platform that could not be queried.
type NoProcessor struct{}

func (NoProcessor) Identifier() ProcessorIdentifier {
	return ProcessorIdentifier{VendorFreq: -1}
}
func (NoProcessor) MaxFreq() int64                                  { return -1 }
func (NoProcessor) CurrentFreq() []int64                            { return []int64{} }
func (NoProcessor) LogicalProcessors() []LogicalProcessor           { return []LogicalProcessor{} }
func (NoProcessor) LogicalProcessorCount() int                      { return 0 }
func (NoProcessor) PhysicalProcessorCount() int                     { return 0 }
func (NoProcessor) PhysicalPackageCount() int                       { return 0 }
func (NoProcessor) SystemCPULoadTicks() CPUTicks                    { return CPUTicks{} }
func (NoProcessor) SystemCPULoadBetweenTicks(prev CPUTicks) float64 { return 0 }
func (NoProcessor) SystemLoadAverage(n int) []float64               { return UnavailableLoad(n) }
func (NoProcessor) ContextSwitches() int64                          { return 0 }
func (NoProcessor) Interrupts() int64                               { return 0 }

// NoSensors is the Sensors of a platform without readable sensors.
type NoSensors struct{}

func (NoSensors) CPUTemperature() float64 { return 0 }
func (NoSensors) FanSpeeds() []int        { return []int{} }
func (NoSensors) CPUVoltage() float64     { return 0 }

// UnavailableLoad returns n load-average slots, all -1. n is clamped to 1..3.
func UnavailableLoad(n int) []float64 {
	n = ClampLoadElements(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = -1
	}
	return out
}

// ClampLoadElements limits a requested load-average count to 1..3.
func ClampLoadElements(n int) int {
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}

// LoadBetween returns the busy fraction of the ticks elapsed since prev.
func LoadBetween(prev, cur CPUTicks) float64 {
	total := cur.Total()
	prevTotal := prev.Total()
	if total <= prevTotal {
		return 0
	}
	idle := (cur.Idle + cur.IOWait) - min(cur.Idle+cur.IOWait, prev.Idle+prev.IOWait)
	elapsed := total - prevTotal
	if idle > elapsed {
		return 0
	}
	return float64(elapsed-idle) / float64(elapsed)
}
