package hardware

import "time"

// ComputerSystem identifies the machine: its product, firmware and board.
// It is built once per HAL and never changes afterwards.
type ComputerSystem struct {
	Manufacturer string    `json:"manufacturer" yaml:"manufacturer"`
	Model        string    `json:"model" yaml:"model"`
	SerialNumber string    `json:"serialNumber" yaml:"serialNumber"`
	HardwareUUID string    `json:"hardwareUuid" yaml:"hardwareUuid"`
	Firmware     Firmware  `json:"firmware" yaml:"firmware"`
	Baseboard    Baseboard `json:"baseboard" yaml:"baseboard"`
}

// Firmware describes the BIOS/UEFI/boot ROM.
type Firmware struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Version      string `json:"version" yaml:"version"`
	ReleaseDate  string `json:"releaseDate" yaml:"releaseDate"`
}

// Baseboard describes the motherboard.
type Baseboard struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Version      string `json:"version" yaml:"version"`
	SerialNumber string `json:"serialNumber" yaml:"serialNumber"`
}

// GlobalMemory reports physical and virtual memory. Total, page size and
// the installed banks are fixed at construction; the rest reads live values.
type GlobalMemory interface {
	// Total is installed physical memory in bytes.
	Total() uint64
	// Available is memory usable without swapping, in bytes.
	Available() uint64
	// PageSize is the VM page size in bytes.
	PageSize() int64
	VirtualMemory() VirtualMemory
	PhysicalMemory() []PhysicalMemory
}

// VirtualMemory is a snapshot of swap and commit state.
type VirtualMemory struct {
	SwapTotal    uint64 `json:"swapTotal" yaml:"swapTotal"`
	SwapUsed     uint64 `json:"swapUsed" yaml:"swapUsed"`
	VirtualMax   uint64 `json:"virtualMax" yaml:"virtualMax"`
	VirtualInUse uint64 `json:"virtualInUse" yaml:"virtualInUse"`
	SwapPagesIn  uint64 `json:"swapPagesIn" yaml:"swapPagesIn"`
	SwapPagesOut uint64 `json:"swapPagesOut" yaml:"swapPagesOut"`
	// Swappiness is the kernel's swap tendency where the OS has one, else -1.
	Swappiness int `json:"swappiness" yaml:"swappiness"`
}

// PhysicalMemory is one installed memory module.
type PhysicalMemory struct {
	BankLabel    string `json:"bankLabel" yaml:"bankLabel"`
	Capacity     uint64 `json:"capacity" yaml:"capacity"`
	ClockSpeed   int64  `json:"clockSpeed" yaml:"clockSpeed"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	MemoryType   string `json:"memoryType" yaml:"memoryType"`
}

// CentralProcessor describes the CPU package(s) and exposes load counters.
type CentralProcessor interface {
	Identifier() ProcessorIdentifier
	// MaxFreq is the maximum rated frequency in Hz, or -1 if unknown.
	MaxFreq() int64
	// CurrentFreq is the current frequency of each logical processor in Hz.
	CurrentFreq() []int64
	LogicalProcessors() []LogicalProcessor
	LogicalProcessorCount() int
	PhysicalProcessorCount() int
	PhysicalPackageCount() int
	SystemCPULoadTicks() CPUTicks
	// SystemCPULoadBetweenTicks returns busy time as a fraction of elapsed
	// time since prev, in the range 0..1.
	SystemCPULoadBetweenTicks(prev CPUTicks) float64
	// SystemLoadAverage returns up to three load averages (1, 5, 15 min).
	// Elements the OS cannot provide are -1.
	SystemLoadAverage(n int) []float64
	ContextSwitches() int64
	Interrupts() int64
}

// ProcessorIdentifier names the CPU model.
type ProcessorIdentifier struct {
	Vendor            string `json:"vendor" yaml:"vendor"`
	Name              string `json:"name" yaml:"name"`
	Family            string `json:"family" yaml:"family"`
	Model             string `json:"model" yaml:"model"`
	Stepping          string `json:"stepping" yaml:"stepping"`
	ProcessorID       string `json:"processorId" yaml:"processorId"`
	Identifier        string `json:"identifier" yaml:"identifier"`
	MicroArchitecture string `json:"microArchitecture" yaml:"microArchitecture"`
	Is64Bit           bool   `json:"is64Bit" yaml:"is64Bit"`
	// VendorFreq is the frequency advertised by the vendor in Hz, or -1.
	VendorFreq int64 `json:"vendorFreq" yaml:"vendorFreq"`
}

// LogicalProcessor places one hardware thread in the topology.
type LogicalProcessor struct {
	ProcessorNumber         int `json:"processorNumber" yaml:"processorNumber"`
	PhysicalProcessorNumber int `json:"physicalProcessorNumber" yaml:"physicalProcessorNumber"`
	PhysicalPackageNumber   int `json:"physicalPackageNumber" yaml:"physicalPackageNumber"`
	NUMANode                int `json:"numaNode" yaml:"numaNode"`
}

// CPUTicks are cumulative CPU times in milliseconds.
type CPUTicks struct {
	User    uint64 `json:"user" yaml:"user"`
	Nice    uint64 `json:"nice" yaml:"nice"`
	System  uint64 `json:"system" yaml:"system"`
	Idle    uint64 `json:"idle" yaml:"idle"`
	IOWait  uint64 `json:"iowait" yaml:"iowait"`
	IRQ     uint64 `json:"irq" yaml:"irq"`
	SoftIRQ uint64 `json:"softirq" yaml:"softirq"`
	Steal   uint64 `json:"steal" yaml:"steal"`
}

// Total sums every tick counter.
func (t CPUTicks) Total() uint64 {
	return t.User + t.Nice + t.System + t.Idle + t.IOWait + t.IRQ + t.SoftIRQ + t.Steal
}

// Sensors reads temperature, fan and voltage sensors on each call.
type Sensors interface {
	// CPUTemperature in degrees Celsius, or 0 if unavailable.
	CPUTemperature() float64
	// FanSpeeds in RPM; empty if no fans are visible.
	FanSpeeds() []int
	// CPUVoltage in volts, or 0 if unavailable.
	CPUVoltage() float64
}

// Time-remaining sentinels for PowerSource.
const (
	TimeRemainingUnknown   = -1.0
	TimeRemainingUnlimited = -2.0
)

// PowerSource is one battery or UPS.
type PowerSource struct {
	Name                     string  `json:"name" yaml:"name"`
	DeviceName               string  `json:"deviceName" yaml:"deviceName"`
	RemainingCapacityPercent float64 `json:"remainingCapacityPercent" yaml:"remainingCapacityPercent"`
	// TimeRemainingEstimated is in seconds; see TimeRemainingUnknown/Unlimited.
	TimeRemainingEstimated float64 `json:"timeRemainingEstimated" yaml:"timeRemainingEstimated"`
	TimeRemainingInstant   float64 `json:"timeRemainingInstant" yaml:"timeRemainingInstant"`
	// PowerUsageRate is in milliwatts; negative while discharging.
	PowerUsageRate  float64 `json:"powerUsageRate" yaml:"powerUsageRate"`
	Voltage         float64 `json:"voltage" yaml:"voltage"`
	Amperage        float64 `json:"amperage" yaml:"amperage"`
	PowerOnLine     bool    `json:"powerOnLine" yaml:"powerOnLine"`
	Charging        bool    `json:"charging" yaml:"charging"`
	Discharging     bool    `json:"discharging" yaml:"discharging"`
	CapacityUnits   string  `json:"capacityUnits" yaml:"capacityUnits"`
	CurrentCapacity int     `json:"currentCapacity" yaml:"currentCapacity"`
	MaxCapacity     int     `json:"maxCapacity" yaml:"maxCapacity"`
	DesignCapacity  int     `json:"designCapacity" yaml:"designCapacity"`
	CycleCount      int     `json:"cycleCount" yaml:"cycleCount"`
	Chemistry       string  `json:"chemistry" yaml:"chemistry"`
	ManufactureDate string  `json:"manufactureDate" yaml:"manufactureDate"`
	Manufacturer    string  `json:"manufacturer" yaml:"manufacturer"`
	SerialNumber    string  `json:"serialNumber" yaml:"serialNumber"`
	Temperature     float64 `json:"temperature" yaml:"temperature"`
}

// Capacity units reported by power sources.
const (
	CapacityMWh      = "MWH"
	CapacityMAh      = "MAH"
	CapacityRelative = "RELATIVE"
)

// HWDiskStore is one physical or virtual block device.
type HWDiskStore struct {
	Name               string        `json:"name" yaml:"name"`
	Model              string        `json:"model" yaml:"model"`
	Serial             string        `json:"serial" yaml:"serial"`
	Size               uint64        `json:"size" yaml:"size"`
	Reads              uint64        `json:"reads" yaml:"reads"`
	ReadBytes          uint64        `json:"readBytes" yaml:"readBytes"`
	Writes             uint64        `json:"writes" yaml:"writes"`
	WriteBytes         uint64        `json:"writeBytes" yaml:"writeBytes"`
	CurrentQueueLength uint64        `json:"currentQueueLength" yaml:"currentQueueLength"`
	TransferTime       uint64        `json:"transferTime" yaml:"transferTime"`
	Partitions         []HWPartition `json:"partitions" yaml:"partitions"`
	Timestamp          time.Time     `json:"timestamp" yaml:"timestamp"`
}

// HWPartition is one partition of a disk.
type HWPartition struct {
	Identification string `json:"identification" yaml:"identification"`
	Name           string `json:"name" yaml:"name"`
	Type           string `json:"type" yaml:"type"`
	UUID           string `json:"uuid" yaml:"uuid"`
	Size           uint64 `json:"size" yaml:"size"`
	Major          int    `json:"major" yaml:"major"`
	Minor          int    `json:"minor" yaml:"minor"`
	MountPoint     string `json:"mountPoint" yaml:"mountPoint"`
}

// LogicalVolumeGroup is an LVM volume group or a Storage Spaces pool.
type LogicalVolumeGroup struct {
	Name            string   `json:"name" yaml:"name"`
	PhysicalVolumes []string `json:"physicalVolumes" yaml:"physicalVolumes"`
	// LogicalVolumes maps each volume to the physical volumes backing it.
	LogicalVolumes map[string][]string `json:"logicalVolumes" yaml:"logicalVolumes"`
}

// Display is one attached monitor.
type Display struct {
	EDID           []byte `json:"edid,omitempty" yaml:"edid,omitempty"`
	ManufacturerID string `json:"manufacturerId" yaml:"manufacturerId"`
	ProductCode    string `json:"productCode" yaml:"productCode"`
	SerialNumber   string `json:"serialNumber" yaml:"serialNumber"`
	Name           string `json:"name" yaml:"name"`
	Week           int    `json:"week" yaml:"week"`
	Year           int    `json:"year" yaml:"year"`
	EDIDVersion    string `json:"edidVersion" yaml:"edidVersion"`
}

// NetworkIF is one network interface with its counters at query time.
type NetworkIF struct {
	Name           string    `json:"name" yaml:"name"`
	DisplayName    string    `json:"displayName" yaml:"displayName"`
	Index          int       `json:"index" yaml:"index"`
	MTU            int       `json:"mtu" yaml:"mtu"`
	MAC            string    `json:"mac" yaml:"mac"`
	IPv4           []string  `json:"ipv4" yaml:"ipv4"`
	SubnetMasks    []int     `json:"subnetMasks" yaml:"subnetMasks"`
	IPv6           []string  `json:"ipv6" yaml:"ipv6"`
	PrefixLengths  []int     `json:"prefixLengths" yaml:"prefixLengths"`
	Speed          uint64    `json:"speed" yaml:"speed"`
	BytesRecv      uint64    `json:"bytesRecv" yaml:"bytesRecv"`
	BytesSent      uint64    `json:"bytesSent" yaml:"bytesSent"`
	PacketsRecv    uint64    `json:"packetsRecv" yaml:"packetsRecv"`
	PacketsSent    uint64    `json:"packetsSent" yaml:"packetsSent"`
	InErrors       uint64    `json:"inErrors" yaml:"inErrors"`
	OutErrors      uint64    `json:"outErrors" yaml:"outErrors"`
	InDrops        uint64    `json:"inDrops" yaml:"inDrops"`
	Collisions     uint64    `json:"collisions" yaml:"collisions"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
	Up             bool      `json:"up" yaml:"up"`
	Loopback       bool      `json:"loopback" yaml:"loopback"`
	Virtual        bool      `json:"virtual" yaml:"virtual"`
	KnownVMMACAddr bool      `json:"knownVmMacAddr" yaml:"knownVmMacAddr"`
	DefaultRoute   bool      `json:"defaultRoute" yaml:"defaultRoute"`
}

// UsbDevice is one USB device. ConnectedDevices is populated only when
// devices are requested as a tree.
type UsbDevice struct {
	Name             string      `json:"name" yaml:"name"`
	Vendor           string      `json:"vendor" yaml:"vendor"`
	VendorID         string      `json:"vendorId" yaml:"vendorId"`
	ProductID        string      `json:"productId" yaml:"productId"`
	SerialNumber     string      `json:"serialNumber" yaml:"serialNumber"`
	UniqueDeviceID   string      `json:"uniqueDeviceId" yaml:"uniqueDeviceId"`
	ConnectedDevices []UsbDevice `json:"connectedDevices,omitempty" yaml:"connectedDevices,omitempty"`
}

// SoundCard is one audio device.
type SoundCard struct {
	DriverVersion string `json:"driverVersion" yaml:"driverVersion"`
	Name          string `json:"name" yaml:"name"`
	Codec         string `json:"codec" yaml:"codec"`
}

// GraphicsCard is one GPU.
type GraphicsCard struct {
	Name        string `json:"name" yaml:"name"`
	DeviceID    string `json:"deviceId" yaml:"deviceId"`
	Vendor      string `json:"vendor" yaml:"vendor"`
	VersionInfo string `json:"versionInfo" yaml:"versionInfo"`
	// VRAM in bytes.
	VRAM uint64 `json:"vram" yaml:"vram"`
}
