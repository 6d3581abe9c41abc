// Package hardware defines the OS-independent inventory surface.
//
// HardwareAbstractionLayer declares one method per hardware category. Four
// categories (computer system, memory, processor, sensors) are singletons:
// they are constructed on first access and the same instance is returned for
// the lifetime of the HAL. Every other category is a list that is rebuilt from
// live OS state on every call, because devices such as disks and USB
// peripherals come and go while the process runs.
//
// Platform packages under internal/platform implement the interface by
// embedding *Base, which holds the singleton caching, and binding each list
// method to one provider function. A HAL never returns an error: providers
// log failures and hand back empty slices or default-valued entities.
package hardware

import (
	"sync"
)

// HardwareAbstractionLayer is the uniform hardware inventory facade.
// Implementations are safe for concurrent use.
type HardwareAbstractionLayer interface {
	ComputerSystem() *ComputerSystem
	Memory() GlobalMemory
	Processor() CentralProcessor
	Sensors() Sensors

	PowerSources() []PowerSource
	DiskStores() []HWDiskStore
	// LogicalVolumeGroups is empty on platforms without volume management.
	LogicalVolumeGroups() []LogicalVolumeGroup
	Displays() []Display
	// NetworkIFs omits loopback and virtual interfaces unless
	// includeLocalInterfaces is set.
	NetworkIFs(includeLocalInterfaces bool) []NetworkIF
	// UsbDevices returns root hubs with nested ConnectedDevices when tree is
	// set, otherwise every device in a flat slice with no children populated.
	UsbDevices(tree bool) []UsbDevice
	SoundCards() []SoundCard
	GraphicsCards() []GraphicsCard
}

// Factories holds one constructor per singleton category.
type Factories struct {
	ComputerSystem func() *ComputerSystem
	Memory         func() GlobalMemory
	Processor      func() CentralProcessor
	Sensors        func() Sensors
}

// Base caches the singleton categories. Each constructor runs at most once,
// even when first accessed from several goroutines at the same time; later
// calls return the stored value without locking.
type Base struct {
	computerSystem func() *ComputerSystem
	memory         func() GlobalMemory
	processor      func() CentralProcessor
	sensors        func() Sensors
}

// NewBase wraps each factory in a compute-once cell. Missing factories yield
// zero-valued entities rather than nil.
func NewBase(f Factories) *Base {
	if f.ComputerSystem == nil {
		f.ComputerSystem = func() *ComputerSystem { return &ComputerSystem{} }
	}
	if f.Memory == nil {
		f.Memory = func() GlobalMemory { return NoMemory{} }
	}
	if f.Processor == nil {
		f.Processor = func() CentralProcessor { return NoProcessor{} }
	}
	if f.Sensors == nil {
		f.Sensors = func() Sensors { return NoSensors{} }
	}
	return &Base{
		computerSystem: sync.OnceValue(f.ComputerSystem),
		memory:         sync.OnceValue(f.Memory),
		processor:      sync.OnceValue(f.Processor),
		sensors:        sync.OnceValue(f.Sensors),
	}
}

// ComputerSystem returns the cached computer system.
func (b *Base) ComputerSystem() *ComputerSystem { return b.computerSystem() }

// Memory returns the cached memory object.
func (b *Base) Memory() GlobalMemory { return b.memory() }

// Processor returns the cached processor object.
func (b *Base) Processor() CentralProcessor { return b.processor() }

// Sensors returns the cached sensors object.
func (b *Base) Sensors() Sensors { return b.sensors() }

// LogicalVolumeGroups returns an empty slice. Platforms with a volume
// manager override it.
func (b *Base) LogicalVolumeGroups() []LogicalVolumeGroup {
	return []LogicalVolumeGroup{}
}

// NonNil returns s, or an empty slice if s is nil, so that list categories
// always encode as [] rather than null.
func NonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
