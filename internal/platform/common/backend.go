// Package common holds the hardware providers that several platforms share.
//
// Memory, processor load, temperature, network and disk counters are read
// through gopsutil, which already normalizes them across Linux, macOS,
// Windows and FreeBSD. Platform packages build on these types and layer in
// whatever their OS exposes beyond gopsutil (DIMM banks, hwmon fans, WMI
// classes and so on).
//
// Every gopsutil call goes through a Backend so the providers can be tested
// with canned values on any host. Failures are logged at Warn level and the
// affected field keeps its zero or -1 default.
package common

import (
	"context"
	"errors"
	stdnet "net"

	"github.com/jackpal/gateway"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/sensors"
)

// Backend is the set of library calls the shared providers read from.
type Backend struct {
	VirtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	SwapMemory    func(ctx context.Context) (*mem.SwapMemoryStat, error)

	CPUInfo   func(ctx context.Context) ([]cpu.InfoStat, error)
	CPUTimes  func(ctx context.Context, perCPU bool) ([]cpu.TimesStat, error)
	CPUCounts func(ctx context.Context, logical bool) (int, error)
	LoadAvg   func(ctx context.Context) (*load.AvgStat, error)
	LoadMisc  func(ctx context.Context) (*load.MiscStat, error)

	Temperatures func(ctx context.Context) ([]sensors.TemperatureStat, error)

	Interfaces   func(ctx context.Context) (net.InterfaceStatList, error)
	NetCounters  func(ctx context.Context, perNIC bool) ([]net.IOCountersStat, error)
	DefaultRoute func() (stdnet.IP, error)

	DiskCounters func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error)
	Partitions   func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
}

// HostBackend wires Backend to gopsutil and jackpal/gateway.
func HostBackend() Backend {
	return Backend{
		VirtualMemory: mem.VirtualMemoryWithContext,
		SwapMemory:    mem.SwapMemoryWithContext,
		CPUInfo:       cpu.InfoWithContext,
		CPUTimes:      cpu.TimesWithContext,
		CPUCounts:     cpu.CountsWithContext,
		LoadAvg:       load.AvgWithContext,
		LoadMisc:      load.MiscWithContext,
		Temperatures:  sensors.TemperaturesWithContext,
		Interfaces:    net.InterfacesWithContext,
		NetCounters:   net.IOCountersWithContext,
		// DiscoverInterface returns the local address of the interface that
		// carries the default route.
		DefaultRoute: gateway.DiscoverInterface,
		DiskCounters: disk.IOCountersWithContext,
		Partitions:   disk.PartitionsWithContext,
	}
}

// ErrUnavailable is returned by every call of the Unavailable backend.
var ErrUnavailable = errors.New("backend call unavailable")

// Unavailable returns a Backend whose calls all fail. Tests start from it and
// replace the calls they exercise.
func Unavailable() Backend {
	return Backend{
		VirtualMemory: func(context.Context) (*mem.VirtualMemoryStat, error) { return nil, ErrUnavailable },
		SwapMemory:    func(context.Context) (*mem.SwapMemoryStat, error) { return nil, ErrUnavailable },
		CPUInfo:       func(context.Context) ([]cpu.InfoStat, error) { return nil, ErrUnavailable },
		CPUTimes:      func(context.Context, bool) ([]cpu.TimesStat, error) { return nil, ErrUnavailable },
		CPUCounts:     func(context.Context, bool) (int, error) { return 0, ErrUnavailable },
		LoadAvg:       func(context.Context) (*load.AvgStat, error) { return nil, ErrUnavailable },
		LoadMisc:      func(context.Context) (*load.MiscStat, error) { return nil, ErrUnavailable },
		Temperatures:  func(context.Context) ([]sensors.TemperatureStat, error) { return nil, ErrUnavailable },
		Interfaces:    func(context.Context) (net.InterfaceStatList, error) { return nil, ErrUnavailable },
		NetCounters:   func(context.Context, bool) ([]net.IOCountersStat, error) { return nil, ErrUnavailable },
		DefaultRoute:  func() (stdnet.IP, error) { return nil, ErrUnavailable },
		DiskCounters: func(context.Context, ...string) (map[string]disk.IOCountersStat, error) {
			return nil, ErrUnavailable
		},
		Partitions: func(context.Context, bool) ([]disk.PartitionStat, error) { return nil, ErrUnavailable },
	}
}
