package windows

import (
	"cmp"
	"slices"
	"time"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

type win32DiskDrive struct {
	Index        uint32
	Model        string
	Name         string
	SerialNumber string
	Size         uint64
}

type win32DiskPartition struct {
	DiskIndex uint32
	Index     uint32
	DeviceID  string
	Name      string
	Type      string
	Size      uint64
}

type win32LogicalDiskToPartition struct {
	Antecedent string
	Dependent  string
}

type win32LogicalDisk struct {
	DeviceID           string
	VolumeSerialNumber string
}

// diskStores lists physical drives with their partitions. gopsutil reports
// I/O counters per drive letter on Windows, so each disk sums the counters
// of the letters mounted on its partitions.
func (h *HardwareAbstractionLayer) diskStores() []hardware.HWDiskStore {
	stores := []hardware.HWDiskStore{}
	var drives []win32DiskDrive
	if !h.query("", "SELECT Index, Model, Name, SerialNumber, Size FROM Win32_DiskDrive", &drives) {
		return stores
	}

	var parts []win32DiskPartition
	h.query("", "SELECT DiskIndex, Index, DeviceID, Name, Type, Size FROM Win32_DiskPartition", &parts)
	var links []win32LogicalDiskToPartition
	h.query("", "SELECT Antecedent, Dependent FROM Win32_LogicalDiskToPartition", &links)
	var volumes []win32LogicalDisk
	h.query("", "SELECT DeviceID, VolumeSerialNumber FROM Win32_LogicalDisk", &volumes)

	letters := map[string]string{}
	for _, l := range links {
		letters[refID(l.Antecedent)] = refID(l.Dependent)
	}
	serials := map[string]string{}
	for _, v := range volumes {
		serials[v.DeviceID] = v.VolumeSerialNumber
	}
	counters := common.DiskCounters(h.backend, h.logger)

	slices.SortFunc(drives, func(a, b win32DiskDrive) int { return cmp.Compare(a.Index, b.Index) })
	for _, d := range drives {
		store := hardware.HWDiskStore{
			Name:       d.Name,
			Model:      known(d.Model),
			Serial:     known(d.SerialNumber),
			Size:       d.Size,
			Partitions: []hardware.HWPartition{},
			Timestamp:  time.Now(),
		}
		if store.Model == "" {
			store.Model = "Unknown"
		}
		for _, p := range parts {
			if p.DiskIndex != d.Index {
				continue
			}
			letter := letters[p.DeviceID]
			store.Partitions = append(store.Partitions, hardware.HWPartition{
				Identification: p.DeviceID,
				Name:           p.Name,
				Type:           p.Type,
				UUID:           serials[letter],
				Size:           p.Size,
				Major:          int(p.DiskIndex),
				Minor:          int(p.Index),
				MountPoint:     letter,
			})
			if c, ok := counters[letter]; ok {
				var volume hardware.HWDiskStore
				common.ApplyCounters(&volume, c)
				store.Reads += volume.Reads
				store.ReadBytes += volume.ReadBytes
				store.Writes += volume.Writes
				store.WriteBytes += volume.WriteBytes
				store.TransferTime += volume.TransferTime
				store.CurrentQueueLength += volume.CurrentQueueLength
			}
		}
		slices.SortFunc(store.Partitions, func(a, b hardware.HWPartition) int { return cmp.Compare(a.Minor, b.Minor) })
		stores = append(stores, store)
	}
	return stores
}
