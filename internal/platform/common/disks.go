package common

import (
	"cmp"
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/doughall/hwinv/internal/hardware"
)

// DiskCounters reads per-device I/O counters. A failure yields an empty map.
func DiskCounters(backend Backend, logger *slog.Logger) map[string]disk.IOCountersStat {
	counters, err := backend.DiskCounters(context.Background())
	if err != nil {
		logger.Warn("failed to read disk counters", slog.String("error", err.Error()))
		return map[string]disk.IOCountersStat{}
	}
	return counters
}

// MountPoints maps device base names (sda1, disk0s2) to their mount point.
func MountPoints(backend Backend, logger *slog.Logger) map[string]string {
	out := map[string]string{}
	parts, err := backend.Partitions(context.Background(), false)
	if err != nil {
		logger.Warn("failed to list mounted partitions", slog.String("error", err.Error()))
		return out
	}
	for _, p := range parts {
		name := filepath.Base(p.Device)
		if _, seen := out[name]; !seen {
			out[name] = p.Mountpoint
		}
	}
	return out
}

// ApplyCounters copies I/O counters onto a disk store.
func ApplyCounters(store *hardware.HWDiskStore, c disk.IOCountersStat) {
	store.Reads = c.ReadCount
	store.ReadBytes = c.ReadBytes
	store.Writes = c.WriteCount
	store.WriteBytes = c.WriteBytes
	store.CurrentQueueLength = c.IopsInProgress
	store.TransferTime = c.IoTime
	if store.Serial == "" {
		store.Serial = c.SerialNumber
	}
}

// IsPartitionOf reports whether part names a partition of whole, e.g.
// sda1 of sda, nvme0n1p2 of nvme0n1, disk0s1 of disk0, ada0p3 of ada0.
func IsPartitionOf(part, whole string) bool {
	rest, ok := strings.CutPrefix(part, whole)
	if !ok || rest == "" {
		return false
	}
	switch rest[0] {
	case 'p', 's':
		return len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9'
	default:
		// sda -> sda1, but disk1 must not claim disk10.
		last := whole[len(whole)-1]
		return rest[0] >= '0' && rest[0] <= '9' && (last < '0' || last > '9')
	}
}

// DiskStores builds disk stores from gopsutil counters alone, for platforms
// whose counter names are whole disks (disk0 on macOS, ada0 on FreeBSD).
// Counter entries that are partitions of another entry become partitions.
func DiskStores(backend Backend, logger *slog.Logger) []hardware.HWDiskStore {
	counters := DiskCounters(backend, logger)
	mounts := MountPoints(backend, logger)

	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	slices.Sort(names)

	isPartition := func(name string) bool {
		for _, other := range names {
			if other != name && IsPartitionOf(name, other) {
				return true
			}
		}
		return false
	}

	now := time.Now()
	out := []hardware.HWDiskStore{}
	for _, name := range names {
		if isPartition(name) {
			continue
		}
		store := hardware.HWDiskStore{
			Name:       name,
			Model:      counters[name].Label,
			Partitions: []hardware.HWPartition{},
			Timestamp:  now,
		}
		ApplyCounters(&store, counters[name])
		for _, part := range names {
			if !IsPartitionOf(part, name) {
				continue
			}
			store.Partitions = append(store.Partitions, hardware.HWPartition{
				Identification: part,
				Name:           part,
				MountPoint:     mounts[part],
			})
		}
		slices.SortFunc(store.Partitions, func(a, b hardware.HWPartition) int {
			return cmp.Compare(a.Identification, b.Identification)
		})
		out = append(out, store)
	}
	return out
}
