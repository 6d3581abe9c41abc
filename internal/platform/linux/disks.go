package linux

import (
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jaypipes/ghw"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// sectorSize is the fixed unit of /sys/block/*/size.
const sectorSize = 512

func (h *HardwareAbstractionLayer) diskStores() []hardware.HWDiskStore {
	stores := h.sysfsDisks()
	if h.ghw {
		h.mergeGHWDisks(stores)
	}
	counters := common.DiskCounters(h.backend, h.logger)
	for i := range stores {
		if c, ok := counters[stores[i].Name]; ok {
			common.ApplyCounters(&stores[i], c)
		}
	}
	return stores
}

// sysfsDisks enumerates /sys/block, skipping loop and RAM devices.
func (h *HardwareAbstractionLayer) sysfsDisks() []hardware.HWDiskStore {
	mounts := common.MountPoints(h.backend, h.logger)
	uuids := h.partitionUUIDs()
	now := time.Now()

	out := []hardware.HWDiskStore{}
	names := h.fs.list("sys", "block")
	slices.Sort(names)
	for _, name := range names {
		if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") || strings.HasPrefix(name, "zram") {
			continue
		}
		sectors, _ := h.fs.readInt64("sys", "block", name, "size")
		store := hardware.HWDiskStore{
			Name:       name,
			Model:      h.fs.readString("sys", "block", name, "device", "model"),
			Serial:     h.fs.readString("sys", "block", name, "device", "serial"),
			Size:       uint64(sectors) * sectorSize,
			Partitions: []hardware.HWPartition{},
			Timestamp:  now,
		}
		if vendor := h.fs.readString("sys", "block", name, "device", "vendor"); vendor != "" && store.Model != "" {
			store.Model = vendor + " " + store.Model
		}
		if store.Model == "" {
			store.Model = "Unknown"
		}
		for _, part := range h.fs.list("sys", "block", name) {
			if !h.fs.exists("sys", "block", name, part, "partition") {
				continue
			}
			psectors, _ := h.fs.readInt64("sys", "block", name, part, "size")
			major, minor := parseDevNumber(h.fs.readString("sys", "block", name, part, "dev"))
			store.Partitions = append(store.Partitions, hardware.HWPartition{
				Identification: "/dev/" + part,
				Name:           part,
				UUID:           uuids[part],
				Size:           uint64(psectors) * sectorSize,
				Major:          major,
				Minor:          minor,
				MountPoint:     mounts[part],
			})
		}
		slices.SortFunc(store.Partitions, func(a, b hardware.HWPartition) int {
			return cmp.Compare(a.Name, b.Name)
		})
		out = append(out, store)
	}
	return out
}

// mergeGHWDisks overlays model, serial and partition types from ghw, which
// reads udev's database.
func (h *HardwareAbstractionLayer) mergeGHWDisks(stores []hardware.HWDiskStore) {
	info, err := ghw.Block(h.ghwOptions()...)
	if err != nil {
		h.logger.Debug("ghw block lookup failed", slog.String("error", err.Error()))
		return
	}
	byName := map[string]int{}
	for i, s := range stores {
		byName[s.Name] = i
	}
	for _, d := range info.Disks {
		i, ok := byName[d.Name]
		if !ok {
			continue
		}
		store := &stores[i]
		if m := known(d.Model); m != "" {
			store.Model = m
		}
		if s := known(d.SerialNumber); s != "" {
			store.Serial = s
		}
		if store.Size == 0 {
			store.Size = d.SizeBytes
		}
		for _, p := range d.Partitions {
			for j := range store.Partitions {
				part := &store.Partitions[j]
				if part.Name != p.Name {
					continue
				}
				part.Type = known(p.Type)
				if part.UUID == "" {
					part.UUID = known(p.UUID)
				}
				if part.MountPoint == "" {
					part.MountPoint = p.MountPoint
				}
			}
		}
	}
}

// partitionUUIDs maps partition names to filesystem UUIDs via the
// /dev/disk/by-uuid symlinks.
func (h *HardwareAbstractionLayer) partitionUUIDs() map[string]string {
	out := map[string]string{}
	for _, uuid := range h.fs.list("dev", "disk", "by-uuid") {
		if target := h.fs.readLinkBase("dev", "disk", "by-uuid", uuid); target != "" {
			out[target] = uuid
		}
	}
	return out
}

// parseDevNumber splits a "major:minor" dev file.
func parseDevNumber(s string) (int, int) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0
	}
	major, _ := strconv.Atoi(a)
	minor, _ := strconv.Atoi(b)
	return major, minor
}
