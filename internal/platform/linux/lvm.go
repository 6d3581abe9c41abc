package linux

import (
	"slices"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// logicalVolumeGroups rebuilds LVM volume groups from device-mapper sysfs
// entries. Each dm-N device that LVM created carries a uuid starting with
// "LVM-" and a name of the form vg-lv, with literal dashes doubled.
func (h *HardwareAbstractionLayer) logicalVolumeGroups() []hardware.LogicalVolumeGroup {
	groups := map[string]*hardware.LogicalVolumeGroup{}
	var order []string

	devices := h.fs.list("sys", "block")
	slices.Sort(devices)
	for _, dev := range devices {
		if !strings.HasPrefix(dev, "dm-") {
			continue
		}
		if !strings.HasPrefix(h.fs.readString("sys", "block", dev, "dm", "uuid"), "LVM-") {
			continue
		}
		vg, lv, ok := splitDMName(h.fs.readString("sys", "block", dev, "dm", "name"))
		if !ok {
			continue
		}
		group, seen := groups[vg]
		if !seen {
			group = &hardware.LogicalVolumeGroup{
				Name:            vg,
				PhysicalVolumes: []string{},
				LogicalVolumes:  map[string][]string{},
			}
			groups[vg] = group
			order = append(order, vg)
		}

		pvs := []string{}
		slaves := h.fs.list("sys", "block", dev, "slaves")
		slices.Sort(slaves)
		for _, slave := range slaves {
			pv := "/dev/" + slave
			pvs = append(pvs, pv)
			if !slices.Contains(group.PhysicalVolumes, pv) {
				group.PhysicalVolumes = append(group.PhysicalVolumes, pv)
			}
		}
		group.LogicalVolumes[lv] = pvs
	}

	out := make([]hardware.LogicalVolumeGroup, 0, len(order))
	for _, vg := range order {
		out = append(out, *groups[vg])
	}
	return out
}

// splitDMName splits a device-mapper name into volume group and logical
// volume. A single dash separates them; "--" is an escaped dash.
func splitDMName(name string) (vg, lv string, ok bool) {
	for i := 0; i < len(name); i++ {
		if name[i] != '-' {
			continue
		}
		if i+1 < len(name) && name[i+1] == '-' {
			i++
			continue
		}
		vg = strings.ReplaceAll(name[:i], "--", "-")
		lv = strings.ReplaceAll(name[i+1:], "--", "-")
		return vg, lv, vg != "" && lv != ""
	}
	return "", "", false
}
