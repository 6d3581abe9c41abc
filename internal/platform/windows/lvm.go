package windows

import (
	"cmp"
	"regexp"
	"slices"

	"github.com/doughall/hwinv/internal/hardware"
)

type msftStoragePool struct {
	FriendlyName string
	ObjectId     string
	IsPrimordial bool
}

type msftStorageObject struct {
	FriendlyName string
	ObjectId     string
}

type msftStoragePoolToPhysicalDisk struct {
	StoragePool  string
	PhysicalDisk string
}

type msftStoragePoolToVirtualDisk struct {
	StoragePool string
	VirtualDisk string
}

var spacesTag = regexp.MustCompile(`(SP|PD|VD):(\{[0-9A-Fa-f-]+\})`)

// spacesID returns the {GUID} tagged SP, PD or VD in a Storage Spaces object
// ID or a reference path containing one.
func spacesID(s, tag string) string {
	id := ""
	for _, m := range spacesTag.FindAllStringSubmatch(s, -1) {
		if m[1] == tag {
			id = m[2]
		}
	}
	return id
}

// storagePools reports Storage Spaces pools as volume groups: each pool's
// physical disks are its physical volumes, and every virtual disk carved
// from the pool maps to all of them.
func (h *HardwareAbstractionLayer) storagePools() []hardware.LogicalVolumeGroup {
	groups := []hardware.LogicalVolumeGroup{}
	var pools []msftStoragePool
	if !h.query(storageNamespace, "SELECT FriendlyName, ObjectId, IsPrimordial FROM MSFT_StoragePool", &pools) {
		return groups
	}
	var physical, virtual []msftStorageObject
	h.query(storageNamespace, "SELECT FriendlyName, ObjectId FROM MSFT_PhysicalDisk", &physical)
	h.query(storageNamespace, "SELECT FriendlyName, ObjectId FROM MSFT_VirtualDisk", &virtual)
	var poolDisks []msftStoragePoolToPhysicalDisk
	h.query(storageNamespace, "SELECT StoragePool, PhysicalDisk FROM MSFT_StoragePoolToPhysicalDisk", &poolDisks)
	var poolVolumes []msftStoragePoolToVirtualDisk
	h.query(storageNamespace, "SELECT StoragePool, VirtualDisk FROM MSFT_StoragePoolToVirtualDisk", &poolVolumes)

	pdNames := map[string]string{}
	for _, d := range physical {
		pdNames[spacesID(d.ObjectId, "PD")] = d.FriendlyName
	}
	vdNames := map[string]string{}
	for _, d := range virtual {
		vdNames[spacesID(d.ObjectId, "VD")] = d.FriendlyName
	}

	for _, pool := range pools {
		if pool.IsPrimordial {
			continue
		}
		id := spacesID(pool.ObjectId, "SP")
		group := hardware.LogicalVolumeGroup{
			Name:            pool.FriendlyName,
			PhysicalVolumes: []string{},
			LogicalVolumes:  map[string][]string{},
		}
		for _, link := range poolDisks {
			if spacesID(link.StoragePool, "SP") != id {
				continue
			}
			if name, ok := pdNames[spacesID(link.PhysicalDisk, "PD")]; ok {
				group.PhysicalVolumes = append(group.PhysicalVolumes, name)
			}
		}
		slices.Sort(group.PhysicalVolumes)
		for _, link := range poolVolumes {
			if spacesID(link.StoragePool, "SP") != id {
				continue
			}
			if name, ok := vdNames[spacesID(link.VirtualDisk, "VD")]; ok {
				group.LogicalVolumes[name] = slices.Clone(group.PhysicalVolumes)
			}
		}
		groups = append(groups, group)
	}
	slices.SortFunc(groups, func(a, b hardware.LogicalVolumeGroup) int { return cmp.Compare(a.Name, b.Name) })
	return groups
}
