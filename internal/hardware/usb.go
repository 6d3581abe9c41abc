package hardware

import (
	"cmp"
	"slices"
)

// UsbNode is one device as a provider discovers it: the device itself plus
// the keys that place it in the bus topology.
type UsbNode struct {
	Device UsbDevice
	// Key identifies the device within one enumeration, e.g. a sysfs name or
	// a PnP device ID.
	Key string
	// Parent is the Key of the upstream hub, or "" for a root hub.
	Parent string
}

// BuildUsbDevices turns a provider's node list into the shape UsbDevices
// returns. With tree set, the result holds root hubs with their descendants
// nested in ConnectedDevices. Otherwise it holds every device, in depth-first
// order, with ConnectedDevices left nil.
//
// A node whose parent is missing from the list is treated as a root.
func BuildUsbDevices(nodes []UsbNode, tree bool) []UsbDevice {
	byKey := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byKey[n.Key] = i
	}
	children := make(map[string][]int)
	var roots []int
	for i, n := range nodes {
		if _, ok := byKey[n.Parent]; n.Parent == "" || !ok || n.Parent == n.Key {
			roots = append(roots, i)
			continue
		}
		children[n.Parent] = append(children[n.Parent], i)
	}
	order := func(a, b int) int {
		return cmp.Compare(nodes[a].Key, nodes[b].Key)
	}
	slices.SortStableFunc(roots, order)
	for k := range children {
		slices.SortStableFunc(children[k], order)
	}

	visited := make([]bool, len(nodes))
	var nest func(i int) UsbDevice
	nest = func(i int) UsbDevice {
		visited[i] = true
		dev := nodes[i].Device
		dev.ConnectedDevices = nil
		for _, c := range children[nodes[i].Key] {
			if visited[c] {
				continue
			}
			dev.ConnectedDevices = append(dev.ConnectedDevices, nest(c))
		}
		return dev
	}

	out := []UsbDevice{}
	if tree {
		for _, r := range roots {
			out = append(out, nest(r))
		}
		return out
	}

	var walk func(i int)
	walk = func(i int) {
		visited[i] = true
		dev := nodes[i].Device
		dev.ConnectedDevices = nil
		out = append(out, dev)
		for _, c := range children[nodes[i].Key] {
			if !visited[c] {
				walk(c)
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}
