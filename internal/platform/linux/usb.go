package linux

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// usbNodes reads /sys/bus/usb/devices. Root hubs are named usbN; devices
// are named bus-port[.port...], and their parent is the name with the last
// port removed (or usbN for a port directly on the root hub). Interface
// entries (containing ':') are skipped.
func (h *HardwareAbstractionLayer) usbNodes() []hardware.UsbNode {
	var nodes []hardware.UsbNode
	for _, name := range h.fs.list("sys", "bus", "usb", "devices") {
		if strings.Contains(name, ":") {
			continue
		}
		attr := func(file string) string {
			return h.fs.readString("sys", "bus", "usb", "devices", name, file)
		}
		dev := hardware.UsbDevice{
			Name:         attr("product"),
			Vendor:       attr("manufacturer"),
			VendorID:     attr("idVendor"),
			ProductID:    attr("idProduct"),
			SerialNumber: attr("serial"),
		}
		if dev.Name == "" {
			dev.Name = name
		}
		dev.UniqueDeviceID = dev.VendorID + ":" + dev.ProductID
		if dev.SerialNumber != "" {
			dev.UniqueDeviceID += ":" + dev.SerialNumber
		} else {
			dev.UniqueDeviceID += ":" + name
		}
		nodes = append(nodes, hardware.UsbNode{Device: dev, Key: name, Parent: usbParent(name)})
	}
	return nodes
}

func usbParent(name string) string {
	if strings.HasPrefix(name, "usb") {
		return ""
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	bus, _, ok := strings.Cut(name, "-")
	if !ok {
		return ""
	}
	return "usb" + bus
}
