package mac

import (
	"fmt"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type usbItem struct {
	Name           string    `json:"_name"`
	VendorID       string    `json:"vendor_id"`
	ProductID      string    `json:"product_id"`
	SerialNumber   string    `json:"serial_num"`
	Manufacturer   string    `json:"manufacturer"`
	LocationID     string    `json:"location_id"`
	HostController string    `json:"host_controller"`
	Items          []usbItem `json:"_items"`
}

// usbNodes flattens the profiler's nested buses and devices. Keys encode the
// position in the tree so siblings keep the profiler's order.
func (h *HardwareAbstractionLayer) usbNodes() []hardware.UsbNode {
	var items []usbItem
	if !h.profile("SPUSBDataType", &items) {
		return nil
	}
	var nodes []hardware.UsbNode
	var walk func(items []usbItem, parent string)
	walk = func(items []usbItem, parent string) {
		for i, it := range items {
			key := fmt.Sprintf("%03d", i)
			if parent != "" {
				key = parent + "/" + key
			}
			nodes = append(nodes, hardware.UsbNode{Device: usbDevice(it), Key: key, Parent: parent})
			walk(it.Items, key)
		}
	}
	walk(items, "")
	return nodes
}

func usbDevice(it usbItem) hardware.UsbDevice {
	vendorID, vendorName := splitUsbID(it.VendorID)
	productID, _ := splitUsbID(it.ProductID)
	dev := hardware.UsbDevice{
		Name:         it.Name,
		Vendor:       it.Manufacturer,
		VendorID:     vendorID,
		ProductID:    productID,
		SerialNumber: it.SerialNumber,
	}
	if dev.Vendor == "" {
		dev.Vendor = vendorName
	}
	if it.HostController != "" {
		dev.UniqueDeviceID = it.HostController
		return dev
	}
	dev.UniqueDeviceID = dev.VendorID + ":" + dev.ProductID
	if dev.SerialNumber != "" {
		dev.UniqueDeviceID += ":" + dev.SerialNumber
	} else if loc := strings.Fields(it.LocationID); len(loc) > 0 {
		dev.UniqueDeviceID += ":" + loc[0]
	} else {
		dev.UniqueDeviceID += ":" + it.Name
	}
	return dev
}

// splitUsbID splits "0x046d  (Logitech Inc.)" into "046d" and "Logitech Inc.".
func splitUsbID(s string) (id, name string) {
	id, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	id = strings.ToLower(strings.TrimPrefix(id, "0x"))
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		name = rest[1 : len(rest)-1]
	}
	return id, name
}
