package windows

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type win32PnPDevice struct {
	Name         string
	Manufacturer string
	PNPDeviceID  string
}

type win32USBControllerDevice struct {
	Antecedent string
	Dependent  string
}

// usbNodes places every USB PnP device under the host controller WMI
// associates it with. Intermediate hubs appear as siblings of the devices
// behind them, since WMI does not expose the port tree.
func (h *HardwareAbstractionLayer) usbNodes() []hardware.UsbNode {
	var controllers []win32PnPDevice
	if !h.query("", "SELECT Name, Manufacturer, PNPDeviceID FROM Win32_USBController", &controllers) {
		return nil
	}
	var links []win32USBControllerDevice
	h.query("", "SELECT Antecedent, Dependent FROM Win32_USBControllerDevice", &links)
	var entities []win32PnPDevice
	h.query("", `SELECT Name, Manufacturer, PNPDeviceID FROM Win32_PnPEntity WHERE PNPDeviceID LIKE 'USB\\%'`, &entities)

	parents := map[string]string{}
	for _, l := range links {
		parents[strings.ToUpper(refID(l.Dependent))] = strings.ToUpper(refID(l.Antecedent))
	}

	nodes := make([]hardware.UsbNode, 0, len(controllers)+len(entities))
	for _, c := range controllers {
		nodes = append(nodes, hardware.UsbNode{
			Key: strings.ToUpper(c.PNPDeviceID),
			Device: hardware.UsbDevice{
				Name:           c.Name,
				Vendor:         c.Manufacturer,
				VendorID:       pnpField(c.PNPDeviceID, "VEN_"),
				ProductID:      pnpField(c.PNPDeviceID, "DEV_"),
				UniqueDeviceID: c.PNPDeviceID,
			},
		})
	}
	for _, e := range entities {
		key := strings.ToUpper(e.PNPDeviceID)
		if !strings.HasPrefix(key, `USB\`) {
			continue
		}
		parent, ok := parents[key]
		if !ok {
			continue
		}
		nodes = append(nodes, hardware.UsbNode{
			Key:    key,
			Parent: parent,
			Device: hardware.UsbDevice{
				Name:           e.Name,
				Vendor:         e.Manufacturer,
				VendorID:       pnpField(e.PNPDeviceID, "VID_"),
				ProductID:      pnpField(e.PNPDeviceID, "PID_"),
				SerialNumber:   pnpSerial(e.PNPDeviceID),
				UniqueDeviceID: e.PNPDeviceID,
			},
		})
	}
	return nodes
}

// pnpSerial returns the instance segment of a USB PNP ID when it is the
// device's serial number. Windows generates instance IDs containing '&' for
// devices that report none.
func pnpSerial(pnpID string) string {
	parts := strings.Split(pnpID, `\`)
	if len(parts) < 3 || strings.Contains(parts[len(parts)-1], "&") {
		return ""
	}
	return parts[len(parts)-1]
}
