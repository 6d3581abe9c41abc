package freebsd

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// usbNodes parses `usbconfig dump_device_desc`. usbconfig does not report
// the port tree, so every device hangs off its bus's root hub (ugenB.1).
func (h *HardwareAbstractionLayer) usbNodes() []hardware.UsbNode {
	out, err := h.run.Run(context.Background(), "usbconfig", "dump_device_desc")
	if err != nil {
		h.logger.Warn("failed to list USB devices", slog.String("error", err.Error()))
		return nil
	}
	return parseUsbconfig(out)
}

func parseUsbconfig(out []byte) []hardware.UsbNode {
	var nodes []hardware.UsbNode
	var cur *hardware.UsbNode
	flush := func() {
		if cur == nil {
			return
		}
		d := &cur.Device
		d.UniqueDeviceID = d.VendorID + ":" + d.ProductID
		if d.SerialNumber != "" {
			d.UniqueDeviceID += ":" + d.SerialNumber
		} else {
			d.UniqueDeviceID += ":" + cur.Key
		}
		nodes = append(nodes, *cur)
		cur = nil
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "ugen") {
			flush()
			key, rest, _ := strings.Cut(line, ":")
			cur = &hardware.UsbNode{Key: key, Parent: usbRootHub(key)}
			cur.Device.Name = bracketed(rest)
			continue
		}
		if cur == nil {
			continue
		}
		field, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(field) {
		case "idVendor":
			cur.Device.VendorID = hexID(value)
		case "idProduct":
			cur.Device.ProductID = hexID(value)
		case "iManufacturer":
			cur.Device.Vendor = descString(value)
		case "iProduct":
			if name := descString(value); name != "" {
				cur.Device.Name = name
			}
		case "iSerialNumber":
			cur.Device.SerialNumber = descString(value)
		}
	}
	flush()
	return nodes
}

// usbRootHub returns the root hub key for ugenB.A, or "" for the hub itself.
func usbRootHub(key string) string {
	bus, addr, ok := strings.Cut(key, ".")
	if !ok || addr == "1" {
		return ""
	}
	return bus + ".1"
}

// bracketed returns the text between the first < and the following >.
func bracketed(s string) string {
	_, rest, ok := strings.Cut(s, "<")
	if !ok {
		return ""
	}
	text, _, _ := strings.Cut(rest, ">")
	return strings.TrimSpace(text)
}

// descString extracts the string of "0x0002  <XHCI root HUB>". usbconfig
// prints "<no string>" for absent descriptors.
func descString(value string) string {
	s := bracketed(value)
	if s == "no string" {
		return ""
	}
	return s
}

func hexID(value string) string {
	id := strings.Fields(value)
	if len(id) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(id[0], "0x"))
}
