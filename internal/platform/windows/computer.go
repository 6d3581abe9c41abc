package windows

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type win32ComputerSystemProduct struct {
	Vendor            string
	Name              string
	Version           string
	IdentifyingNumber string
	UUID              string
}

type win32BIOS struct {
	Manufacturer      string
	Name              string
	Description       string
	SMBIOSBIOSVersion string
	ReleaseDate       string
}

type win32BaseBoard struct {
	Manufacturer string
	Product      string
	Version      string
	SerialNumber string
}

func (h *HardwareAbstractionLayer) computerSystem() *hardware.ComputerSystem {
	cs := &hardware.ComputerSystem{}

	var products []win32ComputerSystemProduct
	if h.query("", "SELECT Vendor, Name, Version, IdentifyingNumber, UUID FROM Win32_ComputerSystemProduct", &products) && len(products) > 0 {
		p := products[0]
		cs.Manufacturer = known(p.Vendor)
		cs.Model = known(p.Name)
		if v := known(p.Version); v != "" && cs.Model != "" {
			cs.Model += " (version: " + v + ")"
		}
		cs.SerialNumber = known(p.IdentifyingNumber)
		cs.HardwareUUID = strings.ToUpper(known(p.UUID))
	}

	var bios []win32BIOS
	if h.query("", "SELECT Manufacturer, Name, Description, SMBIOSBIOSVersion, ReleaseDate FROM Win32_BIOS", &bios) && len(bios) > 0 {
		b := bios[0]
		cs.Firmware = hardware.Firmware{
			Manufacturer: known(b.Manufacturer),
			Name:         known(b.Name),
			Description:  known(b.Description),
			Version:      known(b.SMBIOSBIOSVersion),
			ReleaseDate:  cimDate(b.ReleaseDate),
		}
	}

	var boards []win32BaseBoard
	if h.query("", "SELECT Manufacturer, Product, Version, SerialNumber FROM Win32_BaseBoard", &boards) && len(boards) > 0 {
		b := boards[0]
		cs.Baseboard = hardware.Baseboard{
			Manufacturer: known(b.Manufacturer),
			Model:        known(b.Product),
			Version:      known(b.Version),
			SerialNumber: known(b.SerialNumber),
		}
	}
	return cs
}

// known drops SMBIOS placeholder strings.
func known(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unknown", "not specified", "default string", "to be filled by o.e.m.", "system serial number", "0":
		return ""
	}
	return strings.TrimSpace(s)
}

// cimDate converts a CIM_DATETIME (yyyymmddHHMMSS.mmmmmmsUUU) to YYYY-MM-DD.
func cimDate(s string) string {
	if len(s) < 8 {
		return ""
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:8]
}
