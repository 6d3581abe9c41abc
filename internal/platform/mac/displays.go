package mac

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

type gpuItem struct {
	Name       string        `json:"_name"`
	Model      string        `json:"sppci_model"`
	Vendor     string        `json:"spdisplays_vendor"`
	DeviceID   string        `json:"spdisplays_device-id"`
	RevisionID string        `json:"spdisplays_revision-id"`
	VRAM       string        `json:"spdisplays_vram"`
	VRAMShared string        `json:"spdisplays_vram_shared"`
	Cores      string        `json:"sppci_cores"`
	Metal      string        `json:"spdisplays_mtlgpufamilysupport"`
	Displays   []displayItem `json:"spdisplays_ndrvs"`
}

type displayItem struct {
	Name      string `json:"_name"`
	VendorID  string `json:"_spdisplays_display-vendor-id"`
	ProductID string `json:"_spdisplays_display-product-id"`
	Serial    string `json:"_spdisplays_display-serial-number"`
	Week      string `json:"_spdisplays_display-week"`
	Year      string `json:"_spdisplays_display-year"`
}

func (h *HardwareAbstractionLayer) gpus() []gpuItem {
	var items []gpuItem
	h.profile("SPDisplaysDataType", &items)
	return items
}

// displays lists attached monitors. system_profiler does not expose the raw
// EDID, so the identity fields are rebuilt from the decoded values it does
// report and Display.EDID stays empty.
func (h *HardwareAbstractionLayer) displays() []hardware.Display {
	out := []hardware.Display{}
	for _, gpu := range h.gpus() {
		for _, d := range gpu.Displays {
			display := hardware.Display{Name: d.Name}
			if v, err := strconv.ParseUint(strings.TrimPrefix(d.VendorID, "0x"), 16, 16); err == nil {
				display.ManufacturerID = hardware.PNPManufacturer(uint16(v))
			}
			if p, err := strconv.ParseUint(strings.TrimPrefix(d.ProductID, "0x"), 16, 16); err == nil {
				display.ProductCode = fmt.Sprintf("%04X", p)
			}
			if s, err := strconv.ParseUint(strings.TrimPrefix(d.Serial, "0x"), 16, 32); err == nil && s != 0 {
				display.SerialNumber = fmt.Sprintf("%08X", s)
			}
			display.Week, _ = strconv.Atoi(d.Week)
			display.Year, _ = strconv.Atoi(d.Year)
			if display.Name == "" {
				display.Name = display.ManufacturerID + " " + display.ProductCode
			}
			out = append(out, display)
		}
	}
	return out
}

func (h *HardwareAbstractionLayer) graphicsCards() []hardware.GraphicsCard {
	out := []hardware.GraphicsCard{}
	for _, gpu := range h.gpus() {
		card := hardware.GraphicsCard{
			Name:     gpu.Model,
			DeviceID: gpu.DeviceID,
			Vendor:   stripPrefix(gpu.Vendor, "sppci_vendor_"),
			VRAM:     parseSize(gpu.VRAM),
		}
		if card.Name == "" {
			card.Name = gpu.Name
		}
		if card.VRAM == 0 {
			card.VRAM = parseSize(gpu.VRAMShared)
		}
		if card.Vendor == "" && strings.HasPrefix(card.Name, "Apple") {
			card.Vendor = "Apple"
		}
		var version []string
		if gpu.RevisionID != "" {
			version = append(version, "revision="+gpu.RevisionID)
		}
		if gpu.Cores != "" {
			version = append(version, "cores="+gpu.Cores)
		}
		if gpu.Metal != "" {
			version = append(version, "metal="+stripPrefix(gpu.Metal, "spdisplays_"))
		}
		card.VersionInfo = strings.Join(version, ", ")
		out = append(out, card)
	}
	return out
}
