package linux

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/jaypipes/ghw"

	"github.com/doughall/hwinv/internal/hardware"
)

// graphicsCards enumerates DRM cards from sysfs and, with ghw enabled, names
// them from the PCI database.
func (h *HardwareAbstractionLayer) graphicsCards() []hardware.GraphicsCard {
	cards, slots := h.drmCards()
	if h.ghw {
		h.mergeGHWGraphics(cards, slots)
	}
	return cards
}

// drmCards returns one card per DRM cardN device, plus the PCI slot of each.
func (h *HardwareAbstractionLayer) drmCards() ([]hardware.GraphicsCard, []string) {
	cards := []hardware.GraphicsCard{}
	var slots []string
	names := h.fs.list("sys", "class", "drm")
	slices.Sort(names)
	for _, name := range names {
		if !isCardDevice(name) {
			continue
		}
		ev := h.fs.uevent("sys", "class", "drm", name, "device", "uevent")
		vendorID, deviceID, _ := strings.Cut(ev["PCI_ID"], ":")
		driver := ev["DRIVER"]
		if driver == "" {
			driver = h.fs.readLinkBase("sys", "class", "drm", name, "device", "driver")
		}

		card := hardware.GraphicsCard{
			Vendor: pciVendorName(vendorID),
		}
		if deviceID != "" {
			card.DeviceID = "0x" + strings.ToLower(deviceID)
		}
		card.Name = strings.TrimSpace(card.Vendor + " " + driver)
		if card.Name == "" {
			card.Name = name
		}
		var version []string
		if driver != "" {
			version = append(version, "driver="+driver)
		}
		if rev := h.fs.readString("sys", "class", "drm", name, "device", "revision"); rev != "" {
			version = append(version, "revision="+rev)
		}
		card.VersionInfo = strings.Join(version, ", ")
		if vram, ok := h.fs.readInt64("sys", "class", "drm", name, "device", "mem_info_vram_total"); ok && vram > 0 {
			card.VRAM = uint64(vram)
		}
		cards = append(cards, card)
		slots = append(slots, ev["PCI_SLOT_NAME"])
	}
	return cards, slots
}

func (h *HardwareAbstractionLayer) mergeGHWGraphics(cards []hardware.GraphicsCard, slots []string) {
	info, err := ghw.GPU(h.ghwOptions()...)
	if err != nil {
		h.logger.Debug("ghw gpu lookup failed", slog.String("error", err.Error()))
		return
	}
	for _, gc := range info.GraphicsCards {
		if gc == nil || gc.DeviceInfo == nil {
			continue
		}
		i := slices.Index(slots, gc.Address)
		if i < 0 {
			continue
		}
		if v := gc.DeviceInfo.Vendor; v != nil && known(v.Name) != "" {
			cards[i].Vendor = v.Name
		}
		if p := gc.DeviceInfo.Product; p != nil && known(p.Name) != "" {
			cards[i].Name = p.Name
		}
	}
}
