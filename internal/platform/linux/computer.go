package linux

import (
	"log/slog"
	"strings"

	"github.com/jaypipes/ghw"

	"github.com/doughall/hwinv/internal/hardware"
)

func (h *HardwareAbstractionLayer) ghwOptions() []*ghw.WithOption {
	return []*ghw.WithOption{ghw.WithChroot(h.fs.root), ghw.WithDisableWarnings()}
}

// known drops ghw's "unknown" placeholder and DMI filler strings.
func known(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "unknown", "none", "not specified", "default string", "to be filled by o.e.m.", "0":
		return ""
	}
	return s
}

func (h *HardwareAbstractionLayer) computerSystem() *hardware.ComputerSystem {
	cs := h.dmiComputerSystem()
	if !h.ghw {
		return cs
	}

	if product, err := ghw.Product(h.ghwOptions()...); err != nil {
		h.logger.Debug("ghw product lookup failed", slog.String("error", err.Error()))
	} else {
		fill(&cs.Manufacturer, product.Vendor)
		fill(&cs.Model, product.Name)
		fill(&cs.SerialNumber, product.SerialNumber)
		fill(&cs.HardwareUUID, product.UUID)
	}
	if board, err := ghw.Baseboard(h.ghwOptions()...); err != nil {
		h.logger.Debug("ghw baseboard lookup failed", slog.String("error", err.Error()))
	} else {
		fill(&cs.Baseboard.Manufacturer, board.Vendor)
		fill(&cs.Baseboard.Model, board.Product)
		fill(&cs.Baseboard.Version, board.Version)
		fill(&cs.Baseboard.SerialNumber, board.SerialNumber)
	}
	if bios, err := ghw.BIOS(h.ghwOptions()...); err != nil {
		h.logger.Debug("ghw bios lookup failed", slog.String("error", err.Error()))
	} else {
		fill(&cs.Firmware.Manufacturer, bios.Vendor)
		fill(&cs.Firmware.Version, bios.Version)
		if cs.Firmware.ReleaseDate == "" {
			cs.Firmware.ReleaseDate = biosDate(known(bios.Date))
		}
	}
	return cs
}

// fill sets *dst from src when dst is still empty.
func fill(dst *string, src string) {
	if *dst == "" {
		*dst = known(src)
	}
}

func (h *HardwareAbstractionLayer) dmiComputerSystem() *hardware.ComputerSystem {
	dmi := func(name string) string {
		return known(h.fs.readString("sys", "class", "dmi", "id", name))
	}
	cs := &hardware.ComputerSystem{
		Manufacturer: dmi("sys_vendor"),
		Model:        dmi("product_name"),
		SerialNumber: dmi("product_serial"),
		HardwareUUID: strings.ToUpper(dmi("product_uuid")),
		Firmware: hardware.Firmware{
			Manufacturer: dmi("bios_vendor"),
			Version:      dmi("bios_version"),
			ReleaseDate:  biosDate(dmi("bios_date")),
		},
		Baseboard: hardware.Baseboard{
			Manufacturer: dmi("board_vendor"),
			Model:        dmi("board_name"),
			Version:      dmi("board_version"),
			SerialNumber: dmi("board_serial"),
		},
	}
	if version := dmi("product_version"); version != "" && cs.Model != "" {
		cs.Model += " (version: " + version + ")"
	}

	cs.Firmware.Name = "BIOS"
	if h.fs.exists("sys", "firmware", "efi") {
		cs.Firmware.Name = "UEFI"
	}
	cs.Firmware.Description = strings.TrimSpace(cs.Firmware.Manufacturer + " " + cs.Firmware.Version)

	// Device tree platforms (Raspberry Pi and most ARM boards) carry no DMI.
	if cs.Model == "" {
		cs.Model = strings.TrimRight(h.fs.readString("proc", "device-tree", "model"), "\x00")
	}
	if cs.SerialNumber == "" {
		cs.SerialNumber = strings.TrimRight(h.fs.readString("proc", "device-tree", "serial-number"), "\x00")
	}
	return cs
}

// biosDate converts the DMI MM/DD/YYYY form to YYYY-MM-DD.
func biosDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return s
	}
	return parts[2] + "-" + parts[0] + "-" + parts[1]
}
