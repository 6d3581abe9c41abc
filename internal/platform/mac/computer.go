package mac

import (
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

const apple = "Apple Inc."

type hardwareOverview struct {
	MachineName    string `json:"machine_name"`
	MachineModel   string `json:"machine_model"`
	ModelNumber    string `json:"model_number"`
	SerialNumber   string `json:"serial_number"`
	PlatformUUID   string `json:"platform_UUID"`
	BootROMVersion string `json:"boot_rom_version"`
	SMCVersion     string `json:"SMC_version_system"`
	ChipType       string `json:"chip_type"`
}

func (h *HardwareAbstractionLayer) computerSystem() *hardware.ComputerSystem {
	cs := &hardware.ComputerSystem{
		Manufacturer: apple,
		Model:        h.sysctl.String("hw.model", ""),
		Firmware:     hardware.Firmware{Manufacturer: apple},
		Baseboard:    hardware.Baseboard{Manufacturer: apple},
	}

	var items []hardwareOverview
	if !h.profile("SPHardwareDataType", &items) || len(items) == 0 {
		return cs
	}
	hw := items[0]

	modelID := hw.MachineModel
	if modelID == "" {
		modelID = cs.Model
	}
	switch {
	case hw.MachineName != "" && modelID != "":
		cs.Model = hw.MachineName + " (" + modelID + ")"
	case hw.MachineName != "":
		cs.Model = hw.MachineName
	}
	cs.SerialNumber = hw.SerialNumber
	cs.HardwareUUID = strings.ToUpper(hw.PlatformUUID)

	cs.Firmware.Version = hw.BootROMVersion
	if hw.ChipType != "" {
		cs.Firmware.Name = "iBoot"
		cs.Firmware.Description = "Apple silicon system firmware"
	} else {
		cs.Firmware.Name = "EFI"
		cs.Firmware.Description = "Boot ROM"
	}

	cs.Baseboard.Model = modelID
	cs.Baseboard.Version = hw.SMCVersion
	cs.Baseboard.SerialNumber = hw.SerialNumber
	if hw.ModelNumber != "" {
		cs.Baseboard.Model = hw.ModelNumber
	}
	return cs
}
