package windows

import (
	"github.com/doughall/hwinv/internal/hardware"
)

type win32Battery struct {
	Name                     string
	DeviceID                 string
	EstimatedChargeRemaining uint16
	EstimatedRunTime         uint32
	BatteryStatus            uint16
	DesignVoltage            uint64
	Chemistry                uint16
	DesignCapacity           uint32
	FullChargeCapacity       uint32
}

// EstimatedRunTime reports this value while on AC power.
const runTimeOnAC = 71582788

var batteryChemistry = map[uint16]string{
	3: "Lead Acid",
	4: "Nickel Cadmium",
	5: "Nickel Metal Hydride",
	6: "Lithium-ion",
	7: "Zinc air",
	8: "Lithium Polymer",
}

func (h *HardwareAbstractionLayer) powerSources() []hardware.PowerSource {
	out := []hardware.PowerSource{}
	var rows []win32Battery
	if !h.query("", "SELECT Name, DeviceID, EstimatedChargeRemaining, EstimatedRunTime, BatteryStatus, DesignVoltage, Chemistry, DesignCapacity, FullChargeCapacity FROM Win32_Battery", &rows) {
		return out
	}
	for _, b := range rows {
		ps := hardware.PowerSource{
			Name:                     b.Name,
			DeviceName:               b.DeviceID,
			RemainingCapacityPercent: float64(b.EstimatedChargeRemaining) / 100,
			Voltage:                  float64(b.DesignVoltage) / 1000,
			Chemistry:                batteryChemistry[b.Chemistry],
			CapacityUnits:            hardware.CapacityRelative,
			CurrentCapacity:          int(b.EstimatedChargeRemaining),
			MaxCapacity:              100,
			DesignCapacity:           100,
			TimeRemainingEstimated:   hardware.TimeRemainingUnknown,
			TimeRemainingInstant:     hardware.TimeRemainingUnknown,
		}
		if b.FullChargeCapacity > 0 && b.DesignCapacity > 0 {
			ps.CapacityUnits = hardware.CapacityMWh
			ps.MaxCapacity = int(b.FullChargeCapacity)
			ps.DesignCapacity = int(b.DesignCapacity)
			ps.CurrentCapacity = int(b.FullChargeCapacity) * int(b.EstimatedChargeRemaining) / 100
		}

		switch b.BatteryStatus {
		case 1, 4, 5:
			ps.Discharging = true
		case 6, 7, 8, 9:
			ps.Charging = true
			ps.PowerOnLine = true
		case 2, 3, 11:
			ps.PowerOnLine = true
		}
		switch {
		case ps.Charging:
		case ps.PowerOnLine || b.EstimatedRunTime == runTimeOnAC:
			ps.PowerOnLine = true
			ps.TimeRemainingEstimated = hardware.TimeRemainingUnlimited
			ps.TimeRemainingInstant = hardware.TimeRemainingUnlimited
		case b.EstimatedRunTime > 0:
			ps.TimeRemainingEstimated = float64(b.EstimatedRunTime) * 60
			ps.TimeRemainingInstant = ps.TimeRemainingEstimated
		}
		out = append(out, ps)
	}
	return out
}
