package mac

import (
	"github.com/doughall/hwinv/internal/hardware"
)

type powerItem struct {
	Name   string `json:"_name"`
	Charge *struct {
		IsCharging    string `json:"sppower_battery_is_charging"`
		StateOfCharge number `json:"sppower_battery_state_of_charge"`
	} `json:"sppower_battery_charge_info"`
	Health *struct {
		CycleCount  number `json:"sppower_battery_cycle_count"`
		MaxCapacity number `json:"sppower_battery_health_maximum_capacity"`
	} `json:"sppower_battery_health_info"`
	Model *struct {
		DeviceName   string `json:"sppower_battery_device_name"`
		Manufacturer string `json:"sppower_battery_manufacturer"`
		SerialNumber string `json:"sppower_battery_serial_number"`
	} `json:"sppower_battery_model_info"`
	ChargerConnected string `json:"sppower_battery_charger_connected"`
}

// powerSources reports the internal battery. system_profiler exposes charge
// as a percentage only, so capacities are RELATIVE.
func (h *HardwareAbstractionLayer) powerSources() []hardware.PowerSource {
	out := []hardware.PowerSource{}
	var items []powerItem
	if !h.profile("SPPowerDataType", &items) {
		return out
	}

	var battery *powerItem
	online := false
	for i := range items {
		switch items[i].Name {
		case "spbattery_information":
			battery = &items[i]
		case "sppower_ac_charger_information":
			online = yes(items[i].ChargerConnected)
		}
	}
	if battery == nil || battery.Charge == nil {
		return out
	}

	ps := hardware.PowerSource{
		Name:                   "InternalBattery-0",
		DeviceName:             "InternalBattery-0",
		PowerOnLine:            online,
		Charging:               yes(battery.Charge.IsCharging),
		CapacityUnits:          hardware.CapacityRelative,
		CurrentCapacity:        int(battery.Charge.StateOfCharge),
		MaxCapacity:            100,
		DesignCapacity:         100,
		TimeRemainingEstimated: hardware.TimeRemainingUnknown,
		TimeRemainingInstant:   hardware.TimeRemainingUnknown,
		Chemistry:              "Lithium Ion",
		Manufacturer:           apple,
	}
	ps.Discharging = !online && !ps.Charging
	ps.RemainingCapacityPercent = float64(battery.Charge.StateOfCharge) / 100
	if online && !ps.Charging {
		ps.TimeRemainingEstimated = hardware.TimeRemainingUnlimited
		ps.TimeRemainingInstant = hardware.TimeRemainingUnlimited
	}
	if hl := battery.Health; hl != nil {
		ps.CycleCount = int(hl.CycleCount)
		if hl.MaxCapacity > 0 {
			ps.MaxCapacity = int(hl.MaxCapacity)
		}
	}
	if m := battery.Model; m != nil {
		if m.DeviceName != "" {
			ps.DeviceName = m.DeviceName
		}
		if m.Manufacturer != "" {
			ps.Manufacturer = m.Manufacturer
		}
		ps.SerialNumber = m.SerialNumber
	}
	return append(out, ps)
}
