package linux

import (
	"slices"
	"strconv"

	"github.com/doughall/hwinv/internal/hardware"
)

// powerSources reads batteries from /sys/class/power_supply. Values there
// are in micro-units (µWh, µAh, µV, µA, µW); temperature is in tenths of °C.
func (h *HardwareAbstractionLayer) powerSources() []hardware.PowerSource {
	supplies := h.fs.list("sys", "class", "power_supply")
	slices.Sort(supplies)

	online := false
	for _, name := range supplies {
		ev := h.fs.uevent("sys", "class", "power_supply", name, "uevent")
		if ev["POWER_SUPPLY_TYPE"] == "Mains" && ev["POWER_SUPPLY_ONLINE"] == "1" {
			online = true
		}
	}

	out := []hardware.PowerSource{}
	for _, name := range supplies {
		ev := h.fs.uevent("sys", "class", "power_supply", name, "uevent")
		if ev["POWER_SUPPLY_TYPE"] != "Battery" || ev["POWER_SUPPLY_PRESENT"] == "0" {
			continue
		}
		num := func(key string) int64 {
			n, _ := strconv.ParseInt(ev["POWER_SUPPLY_"+key], 10, 64)
			return n
		}

		ps := hardware.PowerSource{
			Name:                   name,
			DeviceName:             ev["POWER_SUPPLY_MODEL_NAME"],
			TimeRemainingEstimated: hardware.TimeRemainingUnknown,
			TimeRemainingInstant:   hardware.TimeRemainingUnknown,
			PowerOnLine:            online,
			Charging:               ev["POWER_SUPPLY_STATUS"] == "Charging",
			Discharging:            ev["POWER_SUPPLY_STATUS"] == "Discharging",
			CycleCount:             int(num("CYCLE_COUNT")),
			Chemistry:              ev["POWER_SUPPLY_TECHNOLOGY"],
			Manufacturer:           ev["POWER_SUPPLY_MANUFACTURER"],
			SerialNumber:           ev["POWER_SUPPLY_SERIAL_NUMBER"],
			Voltage:                float64(num("VOLTAGE_NOW")) / 1e6,
			Amperage:               float64(num("CURRENT_NOW")) / 1e3,
			Temperature:            float64(num("TEMP")) / 10,
		}
		if ps.DeviceName == "" {
			ps.DeviceName = name
		}

		switch {
		case num("ENERGY_FULL") > 0:
			ps.CapacityUnits = hardware.CapacityMWh
			ps.CurrentCapacity = int(num("ENERGY_NOW") / 1000)
			ps.MaxCapacity = int(num("ENERGY_FULL") / 1000)
			ps.DesignCapacity = int(num("ENERGY_FULL_DESIGN") / 1000)
		case num("CHARGE_FULL") > 0:
			ps.CapacityUnits = hardware.CapacityMAh
			ps.CurrentCapacity = int(num("CHARGE_NOW") / 1000)
			ps.MaxCapacity = int(num("CHARGE_FULL") / 1000)
			ps.DesignCapacity = int(num("CHARGE_FULL_DESIGN") / 1000)
		default:
			ps.CapacityUnits = hardware.CapacityRelative
			ps.CurrentCapacity = int(num("CAPACITY"))
			ps.MaxCapacity = 100
			ps.DesignCapacity = 100
		}
		if ps.MaxCapacity > 0 {
			ps.RemainingCapacityPercent = min(float64(ps.CurrentCapacity)/float64(ps.MaxCapacity), 1)
		} else if c := num("CAPACITY"); c > 0 {
			ps.RemainingCapacityPercent = float64(c) / 100
		}

		// Power in mW; derive from V*I when the driver reports no POWER_NOW.
		power := float64(num("POWER_NOW")) / 1000
		if power == 0 {
			power = ps.Voltage * ps.Amperage
		}
		ps.PowerUsageRate = power
		if ps.Discharging {
			ps.PowerUsageRate = -power
		}

		switch {
		case ps.Discharging && power > 0 && ps.CapacityUnits == hardware.CapacityMWh:
			ps.TimeRemainingInstant = float64(ps.CurrentCapacity) / power * 3600
		case ps.Discharging && ps.Amperage > 0 && ps.CapacityUnits == hardware.CapacityMAh:
			ps.TimeRemainingInstant = float64(ps.CurrentCapacity) / ps.Amperage * 3600
		case online && !ps.Charging:
			ps.TimeRemainingInstant = hardware.TimeRemainingUnlimited
		}
		ps.TimeRemainingEstimated = ps.TimeRemainingInstant
		out = append(out, ps)
	}
	return out
}
