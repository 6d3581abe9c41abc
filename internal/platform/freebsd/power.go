package freebsd

import (
	"github.com/doughall/hwinv/internal/hardware"
)

// ACPI battery state bits from hw.acpi.battery.state.
const (
	batteryDischarging = 1 << 0
	batteryCharging    = 1 << 1
)

// powerSources reports the combined ACPI battery. The hw.acpi.battery nodes
// aggregate every unit into one percentage, so a single source is listed.
func (h *HardwareAbstractionLayer) powerSources() []hardware.PowerSource {
	out := []hardware.PowerSource{}
	if h.sysctl.Int("hw.acpi.battery.units", 0) <= 0 {
		return out
	}
	life := h.sysctl.Int("hw.acpi.battery.life", -1)
	if life < 0 {
		return out
	}
	state := h.sysctl.Int("hw.acpi.battery.state", 0)
	minutes := h.sysctl.Int("hw.acpi.battery.time", -1)

	ps := hardware.PowerSource{
		Name:                     "BAT0",
		DeviceName:               "acpi_battery",
		RemainingCapacityPercent: float64(life) / 100,
		PowerOnLine:              h.sysctl.Int("hw.acpi.acline", 0) == 1,
		Charging:                 state&batteryCharging != 0,
		Discharging:              state&batteryDischarging != 0,
		CapacityUnits:            hardware.CapacityRelative,
		CurrentCapacity:          int(life),
		MaxCapacity:              100,
		DesignCapacity:           100,
		TimeRemainingEstimated:   hardware.TimeRemainingUnknown,
		TimeRemainingInstant:     hardware.TimeRemainingUnknown,
	}
	switch {
	case ps.Charging:
	case ps.PowerOnLine:
		ps.TimeRemainingEstimated = hardware.TimeRemainingUnlimited
		ps.TimeRemainingInstant = hardware.TimeRemainingUnlimited
	case minutes >= 0:
		ps.TimeRemainingEstimated = float64(minutes) * 60
		ps.TimeRemainingInstant = ps.TimeRemainingEstimated
	}
	return append(out, ps)
}
