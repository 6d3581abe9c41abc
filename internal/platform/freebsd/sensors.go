package freebsd

import (
	"strconv"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// deciKelvin converts a sysctl IK value (tenths of a kelvin) to °C.
func deciKelvin(v int32) float64 {
	return float64(v)/10 - 273.15
}

type bsdSensors struct {
	h      *HardwareAbstractionLayer
	common *common.Sensors
}

func (h *HardwareAbstractionLayer) sensors() hardware.Sensors {
	return &bsdSensors{h: h, common: common.NewSensors(h.backend, h.logger, nil, nil)}
}

// CPUTemperature reads the coretemp/amdtemp nodes of each CPU, then the
// first ACPI thermal zone, then gopsutil.
func (s *bsdSensors) CPUTemperature() float64 {
	best := 0.0
	ncpu := int(s.h.sysctl.Int("hw.ncpu", 1))
	for i := range max(ncpu, 1) {
		if v := s.h.sysctl.Int("dev.cpu."+strconv.Itoa(i)+".temperature", 0); v > 0 {
			best = max(best, deciKelvin(v))
		}
	}
	if best > 0 {
		return best
	}
	if v := s.h.sysctl.Int("hw.acpi.thermal.tz0.temperature", 0); v > 0 {
		return deciKelvin(v)
	}
	return s.common.CPUTemperature()
}

func (s *bsdSensors) FanSpeeds() []int    { return s.common.FanSpeeds() }
func (s *bsdSensors) CPUVoltage() float64 { return s.common.CPUVoltage() }
