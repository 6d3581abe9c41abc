package windows

import (
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

type msAcpiThermalZoneTemperature struct {
	CurrentTemperature uint32
}

type win32Fan struct {
	DesiredSpeed uint64
}

type winSensors struct {
	h      *HardwareAbstractionLayer
	common *common.Sensors
}

func (h *HardwareAbstractionLayer) sensors() hardware.Sensors {
	s := &winSensors{h: h}
	s.common = common.NewSensors(h.backend, h.logger, s.fans, s.voltage)
	return s
}

// CPUTemperature reads the hottest ACPI thermal zone. The class needs
// administrator rights; gopsutil is tried when it fails.
func (s *winSensors) CPUTemperature() float64 {
	var zones []msAcpiThermalZoneTemperature
	if s.h.query(wmiNamespace, "SELECT CurrentTemperature FROM MSAcpi_ThermalZoneTemperature", &zones) {
		best := 0.0
		for _, z := range zones {
			// Tenths of a kelvin.
			if c := float64(z.CurrentTemperature)/10 - 273.15; c > 0 {
				best = max(best, c)
			}
		}
		if best > 0 {
			return best
		}
	}
	return s.common.CPUTemperature()
}

func (s *winSensors) FanSpeeds() []int    { return s.common.FanSpeeds() }
func (s *winSensors) CPUVoltage() float64 { return s.common.CPUVoltage() }

func (s *winSensors) fans() []int {
	var rows []win32Fan
	if !s.h.query("", "SELECT DesiredSpeed FROM Win32_Fan", &rows) {
		return nil
	}
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, int(r.DesiredSpeed))
	}
	return out
}

// voltage decodes Win32_Processor.CurrentVoltage: with bit 7 set the low
// seven bits are tenths of a volt.
func (s *winSensors) voltage() float64 {
	sockets := s.h.processors()
	if len(sockets) == 0 {
		return 0
	}
	v := sockets[0].CurrentVoltage
	if v&0x80 == 0 {
		return 0
	}
	return float64(v&0x7F) / 10
}
