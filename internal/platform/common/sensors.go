package common

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/doughall/hwinv/internal/hardware"
)

// cpuSensorKeys are gopsutil sensor keys that carry package or die
// temperature, in preference order.
var cpuSensorKeys = []string{
	"coretemp_package_id_0",
	"k10temp_tctl",
	"k10temp_tdie",
	"cpu_thermal",
	"tc0p", // SMC CPU proximity on Intel Macs
	"cpu",
	"coretemp",
	"k10temp",
	"acpitz",
}

// Sensors is a Sensors backed by gopsutil temperatures. gopsutil does not
// read fans or voltages, so platforms supply those through the hooks.
type Sensors struct {
	backend Backend
	logger  *slog.Logger
	fans    func() []int
	voltage func() float64
}

// NewSensors creates the temperature reader. fans and voltage may be nil.
func NewSensors(backend Backend, logger *slog.Logger, fans func() []int, voltage func() float64) *Sensors {
	return &Sensors{backend: backend, logger: logger, fans: fans, voltage: voltage}
}

// CPUTemperature returns the hottest preferred CPU sensor in °C, or 0.
func (s *Sensors) CPUTemperature() float64 {
	temps, err := s.backend.Temperatures(context.Background())
	if err != nil && len(temps) == 0 {
		s.logger.Warn("failed to read temperatures", slog.String("error", err.Error()))
		return 0
	}
	return PickCPUTemperature(temps)
}

func (s *Sensors) FanSpeeds() []int {
	if s.fans == nil {
		return []int{}
	}
	return hardware.NonNil(s.fans())
}

func (s *Sensors) CPUVoltage() float64 {
	if s.voltage == nil {
		return 0
	}
	return s.voltage()
}

// PickCPUTemperature selects the CPU reading from a sensor list. The first
// key prefix in cpuSensorKeys with a plausible reading wins; among sensors
// sharing that prefix the highest value is used.
func PickCPUTemperature(temps []sensors.TemperatureStat) float64 {
	for _, key := range cpuSensorKeys {
		best := 0.0
		for _, t := range temps {
			if !strings.HasPrefix(strings.ToLower(t.SensorKey), key) {
				continue
			}
			if t.Temperature > 0 && t.Temperature < 150 && t.Temperature > best {
				best = t.Temperature
			}
		}
		if best > 0 {
			return best
		}
	}
	return 0
}
