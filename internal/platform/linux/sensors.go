package linux

import (
	"slices"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/platform/common"
)

// cpuHwmonNames are hwmon driver names that report CPU package or die
// temperature, in preference order.
var cpuHwmonNames = []string{"coretemp", "k10temp", "zenpower", "cpu_thermal", "soc_thermal", "acpitz"}

// linuxSensors reads hwmon first, then gopsutil, then the thermal zones.
type linuxSensors struct {
	h      *HardwareAbstractionLayer
	common *common.Sensors
}

func (h *HardwareAbstractionLayer) sensors() hardware.Sensors {
	s := &linuxSensors{h: h}
	s.common = common.NewSensors(h.backend, h.logger, s.fans, s.voltage)
	return s
}

func (s *linuxSensors) FanSpeeds() []int    { return s.common.FanSpeeds() }
func (s *linuxSensors) CPUVoltage() float64 { return s.common.CPUVoltage() }

func (s *linuxSensors) CPUTemperature() float64 {
	if t := s.hwmonTemperature(); t > 0 {
		return t
	}
	if s.h.backend.Temperatures != nil {
		if t := s.common.CPUTemperature(); t > 0 {
			return t
		}
	}
	return s.thermalZoneTemperature()
}

// hwmons returns hwmon directory names keyed by driver name.
func (s *linuxSensors) hwmons() map[string][]string {
	out := map[string][]string{}
	for _, dir := range s.h.fs.list("sys", "class", "hwmon") {
		name := s.h.fs.readString("sys", "class", "hwmon", dir, "name")
		out[name] = append(out[name], dir)
	}
	return out
}

func (s *linuxSensors) hwmonTemperature() float64 {
	mons := s.hwmons()
	for _, driver := range cpuHwmonNames {
		best := 0.0
		for _, dir := range mons[driver] {
			for _, file := range s.h.fs.list("sys", "class", "hwmon", dir) {
				if !strings.HasPrefix(file, "temp") || !strings.HasSuffix(file, "_input") {
					continue
				}
				milli, ok := s.h.fs.readInt64("sys", "class", "hwmon", dir, file)
				if ok && milli > 0 {
					best = max(best, float64(milli)/1000)
				}
			}
		}
		if best > 0 {
			return best
		}
	}
	return 0
}

func (s *linuxSensors) thermalZoneTemperature() float64 {
	best := 0.0
	for _, zone := range s.h.fs.list("sys", "class", "thermal") {
		if !strings.HasPrefix(zone, "thermal_zone") {
			continue
		}
		milli, ok := s.h.fs.readInt64("sys", "class", "thermal", zone, "temp")
		if ok && milli > 0 {
			best = max(best, float64(milli)/1000)
		}
	}
	return best
}

// fans lists every hwmon fan*_input in RPM.
func (s *linuxSensors) fans() []int {
	var out []int
	dirs := s.h.fs.list("sys", "class", "hwmon")
	slices.Sort(dirs)
	for _, dir := range dirs {
		files := s.h.fs.list("sys", "class", "hwmon", dir)
		slices.Sort(files)
		for _, file := range files {
			if !strings.HasPrefix(file, "fan") || !strings.HasSuffix(file, "_input") {
				continue
			}
			if rpm, ok := s.h.fs.readInt64("sys", "class", "hwmon", dir, file); ok {
				out = append(out, int(rpm))
			}
		}
	}
	return out
}

// voltage reads in0/in1 (millivolts) from the first hwmon exposing them.
func (s *linuxSensors) voltage() float64 {
	dirs := s.h.fs.list("sys", "class", "hwmon")
	slices.Sort(dirs)
	for _, dir := range dirs {
		for _, file := range []string{"in0_input", "in1_input"} {
			if mv, ok := s.h.fs.readInt64("sys", "class", "hwmon", dir, file); ok && mv > 0 {
				return float64(mv) / 1000
			}
		}
	}
	return 0
}
