package linux

import (
	"strconv"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// soundCards reads ALSA's card list, driver version and HDA codec names
// from /proc/asound.
func (h *HardwareAbstractionLayer) soundCards() []hardware.SoundCard {
	version := strings.TrimSuffix(h.fs.readString("proc", "asound", "version"), ".")
	if i := strings.LastIndex(version, "Version "); i >= 0 {
		version = version[i+len("Version "):]
	}

	out := []hardware.SoundCard{}
	for _, card := range parseASoundCards(string(h.fs.readBytes("proc", "asound", "cards"))) {
		out = append(out, hardware.SoundCard{
			DriverVersion: version,
			Name:          card.name,
			Codec:         h.codec(card.index),
		})
	}
	return out
}

type asoundCard struct {
	index int
	name  string
}

// parseASoundCards handles entries like
//
//	 0 [PCH            ]: HDA-Intel - HDA Intel PCH
//	                      HDA Intel PCH at 0xf7f10000 irq 32
func parseASoundCards(data string) []asoundCard {
	var out []asoundCard
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		name := line
		if _, after, ok := strings.Cut(line, " - "); ok {
			name = after
		} else if _, after, ok := strings.Cut(line, "]:"); ok {
			name = after
		}
		out = append(out, asoundCard{index: index, name: strings.TrimSpace(name)})
	}
	return out
}

// codec returns the first HDA codec name of card n.
func (h *HardwareAbstractionLayer) codec(n int) string {
	dir := "card" + strconv.Itoa(n)
	for _, file := range h.fs.list("proc", "asound", dir) {
		if !strings.HasPrefix(file, "codec#") {
			continue
		}
		for _, line := range strings.Split(string(h.fs.readBytes("proc", "asound", dir, file)), "\n") {
			if after, ok := strings.CutPrefix(line, "Codec:"); ok {
				return strings.TrimSpace(after)
			}
		}
	}
	return ""
}
