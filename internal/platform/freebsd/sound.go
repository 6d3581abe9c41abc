package freebsd

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// soundCards parses /dev/sndstat. Its header names the sound driver build;
// each pcmN line names one device.
func (h *HardwareAbstractionLayer) soundCards() []hardware.SoundCard {
	data, err := os.ReadFile(filepath.Join(h.root, "dev", "sndstat"))
	if err != nil {
		h.logger.Warn("failed to read sndstat", slog.String("error", err.Error()))
		return []hardware.SoundCard{}
	}
	fallback := "FreeBSD " + h.sysctl.String("kern.osrelease", "")
	return parseSndstat(data, strings.TrimSpace(fallback))
}

func parseSndstat(data []byte, fallbackDriver string) []hardware.SoundCard {
	cards := []hardware.SoundCard{}
	driver := fallbackDriver
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "FreeBSD Audio Driver") {
			driver = line
			continue
		}
		if !strings.HasPrefix(line, "pcm") {
			continue
		}
		name := bracketed(line)
		if name == "" {
			continue
		}
		codec := name
		if i := strings.LastIndex(name, " ("); i > 0 {
			codec = name[:i]
		}
		cards = append(cards, hardware.SoundCard{
			DriverVersion: driver,
			Name:          name,
			Codec:         codec,
		})
	}
	return cards
}
