package freebsd

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

func (h *HardwareAbstractionLayer) graphicsCards() []hardware.GraphicsCard {
	out, err := h.run.Run(context.Background(), "pciconf", "-lv")
	if err != nil {
		h.logger.Warn("failed to list PCI devices", slog.String("error", err.Error()))
		return []hardware.GraphicsCard{}
	}
	return parsePciconf(out)
}

// parsePciconf keeps the display-class (0x03xxxx) devices of `pciconf -lv`.
// Newer releases print vendor= and device=; older ones a combined chip=.
func parsePciconf(out []byte) []hardware.GraphicsCard {
	cards := []hardware.GraphicsCard{}
	var cur *hardware.GraphicsCard
	flush := func() {
		if cur != nil {
			if cur.Name == "" {
				cur.Name = cur.Vendor
			}
			cards = append(cards, *cur)
			cur = nil
		}
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			flush()
			attrs := map[string]string{}
			for _, f := range strings.Fields(line) {
				if k, v, ok := strings.Cut(f, "="); ok {
					attrs[k] = v
				}
			}
			if !strings.HasPrefix(attrs["class"], "0x03") {
				continue
			}
			card := hardware.GraphicsCard{DeviceID: attrs["device"]}
			if chip := attrs["chip"]; card.DeviceID == "" && len(chip) == 10 {
				card.DeviceID = chip[:6]
			}
			var version []string
			if driver, _, ok := strings.Cut(line, "@"); ok {
				version = append(version, "driver="+strings.TrimRight(driver, "0123456789"))
			}
			if rev := attrs["rev"]; rev != "" {
				version = append(version, "revision="+rev)
			}
			card.VersionInfo = strings.Join(version, ", ")
			cur = &card
			continue
		}
		if cur == nil {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), "'")
		switch strings.TrimSpace(key) {
		case "vendor":
			cur.Vendor = value
		case "device":
			cur.Name = value
		}
	}
	flush()
	return cards
}
