package linux

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// displays decodes the EDID of every connected DRM connector.
func (h *HardwareAbstractionLayer) displays() []hardware.Display {
	out := []hardware.Display{}
	connectors := h.fs.list("sys", "class", "drm")
	slices.Sort(connectors)
	for _, conn := range connectors {
		// Connectors are named cardN-<type>-<index>.
		if !strings.HasPrefix(conn, "card") || !strings.Contains(conn, "-") {
			continue
		}
		if status := h.fs.readString("sys", "class", "drm", conn, "status"); status != "" && status != "connected" {
			continue
		}
		edid := h.fs.readBytes("sys", "class", "drm", conn, "edid")
		if len(edid) == 0 {
			continue
		}
		d, err := hardware.DecodeEDID(edid)
		if err != nil {
			h.logger.Debug("skipping connector with unreadable EDID",
				slog.String("connector", conn),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, d)
	}
	return out
}
