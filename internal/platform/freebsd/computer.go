package freebsd

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/doughall/hwinv/internal/hardware"
)

// kenv returns the kernel environment as a map. The loader copies the SMBIOS
// strings into it under smbios.*.
func (h *HardwareAbstractionLayer) kenv() map[string]string {
	out, err := h.run.Run(context.Background(), "kenv")
	if err != nil {
		h.logger.Warn("failed to read kernel environment", slog.String("error", err.Error()))
		return nil
	}
	return parseKenv(out)
}

// parseKenv parses lines of the form key="value".
func parseKenv(out []byte) map[string]string {
	env := map[string]string{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		if unq, err := strconv.Unquote(value); err == nil {
			value = unq
		}
		env[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return env
}

func (h *HardwareAbstractionLayer) computerSystem() *hardware.ComputerSystem {
	env := h.kenv()
	get := func(key string) string { return known(env[key]) }
	return &hardware.ComputerSystem{
		Manufacturer: get("smbios.system.maker"),
		Model:        joinVersion(get("smbios.system.product"), get("smbios.system.version")),
		SerialNumber: get("smbios.system.serial"),
		HardwareUUID: strings.ToUpper(get("smbios.system.uuid")),
		Firmware: hardware.Firmware{
			Manufacturer: get("smbios.bios.vendor"),
			Name:         "BIOS",
			Description:  strings.TrimSpace(get("smbios.bios.vendor") + " BIOS"),
			Version:      get("smbios.bios.version"),
			ReleaseDate:  isoDate(get("smbios.bios.reldate")),
		},
		Baseboard: hardware.Baseboard{
			Manufacturer: get("smbios.planar.maker"),
			Model:        get("smbios.planar.product"),
			Version:      get("smbios.planar.version"),
			SerialNumber: get("smbios.planar.serial"),
		},
	}
}

// known drops SMBIOS placeholder strings.
func known(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unknown", "not specified", "default string", "to be filled by o.e.m.", "system serial number", "0":
		return ""
	}
	return strings.TrimSpace(s)
}

func joinVersion(model, version string) string {
	if model == "" || version == "" {
		return model
	}
	return model + " (version: " + version + ")"
}

// isoDate converts the SMBIOS MM/DD/YYYY date to YYYY-MM-DD.
func isoDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return s
	}
	return parts[2] + "-" + parts[0] + "-" + parts[1]
}
