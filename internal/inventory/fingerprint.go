package inventory

import (
	"encoding/hex"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
)

// fingerprintContext separates fingerprint hashes from any other BLAKE3 use.
const fingerprintContext = "hwinv 2026-01 hardware fingerprint v1"

// Fingerprint hashes the identity fields of a report: hardware UUID,
// system and baseboard serials, MACs of physical interfaces and disk
// serials. Live values (counters, temperatures, timestamps) and the order
// devices were enumerated in do not affect it.
func Fingerprint(r *Report) string {
	var lines []string
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, key+"="+value)
		}
	}

	cs := r.ComputerSystem
	add("uuid", strings.ToUpper(cs.HardwareUUID))
	add("serial", cs.SerialNumber)
	add("manufacturer", cs.Manufacturer)
	add("model", cs.Model)
	add("baseboard.manufacturer", cs.Baseboard.Manufacturer)
	add("baseboard.model", cs.Baseboard.Model)
	add("baseboard.serial", cs.Baseboard.SerialNumber)
	for _, nif := range r.NetworkIFs {
		if nif.Loopback || nif.Virtual {
			continue
		}
		add("mac", strings.ToLower(nif.MAC))
	}
	for _, d := range r.DiskStores {
		add("disk", d.Serial)
	}
	slices.Sort(lines)
	lines = slices.Compact(lines)

	h := blake3.NewDeriveKey(fingerprintContext)
	for _, line := range lines {
		h.Write([]byte(line + "\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
