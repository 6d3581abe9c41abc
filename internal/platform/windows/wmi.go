package windows

import (
	"log/slog"
	"regexp"
	"strings"
)

// WMI namespaces other than the default root\CIMV2.
const (
	storageNamespace = `root\Microsoft\Windows\Storage`
	wmiNamespace     = `root\WMI`
)

// Querier runs a WQL query and decodes the rows into dst, a pointer to a
// slice of structs whose field names match the class properties. An empty
// namespace means root\CIMV2.
type Querier interface {
	Query(namespace, query string, dst any) error
}

// query runs q and logs failures. Missing classes are common (no battery
// driver, no Storage Spaces), so callers treat false as "nothing to report".
func (h *HardwareAbstractionLayer) query(namespace, q string, dst any) bool {
	if err := h.wmi.Query(namespace, q, dst); err != nil {
		h.logger.Warn("WMI query failed",
			slog.String("query", q),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

var refKey = regexp.MustCompile(`(?:DeviceID|ObjectId)="((?:[^"\\]|\\.)*)"`)

// refID extracts the key value from a WMI object path such as
// \\HOST\root\cimv2:Win32_LogicalDisk.DeviceID="C:". Escaped backslashes
// and quotes are unescaped.
func refID(path string) string {
	m := refKey.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return strings.NewReplacer(`\\`, `\`, `\"`, `"`).Replace(m[1])
}

// pnpField returns the value following prefix in a PNP device ID segment
// such as VEN_8086&DEV_5916, lower-cased.
func pnpField(pnpID, prefix string) string {
	for _, part := range strings.FieldsFunc(strings.ToUpper(pnpID), func(r rune) bool { return r == '\\' || r == '&' }) {
		if v, ok := strings.CutPrefix(part, prefix); ok {
			return strings.ToLower(v)
		}
	}
	return ""
}
