package linux

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// fsys reads sysfs and procfs files below a root, so providers can run
// against a synthetic tree.
type fsys struct {
	root string
}

func (f fsys) path(elem ...string) string {
	return filepath.Join(append([]string{f.root}, elem...)...)
}

// readString returns the trimmed content of a single-value file, or "".
func (f fsys) readString(elem ...string) string {
	data, err := os.ReadFile(f.path(elem...))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// readInt64 parses a decimal file. The second result is false if the file
// is missing or not a number.
func (f fsys) readInt64(elem ...string) (int64, bool) {
	value := f.readString(elem...)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f fsys) readBytes(elem ...string) []byte {
	data, err := os.ReadFile(f.path(elem...))
	if err != nil {
		return nil
	}
	return data
}

// list returns the entry names of a directory, or nil.
func (f fsys) list(elem ...string) []string {
	entries, err := os.ReadDir(f.path(elem...))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f fsys) exists(elem ...string) bool {
	_, err := os.Stat(f.path(elem...))
	return err == nil
}

// readLinkBase returns the last element of a symlink target, or "".
func (f fsys) readLinkBase(elem ...string) string {
	link, err := os.Readlink(f.path(elem...))
	if err != nil {
		return ""
	}
	return filepath.Base(link)
}

// uevent parses KEY=value lines.
func (f fsys) uevent(elem ...string) map[string]string {
	out := map[string]string{}
	file, err := os.Open(f.path(elem...))
	if err != nil {
		return out
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if ok {
			out[key] = value
		}
	}
	return out
}

// pciVendorName maps a PCI vendor ID to a human-readable name.
func pciVendorName(vendorID string) string {
	switch strings.ToLower(strings.TrimPrefix(vendorID, "0x")) {
	case "1002":
		return "AMD"
	case "10de":
		return "NVIDIA"
	case "8086":
		return "Intel"
	case "1af4":
		return "Red Hat, Inc."
	case "15ad":
		return "VMware"
	case "1234":
		return "QEMU"
	case "":
		return ""
	default:
		return fmt.Sprintf("0x%s", strings.TrimPrefix(vendorID, "0x"))
	}
}

// isCardDevice is true for DRM card names (card0) but not connectors
// (card0-DP-1) or render nodes (renderD128).
func isCardDevice(name string) bool {
	suffix, ok := strings.CutPrefix(name, "card")
	if !ok || suffix == "" {
		return false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
