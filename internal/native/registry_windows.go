//go:build windows

package native

import (
	"encoding/binary"
	"strings"
	"syscall"
	"unicode/utf16"

	"golang.org/x/sys/windows/registry"
)

var registryRoots = map[string]registry.Key{
	"HKLM":               registry.LOCAL_MACHINE,
	"HKEY_LOCAL_MACHINE": registry.LOCAL_MACHINE,
	"HKCU":               registry.CURRENT_USER,
	"HKEY_CURRENT_USER":  registry.CURRENT_USER,
	"HKCR":               registry.CLASSES_ROOT,
	"HKU":                registry.USERS,
}

// NewRegistrySource returns a Source that reads registry values named
// ROOT\path\to\key\ValueName. REG_SZ values are returned as NUL-terminated
// UTF-8, DWORD and QWORD values as host byte order integers.
func NewRegistrySource() Source {
	return ReaderFunc(readRegistryValue)
}

func readRegistryValue(name string) ([]byte, error) {
	rootName, rest, ok := strings.Cut(name, `\`)
	if !ok {
		return nil, syscall.EINVAL
	}
	root, ok := registryRoots[strings.ToUpper(rootName)]
	if !ok {
		return nil, syscall.EINVAL
	}
	i := strings.LastIndex(rest, `\`)
	if i < 0 {
		return nil, syscall.EINVAL
	}
	path, valueName := rest[:i], rest[i+1:]

	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	// Size probe, then fetch: the registry follows the same protocol.
	n, valueType, err := key.GetValue(valueName, nil)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	n, valueType, err = key.GetValue(valueName, buf)
	if err != nil {
		return nil, err
	}
	buf = buf[:n]

	switch valueType {
	case registry.SZ, registry.EXPAND_SZ:
		units := make([]uint16, len(buf)/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(buf[i*2:])
		}
		for len(units) > 0 && units[len(units)-1] == 0 {
			units = units[:len(units)-1]
		}
		return append([]byte(string(utf16.Decode(units))), 0), nil
	default:
		return buf, nil
	}
}
