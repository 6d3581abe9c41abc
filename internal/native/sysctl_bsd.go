//go:build darwin || freebsd

package native

import (
	"golang.org/x/sys/unix"
)

// NewSysctlSource returns a Source backed by sysctlbyname(3).
func NewSysctlSource() Source {
	return ReaderFunc(func(name string) ([]byte, error) {
		return unix.SysctlRaw(name)
	})
}
