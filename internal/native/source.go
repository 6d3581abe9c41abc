// Package native wraps named-attribute system queries (sysctl, /proc/sys,
// the Windows registry) behind a size-safe, typed, fail-soft accessor.
//
// Every backend implements Source, which models the OS primitive
//
//	(name, buffer, size) -> status
//
// The Accessor drives that primitive with a two-phase protocol: a size probe
// with a nil buffer, then a fetch into a buffer of exactly the probed size.
// Fixed-width scalars and records skip the probe and use their known width.
//
// The Accessor never returns an error for a missing or unreadable attribute.
// It logs the name and the platform error code and hands back the caller's
// default, so one absent attribute cannot abort a whole inventory query.
package native

import (
	"errors"
	"syscall"
)

// Source is a named-attribute lookup primitive.
//
// A nil buf is a size probe: the source stores the number of bytes the value
// needs in *size and copies nothing. Otherwise *size holds the capacity offered
// to the source; it copies at most that many bytes into buf and stores the
// number written in *size.
//
// Failures carry a platform error code. Sources return syscall.ENOENT for an
// unknown name and syscall.ENOMEM when the value does not fit.
type Source interface {
	Read(name string, buf []byte, size *int) error
}

// ReaderFunc adapts a whole-value reader to the two-phase Source contract.
// The value is re-read on every call, so the probe and the fetch each observe
// the live attribute.
type ReaderFunc func(name string) ([]byte, error)

// Read implements Source.
func (f ReaderFunc) Read(name string, buf []byte, size *int) error {
	value, err := f(name)
	if err != nil {
		return err
	}
	return copyValue(value, buf, size)
}

// copyValue applies the probe/fetch semantics of Source to an in-memory value.
func copyValue(value, buf []byte, size *int) error {
	if size == nil {
		return syscall.EINVAL
	}
	if buf == nil {
		*size = len(value)
		return nil
	}
	capacity := *size
	if capacity > len(buf) {
		capacity = len(buf)
	}
	if len(value) > capacity {
		*size = len(value)
		return syscall.ENOMEM
	}
	*size = copy(buf, value)
	return nil
}

// Errno extracts the platform error code from err, or 0 if it carries none.
func Errno(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
