// Package platform picks the hardware inventory implementation for the
// operating system the binary runs on.
//
// Each supported GOOS has its own file wiring the platform package to its
// real backends: procfs/sysfs on Linux, sysctl and system_profiler on macOS,
// sysctl, kenv and the base system tools on FreeBSD, and WMI plus the
// registry on Windows. Every other GOOS gets ErrUnsupportedPlatform.
package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

// ErrUnsupportedPlatform is returned for operating systems without a
// hardware layer.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Options configures the platform layer.
type Options struct {
	// Root is the filesystem root the Linux and FreeBSD layers read from.
	// Empty means "/".
	Root string
	// DisableGHW turns off the ghw overlays on Linux.
	DisableGHW bool
}

// New returns the hardware layer for runtime.GOOS.
func New(opts Options, logger *slog.Logger) (hardware.HardwareAbstractionLayer, error) {
	hal, err := newHAL(opts, common.HostBackend(), logger)
	if err != nil {
		return nil, fmt.Errorf("hardware layer for %s: %w", runtime.GOOS, err)
	}
	logger.Debug("hardware layer ready", slog.String("os", runtime.GOOS), slog.String("root", opts.Root))
	return hal, nil
}

// NativeSource returns the host's named-attribute store: sysctl on macOS
// and FreeBSD, /proc/sys on Linux and the registry on Windows.
func NativeSource(opts Options) (native.Source, error) {
	src, err := nativeSource(opts)
	if err != nil {
		return nil, fmt.Errorf("native source for %s: %w", runtime.GOOS, err)
	}
	return src, nil
}

// NativeAccessor wraps NativeSource in an Accessor that decodes scalars the
// way the host store encodes them.
func NativeAccessor(opts Options, logger *slog.Logger) (*native.Accessor, error) {
	src, err := NativeSource(opts)
	if err != nil {
		return nil, err
	}
	return native.NewAccessor(src, logger, native.WithEncoding(nativeEncoding)), nil
}
