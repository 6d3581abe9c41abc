//go:build !linux && !darwin && !freebsd && !windows

package platform

import (
	"log/slog"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
)

func newHAL(Options, common.Backend, *slog.Logger) (hardware.HardwareAbstractionLayer, error) {
	return nil, ErrUnsupportedPlatform
}

func nativeSource(Options) (native.Source, error) {
	return nil, ErrUnsupportedPlatform
}

const nativeEncoding = native.Binary
