package platform

import (
	"log/slog"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
	"github.com/doughall/hwinv/internal/platform/windows"
)

func newHAL(_ Options, backend common.Backend, logger *slog.Logger) (hardware.HardwareAbstractionLayer, error) {
	return windows.New(native.NewRegistrySource(), windows.WMIQuerier{}, backend, logger), nil
}

func nativeSource(Options) (native.Source, error) {
	return native.NewRegistrySource(), nil
}

const nativeEncoding = native.Binary
