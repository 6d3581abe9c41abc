package platform

import (
	"log/slog"

	"github.com/doughall/hwinv/internal/executor"
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
	"github.com/doughall/hwinv/internal/platform/freebsd"
)

func newHAL(opts Options, backend common.Backend, logger *slog.Logger) (hardware.HardwareAbstractionLayer, error) {
	return freebsd.New(freebsd.Options{Root: opts.Root}, native.NewSysctlSource(),
		executor.New(executor.DefaultTimeout), backend, logger), nil
}

func nativeSource(Options) (native.Source, error) {
	return native.NewSysctlSource(), nil
}

const nativeEncoding = native.Binary
