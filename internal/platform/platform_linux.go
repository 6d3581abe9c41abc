package platform

import (
	"log/slog"
	"path/filepath"

	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform/common"
	"github.com/doughall/hwinv/internal/platform/linux"
)

func newHAL(opts Options, backend common.Backend, logger *slog.Logger) (hardware.HardwareAbstractionLayer, error) {
	return linux.New(linux.Options{Root: opts.Root, DisableGHW: opts.DisableGHW}, backend, logger), nil
}

func nativeSource(opts Options) (native.Source, error) {
	root := opts.Root
	if root == "" {
		root = "/"
	}
	return native.NewProcSysSource(filepath.Join(root, "proc", "sys")), nil
}

const nativeEncoding = native.Text
