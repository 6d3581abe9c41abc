package common

import (
	"context"
	"log/slog"
	"os"

	"github.com/doughall/hwinv/internal/hardware"
)

// MemoryOptions carries the platform-specific parts of GlobalMemory.
type MemoryOptions struct {
	// Total overrides gopsutil's physical memory size when non-zero.
	Total uint64
	// PageSize overrides the Go runtime's page size when non-zero.
	PageSize int64
	// Banks lists installed modules. Computed once by the platform.
	Banks []hardware.PhysicalMemory
	// Swappiness reads the kernel swap tendency; nil reports -1.
	Swappiness func() int
	// Swap overrides gopsutil's swap totals when it reports ok.
	Swap func() (total, used uint64, ok bool)
}

// Memory is a GlobalMemory backed by gopsutil. Total, page size and banks
// are captured at construction.
type Memory struct {
	backend    Backend
	logger     *slog.Logger
	total      uint64
	pageSize   int64
	banks      []hardware.PhysicalMemory
	swappiness func() int
	swap       func() (uint64, uint64, bool)
}

// NewMemory reads the static memory facts and returns the live view.
func NewMemory(backend Backend, logger *slog.Logger, opts MemoryOptions) *Memory {
	m := &Memory{
		backend:    backend,
		logger:     logger,
		pageSize:   opts.PageSize,
		banks:      hardware.NonNil(opts.Banks),
		swappiness: opts.Swappiness,
		swap:       opts.Swap,
	}
	if m.pageSize == 0 {
		m.pageSize = int64(os.Getpagesize())
	}
	m.total = opts.Total
	if m.total > 0 {
		return m
	}
	if vm, err := backend.VirtualMemory(context.Background()); err != nil {
		logger.Warn("failed to read total memory", slog.String("error", err.Error()))
	} else {
		m.total = vm.Total
	}
	return m
}

func (m *Memory) Total() uint64 { return m.total }

func (m *Memory) PageSize() int64 { return m.pageSize }

func (m *Memory) PhysicalMemory() []hardware.PhysicalMemory { return m.banks }

// Available reads the current available memory.
func (m *Memory) Available() uint64 {
	vm, err := m.backend.VirtualMemory(context.Background())
	if err != nil {
		m.logger.Warn("failed to read available memory", slog.String("error", err.Error()))
		return 0
	}
	return vm.Available
}

// VirtualMemory reads current swap and commit figures. Where the OS reports
// no commit limit, physical plus swap is used.
func (m *Memory) VirtualMemory() hardware.VirtualMemory {
	ctx := context.Background()
	v := hardware.VirtualMemory{Swappiness: -1}
	if m.swappiness != nil {
		v.Swappiness = m.swappiness()
	}

	swap, err := m.backend.SwapMemory(ctx)
	if err != nil {
		m.logger.Warn("failed to read swap", slog.String("error", err.Error()))
	} else {
		v.SwapTotal = swap.Total
		v.SwapUsed = swap.Used
		v.SwapPagesIn = swap.Sin
		v.SwapPagesOut = swap.Sout
	}
	if m.swap != nil {
		if total, used, ok := m.swap(); ok {
			v.SwapTotal, v.SwapUsed = total, used
		}
	}

	vm, err := m.backend.VirtualMemory(ctx)
	if err != nil {
		m.logger.Warn("failed to read virtual memory", slog.String("error", err.Error()))
		return v
	}
	v.VirtualMax = vm.CommitLimit
	v.VirtualInUse = vm.CommittedAS
	if v.VirtualMax == 0 {
		v.VirtualMax = vm.Total + v.SwapTotal
	}
	if v.VirtualInUse == 0 {
		v.VirtualInUse = vm.Used + v.SwapUsed
	}
	return v
}
