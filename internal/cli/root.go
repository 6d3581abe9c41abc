// Package cli is the hwinv command tree.
//
// Every command loads the layered configuration first (defaults, YAML file,
// HWINV_ environment, flags) and then builds the hardware layer for the
// running OS. Reports and tables go to stdout; logs go to stderr as JSON.
//
//	hwinv report --format json --output inventory.json
//	hwinv show usb --tree
//	hwinv sysctl hw.memsize --type long
//	hwinv publish
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/spf13/cobra"

	"github.com/doughall/hwinv/internal/config"
	"github.com/doughall/hwinv/internal/hardware"
	"github.com/doughall/hwinv/internal/inventory"
	"github.com/doughall/hwinv/internal/logging"
	"github.com/doughall/hwinv/internal/native"
	"github.com/doughall/hwinv/internal/platform"
	"github.com/doughall/hwinv/internal/publish"
	"github.com/doughall/hwinv/internal/version"
)

// Deps are the host-facing pieces the commands are built on.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer

	NewHAL      func(platform.Options, *slog.Logger) (hardware.HardwareAbstractionLayer, error)
	NewAccessor func(platform.Options, *slog.Logger) (*native.Accessor, error)
	NewSink     func(*config.Config, *slog.Logger) (publish.Sink, error)

	// HostInfo and Now are passed to inventory.Collect; nil uses its defaults.
	HostInfo func(context.Context) (*host.InfoStat, error)
	Now      func() time.Time
}

// DefaultDeps wires the commands to the running host.
func DefaultDeps() Deps {
	return Deps{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewHAL:      platform.New,
		NewAccessor: platform.NativeAccessor,
		NewSink:     selectSink,
	}
}

func selectSink(cfg *config.Config, logger *slog.Logger) (publish.Sink, error) {
	n := cfg.Publish.NATS
	h := cfg.Publish.HTTP
	return publish.Select(
		publish.NATSConfig{Servers: n.Servers, NKeySeed: n.NKeySeed, TenantID: n.TenantID, JetStream: n.JetStream},
		publish.HTTPConfig{ServerURL: h.ServerURL, APIKey: h.APIKey},
		logger,
	)
}

type app struct {
	deps       Deps
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCommand builds the hwinv command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps}
	root := &cobra.Command{
		Use:   "hwinv",
		Short: "Cross-platform hardware inventory",
		Long: `hwinv reports the hardware of the machine it runs on: computer system,
processor, memory, sensors, batteries, disks, volume groups, displays,
network interfaces, USB devices, sound and graphics cards.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (YAML), default "+config.DefaultConfigPath+" if present")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("root", "/", "filesystem root holding proc/, sys/ and dev/ (Linux, FreeBSD)")
	pf.Bool("ghw", true, "use ghw for product, memory, disk and GPU details (Linux)")

	root.AddCommand(
		a.reportCommand(),
		a.showCommand(),
		a.sysctlCommand(),
		a.publishCommand(),
		a.versionCommand(),
	)
	return root
}

// Execute runs the command tree with args and returns the exit code.
func Execute(ctx context.Context, args []string) int {
	deps := DefaultDeps()
	root := NewRootCommand(deps)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "hwinv: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(a.deps.Stderr, cfg.LogLevel)
	a.logger.Debug("configuration loaded",
		slog.String("command", cmd.Name()),
		slog.String("root", cfg.Root),
		slog.Bool("ghw", cfg.GHW.Enabled),
	)
	return nil
}

func (a *app) platformOptions() platform.Options {
	return platform.Options{Root: a.cfg.Root, DisableGHW: !a.cfg.GHW.Enabled}
}

// collect builds a report of the given categories, or all of them.
func (a *app) collect(ctx context.Context, categories ...string) (*inventory.Report, error) {
	hal, err := a.deps.NewHAL(a.platformOptions(), a.logger)
	if err != nil {
		return nil, err
	}
	return inventory.Collect(ctx, hal, inventory.Options{
		IncludeLocalInterfaces: a.cfg.Network.IncludeLocal,
		UsbTree:                a.cfg.USB.Tree,
		LoadSample:             a.cfg.CPU.LoadSample,
		ToolVersion:            version.Version,
		Categories:             categories,
		HostInfo:               a.deps.HostInfo,
		Now:                    a.deps.Now,
		Logger:                 a.logger,
	})
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return err
		},
	}
}
