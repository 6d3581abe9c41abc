package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doughall/hwinv/internal/inventory"
	"github.com/doughall/hwinv/internal/render"
)

func (a *app) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Collect every category into one report",
		Long: `Collect every hardware category into one report and print it as tables,
or encode it as JSON, YAML or CBOR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.collect(cmd.Context())
			if err != nil {
				return err
			}
			return a.writeReport(cmd.OutOrStdout(), r)
		},
	}
	f := cmd.Flags()
	f.StringP("format", "f", "table", "output format: table, json, yaml, cbor")
	f.StringP("output", "o", "", "write the report to this file instead of stdout")
	f.Duration("load-sample", 0, "measure CPU load over this window (e.g. 1s)")
	f.Bool("local", false, "include loopback and virtual network interfaces")
	f.Bool("tree", false, "nest USB devices under their hubs")
	return cmd
}

// writeReport writes r to stdout or the configured output file.
func (a *app) writeReport(stdout io.Writer, r *inventory.Report) (err error) {
	w := stdout
	if path := a.cfg.Output.File; path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		w = f
		a.logger.Info("writing report", slog.String("path", path), slog.String("format", a.cfg.Output.Format))
	}

	if strings.EqualFold(a.cfg.Output.Format, "table") {
		render.Report(w, r)
		return nil
	}
	format, err := inventory.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	return inventory.Encode(w, r, format)
}
