package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/doughall/hwinv/internal/logging"
)

func (a *app) publishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Collect one report and send it to the configured sink",
		Long: `Collect one report and send it to the configured sink: NATS when
publish.nats is set, otherwise HTTP when publish.http.server_url is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.WithComponent(a.logger, "cli")
			sink, err := a.deps.NewSink(a.cfg, a.logger)
			if err != nil {
				return err
			}
			r, err := a.collect(cmd.Context())
			if err != nil {
				return err
			}
			if err := sink.Publish(cmd.Context(), r); err != nil {
				return fmt.Errorf("failed to publish via %s: %w", sink.Name(), err)
			}
			logger.Info("report published",
				slog.String("sink", sink.Name()),
				slog.String("fingerprint", r.Fingerprint),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %s via %s\n", r.Fingerprint, sink.Name())
			return err
		},
	}
	cmd.Flags().Duration("load-sample", 0, "measure CPU load over this window (e.g. 1s)")
	cmd.Flags().Bool("local", false, "include loopback and virtual network interfaces")
	return cmd
}
