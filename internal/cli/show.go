package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doughall/hwinv/internal/inventory"
	"github.com/doughall/hwinv/internal/render"
)

func (a *app) showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "show <category>",
		Short:     "Print one hardware category as a table",
		Long:      "Print one hardware category as a table. Categories: " + strings.Join(inventory.Categories, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: inventory.Categories,
		RunE: func(cmd *cobra.Command, args []string) error {
			category := strings.ToLower(args[0])
			if !slices.Contains(inventory.Categories, category) {
				return fmt.Errorf("%w: %q (one of %s)", render.ErrUnknownCategory, args[0], strings.Join(inventory.Categories, ", "))
			}
			r, err := a.collect(cmd.Context(), category)
			if err != nil {
				return err
			}
			return render.Section(cmd.OutOrStdout(), r, category)
		},
	}
	f := cmd.Flags()
	f.Bool("local", false, "network: include loopback and virtual interfaces")
	f.Bool("tree", false, "usb: nest devices under their hubs")
	f.Duration("load-sample", 0, "cpu: measure load over this window (e.g. 1s)")
	return cmd
}
