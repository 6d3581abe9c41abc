package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ErrAttributeUnavailable is returned when the host store has no readable
// value under the requested name.
var ErrAttributeUnavailable = errors.New("attribute unavailable")

var errUnknownType = errors.New("type must be one of int, long, string, raw")

func (a *app) sysctlCommand() *cobra.Command {
	var valueType string
	cmd := &cobra.Command{
		Use:   "sysctl <name>",
		Short: "Read one named attribute from the host store",
		Long: `Read one named attribute through the native accessor: sysctl on macOS
and FreeBSD, /proc/sys on Linux (vm.swappiness) and the registry on Windows
(HKLM\HARDWARE\DESCRIPTION\System\CentralProcessor\0\~MHz).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			acc, err := a.deps.NewAccessor(a.platformOptions(), a.logger)
			if err != nil {
				return err
			}
			raw, ok := acc.Raw(name)
			if !ok {
				return fmt.Errorf("%w: %s", ErrAttributeUnavailable, name)
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(valueType) {
			case "int":
				_, err = fmt.Fprintln(out, acc.Int(name, 0))
			case "long":
				_, err = fmt.Fprintln(out, acc.Int64(name, 0))
			case "string":
				_, err = fmt.Fprintln(out, acc.String(name, ""))
			case "raw":
				_, err = fmt.Fprintln(out, hex.EncodeToString(raw))
			default:
				return fmt.Errorf("%w: %q", errUnknownType, valueType)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&valueType, "type", "t", "string", "value type: int, long, string, raw")
	return cmd
}
