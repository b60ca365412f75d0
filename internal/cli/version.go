package cli

import (
	"runtime"

	"github.com/casualjim/trancepoint"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, map[string]string{
				"name":    trancepoint.SDKName,
				"version": trancepoint.Version,
				"go":      runtime.Version(),
			})
		},
	}
}
