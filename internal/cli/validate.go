package cli

import (
	"errors"
	"fmt"

	"github.com/casualjim/trancepoint/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrInvalid is returned by the validate command when the config has violations.
var ErrInvalid = errors.New("configuration is invalid")

func newValidateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the effective configuration and list every problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			err = cfg.Validate()
			if err == nil {
				color.New(color.FgGreen).Fprintln(out, "✓ configuration is valid")
				return nil
			}

			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			bad := color.New(color.FgRed)
			for _, fe := range verr.Fields() {
				bad.Fprint(out, "✗ ")
				fmt.Fprintf(out, "%s: %s\n", color.New(color.Bold).Sprint(fe.Field), fe.Message)
			}
			return fmt.Errorf("%w: %d problem(s)", ErrInvalid, len(verr.Fields()))
		},
	}
}
