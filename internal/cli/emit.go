package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/casualjim/trancepoint"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type emitFlags struct {
	Agent   string
	Input   string
	Output  string
	Fail    string
	TraceID string
	Timeout time.Duration
}

func newEmitCommand(root *rootFlags) *cobra.Command {
	flags := &emitFlags{}
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Send one test trace through the configured exporter",
		Long:  "Records a START event followed by an END event, or an ERROR event when --fail is set, and waits until the batch is exported.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, root, flags)
		},
	}
	cmd.Flags().StringVar(&flags.Agent, "agent", "trancepoint_cli", "Agent name of the trace")
	cmd.Flags().StringVar(&flags.Input, "input", "ping", "Input text of the START event")
	cmd.Flags().StringVar(&flags.Output, "output", "pong", "Output text of the END event")
	cmd.Flags().StringVar(&flags.Fail, "fail", "", "Record an ERROR event with this message instead of END")
	cmd.Flags().StringVar(&flags.TraceID, "trace-id", "", "Join an existing trace instead of starting a new one")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 30*time.Second, "How long to wait for the export")
	return cmd
}

func runEmit(cmd *cobra.Command, root *rootFlags, flags *emitFlags) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	logger := trancepoint.NewLogger(cmd.ErrOrStderr(), cfg.Debug)
	obs, err := trancepoint.New(cfg, trancepoint.WithLogger(logger), trancepoint.WithDebugOutput(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flags.Timeout)
	defer cancel()
	if flags.TraceID != "" {
		ctx = trancepoint.ContextWithTraceID(ctx, flags.TraceID)
	}

	span, _ := obs.Start(ctx, flags.Agent, flags.Input)
	if flags.Fail != "" {
		err = span.Fail(errors.New(flags.Fail))
	} else {
		err = span.End(flags.Output)
	}
	if err != nil {
		_ = obs.Close(ctx)
		return err
	}
	if err := obs.Close(ctx); err != nil {
		return fmt.Errorf("failed to export trace: %w", err)
	}

	if !cfg.Enabled {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "observability is disabled, nothing was sent")
		return nil
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ sent trace %s to %s\n", span.TraceID(), cfg.Exporter)
	return nil
}
