package cli

import (
	"fmt"
	"strings"

	"github.com/casualjim/trancepoint/config"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func newConfigCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration or its schema",
	}
	var markdown bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the api key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			om := orderedConfig(cfg.Redacted())
			if markdown {
				return printMarkdown(cmd, configTable(om))
			}
			return printJSON(cmd, om)
		},
	}
	show.Flags().BoolVar(&markdown, "markdown", false, "Render the configuration as a table instead of JSON")
	cmd.AddCommand(show)
	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, config.Schema())
		},
	})
	return cmd
}

// orderedConfig keeps the keys in the order they appear in config files.
func orderedConfig(cfg config.Config) *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()
	om.Set("api_key", cfg.APIKey)
	om.Set("api_endpoint", cfg.APIEndpoint)
	om.Set("batch_size", cfg.BatchSize)
	om.Set("flush_interval_seconds", cfg.FlushIntervalSeconds)
	om.Set("enabled", cfg.Enabled)
	om.Set("debug", cfg.Debug)
	om.Set("timeout_seconds", cfg.TimeoutSeconds)
	om.Set("max_retries", cfg.MaxRetries)
	om.Set("max_queue_size", cfg.MaxQueueSize)
	om.Set("max_requests_per_second", cfg.MaxRequestsPerSecond)
	om.Set("max_text_length", cfg.MaxTextLength)
	om.Set("exporter", cfg.Exporter)
	if cfg.Exporter == config.ExporterNATS {
		om.Set("nats_url", cfg.NATSURL)
		om.Set("nats_subject", cfg.NATSSubject)
	}
	return om
}

func configTable(om *orderedmap.OrderedMap[string, any]) string {
	var b strings.Builder
	b.WriteString("# trancepoint configuration\n\n| key | value |\n| --- | --- |\n")
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&b, "| `%s` | `%v` |\n", pair.Key, pair.Value)
	}
	return b.String()
}

func printMarkdown(cmd *cobra.Command, md string) error {
	style := "dark"
	if color.NoColor {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
