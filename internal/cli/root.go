// Package cli implements the trancepoint command line tool.
package cli

import (
	"github.com/casualjim/trancepoint/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	ConfigFile string
	EnvFiles   []string
	Debug      bool
}

// load resolves the effective configuration from the flags. The result is
// not validated.
func (f *rootFlags) load() (config.Config, error) {
	cfg, err := config.Resolve(f.ConfigFile, f.EnvFiles...)
	if err != nil {
		return config.Config{}, err
	}
	if f.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// NewRootCommand builds the trancepoint command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:           "trancepoint <command> [options]",
		Short:         "Inspect configuration and send test traces to the agent observability endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.EnvFiles, "env-file", nil, "Dotenv files to read AGENT_OBS_* variables from (default .env)")
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newValidateCommand(flags))
	rootCmd.AddCommand(newConfigCommand(flags))
	rootCmd.AddCommand(newEmitCommand(flags))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
