// Package cli holds the cobra commands of the playground binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formgen-playground/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

// NewRootCommand creates the root command of the playground binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "formgen-playground",
		Short: "Form state playground",
		Long: `Serve example forms behind a harness that echoes every submission and
replays the last one per form back into the page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", config.DefaultLogFormat, "log format (text|json|logfmt)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// resolve loads the config file and environment, then applies every flag
// the user set explicitly.
func (o *RootOptions) resolve(cmd *cobra.Command, overrides ...func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.LogFormat
	}
	for _, apply := range overrides {
		apply(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
