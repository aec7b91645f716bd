package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formgen-playground/internal/config"
	"github.com/goliatone/go-formgen-playground/internal/logging"
	"github.com/goliatone/go-formgen-playground/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr            string
	ReservedField   string
	TemplatesDir    string
	SessionCookie   string
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the playground HTTP server",
		Long: `Start the playground HTTP server.

Settings come from defaults, the --config file, FORMGEN_PLAYGROUND_*
environment variables and flags, in that order.

Example:
  formgen-playground serve --addr :8383
  formgen-playground serve --config playground.yaml --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", defaults.Addr, "HTTP listen address")
	cmd.Flags().StringVar(&opts.ReservedField, "reserved-field", defaults.ReservedField, "posted field naming the originating form")
	cmd.Flags().StringVar(&opts.TemplatesDir, "templates", defaults.TemplatesDir, "directory whose templates override the embedded ones, reloaded on every request")
	cmd.Flags().StringVar(&opts.SessionCookie, "session-cookie", defaults.Session.Cookie, "session cookie name")
	cmd.Flags().DurationVar(&opts.SessionTTL, "session-ttl", defaults.Session.TTL, "idle time before a session is dropped")
	cmd.Flags().DurationVar(&opts.ShutdownTimeout, "grace", defaults.ShutdownTimeout, "shutdown grace period")

	return cmd
}

func (o *ServeOptions) apply(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr = o.Addr
		}
		if flags.Changed("reserved-field") {
			cfg.ReservedField = o.ReservedField
		}
		if flags.Changed("templates") {
			cfg.TemplatesDir = o.TemplatesDir
		}
		if flags.Changed("session-cookie") {
			cfg.Session.Cookie = o.SessionCookie
		}
		if flags.Changed("session-ttl") {
			cfg.Session.TTL = o.SessionTTL
		}
		if flags.Changed("grace") {
			cfg.ShutdownTimeout = o.ShutdownTimeout
		}
	}
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := opts.resolve(cmd, opts.apply(cmd))
	if err != nil {
		return err
	}

	logOpts := cfg.LoggingOptions()
	logOpts.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logOpts)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
