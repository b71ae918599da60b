package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/boardctl/internal/config"
)

// ConfigInitOptions holds flags for the config init command.
type ConfigInitOptions struct {
	*RootOptions
	Key     string
	Token   string
	Offline bool
	Force   bool
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigInitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Long: `Write a config file with default settings.

Trello credentials come from https://trello.com/app-key. They can also be
supplied later through BOARDCTL_REMOTE_KEY and BOARDCTL_REMOTE_TOKEN.

Example:
  boardctl config init --key abc --token xyz
  boardctl config init --offline --config ./boardctl.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", "", "Trello API key")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Trello API token")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "configure the offline remote (mirror only)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")

	return cmd
}

func runConfigInit(opts *ConfigInitOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !opts.Force {
		_ = out.Error("CONFIG", "config file already exists (use --force to overwrite)", path)
		return NewExitError(ExitCommandError, fmt.Sprintf("config file %s already exists", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return WrapExitError(ExitCommandError, "failed to check config file", err)
	}

	cfg := config.Default()
	cfg.Remote.Key = opts.Key
	cfg.Remote.Token = opts.Token
	if opts.Offline {
		cfg.Remote.Backend = config.RemoteOffline
	}
	if err := config.Save(path, cfg); err != nil {
		_ = out.Error("CONFIG", "failed to write config", err.Error())
		return WrapExitError(ExitCommandError, "failed to write config", err)
	}

	// Missing credentials are allowed here; they may come from the environment.
	for _, verr := range cfg.Validate() {
		out.VerboseLog("warning: %s", verr.Error())
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"path": path})
	}
	fmt.Fprintf(out.Writer, "Wrote %s\n", path)
	return nil
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}

			cfg, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				_ = out.Error("CONFIG", "failed to load config", err.Error())
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if cfg.Remote.Token != "" {
				cfg.Remote.Token = "********"
			}

			if rootOpts.Format == "json" {
				return out.Success(cfg)
			}
			fmt.Fprintf(out.Writer, "remote: %s %s\n", cfg.Remote.Backend, cfg.Remote.BaseURL)
			fmt.Fprintf(out.Writer, "mirror: %s\n", mirrorLocation(cfg.Mirror))
			for _, verr := range cfg.Validate() {
				fmt.Fprintf(out.Writer, "problem: %s\n", verr.Error())
			}
			return nil
		},
	}
}

func mirrorLocation(m config.MirrorConfig) string {
	switch m.Backend {
	case config.MirrorRedis:
		return fmt.Sprintf("redis %s (prefix %s)", m.RedisAddr, m.RedisPrefix)
	case config.MirrorMongo:
		return fmt.Sprintf("mongo %s/%s", m.MongoURI, m.MongoDatabase)
	default:
		return fmt.Sprintf("%s %s", m.Backend, m.Path)
	}
}
