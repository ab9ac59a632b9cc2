package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed, color.Bold)
	localColor  = color.New(color.FgYellow)
)

// NewRootCommand собирает дерево команд клиента
func NewRootCommand(c *Cli, version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "roadsync",
		Version: version,
		Short:   "Offline-aware client for the road registry",
		Long: `roadsync keeps a list of roads in sync with the server.

Roads saved while the server is unreachable are kept locally and uploaded
automatically once the connection is back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.ServerURL, "server", c.opts.ServerURL, "Server URL")
	flags.StringVar(&c.opts.DBPath, "db", c.opts.DBPath, "Path to local database")
	flags.StringVar(&c.opts.PasswordFile, "password-file", c.opts.PasswordFile, "Path to file containing password")
	flags.DurationVar(&c.opts.Timeout, "timeout", c.opts.Timeout, "Timeout of a single server request")
	flags.DurationVar(&c.opts.PollInterval, "poll-interval", c.opts.PollInterval, "Interval between server health checks")
	flags.BoolVarP(&c.opts.Verbose, "verbose", "v", c.opts.Verbose, "Enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "roads", Title: "Roads:"},
	)

	rootCmd.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.listCommand(),
		c.saveCommand(),
		c.syncCommand(),
		c.watchCommand(),
	)

	return rootCmd
}
