package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/restkit/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	envFile    string
	catalog    string
	baseURL    string
	logLevel   string
	verbose    bool
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.configFile, "config", "c", "", "Path to the restkit config file (default: ./restkit.yml, ./config/config.yml)")
	fs.StringVar(&g.envFile, "env-file", "", "Path to a .env file (default: ./.env.restkit, ./.env)")
	fs.StringVarP(&g.catalog, "catalog", "f", "", "Path to the endpoint catalogue (overrides config 'catalog')")
	fs.StringVar(&g.baseURL, "base-url", "", "Override the client base URL")
	fs.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "restkit",
		Short: "Call REST endpoints declared in a YAML catalogue",
		Long: `restkit loads endpoint declarations from a YAML catalogue and calls them.

Client settings come from the catalogue's client section, overridden by the
config file and RESTKIT_* environment variables (e.g. RESTKIT_CLIENT_BASE_URL).`,
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(cmd.PersistentFlags())

	cmd.AddCommand(newListCmd(&flags))
	cmd.AddCommand(newCallCmd(&flags))
	cmd.AddCommand(newVersionCmd())
	return cmd
}
