package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crmnav"
	"github.com/vango-dev/crmnav/internal/config"
	"github.com/vango-dev/crmnav/internal/errors"
)

// Version information set at build time.
var (
	commit = "none"
	date   = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configDir string
	basePath  string
	noColor   bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "crmnav",
		Short: "CRM navigation map server",
		Long: `crmnav serves the CRM's five screens in history mode.

Routes:
  /           Home
  /leads      Leads
  /contacts   Contacts
  /notes      Notes
  /reminders  Reminders

The base path comes from crmnav.json (basePath), BASE_URL in the
environment or a .env file next to the config, or --base.`,
		Version:       crmnav.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configDir, "config", "c", ".", "Directory containing crmnav.json")
	rootCmd.PersistentFlags().StringVar(&flags.basePath, "base", "", "Base path (overrides config and BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		serveCmd(flags),
		routesCmd(flags),
		resolveCmd(flags),
		manifestCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads crmnav.json (defaults when absent), applies the
// environment and the --base flag, and validates the result.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(flags.configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if flags.basePath != "" {
		cfg.BasePath = flags.basePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
