package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crmnav/pkg/navigation"
	"github.com/vango-dev/crmnav/pkg/router"
	"github.com/vango-dev/crmnav/pkg/routes"
)

func resolveCmd(flags *globalFlags) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Resolve a path or route name",
		Long: `Resolve a route-relative path or a route name to its route, view and href.

Examples:
  crmnav resolve /contacts
  crmnav resolve /notes?sort=desc
  crmnav resolve --name Reminders --base=/crm/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target navigation.Target
			switch {
			case name != "" && len(args) > 0:
				return fmt.Errorf("pass either a path or --name, not both")
			case name != "":
				target = navigation.Named(name)
			case len(args) == 1:
				target = navigation.To(args[0])
			default:
				return fmt.Errorf("a path or --name is required")
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			nav, err := routes.Build(routes.Options{BasePath: cfg.BasePath})
			if err != nil {
				return err
			}

			loc, err := nav.Resolve(target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Route: %s\n", loc.Name())
			fmt.Fprintf(out, "Path:  %s\n", loc.FullPath)
			fmt.Fprintf(out, "Href:  %s\n", loc.Href)
			fmt.Fprintf(out, "View:  %s\n", router.ViewName(loc.Record.View))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Resolve by route name")

	return cmd
}
