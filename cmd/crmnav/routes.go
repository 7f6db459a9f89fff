package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crmnav/pkg/manifest"
	"github.com/vango-dev/crmnav/pkg/routes"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List every route with the href it is served at under the base path.

Examples:
  crmnav routes
  crmnav routes --base=/crm/
  crmnav routes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			m := manifest.FromRecords(cfg.BasePath, routes.Table())
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := m.JSON()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tHREF\tVIEW")
			for _, r := range m.Routes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Path, r.Href, r.View)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the route manifest as JSON")

	return cmd
}
