package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crmnav"
	"github.com/vango-dev/crmnav/pkg/manifest"
)

func manifestCmd(flags *globalFlags) *cobra.Command {
	var (
		publish bool
		bucket  string
		key     string
		region  string
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print or publish the route manifest",
		Long: `Print the route manifest, or upload it to S3 with --publish.

The bucket, key and region default to the manifest section of crmnav.json
and CRMNAV_MANIFEST_BUCKET. AWS credentials come from the standard chain.

Examples:
  crmnav manifest
  crmnav manifest --publish --bucket=crm-static --key=nav/routes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Manifest.Bucket = bucket
			}
			if key != "" {
				cfg.Manifest.Key = key
			}
			if region != "" {
				cfg.Manifest.Region = region
			}
			cfg.Metrics.Enabled = false

			app, err := crmnav.New(cfg, crmnav.WithLogOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			m := app.Manifest().Stamp(time.Now())

			if !publish {
				return writeManifest(cmd.OutOrStdout(), m)
			}

			pub, err := app.Publisher(cmd.Context())
			if err != nil {
				return err
			}
			uri, err := pub.Publish(cmd.Context(), m)
			if err != nil {
				return err
			}
			success(cmd, "Published %d routes to %s", len(m.Routes), uri)
			return nil
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "Upload the manifest to S3")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (overrides config)")
	cmd.Flags().StringVar(&key, "key", "", "S3 object key (overrides config)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (overrides config)")

	return cmd
}

func writeManifest(w io.Writer, m *manifest.Manifest) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
