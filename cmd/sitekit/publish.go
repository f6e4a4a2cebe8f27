package main

import (
	"github.com/spf13/cobra"

	sterrors "github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/publish"
)

func publishCmd(flags *globalFlags) *cobra.Command {
	var (
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render every page and upload it to S3",
		Long: `Render every page and upload the HTML to an S3 bucket.

Credentials and region come from the standard AWS configuration chain.

Examples:
  sitekit publish
  sitekit publish --bucket=my-site --prefix=preview/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			target := p.cfg.Publish
			if bucket != "" {
				target.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				target.Prefix = prefix
			}
			if target.Bucket == "" {
				return sterrors.New("E030").
					WithDetail("No publish bucket is configured.").
					WithSuggestion("Set publish.bucket in sitekit.yaml, SITEKIT_S3_BUCKET or --bucket")
			}

			pages, err := p.pages(cmd.Context())
			if err != nil {
				return err
			}
			client, err := p.s3Client(cmd.Context(), target.Region)
			if err != nil {
				return sterrors.New("E030").Wrap(err)
			}

			store := publish.NewS3Store(client, target.Bucket, target.Prefix)
			report, err := publish.Publish(cmd.Context(), p.renderer(p.cfg.Site.BasePath), pages, store, publish.Options{Logger: p.logger})
			if err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "Published %d pages to s3://%s/%s", len(report.Written), target.Bucket, target.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket to upload to (default from sitekit.yaml)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from sitekit.yaml)")
	return cmd
}
